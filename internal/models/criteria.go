package models

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// FilterCriteria narrows a collection. Zero values mean "not set", matching the
// filter forms where an empty input is no filter at all. The struct is
// comparable so two criteria can be tested for equality with ==.
type FilterCriteria struct {
	City      string
	MinPrice  float64
	MaxPrice  float64
	Bedrooms  int
	Bathrooms int
	Status    string
	Keyword   string // Client-side refinement on title, description, city and area
}

// IsEmpty reports whether no field is set, i.e. the unfiltered view applies.
func (c FilterCriteria) IsEmpty() bool {
	return c.Normalize() == FilterCriteria{}
}

// Normalize trims text fields and drops negative or non-finite numbers so
// that visually identical filters compare equal.
func (c FilterCriteria) Normalize() FilterCriteria {
	c.City = strings.TrimSpace(c.City)
	c.Status = strings.TrimSpace(c.Status)
	c.Keyword = strings.TrimSpace(c.Keyword)
	c.MinPrice = priceBound(c.MinPrice)
	c.MaxPrice = priceBound(c.MaxPrice)
	if c.Bedrooms < 0 {
		c.Bedrooms = 0
	}
	if c.Bathrooms < 0 {
		c.Bathrooms = 0
	}
	return c
}

// priceBound keeps a usable price bound. NaN never equals itself, so letting
// it through would make every query look new.
func priceBound(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// Values encodes the server-side part of the criteria as search query params.
// Keyword is never sent; the server has no text search.
func (c FilterCriteria) Values() url.Values {
	c = c.Normalize()
	v := url.Values{}
	if c.City != "" {
		v.Set("city", c.City)
	}
	if c.Status != "" {
		v.Set("status", c.Status)
	}
	if c.MinPrice > 0 {
		v.Set("minPrice", strconv.FormatFloat(c.MinPrice, 'f', -1, 64))
	}
	if c.MaxPrice > 0 {
		v.Set("maxPrice", strconv.FormatFloat(c.MaxPrice, 'f', -1, 64))
	}
	if c.Bedrooms > 0 {
		v.Set("bedrooms", strconv.Itoa(c.Bedrooms))
	}
	if c.Bathrooms > 0 {
		v.Set("bathrooms", strconv.Itoa(c.Bathrooms))
	}
	return v
}

// ParseFilterCriteria reads criteria from query parameters. Unparseable or
// non-finite numbers are treated as unset, the same as an empty input box.
func ParseFilterCriteria(q url.Values) FilterCriteria {
	atof := func(s string) float64 {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		return priceBound(f)
	}
	atoi := func(s string) int {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0
		}
		return n
	}
	return FilterCriteria{
		City:      q.Get("city"),
		MinPrice:  atof(q.Get("minPrice")),
		MaxPrice:  atof(q.Get("maxPrice")),
		Bedrooms:  atoi(q.Get("bedrooms")),
		Bathrooms: atoi(q.Get("bathrooms")),
		Status:    q.Get("status"),
		Keyword:   q.Get("q"),
	}.Normalize()
}

// Direction of a sort.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortSpec is a page-scoped sort on one key. It is never persisted.
type SortSpec struct {
	Key       string
	Direction Direction
}

// Toggle implements header-click semantics: the same key flips direction,
// a new key starts ascending.
func (s SortSpec) Toggle(key string) SortSpec {
	if s.Key == key && s.Direction == Asc {
		return SortSpec{Key: key, Direction: Desc}
	}
	return SortSpec{Key: key, Direction: Asc}
}
