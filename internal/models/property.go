package models

import (
	"errors"
	"time"
)

// ListingType selects which pricing fields a property carries.
type ListingType string

const (
	ListingTypeSale ListingType = "sale"
	ListingTypeRent ListingType = "rent"
)

// PropertyStatus is the moderation lifecycle of a property.
type PropertyStatus string

const (
	PropertyPending  PropertyStatus = "pending"
	PropertyApproved PropertyStatus = "approved"
	PropertyRejected PropertyStatus = "rejected"
	PropertySold     PropertyStatus = "sold"
)

// Address is embedded in properties.
type Address struct {
	HouseNo  string `json:"houseNo"`
	Street   string `json:"street"`
	Area     string `json:"area"`
	District string `json:"district,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

// Property is a sale or rent listing submitted by a seller.
type Property struct {
	PropertyID   int64          `json:"propertyId,omitempty"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	PropertyType string         `json:"propertyType,omitempty"`
	ListingType  ListingType    `json:"listingType"`
	Price        *float64       `json:"price"`       // Sale listings only
	MonthlyRent  *float64       `json:"monthlyRent"` // Rent listings only
	Deposit      *float64       `json:"deposit"`     // Rent listings only
	Bedrooms     int            `json:"bedrooms"`
	Bathrooms    int            `json:"bathrooms"`
	AreaSqft     float64        `json:"areaSqft"`
	Status       PropertyStatus `json:"status,omitempty"`
	Address      *Address       `json:"address,omitempty"`
	Seller       *Seller        `json:"seller,omitempty"`
	Images       []Image        `json:"images,omitempty"`
	CreatedAt    *time.Time     `json:"createdAt,omitempty"`
}

var (
	ErrSalePricing = errors.New("sale listing must carry a price and no rent or deposit")
	ErrRentPricing = errors.New("rent listing must carry rent and deposit and no price")
)

// IsRent reports whether the listing is priced as a monthly rent.
func (p *Property) IsRent() bool {
	return p.ListingType == ListingTypeRent
}

// EffectivePrice is the number shown and sorted on: monthly rent for rent
// listings, sale price otherwise. Missing values resolve to zero.
func (p *Property) EffectivePrice() float64 {
	if p.IsRent() {
		return deref(p.MonthlyRent)
	}
	return deref(p.Price)
}

// CheckPricing verifies that exactly one of {price} or {rent + deposit} is set.
func (p *Property) CheckPricing() error {
	if p.IsRent() {
		if p.Price != nil || p.MonthlyRent == nil || p.Deposit == nil {
			return ErrRentPricing
		}
		return nil
	}
	if p.Price == nil || p.MonthlyRent != nil || p.Deposit != nil {
		return ErrSalePricing
	}
	return nil
}

// City returns the address city, or "" when no address is attached.
func (p *Property) City() string {
	if p.Address == nil {
		return ""
	}
	return p.Address.City
}

// SellerName returns the embedded seller's name, or "".
func (p *Property) SellerName() string {
	if p.Seller == nil {
		return ""
	}
	return p.Seller.SellerName
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Float returns a pointer to v. Handy for building pricing fields.
func Float(v float64) *float64 {
	return &v
}
