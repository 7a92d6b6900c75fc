package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Page is one server page of entities plus pagination metadata.
//
// The remote API is not consistent: list endpoints answer with a page object,
// some search endpoints answer with a bare array. Both decode into Page; a bare
// array is marked Unpaged so callers can paginate it themselves.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Unpaged       bool  `json:"-"`
}

// UnmarshalJSON accepts either a page object or a bare array.
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = Page[T]{Content: []T{}}
		return nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		if items == nil {
			items = []T{}
		}
		*p = Page[T]{Content: items, TotalPages: 1, TotalElements: int64(len(items)), Unpaged: true}
		return nil
	}

	var wire struct {
		Content       []T    `json:"content"`
		TotalPages    *int   `json:"totalPages"`
		TotalElements *int64 `json:"totalElements"`
	}
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return err
	}
	if wire.Content == nil {
		wire.Content = []T{}
	}
	*p = Page[T]{Content: wire.Content, TotalPages: 1, TotalElements: int64(len(wire.Content))}
	if wire.TotalPages != nil {
		p.TotalPages = *wire.TotalPages
	}
	if wire.TotalElements != nil {
		p.TotalElements = *wire.TotalElements
	}
	return nil
}

// Paginate slices an unpaged result set into the requested page. Pages that
// were paginated by the server are returned unchanged.
func (p *Page[T]) Paginate(page, size int) *Page[T] {
	if !p.Unpaged || size <= 0 {
		return p
	}
	total := len(p.Content)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	start := page * size
	if start > total || page < 0 {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	content := make([]T, end-start)
	copy(content, p.Content[start:end])
	return &Page[T]{Content: content, TotalPages: pages, TotalElements: int64(total)}
}

// CountOf normalizes the many shapes a count can arrive in. An explicit
// totalElements field wins, then the length of a content array, then the
// length of a bare array, then a bare number. Anything else counts as zero.
func CountOf(raw []byte) int {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}

	switch trimmed[0] {
	case '{':
		var obj struct {
			TotalElements *int64            `json:"totalElements"`
			Content       []json.RawMessage `json:"content"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return 0
		}
		if obj.TotalElements != nil {
			return int(*obj.TotalElements)
		}
		return len(obj.Content)
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return 0
		}
		return len(arr)
	}

	if n, err := strconv.ParseInt(string(trimmed), 10, 64); err == nil && n > 0 {
		return int(n)
	}
	return 0
}
