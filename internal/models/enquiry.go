package models

import (
	"time"
)

// Enquiry is a buyer's message about exactly one property.
// Enquiries are read-only once created; they can only be deleted.
type Enquiry struct {
	EnquiryID  int64     `json:"enquiryId,omitempty"`
	BuyerName  string    `json:"buyerName"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
	PropertyID int64     `json:"propertyId,omitempty"` // Set on create
	Property   *Property `json:"property,omitempty"`   // Populated on read
}

// ListingID resolves the referenced property, whichever shape the server used.
func (e *Enquiry) ListingID() int64 {
	if e.Property != nil && e.Property.PropertyID != 0 {
		return e.Property.PropertyID
	}
	return e.PropertyID
}

// PropertyTitle returns the referenced property's title when it was embedded.
func (e *Enquiry) PropertyTitle() string {
	if e.Property == nil {
		return ""
	}
	return e.Property.Title
}
