package collection

import (
	"strconv"
	"strings"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
)

// PropertyKeys are the sortable columns of property tables. Price resolves to
// the monthly rent for rent listings.
var PropertyKeys = Keys[models.Property]{
	"id":        NumberKey(func(p models.Property) float64 { return float64(p.PropertyID) }),
	"title":     TextKey(func(p models.Property) string { return p.Title }),
	"seller":    TextKey(func(p models.Property) string { return p.SellerName() }),
	"city":      TextKey(func(p models.Property) string { return p.City() }),
	"price":     NumberKey(func(p models.Property) float64 { return p.EffectivePrice() }),
	"bedrooms":  NumberKey(func(p models.Property) float64 { return float64(p.Bedrooms) }),
	"bathrooms": NumberKey(func(p models.Property) float64 { return float64(p.Bathrooms) }),
	"area":      NumberKey(func(p models.Property) float64 { return p.AreaSqft }),
	"status":    TextKey(func(p models.Property) string { return string(p.Status) }),
	"type":      TextKey(func(p models.Property) string { return string(p.ListingType) }),
}

var ProjectKeys = Keys[models.Project]{
	"id":       NumberKey(func(p models.Project) float64 { return float64(p.ID) }),
	"title":    TextKey(func(p models.Project) string { return p.Title }),
	"location": TextKey(func(p models.Project) string { return p.Location }),
	"status":   TextKey(func(p models.Project) string { return string(p.Status) }),
	"type":     TextKey(func(p models.Project) string { return p.Type }),
	"price":    NumberKey(func(p models.Project) float64 { return float64(p.Price()) }),
}

var EnquiryKeys = Keys[models.Enquiry]{
	"id":       NumberKey(func(e models.Enquiry) float64 { return float64(e.EnquiryID) }),
	"buyer":    TextKey(func(e models.Enquiry) string { return e.BuyerName }),
	"email":    TextKey(func(e models.Enquiry) string { return e.Email }),
	"property": TextKey(func(e models.Enquiry) string { return e.PropertyTitle() }),
	"date":     NumberKey(func(e models.Enquiry) float64 { return float64(e.CreatedAt.Unix()) }),
}

// PublicProperties keeps what visitors may see on the buy or rent pages:
// approved listings of the given type. An empty type keeps both.
func PublicProperties(listingType models.ListingType) func(models.Property) bool {
	return func(p models.Property) bool {
		if p.Status != models.PropertyApproved {
			return false
		}
		return listingType == "" || p.ListingType == listingType
	}
}

// PropertyText is the text a keyword search looks at.
func PropertyText(p models.Property) []string {
	fields := []string{p.Title, p.Description}
	if p.Address != nil {
		fields = append(fields, p.Address.City, p.Address.Area)
	}
	return fields
}

func ProjectText(p models.Project) []string {
	return []string{p.Title, p.Description, p.Location}
}

func EnquiryText(e models.Enquiry) []string {
	return []string{e.BuyerName, e.Email, e.Phone, e.Message, e.PropertyTitle()}
}

// MatchKeyword reports whether any field contains keyword, ignoring case.
func MatchKeyword(keyword string, fields []string) bool {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), keyword) {
			return true
		}
	}
	return false
}

// FilterEnquiriesByProperty narrows an enquiry list to one property. The
// filter is typed free-form by the admin, so it matches the property ID
// exactly or the property title as a substring.
func FilterEnquiriesByProperty(items []models.Enquiry, filter string) []models.Enquiry {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return items
	}
	id, idErr := strconv.ParseInt(filter, 10, 64)
	out := make([]models.Enquiry, 0, len(items))
	for _, e := range items {
		if idErr == nil && e.ListingID() == id {
			out = append(out, e)
			continue
		}
		if MatchKeyword(filter, []string{e.PropertyTitle()}) {
			out = append(out, e)
		}
	}
	return out
}
