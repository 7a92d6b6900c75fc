package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
)

const (
	PropertiesFile = "properties.csv"
	ProjectsFile   = "projects.csv"
)

// EnquiriesFile names an enquiry export; propertyID 0 means all enquiries.
func EnquiriesFile(propertyID int64) string {
	if propertyID == 0 {
		return "enquiries.csv"
	}
	return fmt.Sprintf("enquiries_property_%d.csv", propertyID)
}

// EnquiriesFilteredFile names an export of enquiries narrowed by the admin's
// free-form property filter. Characters unsafe in a filename become '_'.
func EnquiriesFilteredFile(filter string) string {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return EnquiriesFile(0)
	}
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, filter)
	return "enquiries_property_" + safe + ".csv"
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func float(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

// PropertyColumns are the admin property export. counts holds enquiries per
// property; missing entries are written as 0.
func PropertyColumns(counts map[int64]int) []Column[models.Property] {
	return []Column[models.Property]{
		PlainColumn("Property ID", func(p models.Property) string { return id(p.PropertyID) }),
		TextColumn("Title", func(p models.Property) string { return p.Title }),
		PlainColumn("Listing Type", func(p models.Property) string { return string(p.ListingType) }),
		NumberColumn("Price/MonthlyRent", func(p models.Property) (float64, bool) {
			if p.IsRent() {
				return float(p.MonthlyRent)
			}
			return float(p.Price)
		}),
		TextColumn("City", func(p models.Property) string { return p.City() }),
		NumberColumn("Bedrooms", func(p models.Property) (float64, bool) { return float64(p.Bedrooms), true }),
		NumberColumn("Bathrooms", func(p models.Property) (float64, bool) { return float64(p.Bathrooms), true }),
		PlainColumn("Status", func(p models.Property) string { return string(p.Status) }),
		NumberColumn("Enquiry Count", func(p models.Property) (float64, bool) { return float64(counts[p.PropertyID]), true }),
	}
}

// ProjectColumns are the admin project export. counts holds images per project.
func ProjectColumns(counts map[int64]int) []Column[models.Project] {
	return []Column[models.Project]{
		PlainColumn("ID", func(p models.Project) string { return id(p.ID) }),
		TextColumn("Title", func(p models.Project) string { return p.Title }),
		TextColumn("Location", func(p models.Project) string { return p.Location }),
		TextColumn("Price", func(p models.Project) string {
			if p.PriceRange != "" {
				return p.PriceRange
			}
			if p.PriceBigint != nil {
				return id(*p.PriceBigint)
			}
			return ""
		}),
		PlainColumn("Status", func(p models.Project) string { return string(p.Status) }),
		TextColumn("Type", func(p models.Project) string { return p.Type }),
		NumberColumn("ImageCount", func(p models.Project) (float64, bool) { return float64(counts[p.ID]), true }),
	}
}

func EnquiryColumns() []Column[models.Enquiry] {
	return []Column[models.Enquiry]{
		PlainColumn("Enquiry ID", func(e models.Enquiry) string { return id(e.EnquiryID) }),
		TextColumn("Buyer Name", func(e models.Enquiry) string { return e.BuyerName }),
		PlainColumn("Phone", func(e models.Enquiry) string { return e.Phone }),
		TextColumn("Email", func(e models.Enquiry) string { return e.Email }),
		TextColumn("Message", func(e models.Enquiry) string { return e.Message }),
		PlainColumn("Property ID", func(e models.Enquiry) string { return id(e.ListingID()) }),
		TextColumn("Property Title", func(e models.Enquiry) string { return e.PropertyTitle() }),
		DateColumn("Created At", func(e models.Enquiry) time.Time { return e.CreatedAt }),
	}
}
