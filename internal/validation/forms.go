package validation

import (
	"strconv"
	"strings"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
)

// Form fields hold what was typed, as text. Numbers are coerced only after
// the form has passed validation.

type SellerForm struct {
	SellerName string `json:"sellerName"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	SellerType string `json:"sellerType"`
}

type ListingForm struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	PropertyType string `json:"propertyType"`
	ListingType  string `json:"listingType"`
	Price        string `json:"price"`
	MonthlyRent  string `json:"monthlyRent"`
	Deposit      string `json:"deposit"`
	Bedrooms     string `json:"bedrooms"`
	Bathrooms    string `json:"bathrooms"`
	AreaSqft     string `json:"areaSqft"`
	HouseNo      string `json:"houseNo"`
	Street       string `json:"street"`
	Area         string `json:"area"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

type ProjectForm struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	PriceRange  string `json:"priceRange"`
	PriceBigint string `json:"priceBigint"`
	Type        string `json:"type"`
	Status      string `json:"status"`
}

type EnquiryForm struct {
	BuyerName  string `json:"buyerName"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Message    string `json:"message"`
	PropertyID int64  `json:"propertyId"`
}

const (
	nonBlank      = `\S`
	decimal       = `^\s*[0-9]+(\.[0-9]+)?\s*$`
	optDecimal    = `^\s*([0-9]+(\.[0-9]+)?)?\s*$`
	integer       = `^\s*[0-9]+\s*$`
	optInteger    = `^\s*([0-9]+)?\s*$`
	phoneDigits   = `^[0-9]{10}$`
	emailPattern  = `^\S+@\S+\.\S+$`
	optEmail      = `^(\S+@\S+\.\S+)?$`
	stringPattern = "pattern"
	draft07       = "http://json-schema.org/draft-07/schema#"
)

func text(pattern string) map[string]interface{} {
	return map[string]interface{}{"type": "string", stringPattern: pattern}
}

var sellerValidator = mustValidator(map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"phone":      text(nonBlank),
		"email":      text(optEmail),
		"sellerType": map[string]interface{}{"enum": []interface{}{"", "OWNER", "AGENT"}},
	},
}, []Rule{
	{Field: "phone", Blank: "Seller phone is required!"},
	{Field: "email", Invalid: "Seller email is invalid!"},
	{Field: "sellerType", Invalid: "Seller type must be OWNER or AGENT!"},
})

var listingValidator = mustValidator(map[string]interface{}{
	"$schema": draft07,
	"type":    "object",
	"properties": map[string]interface{}{
		"title":       text(nonBlank),
		"description": text(nonBlank),
		"listingType": map[string]interface{}{"enum": []interface{}{"sale", "rent"}},
		"bedrooms":    text(integer),
		"bathrooms":   text(integer),
		"areaSqft":    text(optDecimal),
		"city":        text(nonBlank),
		"state":       text(nonBlank),
		"pincode":     text(nonBlank),
	},
	// Sale listings are priced, rent listings carry rent and deposit.
	"if": map[string]interface{}{
		"properties": map[string]interface{}{"listingType": map[string]interface{}{"const": "rent"}},
	},
	"then": map[string]interface{}{
		"properties": map[string]interface{}{
			"monthlyRent": text(decimal),
			"deposit":     text(decimal),
		},
	},
	"else": map[string]interface{}{
		"properties": map[string]interface{}{
			"price": text(decimal),
		},
	},
}, []Rule{
	{Field: "title", Blank: "Property title is required!"},
	{Field: "description", Blank: "Description required!"},
	{Field: "listingType", Blank: "Listing type is required!", Invalid: "Listing type must be sale or rent!"},
	{Field: "price", Blank: "Price required!", Invalid: "Price must be a number!"},
	{Field: "monthlyRent", Blank: "Monthly rent required!", Invalid: "Monthly rent must be a number!"},
	{Field: "deposit", Blank: "Deposit required!", Invalid: "Deposit must be a number!"},
	{Field: "bedrooms", Blank: "Bedrooms required!", Invalid: "Bedrooms must be a whole number!"},
	{Field: "bathrooms", Blank: "Bathrooms required!", Invalid: "Bathrooms must be a whole number!"},
	{Field: "areaSqft", Invalid: "Area must be a number!"},
	{Field: "city", Blank: "City required!"},
	{Field: "state", Blank: "State required!"},
	{Field: "pincode", Blank: "Pincode required!"},
})

var projectValidator = mustValidator(map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"title":       text(nonBlank),
		"priceBigint": text(optInteger),
		"status": map[string]interface{}{"enum": []interface{}{
			string(models.ProjectUpcoming), string(models.ProjectUnderConstruction),
			string(models.ProjectReady), string(models.ProjectCompleted),
		}},
	},
}, []Rule{
	{Field: "title", Blank: "Title is required"},
	{Field: "priceBigint", Invalid: "Price must be a whole number"},
	{Field: "status", Blank: "Status is required", Invalid: "Unknown project status"},
})

var enquiryValidator = mustValidator(map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"buyerName":  text(nonBlank),
		"phone":      text(phoneDigits),
		"email":      text(emailPattern),
		"message":    text(nonBlank),
		"propertyId": map[string]interface{}{"type": "integer", "minimum": 1},
	},
}, []Rule{
	{Field: "buyerName", Blank: "Please enter your name"},
	{Field: "phone", Blank: "Phone number must be 10 digits"},
	{Field: "email", Blank: "Please enter a valid email"},
	{Field: "message", Blank: "Please enter a message"},
	{Field: "propertyId", Blank: "Enquiry must reference a property"},
})

// Admin edits work on the stored entity rather than a text form.
var propertyUpdateValidator = mustValidator(map[string]interface{}{
	"$schema":  draft07,
	"type":     "object",
	"required": []interface{}{"title"},
	"properties": map[string]interface{}{
		"title": text(nonBlank),
	},
	"if": map[string]interface{}{
		"properties": map[string]interface{}{"listingType": map[string]interface{}{"const": "rent"}},
	},
	"then": map[string]interface{}{
		"required": []interface{}{"monthlyRent", "deposit"},
		"properties": map[string]interface{}{
			"monthlyRent": map[string]interface{}{"type": "number", "exclusiveMinimum": 0},
			"deposit":     map[string]interface{}{"type": "number", "minimum": 0},
		},
	},
	"else": map[string]interface{}{
		"required":   []interface{}{"price"},
		"properties": map[string]interface{}{"price": map[string]interface{}{"type": "number", "exclusiveMinimum": 0}},
	},
}, []Rule{
	{Field: "title", Blank: "Title is required"},
	{Field: "price", Blank: "Price is required for Sale", Invalid: "Price must be positive"},
	{Field: "monthlyRent", Blank: "Monthly Rent is required", Invalid: "Monthly Rent must be positive"},
	{Field: "deposit", Blank: "Deposit is required for Rent", Invalid: "Deposit cannot be negative"},
})

// ValidateListing checks the seller and listing parts of the sell form.
func ValidateListing(seller SellerForm, listing ListingForm) error {
	return Merge(sellerValidator.Validate(seller), listingValidator.Validate(listing))
}

func ValidateProject(form ProjectForm) error {
	if strings.TrimSpace(form.Status) == "" {
		form.Status = string(models.ProjectUpcoming)
	}
	return projectValidator.Validate(form)
}

func ValidateEnquiry(form EnquiryForm) error {
	return enquiryValidator.Validate(form)
}

func ValidatePropertyUpdate(p *models.Property) error {
	if err := propertyUpdateValidator.Validate(p); err != nil {
		return err
	}
	if err := p.CheckPricing(); err != nil {
		return pricingConflicts(p, err)
	}
	return nil
}

// pricingConflicts names the pricing fields that do not belong to the
// listing type. A rent listing carries no price; a sale listing carries
// neither rent nor deposit.
func pricingConflicts(p *models.Property, cause error) error {
	out := &Errors{}
	if p.IsRent() {
		if p.Price != nil {
			out.Errors = append(out.Errors, FieldError{Field: "price", Message: "Price must be empty for Rent"})
		}
	} else {
		if p.MonthlyRent != nil {
			out.Errors = append(out.Errors, FieldError{Field: "monthlyRent", Message: "Monthly Rent must be empty for Sale"})
		}
		if p.Deposit != nil {
			out.Errors = append(out.Errors, FieldError{Field: "deposit", Message: "Deposit must be empty for Sale"})
		}
	}
	if len(out.Errors) == 0 {
		out.Errors = append(out.Errors, FieldError{Field: "listingType", Message: cause.Error()})
	}
	return out
}

// Seller coerces a validated seller form.
func (f SellerForm) Seller() *models.Seller {
	sellerType := models.SellerType(strings.TrimSpace(f.SellerType))
	if sellerType == "" {
		sellerType = models.SellerOwner
	}
	return &models.Seller{
		SellerName: strings.TrimSpace(f.SellerName),
		Phone:      strings.TrimSpace(f.Phone),
		Email:      strings.TrimSpace(f.Email),
		SellerType: sellerType,
	}
}

// Property coerces a validated listing form into a create payload. Rent
// listings carry rent and deposit and no price; sale listings the reverse.
func (f ListingForm) Property(sellerID int64) *models.Property {
	p := &models.Property{
		Title:        strings.TrimSpace(f.Title),
		Description:  strings.TrimSpace(f.Description),
		PropertyType: strings.TrimSpace(f.PropertyType),
		ListingType:  models.ListingType(f.ListingType),
		Bedrooms:     int(parseFloat(f.Bedrooms)),
		Bathrooms:    int(parseFloat(f.Bathrooms)),
		AreaSqft:     parseFloat(f.AreaSqft),
		Address: &models.Address{
			HouseNo: strings.TrimSpace(f.HouseNo),
			Street:  strings.TrimSpace(f.Street),
			Area:    strings.TrimSpace(f.Area),
			City:    strings.TrimSpace(f.City),
			State:   strings.TrimSpace(f.State),
			Pincode: strings.TrimSpace(f.Pincode),
		},
		Seller: models.SellerRef(sellerID),
	}
	if p.IsRent() {
		p.MonthlyRent = models.Float(parseFloat(f.MonthlyRent))
		p.Deposit = models.Float(parseFloat(f.Deposit))
	} else {
		p.Price = models.Float(parseFloat(f.Price))
	}
	return p
}

// Project coerces a validated project form.
func (f ProjectForm) Project() *models.Project {
	p := &models.Project{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Location:    strings.TrimSpace(f.Location),
		PriceRange:  strings.TrimSpace(f.PriceRange),
		Type:        strings.TrimSpace(f.Type),
		Status:      models.ProjectStatus(strings.TrimSpace(f.Status)),
	}
	if p.Status == "" {
		p.Status = models.ProjectUpcoming
	}
	if n, err := strconv.ParseInt(strings.TrimSpace(f.PriceBigint), 10, 64); err == nil {
		p.PriceBigint = &n
	}
	return p
}

// Enquiry coerces a validated enquiry form.
func (f EnquiryForm) Enquiry() *models.Enquiry {
	return &models.Enquiry{
		BuyerName:  strings.TrimSpace(f.BuyerName),
		Phone:      strings.TrimSpace(f.Phone),
		Email:      strings.TrimSpace(f.Email),
		Message:    strings.TrimSpace(f.Message),
		PropertyID: f.PropertyID,
	}
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
