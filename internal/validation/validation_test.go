package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
)

func validSeller() SellerForm {
	return SellerForm{SellerName: "Asha", Phone: "9876543210", Email: "asha@example.in", SellerType: "OWNER"}
}

func validSale() ListingForm {
	return ListingForm{
		Title:       "Garden Villa",
		Description: "Three storeys",
		ListingType: "sale",
		Price:       "5000000",
		Bedrooms:    "3",
		Bathrooms:   "2",
		AreaSqft:    "1450.5",
		City:        "Pune",
		State:       "MH",
		Pincode:     "411001",
	}
}

func TestValidateListing_Valid(t *testing.T) {
	assert.NoError(t, ValidateListing(validSeller(), validSale()))

	rent := validSale()
	rent.ListingType = "rent"
	rent.Price = ""
	rent.MonthlyRent = "25000"
	rent.Deposit = "50000"
	assert.NoError(t, ValidateListing(validSeller(), rent))
}

func TestValidateListing_FirstErrorFollowsFormOrder(t *testing.T) {
	seller := validSeller()
	seller.Phone = "  "
	listing := validSale()
	listing.Title = ""
	listing.Pincode = ""

	err := ValidateListing(seller, listing)
	require.Error(t, err)
	require.True(t, IsValidationError(err))
	ve := GetValidationErrors(err)
	assert.Equal(t, FieldError{Field: "phone", Message: "Seller phone is required!"}, ve.First())
	require.Len(t, ve.Errors, 3)
	assert.Equal(t, "title", ve.Errors[1].Field)
	assert.Equal(t, "pincode", ve.Errors[2].Field)
}

func TestValidateListing_NumericFields(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(f *ListingForm)
		field   string
		message string
	}{
		{"empty price", func(f *ListingForm) { f.Price = "" }, "price", "Price required!"},
		{"text price", func(f *ListingForm) { f.Price = "five lakh" }, "price", "Price must be a number!"},
		{"fractional bedrooms", func(f *ListingForm) { f.Bedrooms = "2.5" }, "bedrooms", "Bedrooms must be a whole number!"},
		{"missing bathrooms", func(f *ListingForm) { f.Bathrooms = "" }, "bathrooms", "Bathrooms required!"},
		{"bad area", func(f *ListingForm) { f.AreaSqft = "big" }, "areaSqft", "Area must be a number!"},
		{"unknown listing type", func(f *ListingForm) { f.ListingType = "lease" }, "listingType", "Listing type must be sale or rent!"},
		{"rent without deposit", func(f *ListingForm) {
			f.ListingType = "rent"
			f.MonthlyRent = "25000"
		}, "deposit", "Deposit required!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			listing := validSale()
			tc.mutate(&listing)
			ve := GetValidationErrors(ValidateListing(validSeller(), listing))
			require.NotNil(t, ve)
			assert.Equal(t, tc.field, ve.First().Field)
			assert.Equal(t, tc.message, ve.First().Message)
		})
	}
}

func TestListingForm_PropertyCoercion(t *testing.T) {
	rent := validSale()
	rent.ListingType = "rent"
	rent.Price = "999"
	rent.MonthlyRent = " 25000 "
	rent.Deposit = "50000"

	p := rent.Property(41)
	assert.Nil(t, p.Price)
	require.NotNil(t, p.MonthlyRent)
	assert.Equal(t, 25000.0, *p.MonthlyRent)
	assert.Equal(t, 50000.0, *p.Deposit)
	assert.Equal(t, 3, p.Bedrooms)
	assert.Equal(t, 1450.5, p.AreaSqft)
	assert.Equal(t, int64(41), p.Seller.SellerID)
	assert.Equal(t, "Pune", p.Address.City)
	assert.NoError(t, p.CheckPricing())

	sale := validSale().Property(41)
	assert.Nil(t, sale.MonthlyRent)
	assert.Equal(t, 5000000.0, *sale.Price)
	assert.NoError(t, sale.CheckPricing())
}

func TestValidateEnquiry(t *testing.T) {
	form := EnquiryForm{BuyerName: "Ravi", Phone: "9876543210", Email: "ravi@x.in", Message: "Is it available?", PropertyID: 3}
	assert.NoError(t, ValidateEnquiry(form))

	bad := form
	bad.Phone = "98765"
	ve := GetValidationErrors(ValidateEnquiry(bad))
	require.NotNil(t, ve)
	assert.Equal(t, "Phone number must be 10 digits", ve.First().Message)

	bad = form
	bad.Email = "ravi at x"
	ve = GetValidationErrors(ValidateEnquiry(bad))
	require.NotNil(t, ve)
	assert.Equal(t, "Please enter a valid email", ve.First().Message)

	bad = form
	bad.PropertyID = 0
	ve = GetValidationErrors(ValidateEnquiry(bad))
	require.NotNil(t, ve)
	assert.Equal(t, "propertyId", ve.First().Field)
}

func TestValidateProject(t *testing.T) {
	form := ProjectForm{Title: "Skyline", PriceBigint: "12000000"}
	require.NoError(t, ValidateProject(form))
	p := form.Project()
	assert.Equal(t, models.ProjectUpcoming, p.Status)
	assert.Equal(t, int64(12000000), p.Price())

	form.Status = "DEMOLISHED"
	ve := GetValidationErrors(ValidateProject(form))
	require.NotNil(t, ve)
	assert.Equal(t, "Unknown project status", ve.First().Message)

	ve = GetValidationErrors(ValidateProject(ProjectForm{PriceBigint: "1.5"}))
	require.NotNil(t, ve)
	assert.Equal(t, "Title is required", ve.First().Message)
	assert.Equal(t, "priceBigint", ve.Errors[1].Field)
}

func TestValidatePropertyUpdate(t *testing.T) {
	sale := &models.Property{Title: "Villa", ListingType: models.ListingTypeSale, Price: models.Float(10)}
	assert.NoError(t, ValidatePropertyUpdate(sale))

	sale.Price = nil
	ve := GetValidationErrors(ValidatePropertyUpdate(sale))
	require.NotNil(t, ve)
	assert.Equal(t, "Price is required for Sale", ve.First().Message)

	rent := &models.Property{Title: "Flat", ListingType: models.ListingTypeRent, MonthlyRent: models.Float(0)}
	ve = GetValidationErrors(ValidatePropertyUpdate(rent))
	require.NotNil(t, ve)
	assert.Equal(t, "Monthly Rent must be positive", ve.First().Message)

	ve = GetValidationErrors(ValidatePropertyUpdate(&models.Property{ListingType: models.ListingTypeRent, MonthlyRent: models.Float(5)}))
	require.NotNil(t, ve)
	assert.Equal(t, "Title is required", ve.First().Message)
}

func TestValidatePropertyUpdate_PricingMatchesListingType(t *testing.T) {
	tests := []struct {
		name      string
		property  *models.Property
		wantField string
		wantMsg   string
	}{
		{
			name:      "rent without deposit",
			property:  &models.Property{Title: "Flat", ListingType: models.ListingTypeRent, MonthlyRent: models.Float(25000)},
			wantField: "deposit",
			wantMsg:   "Deposit is required for Rent",
		},
		{
			name:      "rent with a price",
			property:  &models.Property{Title: "Flat", ListingType: models.ListingTypeRent, MonthlyRent: models.Float(25000), Deposit: models.Float(50000), Price: models.Float(9000000)},
			wantField: "price",
			wantMsg:   "Price must be empty for Rent",
		},
		{
			name:      "sale with rent",
			property:  &models.Property{Title: "Villa", ListingType: models.ListingTypeSale, Price: models.Float(9000000), MonthlyRent: models.Float(25000)},
			wantField: "monthlyRent",
			wantMsg:   "Monthly Rent must be empty for Sale",
		},
		{
			name:      "sale with deposit",
			property:  &models.Property{Title: "Villa", ListingType: models.ListingTypeSale, Price: models.Float(9000000), Deposit: models.Float(1)},
			wantField: "deposit",
			wantMsg:   "Deposit must be empty for Sale",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ve := GetValidationErrors(ValidatePropertyUpdate(tc.property))
			require.NotNil(t, ve)
			assert.Equal(t, FieldError{Field: tc.wantField, Message: tc.wantMsg}, ve.First())
		})
	}

	ok := &models.Property{Title: "Flat", ListingType: models.ListingTypeRent, MonthlyRent: models.Float(25000), Deposit: models.Float(50000)}
	assert.NoError(t, ValidatePropertyUpdate(ok))
	assert.NoError(t, ok.CheckPricing())
}
