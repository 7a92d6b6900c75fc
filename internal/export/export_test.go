package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
)

type row struct {
	ID    int64
	Name  string
	Price *float64
	When  time.Time
}

func rowColumns() []Column[row] {
	return []Column[row]{
		PlainColumn("ID", func(r row) string { return id(r.ID) }),
		TextColumn("Name", func(r row) string { return r.Name }),
		NumberColumn("Price", func(r row) (float64, bool) { return float(r.Price) }),
		DateColumn("When", func(r row) time.Time { return r.When }),
	}
}

func TestCSV_EmptyCollection(t *testing.T) {
	out, err := CSV[row](nil, rowColumns())
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestCSV_QuotingAndFormats(t *testing.T) {
	when := time.Date(2024, 3, 5, 14, 7, 9, 0, time.FixedZone("IST", 5*3600+1800))
	rows := []row{
		{ID: 1, Name: `Villa "Sea View", Goa`, Price: models.Float(2500000), When: when},
		{ID: 2, Name: "Plain", Price: models.Float(1234.5)},
		{ID: 3, Name: "Line\nbreak"},
	}

	out, err := CSV(rows, rowColumns())
	require.NoError(t, err)

	expected := "ID,Name,Price,When\n" +
		`1,"Villa ""Sea View"", Goa",2500000,2024-03-05 08:37:09` + "\n" +
		`2,"Plain",1234.5,` + "\n" +
		"3,\"Line\nbreak\",,\n"
	assert.Equal(t, expected, string(out))
}

func TestCSV_HeadersQuotedWhenNeeded(t *testing.T) {
	cols := []Column[row]{PlainColumn("a,b", func(r row) string { return "x,y" })}
	out, err := CSV([]row{{}}, cols)
	require.NoError(t, err)
	assert.Equal(t, "\"a,b\"\n\"x,y\"\n", string(out))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "25000", FormatNumber(25000))
	assert.Equal(t, "12000000", FormatNumber(1.2e7))
	assert.Equal(t, "0.25", FormatNumber(0.25))
	assert.Equal(t, "-3", FormatNumber(-3))
}

func TestPropertyColumns_RentAndCounts(t *testing.T) {
	props := []models.Property{
		{PropertyID: 7, Title: "Flat", ListingType: models.ListingTypeRent, MonthlyRent: models.Float(25000), Deposit: models.Float(50000),
			Address: &models.Address{City: "Pune"}, Bedrooms: 2, Bathrooms: 1, Status: models.PropertyApproved},
		{PropertyID: 8, Title: "House", ListingType: models.ListingTypeSale, Price: models.Float(9000000), Status: models.PropertyPending},
	}

	out, err := CSV(props, PropertyColumns(map[int64]int{7: 3}))
	require.NoError(t, err)

	expected := "Property ID,Title,Listing Type,Price/MonthlyRent,City,Bedrooms,Bathrooms,Status,Enquiry Count\n" +
		`7,"Flat",rent,25000,"Pune",2,1,approved,3` + "\n" +
		`8,"House",sale,9000000,"",0,0,pending,0` + "\n"
	assert.Equal(t, expected, string(out))
}

func TestEnquiryColumns(t *testing.T) {
	enquiries := []models.Enquiry{{
		EnquiryID: 4, BuyerName: "Asha", Phone: "9876543210", Email: "asha@example.com",
		Message: "Is it, still available?", CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Property: &models.Property{PropertyID: 7, Title: "Flat"},
	}}

	out, err := CSV(enquiries, EnquiryColumns())
	require.NoError(t, err)
	assert.Equal(t,
		"Enquiry ID,Buyer Name,Phone,Email,Message,Property ID,Property Title,Created At\n"+
			`4,"Asha",9876543210,"asha@example.com","Is it, still available?",7,"Flat",2024-01-02 03:04:05`+"\n",
		string(out))
}

func TestEnquiriesFile(t *testing.T) {
	assert.Equal(t, "enquiries.csv", EnquiriesFile(0))
	assert.Equal(t, "enquiries_property_12.csv", EnquiriesFile(12))
}

func TestCollection_WritesFile(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(NewFileSaver(dir))

	d, err := Collection(context.Background(), e, "rows.csv", []row{{ID: 1, Name: "a"}}, rowColumns())
	require.NoError(t, err)
	assert.Equal(t, "rows.csv", d.Filename)
	assert.Equal(t, filepath.Join(dir, "rows.csv"), d.Location)

	data, err := os.ReadFile(d.Location)
	require.NoError(t, err)
	assert.Equal(t, d.Size, len(data))
	assert.Contains(t, string(data), `1,"a",,`)
}

func TestCollection_EmptyWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	e := NewExporter(NewFileSaver(dir))

	d, err := Collection(context.Background(), e, "rows.csv", []row{}, rowColumns())
	assert.Nil(t, d)
	assert.True(t, errors.Is(err, ErrNothingToExport))

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileSaver_StripsDirectories(t *testing.T) {
	dir := t.TempDir()
	d, err := NewFileSaver(dir).Save(context.Background(), "../../etc/passwd.csv", []byte("x\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "passwd.csv"), d.Location)
}
