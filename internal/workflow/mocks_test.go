package workflow

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
)

// MockSellers is a mock type for SellerUpserter
type MockSellers struct {
	mock.Mock
}

func (m *MockSellers) Upsert(ctx context.Context, seller *models.Seller) (*models.Seller, error) {
	args := m.Called(ctx, seller)
	var s *models.Seller
	if args.Get(0) != nil {
		s = args.Get(0).(*models.Seller)
	}
	return s, args.Error(1)
}

// MockProperties is a mock type for PropertyWriter
type MockProperties struct {
	mock.Mock
}

func (m *MockProperties) Create(ctx context.Context, p *models.Property) (*models.Property, error) {
	args := m.Called(ctx, p)
	var out *models.Property
	if args.Get(0) != nil {
		out = args.Get(0).(*models.Property)
	}
	return out, args.Error(1)
}

func (m *MockProperties) Update(ctx context.Context, id int64, p *models.Property) (*models.Property, error) {
	args := m.Called(ctx, id, p)
	var out *models.Property
	if args.Get(0) != nil {
		out = args.Get(0).(*models.Property)
	}
	return out, args.Error(1)
}

func (m *MockProperties) UploadImages(ctx context.Context, propertyID int64, files []models.ImageFile) ([]models.Image, error) {
	args := m.Called(ctx, propertyID, files)
	var out []models.Image
	if args.Get(0) != nil {
		out = args.Get(0).([]models.Image)
	}
	return out, args.Error(1)
}

// MockProjects is a mock type for ProjectWriter
type MockProjects struct {
	mock.Mock
}

func (m *MockProjects) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	args := m.Called(ctx, p)
	var out *models.Project
	if args.Get(0) != nil {
		out = args.Get(0).(*models.Project)
	}
	return out, args.Error(1)
}

func (m *MockProjects) UploadImages(ctx context.Context, projectID int64, files []models.ImageFile) error {
	args := m.Called(ctx, projectID, files)
	return args.Error(0)
}

// MockEnquiries is a mock type for EnquirySender
type MockEnquiries struct {
	mock.Mock
}

func (m *MockEnquiries) Create(ctx context.Context, e *models.Enquiry) (*models.Enquiry, error) {
	args := m.Called(ctx, e)
	var out *models.Enquiry
	if args.Get(0) != nil {
		out = args.Get(0).(*models.Enquiry)
	}
	return out, args.Error(1)
}

// MockNavigator is a mock type for Navigator
type MockNavigator struct {
	mock.Mock
}

func (m *MockNavigator) Navigate(route string) {
	m.Called(route)
}
