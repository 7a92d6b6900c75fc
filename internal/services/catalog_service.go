package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hiltonrealtorsnm/frontend/internal/collection"
	"github.com/Hiltonrealtorsnm/frontend/internal/counts"
	"github.com/Hiltonrealtorsnm/frontend/internal/export"
	"github.com/Hiltonrealtorsnm/frontend/internal/models"
	"github.com/Hiltonrealtorsnm/frontend/internal/remote"
)

// Resource names a collection a view can show.
type Resource string

const (
	ResourceProperties Resource = "properties"
	ResourceProjects   Resource = "projects"
	ResourceEnquiries  Resource = "enquiries"
)

func (r Resource) Valid() bool {
	switch r {
	case ResourceProperties, ResourceProjects, ResourceEnquiries:
		return true
	}
	return false
}

var (
	ErrUnknownResource = errors.New("unknown resource")
	ErrNoCounts        = errors.New("resource has no aggregate counts")
)

// Sources are the remote operations the catalog reads through.
type Sources struct {
	Properties        collection.Source[models.Property]
	Projects          collection.Source[models.Project]
	Enquiries         collection.Source[models.Enquiry]
	PropertyEnquiries func(ctx context.Context, propertyID int64, page, size int) (*models.Page[models.Enquiry], error)
	EnquiryCount      counts.FetchFunc
	ImageCount        counts.FetchFunc
}

// SourcesFromClient wires Sources to the remote API client.
func SourcesFromClient(c *remote.Client) Sources {
	props := c.Properties()
	projects := c.Projects()
	enquiries := c.Enquiries()
	return Sources{
		Properties:        collection.Source[models.Property]{List: props.List, Search: props.Search},
		Projects:          collection.Source[models.Project]{List: projects.List},
		Enquiries:         collection.Source[models.Enquiry]{List: enquiries.List},
		PropertyEnquiries: enquiries.ListByProperty,
		EnquiryCount:      counts.EnquiryCounts(enquiries),
		ImageCount:        counts.ImageCounts(projects),
	}
}

// ViewOptions describe what a mounted view shows.
type ViewOptions struct {
	Resource Resource `json:"resource"`
	// Public restricts properties to approved listings, optionally of one
	// listing type (the buy and rent pages).
	Public      bool               `json:"public"`
	ListingType models.ListingType `json:"listingType"`
	// PropertyID scopes an enquiry view to one property.
	PropertyID int64 `json:"propertyId"`
}

// ICatalogService builds list views and exports collections.
type ICatalogService interface {
	NewView(opts ViewOptions) (*View, error)
	ExportQuery(ctx context.Context, opts ViewOptions, q collection.Query, filename string) (*export.Download, error)
}

type catalogService struct {
	src        Sources
	exporter   *export.Exporter
	countLimit int
}

// NewCatalogService creates a catalog. countLimit bounds concurrent count
// fetches; 0 means one goroutine per parent.
func NewCatalogService(src Sources, exporter *export.Exporter, countLimit int) ICatalogService {
	return &catalogService{src: src, exporter: exporter, countLimit: countLimit}
}

func (s *catalogService) NewView(opts ViewOptions) (*View, error) {
	v := &View{opts: opts, counts: counts.NewResolver(s.countLimit), svc: s}
	switch opts.Resource {
	case ResourceProperties:
		o := collection.Options[models.Property]{Keys: collection.PropertyKeys, Text: collection.PropertyText}
		if opts.Public {
			o.Refine = collection.PublicProperties(opts.ListingType)
		}
		v.properties = collection.NewLoader(s.src.Properties, o)
	case ResourceProjects:
		v.projects = collection.NewLoader(s.src.Projects, collection.Options[models.Project]{
			Keys: collection.ProjectKeys,
			Text: collection.ProjectText,
		})
	case ResourceEnquiries:
		source := s.src.Enquiries
		if opts.PropertyID != 0 && s.src.PropertyEnquiries != nil {
			id, list := opts.PropertyID, s.src.PropertyEnquiries
			source = collection.Source[models.Enquiry]{List: func(ctx context.Context, page, size int) (*models.Page[models.Enquiry], error) {
				return list(ctx, id, page, size)
			}}
		}
		v.enquiries = collection.NewLoader(source, collection.Options[models.Enquiry]{
			Keys: collection.EnquiryKeys,
			Text: collection.EnquiryText,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, opts.Resource)
	}
	return v, nil
}

// ExportQuery loads q once into a throwaway view and exports what it shows.
func (s *catalogService) ExportQuery(ctx context.Context, opts ViewOptions, q collection.Query, filename string) (*export.Download, error) {
	v, err := s.NewView(opts)
	if err != nil {
		return nil, err
	}
	defer v.Close()

	if _, err := v.Load(ctx, q, ""); err != nil {
		return nil, err
	}
	return v.Export(ctx, filename)
}

// DefaultFilename is the download name used when none is given.
func DefaultFilename(opts ViewOptions) string {
	switch opts.Resource {
	case ResourceProjects:
		return export.ProjectsFile
	case ResourceEnquiries:
		return export.EnquiriesFile(opts.PropertyID)
	}
	return export.PropertiesFile
}
