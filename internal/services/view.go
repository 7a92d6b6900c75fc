package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Hiltonrealtorsnm/frontend/internal/collection"
	"github.com/Hiltonrealtorsnm/frontend/internal/counts"
	"github.com/Hiltonrealtorsnm/frontend/internal/export"
	"github.com/Hiltonrealtorsnm/frontend/internal/models"
)

// Page is a rendered snapshot of a view, independent of the entity type.
type Page struct {
	Resource      Resource         `json:"resource"`
	State         collection.State `json:"state"`
	Items         interface{}      `json:"items"`
	TotalPages    int              `json:"totalPages"`
	TotalElements int64            `json:"totalElements"`
	Page          int              `json:"page"`
	Size          int              `json:"size"`
	Sort          models.SortSpec  `json:"sort"`
	Generation    uint64           `json:"generation"`
	Error         string           `json:"error,omitempty"`

	// PropertyFilter is the active enquiry filter; Items are already narrowed by it.
	PropertyFilter string `json:"propertyFilter,omitempty"`
}

// View is one mounted list page: a loader for its collection plus the
// aggregate counts shown next to the rows.
type View struct {
	opts ViewOptions
	svc  *catalogService

	properties *collection.Loader[models.Property]
	projects   *collection.Loader[models.Project]
	enquiries  *collection.Loader[models.Enquiry]

	counts *counts.Resolver

	mu             sync.Mutex
	propertyFilter string // enquiry views only
}

func (v *View) Options() ViewOptions {
	return v.opts
}

func (v *View) Resource() Resource {
	return v.opts.Resource
}

func pageOf[T any](r Resource, snap collection.Snapshot[T]) Page {
	p := Page{
		Resource:      r,
		State:         snap.State,
		Items:         snap.Items,
		TotalPages:    snap.TotalPages,
		TotalElements: snap.TotalElements,
		Page:          snap.Query.Page,
		Size:          snap.Query.Size,
		Sort:          snap.Query.Sort,
		Generation:    snap.Generation,
	}
	if snap.Items == nil {
		p.Items = []T{}
	}
	if snap.Err != nil {
		p.Error = snap.Err.Error()
	}
	return p
}

// Load brings the view to q. propertyFilter narrows an enquiry view to
// one property by ID or title and stays in effect for sorting, snapshots
// and exports until the next Load or Reset; other views ignore it.
func (v *View) Load(ctx context.Context, q collection.Query, propertyFilter string) (Page, error) {
	switch v.opts.Resource {
	case ResourceProperties:
		snap, err := v.properties.Load(ctx, q)
		return pageOf(v.opts.Resource, snap), err
	case ResourceProjects:
		snap, err := v.projects.Load(ctx, q)
		return pageOf(v.opts.Resource, snap), err
	default:
		v.setPropertyFilter(propertyFilter)
		snap, err := v.enquiries.Load(ctx, q)
		return v.enquiryPage(snap), err
	}
}

func (v *View) setPropertyFilter(filter string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.propertyFilter = strings.TrimSpace(filter)
}

// PropertyFilter returns the enquiry filter in effect.
func (v *View) PropertyFilter() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.propertyFilter
}

func (v *View) enquiryItems(items []models.Enquiry) []models.Enquiry {
	return collection.FilterEnquiriesByProperty(items, v.PropertyFilter())
}

func (v *View) enquiryPage(snap collection.Snapshot[models.Enquiry]) Page {
	snap.Items = v.enquiryItems(snap.Items)
	p := pageOf(v.opts.Resource, snap)
	p.PropertyFilter = v.PropertyFilter()
	return p
}

// Refresh refetches the current query.
func (v *View) Refresh(ctx context.Context) (Page, error) {
	switch v.opts.Resource {
	case ResourceProperties:
		snap, err := v.properties.Refresh(ctx)
		return pageOf(v.opts.Resource, snap), err
	case ResourceProjects:
		snap, err := v.projects.Refresh(ctx)
		return pageOf(v.opts.Resource, snap), err
	default:
		snap, err := v.enquiries.Refresh(ctx)
		return v.enquiryPage(snap), err
	}
}

// SortBy toggles the sort on key and re-sorts the loaded page.
func (v *View) SortBy(ctx context.Context, key string) (Page, error) {
	switch v.opts.Resource {
	case ResourceProperties:
		snap, err := v.properties.SortBy(ctx, key)
		return pageOf(v.opts.Resource, snap), err
	case ResourceProjects:
		snap, err := v.projects.SortBy(ctx, key)
		return pageOf(v.opts.Resource, snap), err
	default:
		snap, err := v.enquiries.SortBy(ctx, key)
		return v.enquiryPage(snap), err
	}
}

// Reset clears filters, including the enquiry property filter, and returns to the first unfiltered page.
func (v *View) Reset(ctx context.Context) (Page, error) {
	switch v.opts.Resource {
	case ResourceProperties:
		snap, err := v.properties.Reset(ctx)
		return pageOf(v.opts.Resource, snap), err
	case ResourceProjects:
		snap, err := v.projects.Reset(ctx)
		return pageOf(v.opts.Resource, snap), err
	default:
		v.setPropertyFilter("")
		snap, err := v.enquiries.Reset(ctx)
		return v.enquiryPage(snap), err
	}
}

// Snapshot returns the current page without loading.
func (v *View) Snapshot() Page {
	switch v.opts.Resource {
	case ResourceProperties:
		return pageOf(v.opts.Resource, v.properties.Snapshot())
	case ResourceProjects:
		return pageOf(v.opts.Resource, v.projects.Snapshot())
	default:
		return v.enquiryPage(v.enquiries.Snapshot())
	}
}

// Subscribe calls fn with every page the view publishes while loading,
// sorting or resetting, until the returned function is called or the view
// is closed. fn must not call back into the view.
func (v *View) Subscribe(fn func(Page)) func() {
	switch v.opts.Resource {
	case ResourceProperties:
		return v.properties.Subscribe(func(s collection.Snapshot[models.Property]) {
			fn(pageOf(v.opts.Resource, s))
		})
	case ResourceProjects:
		return v.projects.Subscribe(func(s collection.Snapshot[models.Project]) {
			fn(pageOf(v.opts.Resource, s))
		})
	default:
		return v.enquiries.Subscribe(func(s collection.Snapshot[models.Enquiry]) {
			fn(v.enquiryPage(s))
		})
	}
}

// Counts resolves the per-row aggregate of the loaded page: enquiries per
// property, or images per project.
func (v *View) Counts(ctx context.Context) (map[int64]int, error) {
	switch v.opts.Resource {
	case ResourceProperties:
		return v.counts.Resolve(ctx, propertyIDs(v.properties.Snapshot().Items), v.svc.src.EnquiryCount), nil
	case ResourceProjects:
		return v.counts.Resolve(ctx, projectIDs(v.projects.Snapshot().Items), v.svc.src.ImageCount), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoCounts, v.opts.Resource)
}

// Export writes the loaded page as CSV, in the order and with the filters
// shown.
func (v *View) Export(ctx context.Context, filename string) (*export.Download, error) {
	if filename == "" {
		filename = DefaultFilename(v.opts)
		if f := v.PropertyFilter(); f != "" && v.opts.Resource == ResourceEnquiries && v.opts.PropertyID == 0 {
			filename = export.EnquiriesFilteredFile(f)
		}
	}
	e := v.svc.exporter
	switch v.opts.Resource {
	case ResourceProperties:
		items := v.properties.Snapshot().Items
		if len(items) == 0 {
			return nil, export.ErrNothingToExport
		}
		c := v.counts.Resolve(ctx, propertyIDs(items), v.svc.src.EnquiryCount)
		return export.Collection(ctx, e, filename, items, export.PropertyColumns(c))
	case ResourceProjects:
		items := v.projects.Snapshot().Items
		if len(items) == 0 {
			return nil, export.ErrNothingToExport
		}
		c := v.counts.Resolve(ctx, projectIDs(items), v.svc.src.ImageCount)
		return export.Collection(ctx, e, filename, items, export.ProjectColumns(c))
	default:
		return export.Collection(ctx, e, filename, v.enquiryItems(v.enquiries.Snapshot().Items), export.EnquiryColumns())
	}
}

// Close unmounts the view; responses still in flight are dropped.
func (v *View) Close() {
	switch v.opts.Resource {
	case ResourceProperties:
		v.properties.Close()
	case ResourceProjects:
		v.projects.Close()
	default:
		v.enquiries.Close()
	}
}

func propertyIDs(items []models.Property) []int64 {
	ids := make([]int64, len(items))
	for i, p := range items {
		ids[i] = p.PropertyID
	}
	return ids
}

func projectIDs(items []models.Project) []int64 {
	ids := make([]int64, len(items))
	for i, p := range items {
		ids[i] = p.ID
	}
	return ids
}
