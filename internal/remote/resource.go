package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
)

// ResourcePaths names the endpoints of one resource. Paths taking an ID are
// fmt patterns with a single %d verb. An empty path marks the operation as
// unsupported.
type ResourcePaths struct {
	List      string
	ListQuery url.Values // Extra parameters sent with every list call
	Get       string
	Create    string
	Update    string
	Delete    string
}

var propertyPaths = ResourcePaths{
	List:   "/property/all",
	Get:    "/property/%d",
	Create: "/property/add",
	Update: "/property/update/%d",
	Delete: "/property/delete/%d",
}

var projectPaths = ResourcePaths{
	List:      "/project/all",
	ListQuery: url.Values{"sort": {"projectId,desc"}},
	Get:       "/project/%d",
	Create:    "/project/add",
	Update:    "/project/update/%d",
	Delete:    "/project/delete/%d",
}

// Enquiries are read-only once created.
var enquiryPaths = ResourcePaths{
	List:   "/enquiry/all",
	Get:    "/enquiry/%d",
	Create: "/enquiry/add",
	Delete: "/enquiry/%d",
}

// Resource offers the CRUD operations every remote collection shares.
type Resource[T any] struct {
	c     *Client
	paths ResourcePaths
}

// NewResource binds paths to a client.
func NewResource[T any](c *Client, paths ResourcePaths) *Resource[T] {
	return &Resource[T]{c: c, paths: paths}
}

// PageQuery encodes zero-based page and size parameters.
func PageQuery(page, size int) url.Values {
	return url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
}

// List fetches one page of the unfiltered collection.
func (r *Resource[T]) List(ctx context.Context, page, size int) (*models.Page[T], error) {
	if r.paths.List == "" {
		return nil, ErrUnsupported
	}
	q := PageQuery(page, size)
	for k, vs := range r.paths.ListQuery {
		q[k] = vs
	}
	var out models.Page[T]
	if err := r.c.getJSON(ctx, r.paths.List, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a single entity.
func (r *Resource[T]) Get(ctx context.Context, id int64) (*T, error) {
	if r.paths.Get == "" {
		return nil, ErrUnsupported
	}
	var out T
	if err := r.c.getJSON(ctx, fmt.Sprintf(r.paths.Get, id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts a new entity and returns the server's copy.
func (r *Resource[T]) Create(ctx context.Context, item *T) (*T, error) {
	if r.paths.Create == "" {
		return nil, ErrUnsupported
	}
	var out T
	if err := r.c.sendJSON(ctx, http.MethodPost, r.paths.Create, nil, item, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces an entity and returns the server's copy.
func (r *Resource[T]) Update(ctx context.Context, id int64, item *T) (*T, error) {
	if r.paths.Update == "" {
		return nil, ErrUnsupported
	}
	var out T
	if err := r.c.sendJSON(ctx, http.MethodPut, fmt.Sprintf(r.paths.Update, id), nil, item, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an entity.
func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	if r.paths.Delete == "" {
		return ErrUnsupported
	}
	return r.c.sendJSON(ctx, http.MethodDelete, fmt.Sprintf(r.paths.Delete, id), nil, nil, nil)
}
