package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
)

// Properties is the property resource plus its moderation transitions and
// image operations.
type Properties struct {
	*Resource[models.Property]
	c *Client
}

// Search fetches properties matching criteria. The search endpoint may answer
// with a bare array, which is paginated locally so callers always see pages.
func (p *Properties) Search(ctx context.Context, criteria models.FilterCriteria, page, size int) (*models.Page[models.Property], error) {
	q := criteria.Values()
	for k, vs := range PageQuery(page, size) {
		q[k] = vs
	}
	var out models.Page[models.Property]
	if err := p.c.getJSON(ctx, "/property/search", q, &out); err != nil {
		return nil, err
	}
	return out.Paginate(page, size), nil
}

// Approve moves a pending property to approved.
func (p *Properties) Approve(ctx context.Context, id int64) error {
	return p.transition(ctx, "approve", id)
}

// Reject moves a pending property to rejected.
func (p *Properties) Reject(ctx context.Context, id int64) error {
	return p.transition(ctx, "reject", id)
}

// MarkSold closes an approved property.
func (p *Properties) MarkSold(ctx context.Context, id int64) error {
	return p.transition(ctx, "sold", id)
}

func (p *Properties) transition(ctx context.Context, action string, id int64) error {
	return p.c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/property/%s/%d", action, id), nil, nil, nil)
}

// UploadImages attaches files to a property in one batch request.
func (p *Properties) UploadImages(ctx context.Context, propertyID int64, files []models.ImageFile) ([]models.Image, error) {
	var out []models.Image
	if err := p.c.upload(ctx, http.MethodPost, fmt.Sprintf("/property/%d/images", propertyID), "images", files, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceImage swaps the file behind one image, keeping its position.
func (p *Properties) ReplaceImage(ctx context.Context, imageID int64, file models.ImageFile) (*models.Image, error) {
	var out models.Image
	if err := p.c.upload(ctx, http.MethodPut, fmt.Sprintf("/property/images/%d", imageID), "image", []models.ImageFile{file}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteImage removes one image; the server closes the position gap.
func (p *Properties) DeleteImage(ctx context.Context, imageID int64) error {
	return p.c.sendJSON(ctx, http.MethodDelete, fmt.Sprintf("/property/images/%d", imageID), nil, nil, nil)
}

// ReorderImages stores a complete display order. The order is checked
// locally first so a malformed reorder never reaches the server.
func (p *Properties) ReorderImages(ctx context.Context, propertyID int64, current []models.Image, orderedIDs []int64) ([]models.Image, error) {
	reordered, err := models.ReorderImages(current, orderedIDs)
	if err != nil {
		return nil, err
	}
	body := struct {
		ImageIDs []int64 `json:"imageIds"`
	}{ImageIDs: orderedIDs}
	if err := p.c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/property/%d/images/order", propertyID), nil, body, nil); err != nil {
		return nil, err
	}
	return reordered, nil
}
