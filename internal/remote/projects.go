package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
)

// Projects is the project resource plus status changes and image operations.
type Projects struct {
	*Resource[models.Project]
	c *Client
}

// UpdateStatus sets the construction status of a project.
func (p *Projects) UpdateStatus(ctx context.Context, id int64, status models.ProjectStatus) error {
	if !models.ValidProjectStatus(status) {
		return fmt.Errorf("unknown project status %q", status)
	}
	q := url.Values{"status": {string(status)}}
	return p.c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/project/updateStatus/%d", id), q, nil, nil)
}

// Images lists the images of a project in display order.
func (p *Projects) Images(ctx context.Context, id int64) ([]models.Image, error) {
	var out models.Page[models.Image]
	if err := p.c.getJSON(ctx, fmt.Sprintf("/project/getImages/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return models.NormalizePositions(out.Content), nil
}

// CountImages returns the number of images of a project, whatever shape the
// answer takes.
func (p *Projects) CountImages(ctx context.Context, id int64) (int, error) {
	body, err := p.c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/project/getImages/%d", id)})
	if err != nil {
		return 0, err
	}
	return models.CountOf(body), nil
}

// UploadImage attaches a single file.
func (p *Projects) UploadImage(ctx context.Context, id int64, file models.ImageFile) error {
	return p.c.upload(ctx, http.MethodPost, fmt.Sprintf("/project/uploadImage/%d", id), "image", []models.ImageFile{file}, nil)
}

// UploadImages attaches files in one batch request.
func (p *Projects) UploadImages(ctx context.Context, id int64, files []models.ImageFile) error {
	return p.c.upload(ctx, http.MethodPost, fmt.Sprintf("/project/uploadImages/%d", id), "images", files, nil)
}

// DeleteImage removes one project image.
func (p *Projects) DeleteImage(ctx context.Context, imageID int64) error {
	return p.c.sendJSON(ctx, http.MethodDelete, fmt.Sprintf("/project/deleteImage/%d", imageID), nil, nil, nil)
}
