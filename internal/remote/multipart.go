package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
)

var errNoFiles = errors.New("no files to upload")

// upload sends every file under field in one multipart request.
func (c *Client) upload(ctx context.Context, method, path, field string, files []models.ImageFile, out interface{}) error {
	if len(files) == 0 {
		return errNoFiles
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for i, f := range files {
		name := f.Name
		if name == "" {
			name = fmt.Sprintf("image-%d", i)
		}
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, name))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return fmt.Errorf("failed to create multipart part: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return fmt.Errorf("failed to write multipart part: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	body, err := c.do(ctx, request{
		method:      method,
		path:        path,
		body:        &buf,
		contentType: w.FormDataContentType(),
	})
	if err != nil {
		return err
	}
	return decodeOptional(method, path, body, out)
}
