package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
)

// Enquiries is the enquiry resource.
type Enquiries struct {
	*Resource[models.Enquiry]
	c *Client
}

// ListByProperty fetches the enquiries about one property.
func (e *Enquiries) ListByProperty(ctx context.Context, propertyID int64, page, size int) (*models.Page[models.Enquiry], error) {
	var out models.Page[models.Enquiry]
	if err := e.c.getJSON(ctx, fmt.Sprintf("/enquiry/property/%d", propertyID), PageQuery(page, size), &out); err != nil {
		return nil, err
	}
	return out.Paginate(page, size), nil
}

// CountByProperty returns the number of enquiries about one property. Only a
// single-element page is requested; the total comes from the page metadata
// when the server provides it.
func (e *Enquiries) CountByProperty(ctx context.Context, propertyID int64) (int, error) {
	body, err := e.c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/enquiry/property/%d", propertyID),
		query:  PageQuery(0, 1),
	})
	if err != nil {
		return 0, err
	}
	return models.CountOf(body), nil
}
