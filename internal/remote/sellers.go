package remote

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
)

// Sellers looks sellers up by their natural key (email, phone).
type Sellers struct {
	c *Client
}

// FindByEmailPhone returns the seller registered with the pair, or nil when
// none is.
func (s *Sellers) FindByEmailPhone(ctx context.Context, email, phone string) (*models.Seller, error) {
	q := url.Values{
		"email": {strings.TrimSpace(email)},
		"phone": {strings.TrimSpace(phone)},
	}
	body, err := s.c.do(ctx, request{method: http.MethodGet, path: "/seller/check", query: q})
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var found models.Seller
	if err := decodeOptional(http.MethodGet, "/seller/check", body, &found); err != nil {
		return nil, err
	}
	if found.SellerID == 0 {
		return nil, nil
	}
	return &found, nil
}

// Add registers a new seller.
func (s *Sellers) Add(ctx context.Context, seller *models.Seller) (*models.Seller, error) {
	var out models.Seller
	if err := s.c.sendJSON(ctx, http.MethodPost, "/seller/add", nil, seller, &out); err != nil {
		return nil, err
	}
	if out.SellerID == 0 {
		return nil, &TransportError{Method: http.MethodPost, Path: "/seller/add", StatusCode: http.StatusOK, Err: fmt.Errorf("response carries no sellerId")}
	}
	return &out, nil
}

// Upsert returns the existing seller for (email, phone) or creates one.
// Running it twice for the same pair never creates a second seller.
func (s *Sellers) Upsert(ctx context.Context, seller *models.Seller) (*models.Seller, error) {
	existing, err := s.FindByEmailPhone(ctx, seller.Email, seller.Phone)
	if err != nil {
		return nil, fmt.Errorf("seller lookup failed: %w", err)
	}
	if existing != nil {
		log.Printf("Reusing seller %d for %s", existing.SellerID, seller.Email)
		return existing, nil
	}
	created, err := s.Add(ctx, seller)
	if err != nil {
		return nil, fmt.Errorf("seller create failed: %w", err)
	}
	return created, nil
}
