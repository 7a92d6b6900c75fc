package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
	"github.com/Hiltonrealtorsnm/frontend/internal/validation"
	"github.com/Hiltonrealtorsnm/frontend/internal/workflow"
)

const (
	maxUploadMemory = 32 << 20
	maxImages       = 20
)

// ISubmitter runs the form submissions.
type ISubmitter interface {
	SubmitListing(ctx context.Context, seller validation.SellerForm, listing validation.ListingForm, images []models.ImageFile) workflow.Result
	SubmitProject(ctx context.Context, form validation.ProjectForm, images []models.ImageFile) workflow.Result
	SendEnquiry(ctx context.Context, form validation.EnquiryForm) workflow.Result
	SaveProperty(ctx context.Context, id int64, p *models.Property) workflow.Result
}

// Submitters are the per-form submitters; each form has its own in-flight guard.
type Submitters struct {
	Listing  ISubmitter
	Project  ISubmitter
	Enquiry  ISubmitter
	Property ISubmitter
}

type SubmissionHandler struct {
	forms Submitters
}

func NewSubmissionHandler(forms Submitters) *SubmissionHandler {
	return &SubmissionHandler{forms: forms}
}

type resultResponse struct {
	workflow.Result
	Errors []validation.FieldError `json:"errors,omitempty"`
}

func writeResult(c *gin.Context, res workflow.Result) {
	status := http.StatusOK
	switch res.Outcome {
	case workflow.OutcomeSucceeded:
		status = http.StatusCreated
	case workflow.OutcomeRejected:
		status = http.StatusUnprocessableEntity
	case workflow.OutcomeFailed:
		status = http.StatusBadGateway
	case workflow.OutcomePartial:
		status = http.StatusMultiStatus
	case workflow.OutcomeBusy:
		status = http.StatusConflict
	}
	resp := resultResponse{Result: res}
	if ve := validation.GetValidationErrors(res.Err); ve != nil {
		resp.Errors = ve.Errors
	}
	c.JSON(status, resp)
}

// decodePart reads a JSON form field of a multipart request.
func decodePart(c *gin.Context, field string, out interface{}) error {
	raw := c.PostForm(field)
	if raw == "" {
		return fmt.Errorf("missing form field %q", field)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("invalid form field %q: %w", field, err)
	}
	return nil
}

// readImages stages the uploaded files under field.
func readImages(c *gin.Context, field string) ([]models.ImageFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}
	headers := form.File[field]
	if len(headers) > maxImages {
		return nil, fmt.Errorf("at most %d images can be uploaded", maxImages)
	}
	files := make([]models.ImageFile, 0, len(headers))
	for _, fh := range headers {
		f, err := readImage(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func readImage(fh *multipart.FileHeader) (models.ImageFile, error) {
	src, err := fh.Open()
	if err != nil {
		return models.ImageFile{}, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return models.ImageFile{}, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}
	return models.ImageFile{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data}, nil
}

// SubmitListing handles POST /v1/listings (multipart: seller, listing, images).
func (h *SubmissionHandler) SubmitListing(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected a multipart form"})
		return
	}
	var seller validation.SellerForm
	var listing validation.ListingForm
	if err := decodePart(c, "seller", &seller); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := decodePart(c, "listing", &listing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	images, err := readImages(c, "images")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Printf("Submitting listing %q with %d images", listing.Title, len(images))
	writeResult(c, h.forms.Listing.SubmitListing(c.Request.Context(), seller, listing, images))
}

// SubmitProject handles POST /v1/admin/projects (multipart: project, images).
func (h *SubmissionHandler) SubmitProject(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected a multipart form"})
		return
	}
	var form validation.ProjectForm
	if err := decodePart(c, "project", &form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	images, err := readImages(c, "images")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	writeResult(c, h.forms.Project.SubmitProject(c.Request.Context(), form, images))
}

// SendEnquiry handles POST /v1/enquiries
func (h *SubmissionHandler) SendEnquiry(c *gin.Context) {
	var form validation.EnquiryForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	writeResult(c, h.forms.Enquiry.SendEnquiry(c.Request.Context(), form))
}

// SaveProperty handles PUT /v1/admin/properties/:id
func (h *SubmissionHandler) SaveProperty(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}
	var p models.Property
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	writeResult(c, h.forms.Property.SaveProperty(c.Request.Context(), id, &p))
}
