// Package workflow runs the multi-step submissions of the marketplace:
// seller upsert, listing create and image upload, as one user action with a
// single outcome message.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
)

// Step names a stage of a submission.
type Step string

const (
	StepValidate      Step = "validate"
	StepUpsertSeller  Step = "upsert_seller"
	StepCreateListing Step = "create_listing"
	StepUpdateListing Step = "update_listing"
	StepUploadImages  Step = "upload_images"
	StepSendEnquiry   Step = "send_enquiry"
	StepDone          Step = "done"
)

// Outcome is what the user is told happened.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeRejected  Outcome = "rejected" // Invalid input, nothing was sent
	OutcomeFailed    Outcome = "failed"   // Nothing was created
	OutcomePartial   Outcome = "partial"  // The listing exists, its images do not
	OutcomeBusy      Outcome = "busy"     // Another submission is running
)

var ErrSubmissionInProgress = errors.New("a submission is already in progress")

// PartialError reports a submission that completed CompletedStep and then
// failed at FailedStep. The listing was created and still exists.
type PartialError struct {
	CompletedStep Step
	FailedStep    Step
	ListingID     int64
	Err           error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("listing %d created, %s failed: %v", e.ListingID, e.FailedStep, e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

// Result of one submission. Message is the one line shown to the user.
type Result struct {
	Outcome   Outcome `json:"outcome"`
	Step      Step    `json:"step"` // Last step reached
	Completed []Step  `json:"completed"`
	SellerID  int64   `json:"sellerId,omitempty"`
	ListingID int64   `json:"listingId,omitempty"`
	Message   string  `json:"message"`
	Route     string  `json:"route,omitempty"`
	Err       error   `json:"-"`
}

type SellerUpserter interface {
	Upsert(ctx context.Context, seller *models.Seller) (*models.Seller, error)
}

type PropertyWriter interface {
	Create(ctx context.Context, p *models.Property) (*models.Property, error)
	Update(ctx context.Context, id int64, p *models.Property) (*models.Property, error)
	UploadImages(ctx context.Context, propertyID int64, files []models.ImageFile) ([]models.Image, error)
}

type ProjectWriter interface {
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	UploadImages(ctx context.Context, projectID int64, files []models.ImageFile) error
}

type EnquirySender interface {
	Create(ctx context.Context, e *models.Enquiry) (*models.Enquiry, error)
}

// Navigator requests a view transition by logical route name.
type Navigator interface {
	Navigate(route string)
}

// Deps are the collaborators of a Submitter. Nil members disable the
// submissions that need them.
type Deps struct {
	Sellers    SellerUpserter
	Properties PropertyWriter
	Projects   ProjectWriter
	Enquiries  EnquirySender
	Navigator  Navigator
}

// Submitter runs submissions for one form. At most one runs at a time; a
// second call while one is in flight returns OutcomeBusy immediately.
type Submitter struct {
	deps          Deps
	sellerRetries int
	inFlight      atomic.Bool
}

func NewSubmitter(deps Deps, sellerRetries int) *Submitter {
	return &Submitter{deps: deps, sellerRetries: sellerRetries}
}

func (s *Submitter) acquire() bool {
	return s.inFlight.CompareAndSwap(false, true)
}

func (s *Submitter) release() {
	s.inFlight.Store(false)
}

func busy() Result {
	return Result{
		Outcome: OutcomeBusy,
		Message: "A submission is already in progress.",
		Err:     ErrSubmissionInProgress,
	}
}

func (s *Submitter) navigate(route string) {
	if s.deps.Navigator != nil && route != "" {
		s.deps.Navigator.Navigate(route)
	}
}
