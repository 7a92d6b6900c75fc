package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
	"github.com/Hiltonrealtorsnm/frontend/internal/remote"
	"github.com/Hiltonrealtorsnm/frontend/internal/retry"
	"github.com/Hiltonrealtorsnm/frontend/internal/validation"
)

const (
	RoutePropertyList = "properties"

	msgListingSubmitted = "Property submitted successfully!"
	msgListingFailed    = "Something went wrong while submitting."
	msgImagesFailed     = "Property was submitted, but its images could not be uploaded. Please add them again from the listing."
	msgPropertyUpdated  = "Updated Successfully!"
	msgPropertyFailed   = "Update Failed"
)

var errNoListingID = errors.New("server did not return an ID for the new listing")

// SubmitListing validates the sell form, upserts the seller, creates the
// property and uploads the staged images, strictly in that order.
func (s *Submitter) SubmitListing(ctx context.Context, seller validation.SellerForm, listing validation.ListingForm, images []models.ImageFile) Result {
	if !s.acquire() {
		return busy()
	}
	defer s.release()

	res := Result{Step: StepValidate}
	if err := validation.ValidateListing(seller, listing); err != nil {
		return rejected(res, err)
	}
	res.Completed = append(res.Completed, StepValidate)

	res.Step = StepUpsertSeller
	sellerID, err := s.upsertSeller(ctx, seller.Seller())
	if err != nil {
		return failed(res, err, msgListingFailed)
	}
	res.SellerID = sellerID
	res.Completed = append(res.Completed, StepUpsertSeller)

	res.Step = StepCreateListing
	created, err := s.deps.Properties.Create(ctx, listing.Property(sellerID))
	if err == nil && created.PropertyID == 0 {
		err = errNoListingID
	}
	if err != nil {
		return failed(res, err, msgListingFailed)
	}
	res.ListingID = created.PropertyID
	res.Completed = append(res.Completed, StepCreateListing)

	if len(images) > 0 {
		res.Step = StepUploadImages
		if _, err := s.deps.Properties.UploadImages(ctx, res.ListingID, images); err != nil {
			return partial(res, StepCreateListing, err, msgImagesFailed)
		}
		res.Completed = append(res.Completed, StepUploadImages)
	}

	res.Step = StepDone
	res.Outcome = OutcomeSucceeded
	res.Message = msgListingSubmitted
	res.Route = RoutePropertyList
	s.navigate(res.Route)
	return res
}

// SaveProperty validates an admin edit and stores it.
func (s *Submitter) SaveProperty(ctx context.Context, id int64, p *models.Property) Result {
	if !s.acquire() {
		return busy()
	}
	defer s.release()

	res := Result{Step: StepValidate, ListingID: id}
	if err := validation.ValidatePropertyUpdate(p); err != nil {
		return rejected(res, err)
	}
	res.Completed = append(res.Completed, StepValidate)

	res.Step = StepUpdateListing
	if _, err := s.deps.Properties.Update(ctx, id, p); err != nil {
		return failed(res, err, msgPropertyFailed)
	}
	res.Completed = append(res.Completed, StepUpdateListing)

	res.Step = StepDone
	res.Outcome = OutcomeSucceeded
	res.Message = msgPropertyUpdated
	res.Route = fmt.Sprintf("admin/property/%d", id)
	s.navigate(res.Route)
	return res
}

// upsertSeller retries transient transport failures. Upsert looks the seller
// up by (email, phone) first, so repeating it never creates a duplicate.
func (s *Submitter) upsertSeller(ctx context.Context, seller *models.Seller) (int64, error) {
	var sellerID int64
	op := func() error {
		got, err := s.deps.Sellers.Upsert(ctx, seller)
		if err != nil {
			return err
		}
		if got == nil || got.SellerID == 0 {
			return errors.New("server did not return a seller ID")
		}
		sellerID = got.SellerID
		return nil
	}
	if err := retry.WithRetries(ctx, op, s.sellerRetries, isTransient); err != nil {
		return 0, err
	}
	return sellerID, nil
}

// isTransient is true for failures where nothing reached the server or the
// server itself failed.
func isTransient(err error) bool {
	var te *remote.TransportError
	if !errors.As(err, &te) {
		return false
	}
	retryable := te.StatusCode == 0 || te.StatusCode >= http.StatusInternalServerError
	if retryable {
		log.Printf("Transient failure, will retry: %v", err)
	}
	return retryable
}

func rejected(res Result, err error) Result {
	res.Outcome = OutcomeRejected
	res.Err = err
	if ve := validation.GetValidationErrors(err); ve != nil {
		res.Message = ve.First().Message
	} else {
		res.Message = err.Error()
	}
	return res
}

func failed(res Result, err error, msg string) Result {
	log.Printf("Submission failed at %s: %v", res.Step, err)
	res.Outcome = OutcomeFailed
	res.Err = fmt.Errorf("%s: %w", res.Step, err)
	res.Message = msg
	return res
}

func partial(res Result, completed Step, err error, msg string) Result {
	log.Printf("Submission of listing %d partially failed at %s: %v", res.ListingID, res.Step, err)
	res.Outcome = OutcomePartial
	res.Err = &PartialError{CompletedStep: completed, FailedStep: res.Step, ListingID: res.ListingID, Err: err}
	res.Message = msg
	return res
}
