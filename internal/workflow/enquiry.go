package workflow

import (
	"context"

	"github.com/Hiltonrealtorsnm/frontend/internal/validation"
)

const (
	msgEnquirySent   = "Enquiry sent successfully!"
	msgEnquiryFailed = "Error sending enquiry. Please try again."
)

// SendEnquiry validates and posts a buyer enquiry. The view stays where it
// is, so there is no route.
func (s *Submitter) SendEnquiry(ctx context.Context, form validation.EnquiryForm) Result {
	if !s.acquire() {
		return busy()
	}
	defer s.release()

	res := Result{Step: StepValidate, ListingID: form.PropertyID}
	if err := validation.ValidateEnquiry(form); err != nil {
		return rejected(res, err)
	}
	res.Completed = append(res.Completed, StepValidate)

	res.Step = StepSendEnquiry
	if _, err := s.deps.Enquiries.Create(ctx, form.Enquiry()); err != nil {
		return failed(res, err, msgEnquiryFailed)
	}
	res.Completed = append(res.Completed, StepSendEnquiry)

	res.Step = StepDone
	res.Outcome = OutcomeSucceeded
	res.Message = msgEnquirySent
	return res
}
