package workflow

import (
	"context"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
	"github.com/Hiltonrealtorsnm/frontend/internal/validation"
)

const (
	RouteAdminProjects = "admin/projects"

	msgProjectCreated      = "Project created successfully!"
	msgProjectFailed       = "Failed to create project"
	msgProjectImagesFailed = "Project was created, but its images could not be uploaded."
)

// SubmitProject creates a project and uploads its images in one batch.
func (s *Submitter) SubmitProject(ctx context.Context, form validation.ProjectForm, images []models.ImageFile) Result {
	if !s.acquire() {
		return busy()
	}
	defer s.release()

	res := Result{Step: StepValidate}
	if err := validation.ValidateProject(form); err != nil {
		return rejected(res, err)
	}
	res.Completed = append(res.Completed, StepValidate)

	res.Step = StepCreateListing
	created, err := s.deps.Projects.Create(ctx, form.Project())
	if err == nil && created.ID == 0 {
		err = errNoListingID
	}
	if err != nil {
		return failed(res, err, msgProjectFailed)
	}
	res.ListingID = created.ID
	res.Completed = append(res.Completed, StepCreateListing)

	if len(images) > 0 {
		res.Step = StepUploadImages
		if err := s.deps.Projects.UploadImages(ctx, res.ListingID, images); err != nil {
			return partial(res, StepCreateListing, err, msgProjectImagesFailed)
		}
		res.Completed = append(res.Completed, StepUploadImages)
	}

	res.Step = StepDone
	res.Outcome = OutcomeSucceeded
	res.Message = msgProjectCreated
	res.Route = RouteAdminProjects
	s.navigate(res.Route)
	return res
}
