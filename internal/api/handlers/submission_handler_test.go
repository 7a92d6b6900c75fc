package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Hiltonrealtorsnm/frontend/internal/models"
	"github.com/Hiltonrealtorsnm/frontend/internal/remote"
	"github.com/Hiltonrealtorsnm/frontend/internal/validation"
	"github.com/Hiltonrealtorsnm/frontend/internal/workflow"
)

// MockSubmitter implements ISubmitter
type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) SubmitListing(ctx context.Context, seller validation.SellerForm, listing validation.ListingForm, images []models.ImageFile) workflow.Result {
	return m.Called(ctx, seller, listing, images).Get(0).(workflow.Result)
}

func (m *MockSubmitter) SubmitProject(ctx context.Context, form validation.ProjectForm, images []models.ImageFile) workflow.Result {
	return m.Called(ctx, form, images).Get(0).(workflow.Result)
}

func (m *MockSubmitter) SendEnquiry(ctx context.Context, form validation.EnquiryForm) workflow.Result {
	return m.Called(ctx, form).Get(0).(workflow.Result)
}

func (m *MockSubmitter) SaveProperty(ctx context.Context, id int64, p *models.Property) workflow.Result {
	return m.Called(ctx, id, p).Get(0).(workflow.Result)
}

// MockSession implements ISession
type MockSession struct {
	mock.Mock
}

func (m *MockSession) Login(ctx context.Context, email, password string) error {
	return m.Called(ctx, email, password).Error(0)
}

func (m *MockSession) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockModeration implements IModeration
type MockModeration struct {
	mock.Mock
}

func (m *MockModeration) Approve(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockModeration) Reject(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockModeration) MarkSold(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockModeration) DeleteProperty(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockModeration) UpdateProjectStatus(ctx context.Context, id int64, status models.ProjectStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockModeration) DeleteProject(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockModeration) DeleteEnquiry(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockEnqueuer implements tasks.Enqueuer
type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

func perform(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSendEnquiry_OutcomeStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rejected := validation.Errors{Errors: []validation.FieldError{{Field: "phone", Message: "Phone is required"}}}
	tests := []struct {
		name       string
		result     workflow.Result
		wantStatus int
		wantBody   string
	}{
		{"succeeded", workflow.Result{Outcome: workflow.OutcomeSucceeded, Message: "Enquiry sent"}, http.StatusCreated, `"outcome":"succeeded"`},
		{"rejected", workflow.Result{Outcome: workflow.OutcomeRejected, Err: &rejected}, http.StatusUnprocessableEntity, `"field":"phone"`},
		{"failed", workflow.Result{Outcome: workflow.OutcomeFailed, Err: errors.New("boom")}, http.StatusBadGateway, `"outcome":"failed"`},
		{"partial", workflow.Result{Outcome: workflow.OutcomePartial, ListingID: 9}, http.StatusMultiStatus, `"listingId":9`},
		{"busy", workflow.Result{Outcome: workflow.OutcomeBusy}, http.StatusConflict, `"outcome":"busy"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sub := new(MockSubmitter)
			sub.On("SendEnquiry", mock.Anything, validation.EnquiryForm{BuyerName: "Ravi", PropertyID: 3}).Return(tc.result)
			h := NewSubmissionHandler(Submitters{Enquiry: sub})
			r := gin.New()
			r.POST("/v1/enquiries", h.SendEnquiry)

			w := perform(r, http.MethodPost, "/v1/enquiries", `{"buyerName":"Ravi","propertyId":3}`)
			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tc.wantBody)
			assert.NotContains(t, w.Body.String(), "boom")
			sub.AssertExpectations(t)
		})
	}
}

func TestSubmitListing_RequiresMultipart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSubmissionHandler(Submitters{Listing: new(MockSubmitter)})
	r := gin.New()
	r.POST("/v1/listings", h.SubmitListing)

	w := perform(r, http.MethodPost, "/v1/listings", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveProperty_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSubmissionHandler(Submitters{Property: new(MockSubmitter)})
	r := gin.New()
	r.PUT("/v1/admin/properties/:id", h.SaveProperty)

	w := perform(r, http.MethodPut, "/v1/admin/properties/zero", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestModerateProperty(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mod := new(MockModeration)
	mod.On("Approve", mock.Anything, int64(4)).Return(nil)
	mod.On("MarkSold", mock.Anything, int64(5)).Return(&remote.TransportError{Method: "PUT", Path: "/property/markSold/5", StatusCode: http.StatusNotFound, Err: errors.New("not found")})
	mod.On("Reject", mock.Anything, int64(6)).Return(&remote.TransportError{Method: "PUT", Path: "/property/reject/6", Err: errors.New("connection refused")})

	h := NewAdminHandler(new(MockSession), mod, new(MockEnqueuer))
	r := gin.New()
	r.POST("/v1/admin/properties/:id/:action", h.ModerateProperty)

	assert.Equal(t, http.StatusNoContent, perform(r, http.MethodPost, "/v1/admin/properties/4/approve", "").Code)
	assert.Equal(t, http.StatusNotFound, perform(r, http.MethodPost, "/v1/admin/properties/5/sold", "").Code)
	assert.Equal(t, http.StatusBadGateway, perform(r, http.MethodPost, "/v1/admin/properties/6/reject", "").Code)
	assert.Equal(t, http.StatusNotFound, perform(r, http.MethodPost, "/v1/admin/properties/6/archive", "").Code)
	mod.AssertExpectations(t)
}

func TestUpdateProjectStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mod := new(MockModeration)
	mod.On("UpdateProjectStatus", mock.Anything, int64(2), models.ProjectStatus("COMPLETED")).Return(nil)
	h := NewAdminHandler(new(MockSession), mod, new(MockEnqueuer))
	r := gin.New()
	r.PUT("/v1/admin/projects/:id/status", h.UpdateProjectStatus)

	assert.Equal(t, http.StatusNoContent, perform(r, http.MethodPut, "/v1/admin/projects/2/status", `{"status":"COMPLETED"}`).Code)
	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodPut, "/v1/admin/projects/2/status", `{"status":"DEMOLISHED"}`).Code)
	mod.AssertExpectations(t)
}

func TestLoginLogout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	session := new(MockSession)
	session.On("Login", mock.Anything, "admin@example.com", "right").Return(nil)
	session.On("Login", mock.Anything, "admin@example.com", "wrong").Return(errors.New("401"))
	session.On("Logout", mock.Anything).Return(nil)

	h := NewAdminHandler(session, new(MockModeration), new(MockEnqueuer))
	r := gin.New()
	r.POST("/v1/session", h.Login)
	r.DELETE("/v1/session", h.Logout)

	w := perform(r, http.MethodPost, "/v1/session", `{"email":"admin@example.com","password":"right"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"route":"admin/dashboard"}`, w.Body.String())

	w = perform(r, http.MethodPost, "/v1/session", `{"email":"admin@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(r, http.MethodPost, "/v1/session", `{"email":"admin@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodDelete, "/v1/session", "")
	assert.JSONEq(t, `{"route":"admin/login"}`, w.Body.String())
	session.AssertExpectations(t)
}

func TestEnqueueExport_UnknownResource(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAdminHandler(new(MockSession), new(MockModeration), new(MockEnqueuer))
	r := gin.New()
	r.POST("/v1/exports", h.EnqueueExport)

	w := perform(r, http.MethodPost, "/v1/exports", `{"resource":"sellers"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
