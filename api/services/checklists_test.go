package services

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/securegate/admin-portal/internal/appconfig"
	"github.com/securegate/admin-portal/internal/sequence"
	"github.com/securegate/admin-portal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testConfig() *appconfig.Config {
	cfg := &appconfig.Config{}
	cfg.Codes.ChecklistPrefix = "CL"
	cfg.Codes.EducationPrefix = "EDU"
	cfg.Codes.RevisionPrefix = "REV"
	cfg.Notifications.SenderEmail = "portal@example.com"
	cfg.Notifications.ComplianceEmail = "compliance@example.com"
	return cfg
}

func TestNewComplianceService_Generators(t *testing.T) {
	svc := NewComplianceService(new(MockComplianceStore), nil, nil, testConfig())

	assert.Equal(t, "CL", svc.ChecklistCodes.Prefix)
	assert.Equal(t, "EDU", svc.EducationCodes.Prefix)
	assert.False(t, svc.EducationCodes.AcceptLegacy)
	assert.True(t, svc.RevisionCodes.AcceptLegacy)
}

func TestGetChecklistsService_Filters(t *testing.T) {
	mockDB := new(MockComplianceStore)
	deptID := uuid.New()
	mockDB.On("GetChecklists", mock.Anything, models.ChecklistFilter{Status: "done", DepartmentID: &deptID}).
		Return([]models.Checklist{{ID: uuid.New(), Code: "CL-24-001", Status: "done"}}, nil)

	svc := NewComplianceService(mockDB, nil, nil, testConfig())

	r := httptest.NewRequest(http.MethodGet, "/api/checklists?status=done&department="+deptID.String(), nil)
	w := httptest.NewRecorder()
	svc.GetChecklistsService(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope[[]models.Checklist](t, w)
	assert.Len(t, env.Data, 1)
	mockDB.AssertExpectations(t)
}

func TestGetChecklistsService_InvalidStatus(t *testing.T) {
	mockDB := new(MockComplianceStore)
	svc := NewComplianceService(mockDB, nil, nil, testConfig())

	r := httptest.NewRequest(http.MethodGet, "/api/checklists?status=archived", nil)
	w := httptest.NewRecorder()
	svc.GetChecklistsService(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockDB.AssertNotCalled(t, "GetChecklists", mock.Anything, mock.Anything)
}

func TestCreateChecklistService(t *testing.T) {
	mockDB := new(MockComplianceStore)
	notifier := new(MockNotifier)
	newID := uuid.New()

	svc := NewComplianceService(mockDB, notifier, nil, testConfig())

	mockDB.On("CreateChecklist", mock.Anything, mock.MatchedBy(func(c *models.Checklist) bool {
		return c.Title == "Access review" && c.Status == "waiting" && c.CompletedAt == nil && c.CreatedBy == "alice"
	}), svc.ChecklistCodes).Run(func(args mock.Arguments) {
		c := args.Get(1).(*models.Checklist)
		c.ID = newID
		c.Code = "CL-24-004"
	}).Return(nil)
	notifier.On("Publish", mock.MatchedBy(func(e models.AuditLog) bool {
		return e.Entity == "checklist" && e.Action == "create" && e.Details == "CL-24-004"
	})).Return(nil)

	r := withClaims(httptest.NewRequest(http.MethodPost, "/api/checklists",
		jsonBody(t, models.Checklist{Title: "Access review", Progress: 10})), "alice")
	w := httptest.NewRecorder()
	svc.CreateChecklistService(w, r)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope[models.Checklist](t, w)
	assert.Equal(t, "CL-24-004", env.Data.Code)
	assert.Equal(t, "waiting", env.Data.Status)

	mockDB.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCreateChecklistService_CreatedDone(t *testing.T) {
	mockDB := new(MockComplianceStore)
	svc := NewComplianceService(mockDB, nil, nil, testConfig())

	mockDB.On("CreateChecklist", mock.Anything, mock.MatchedBy(func(c *models.Checklist) bool {
		return c.Status == "done" && c.Progress == 100 && c.CompletedAt != nil
	}), mock.Anything).Return(nil)

	r := httptest.NewRequest(http.MethodPost, "/api/checklists",
		jsonBody(t, models.Checklist{Title: "Backup test", Status: "done", Progress: 40}))
	w := httptest.NewRecorder()
	svc.CreateChecklistService(w, r)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockDB.AssertExpectations(t)
}

func TestCreateChecklistService_Validation(t *testing.T) {
	tests := []struct {
		name    string
		payload models.Checklist
		message string
	}{
		{"missing title", models.Checklist{Title: "  "}, "required field missing: title"},
		{"progress too high", models.Checklist{Title: "x", Progress: 101}, "progress must be between 0 and 100"},
		{"negative progress", models.Checklist{Title: "x", Progress: -1}, "progress must be between 0 and 100"},
		{"unknown status", models.Checklist{Title: "x", Status: "archived"}, "invalid status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := new(MockComplianceStore)
			svc := NewComplianceService(mockDB, nil, nil, testConfig())

			r := httptest.NewRequest(http.MethodPost, "/api/checklists", jsonBody(t, tt.payload))
			w := httptest.NewRecorder()
			svc.CreateChecklistService(w, r)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			env := decodeEnvelope[any](t, w)
			assert.Equal(t, tt.message, env.Error)
			mockDB.AssertNotCalled(t, "CreateChecklist", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func toggleRequest(id uuid.UUID) *http.Request {
	r := httptest.NewRequest(http.MethodPut, "/api/checklists/"+id.String()+"/status", nil)
	r = withClaims(r, "alice")
	return mux.SetURLVars(r, map[string]string{"checklist-id": id.String()})
}

func TestToggleChecklistStatusService_SendsEmailOnDone(t *testing.T) {
	mockDB := new(MockComplianceStore)
	notifier := new(MockNotifier)
	emailClient := new(MockAWSEmailClient)
	id := uuid.New()
	completed := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

	mockDB.On("ToggleChecklistStatus", mock.Anything, id, mock.Anything).
		Return(&models.StatusChange{ID: id, From: "in_progress", To: "done", Progress: 100, CompletedAt: &completed, Completed: true}, nil)
	mockDB.On("GetChecklist", mock.Anything, id).
		Return(&models.Checklist{ID: id, Code: "CL-24-002", Title: "Patch servers", Status: "done"}, nil)
	notifier.On("Publish", mock.MatchedBy(func(e models.AuditLog) bool {
		return e.Action == "status" && e.Details == "in_progress -> done"
	})).Return(nil)
	emailClient.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).
		Return(&sesv2.SendEmailOutput{}, nil)

	svc := NewComplianceService(mockDB, notifier, emailClient, testConfig())

	w := httptest.NewRecorder()
	svc.ToggleChecklistStatusService(w, toggleRequest(id))

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope[models.StatusChange](t, w)
	assert.Equal(t, "done", env.Data.To)
	assert.Equal(t, 100, env.Data.Progress)

	emailClient.AssertCalled(t, "SendEmail", mock.Anything, mock.MatchedBy(func(input *sesv2.SendEmailInput) bool {
		return input.FromEmailAddress != nil && *input.FromEmailAddress == "portal@example.com" &&
			len(input.Destination.ToAddresses) == 1 &&
			input.Destination.ToAddresses[0] == "compliance@example.com"
	}), mock.Anything)
	mockDB.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestToggleChecklistStatusService_EmailFailureIgnored(t *testing.T) {
	mockDB := new(MockComplianceStore)
	emailClient := new(MockAWSEmailClient)
	id := uuid.New()

	mockDB.On("ToggleChecklistStatus", mock.Anything, id, mock.Anything).
		Return(&models.StatusChange{ID: id, From: "in_progress", To: "done", Progress: 100, Completed: true}, nil)
	mockDB.On("GetChecklist", mock.Anything, id).
		Return(&models.Checklist{ID: id, Code: "CL-24-002", Title: "Patch servers"}, nil)
	emailClient.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &smithy.GenericAPIError{Code: "MessageRejected", Message: "Email address is not verified"})

	svc := NewComplianceService(mockDB, nil, emailClient, testConfig())

	w := httptest.NewRecorder()
	svc.ToggleChecklistStatusService(w, toggleRequest(id))

	assert.Equal(t, http.StatusOK, w.Code)
	emailClient.AssertExpectations(t)
}

func TestToggleChecklistStatusService_NoEmailWhenNotDone(t *testing.T) {
	mockDB := new(MockComplianceStore)
	emailClient := new(MockAWSEmailClient)
	id := uuid.New()

	mockDB.On("ToggleChecklistStatus", mock.Anything, id, mock.Anything).
		Return(&models.StatusChange{ID: id, From: "done", To: "hold", Progress: 100}, nil)

	svc := NewComplianceService(mockDB, nil, emailClient, testConfig())

	w := httptest.NewRecorder()
	svc.ToggleChecklistStatusService(w, toggleRequest(id))

	assert.Equal(t, http.StatusOK, w.Code)
	emailClient.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleChecklistStatusService_NotFound(t *testing.T) {
	mockDB := new(MockComplianceStore)
	id := uuid.New()
	mockDB.On("ToggleChecklistStatus", mock.Anything, id, mock.Anything).Return(nil, nil)

	svc := NewComplianceService(mockDB, nil, nil, testConfig())

	w := httptest.NewRecorder()
	svc.ToggleChecklistStatusService(w, toggleRequest(id))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleChecklistStatusService_StoreError(t *testing.T) {
	mockDB := new(MockComplianceStore)
	id := uuid.New()
	mockDB.On("ToggleChecklistStatus", mock.Anything, id, mock.Anything).Return(nil, errors.New("connection reset"))

	svc := NewComplianceService(mockDB, nil, nil, testConfig())

	w := httptest.NewRecorder()
	svc.ToggleChecklistStatusService(w, toggleRequest(id))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCreateRevisionService(t *testing.T) {
	mockDB := new(MockComplianceStore)
	svc := NewComplianceService(mockDB, nil, nil, testConfig())

	mockDB.On("CreateRevision", mock.Anything, mock.MatchedBy(func(r *models.Revision) bool {
		return r.DocumentTitle == "Security policy" && r.RevisedBy == "alice"
	}), mock.MatchedBy(func(g *sequence.Generator) bool {
		return g.Prefix == "REV" && g.AcceptLegacy
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Revision).Code = "REV-24-008"
	}).Return(nil)

	r := withClaims(httptest.NewRequest(http.MethodPost, "/api/revisions",
		jsonBody(t, models.Revision{DocumentTitle: "Security policy", Version: "2.1"})), "alice")
	w := httptest.NewRecorder()
	svc.CreateRevisionService(w, r)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope[models.Revision](t, w)
	assert.Equal(t, "REV-24-008", env.Data.Code)
	mockDB.AssertExpectations(t)
}

func TestCreateRevisionService_MissingTitle(t *testing.T) {
	svc := NewComplianceService(new(MockComplianceStore), nil, nil, testConfig())

	r := httptest.NewRequest(http.MethodPost, "/api/revisions", jsonBody(t, models.Revision{Version: "1"}))
	w := httptest.NewRecorder()
	svc.CreateRevisionService(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateEducationService_NegativeAttendees(t *testing.T) {
	mockDB := new(MockComplianceStore)
	svc := NewComplianceService(mockDB, nil, nil, testConfig())

	r := httptest.NewRequest(http.MethodPost, "/api/educations",
		jsonBody(t, models.Education{Title: "Phishing drill", AttendeeCount: -3}))
	w := httptest.NewRecorder()
	svc.CreateEducationService(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockDB.AssertNotCalled(t, "CreateEducation", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleEducationStatusService(t *testing.T) {
	mockDB := new(MockComplianceStore)
	id := uuid.New()
	mockDB.On("ToggleEducationStatus", mock.Anything, id, mock.Anything).
		Return(&models.StatusChange{ID: id, From: "scheduled", To: "ongoing"}, nil)

	svc := NewComplianceService(mockDB, nil, nil, testConfig())

	r := httptest.NewRequest(http.MethodPut, "/api/educations/"+id.String()+"/status", nil)
	r = mux.SetURLVars(r, map[string]string{"education-id": id.String()})
	w := httptest.NewRecorder()
	svc.ToggleEducationStatusService(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope[models.StatusChange](t, w)
	assert.Equal(t, "ongoing", env.Data.To)
}

func TestGetAuditLogsService_ClampsLimit(t *testing.T) {
	mockDB := new(MockAuditStore)
	mockDB.On("GetAuditLogs", mock.Anything, "checklist", 1000).Return([]models.AuditLog{{Entity: "checklist"}}, nil)
	mockDB.On("GetAuditLogs", mock.Anything, "", 200).Return([]models.AuditLog{}, nil)

	svc := AuditService{DB: mockDB}

	w := httptest.NewRecorder()
	svc.GetAuditLogsService(w, httptest.NewRequest(http.MethodGet, "/api/audit-logs?entity=checklist&limit=5000", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	svc.GetAuditLogsService(w, httptest.NewRequest(http.MethodGet, "/api/audit-logs?limit=abc", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	mockDB.AssertExpectations(t)
}

func TestUpdateChecklistService_DeletedBeforeReload(t *testing.T) {
	mockDB := new(MockComplianceStore)
	id := uuid.New()
	mockDB.On("UpdateChecklist", mock.Anything, mock.Anything).Return(nil)
	mockDB.On("GetChecklist", mock.Anything, id).Return(nil, nil)

	svc := NewComplianceService(mockDB, nil, nil, testConfig())

	r := httptest.NewRequest(http.MethodPut, "/api/checklists/"+id.String(), jsonBody(t, models.Checklist{Title: "Access review", Progress: 10}))
	r = mux.SetURLVars(r, map[string]string{"checklist-id": id.String()})
	w := httptest.NewRecorder()
	svc.UpdateChecklistService(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockDB.AssertExpectations(t)
}
