package services

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/google/uuid"
	"github.com/securegate/admin-portal/internal/sequence"
	"github.com/securegate/admin-portal/internal/status"
	"github.com/securegate/admin-portal/models"
	"github.com/stretchr/testify/mock"
)

type MockAWSEmailClient struct {
	mock.Mock
}

type MockDirectoryStore struct {
	mock.Mock
}

type MockComplianceStore struct {
	mock.Mock
}

type MockAuditStore struct {
	mock.Mock
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockAWSEmailClient) SendEmail(ctx context.Context, input *sesv2.SendEmailInput, opts ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	args := m.Called(ctx, input, opts)
	out, _ := args.Get(0).(*sesv2.SendEmailOutput)
	return out, args.Error(1)
}

func (m *MockNotifier) Publish(event models.AuditLog) error {
	args := m.Called(event)
	return args.Error(0)
}

// Users

func (m *MockDirectoryStore) GetUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *MockDirectoryStore) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockDirectoryStore) CreateUser(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockDirectoryStore) UpdateUser(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockDirectoryStore) SetUserRoles(ctx context.Context, userID uuid.UUID, roles []string) error {
	args := m.Called(ctx, userID, roles)
	return args.Error(0)
}

func (m *MockDirectoryStore) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// Roles

func (m *MockDirectoryStore) GetRoles(ctx context.Context) ([]models.Role, error) {
	args := m.Called(ctx)
	roles, _ := args.Get(0).([]models.Role)
	return roles, args.Error(1)
}

func (m *MockDirectoryStore) GetRole(ctx context.Context, code string) (*models.Role, error) {
	args := m.Called(ctx, code)
	role, _ := args.Get(0).(*models.Role)
	return role, args.Error(1)
}

func (m *MockDirectoryStore) CreateRole(ctx context.Context, r *models.Role) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockDirectoryStore) UpdateRole(ctx context.Context, r *models.Role) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockDirectoryStore) DeleteRole(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockDirectoryStore) RoleMenuPermissions(ctx context.Context, roleCode string) ([]models.RoleMenuPermission, error) {
	args := m.Called(ctx, roleCode)
	perms, _ := args.Get(0).([]models.RoleMenuPermission)
	return perms, args.Error(1)
}

func (m *MockDirectoryStore) SetRolePermissions(ctx context.Context, roleCode string, perms []models.RoleMenuPermission) error {
	args := m.Called(ctx, roleCode, perms)
	return args.Error(0)
}

func (m *MockDirectoryStore) GetMenus(ctx context.Context) ([]models.Menu, error) {
	args := m.Called(ctx)
	menus, _ := args.Get(0).([]models.Menu)
	return menus, args.Error(1)
}

// Departments

func (m *MockDirectoryStore) GetDepartments(ctx context.Context) ([]models.Department, error) {
	args := m.Called(ctx)
	departments, _ := args.Get(0).([]models.Department)
	return departments, args.Error(1)
}

func (m *MockDirectoryStore) GetDepartment(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	args := m.Called(ctx, id)
	department, _ := args.Get(0).(*models.Department)
	return department, args.Error(1)
}

func (m *MockDirectoryStore) CreateDepartment(ctx context.Context, d *models.Department) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDirectoryStore) UpdateDepartment(ctx context.Context, d *models.Department) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDirectoryStore) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Checklists

func (m *MockComplianceStore) GetChecklists(ctx context.Context, filter models.ChecklistFilter) ([]models.Checklist, error) {
	args := m.Called(ctx, filter)
	checklists, _ := args.Get(0).([]models.Checklist)
	return checklists, args.Error(1)
}

func (m *MockComplianceStore) GetChecklist(ctx context.Context, id uuid.UUID) (*models.Checklist, error) {
	args := m.Called(ctx, id)
	checklist, _ := args.Get(0).(*models.Checklist)
	return checklist, args.Error(1)
}

func (m *MockComplianceStore) CreateChecklist(ctx context.Context, c *models.Checklist, gen *sequence.Generator) error {
	args := m.Called(ctx, c, gen)
	return args.Error(0)
}

func (m *MockComplianceStore) UpdateChecklist(ctx context.Context, c *models.Checklist) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockComplianceStore) ToggleChecklistStatus(ctx context.Context, id uuid.UUID, cycle status.Cycle) (*models.StatusChange, error) {
	args := m.Called(ctx, id, cycle)
	change, _ := args.Get(0).(*models.StatusChange)
	return change, args.Error(1)
}

func (m *MockComplianceStore) DeleteChecklist(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Educations

func (m *MockComplianceStore) GetEducations(ctx context.Context) ([]models.Education, error) {
	args := m.Called(ctx)
	educations, _ := args.Get(0).([]models.Education)
	return educations, args.Error(1)
}

func (m *MockComplianceStore) GetEducation(ctx context.Context, id uuid.UUID) (*models.Education, error) {
	args := m.Called(ctx, id)
	education, _ := args.Get(0).(*models.Education)
	return education, args.Error(1)
}

func (m *MockComplianceStore) CreateEducation(ctx context.Context, e *models.Education, gen *sequence.Generator) error {
	args := m.Called(ctx, e, gen)
	return args.Error(0)
}

func (m *MockComplianceStore) UpdateEducation(ctx context.Context, e *models.Education) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockComplianceStore) ToggleEducationStatus(ctx context.Context, id uuid.UUID, cycle status.Cycle) (*models.StatusChange, error) {
	args := m.Called(ctx, id, cycle)
	change, _ := args.Get(0).(*models.StatusChange)
	return change, args.Error(1)
}

func (m *MockComplianceStore) DeleteEducation(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Revisions

func (m *MockComplianceStore) GetRevisions(ctx context.Context) ([]models.Revision, error) {
	args := m.Called(ctx)
	revisions, _ := args.Get(0).([]models.Revision)
	return revisions, args.Error(1)
}

func (m *MockComplianceStore) CreateRevision(ctx context.Context, r *models.Revision, gen *sequence.Generator) error {
	args := m.Called(ctx, r, gen)
	return args.Error(0)
}

func (m *MockComplianceStore) DeleteRevision(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAuditStore) GetAuditLogs(ctx context.Context, entity string, limit int) ([]models.AuditLog, error) {
	args := m.Called(ctx, entity, limit)
	logs, _ := args.Get(0).([]models.AuditLog)
	return logs, args.Error(1)
}
