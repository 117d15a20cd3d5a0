package services

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/google/uuid"
	"github.com/securegate/admin-portal/api/middleware"
	"github.com/securegate/admin-portal/internal/appconfig"
	"github.com/securegate/admin-portal/internal/events"
	"github.com/securegate/admin-portal/internal/sequence"
	"github.com/securegate/admin-portal/internal/status"
	"github.com/securegate/admin-portal/models"
)

// DirectoryStore persists users, roles, departments and menu permissions.
type DirectoryStore interface {
	GetUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User) error
	SetUserRoles(ctx context.Context, userID uuid.UUID, roles []string) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error

	GetRoles(ctx context.Context) ([]models.Role, error)
	GetRole(ctx context.Context, code string) (*models.Role, error)
	CreateRole(ctx context.Context, r *models.Role) error
	UpdateRole(ctx context.Context, r *models.Role) error
	DeleteRole(ctx context.Context, code string) error
	RoleMenuPermissions(ctx context.Context, roleCode string) ([]models.RoleMenuPermission, error)
	SetRolePermissions(ctx context.Context, roleCode string, perms []models.RoleMenuPermission) error
	GetMenus(ctx context.Context) ([]models.Menu, error)

	GetDepartments(ctx context.Context) ([]models.Department, error)
	GetDepartment(ctx context.Context, id uuid.UUID) (*models.Department, error)
	CreateDepartment(ctx context.Context, d *models.Department) error
	UpdateDepartment(ctx context.Context, d *models.Department) error
	DeleteDepartment(ctx context.Context, id uuid.UUID) error
}

// ComplianceStore persists checklists, security educations and revisions.
type ComplianceStore interface {
	GetChecklists(ctx context.Context, filter models.ChecklistFilter) ([]models.Checklist, error)
	GetChecklist(ctx context.Context, id uuid.UUID) (*models.Checklist, error)
	CreateChecklist(ctx context.Context, c *models.Checklist, gen *sequence.Generator) error
	UpdateChecklist(ctx context.Context, c *models.Checklist) error
	ToggleChecklistStatus(ctx context.Context, id uuid.UUID, cycle status.Cycle) (*models.StatusChange, error)
	DeleteChecklist(ctx context.Context, id uuid.UUID) error

	GetEducations(ctx context.Context) ([]models.Education, error)
	GetEducation(ctx context.Context, id uuid.UUID) (*models.Education, error)
	CreateEducation(ctx context.Context, e *models.Education, gen *sequence.Generator) error
	UpdateEducation(ctx context.Context, e *models.Education) error
	ToggleEducationStatus(ctx context.Context, id uuid.UUID, cycle status.Cycle) (*models.StatusChange, error)
	DeleteEducation(ctx context.Context, id uuid.UUID) error

	GetRevisions(ctx context.Context) ([]models.Revision, error)
	CreateRevision(ctx context.Context, r *models.Revision, gen *sequence.Generator) error
	DeleteRevision(ctx context.Context, id uuid.UUID) error
}

// AuditStore reads the audit trail.
type AuditStore interface {
	GetAuditLogs(ctx context.Context, entity string, limit int) ([]models.AuditLog, error)
}

// AWSEmailClient is the subset of the SES client used for notifications.
type AWSEmailClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type DirectoryService struct {
	DB     DirectoryStore
	Events events.Notifier
}

type ComplianceService struct {
	DB             ComplianceStore
	Events         events.Notifier
	AWSEmailClient AWSEmailClient
	Config         *appconfig.Config
	ChecklistCodes *sequence.Generator
	EducationCodes *sequence.Generator
	RevisionCodes  *sequence.Generator
}

// NewComplianceService builds the code generators from the configured prefixes.
func NewComplianceService(db ComplianceStore, notifier events.Notifier, email AWSEmailClient, cfg *appconfig.Config) *ComplianceService {
	return &ComplianceService{
		DB:             db,
		Events:         notifier,
		AWSEmailClient: email,
		Config:         cfg,
		ChecklistCodes: sequence.NewGenerator(cfg.Codes.ChecklistPrefix, false),
		EducationCodes: sequence.NewGenerator(cfg.Codes.EducationPrefix, false),
		RevisionCodes:  sequence.NewGenerator(cfg.Codes.RevisionPrefix, true),
	}
}

type AuditService struct {
	DB AuditStore
}

type PermissionService struct {
	Guard *middleware.PermissionGuard
}
