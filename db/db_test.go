package db

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/securegate/admin-portal/internal/sequence"
	"github.com/securegate/admin-portal/internal/status"
	"github.com/securegate/admin-portal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*PortalDB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	logger := zerolog.Nop()
	p := NewPortalDBFromConn(conn, &logger)
	p.now = func() time.Time { return fixedNow }
	return p, mock
}

func q(s string) string {
	return regexp.QuoteMeta(s)
}

func TestGetUser_NotFound(t *testing.T) {
	p, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectQuery(q("FROM users u WHERE u.id = $1 AND u.is_active")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	u, err := p.GetUser(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUser(t *testing.T) {
	p, mock := newMockDB(t)
	id := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "username", "email", "full_name", "department_id", "is_active", "created_at", "updated_at", "roles"}).
		AddRow(id.String(), "jdoe", "jdoe@example.com", "Jane Doe", nil, true, fixedNow, fixedNow, "{ADMIN,AUDITOR}")
	mock.ExpectQuery(q("FROM users u WHERE u.id = $1")).WithArgs(id).WillReturnRows(rows)

	u, err := p.GetUser(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "jdoe", u.Username)
	assert.Nil(t, u.DepartmentID)
	assert.Equal(t, []string{"ADMIN", "AUDITOR"}, u.Roles)
}

func TestDeleteRole_DeactivatesGrantsInOneTransaction(t *testing.T) {
	p, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE roles SET is_active = FALSE WHERE code = $1 AND is_active")).
		WithArgs("AUDITOR").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("UPDATE user_roles SET is_active = FALSE WHERE role_code = $1")).
		WithArgs("AUDITOR").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(q("UPDATE role_menu_permissions SET is_active = FALSE WHERE role_code = $1")).
		WithArgs("AUDITOR").WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectCommit()

	require.NoError(t, p.DeleteRole(context.Background(), "AUDITOR"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRole_NotFoundRollsBack(t *testing.T) {
	p, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE roles SET is_active = FALSE")).
		WithArgs("GHOST").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := p.DeleteRole(context.Background(), "GHOST")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser_FailureRollsBack(t *testing.T) {
	p, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE users SET is_active = FALSE")).
		WithArgs(id, sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("UPDATE user_roles SET is_active = FALSE WHERE user_id = $1")).
		WithArgs(id).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := p.DeleteUser(context.Background(), id)
	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetUserRoles(t *testing.T) {
	p, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE users SET updated_at = $2")).WithArgs(id, fixedNow).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("UPDATE user_roles SET is_active = FALSE WHERE user_id = $1")).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(q("INSERT INTO user_roles")).WithArgs(id, "ADMIN").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("INSERT INTO user_roles")).WithArgs(id, "AUDITOR").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, p.SetUserRoles(context.Background(), id, []string{"ADMIN", "AUDITOR"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleMenuPermissions(t *testing.T) {
	p, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"role_code", "menu_path", "category", "page_label", "can_read", "can_create", "can_update", "can_delete", "can_export"}).
		AddRow("AUDITOR", "/admin/audit-logs", "Admin", "Audit Log", true, false, false, false, true)
	mock.ExpectQuery(q("FROM role_menu_permissions rmp")).WithArgs("AUDITOR").WillReturnRows(rows)

	perms, err := p.RoleMenuPermissions(context.Background(), "AUDITOR")
	require.NoError(t, err)
	require.Len(t, perms, 1)
	assert.Equal(t, "Audit Log", perms[0].PageLabel)
	assert.True(t, perms[0].CanExport)
	assert.False(t, perms[0].CanDelete)
}

func TestCreateRole_ActiveDuplicate(t *testing.T) {
	p, mock := newMockDB(t)

	mock.ExpectExec(q("INSERT INTO roles")).WillReturnResult(sqlmock.NewResult(0, 0))

	err := p.CreateRole(context.Background(), &models.Role{Code: "ADMIN", Name: "Admin"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestCreateDepartment_ReactivatesDeletedName(t *testing.T) {
	p, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectExec(q("UPDATE departments SET is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_active")).
		WithArgs(id, fixedNow).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(q("WHERE departments.is_active = FALSE")).
		WithArgs(sqlmock.AnyArg(), "Security", "", fixedNow, fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))

	require.NoError(t, p.DeleteDepartment(context.Background(), id))

	d := &models.Department{Name: "Security"}
	require.NoError(t, p.CreateDepartment(context.Background(), d))
	assert.Equal(t, id, d.ID)
	assert.True(t, d.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDepartment_ActiveDuplicate(t *testing.T) {
	p, mock := newMockDB(t)

	mock.ExpectQuery(q("INSERT INTO departments")).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := p.CreateDepartment(context.Background(), &models.Department{Name: "Security"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestCreateUser_ReactivatesDeletedUsername(t *testing.T) {
	p, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE users SET is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_active")).
		WithArgs(id, fixedNow).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("UPDATE user_roles SET is_active = FALSE WHERE user_id = $1")).
		WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery(q("WHERE users.is_active = FALSE")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))
	mock.ExpectExec(q("INSERT INTO user_roles")).
		WithArgs(id, "AUDITOR").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, p.DeleteUser(context.Background(), id))

	u := &models.User{Username: "jdoe", Roles: []string{"AUDITOR"}}
	require.NoError(t, p.CreateUser(context.Background(), u))
	assert.Equal(t, id, u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_ActiveDuplicateRollsBack(t *testing.T) {
	p, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q("INSERT INTO users")).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := p.CreateUser(context.Background(), &models.User{Username: "jdoe"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateChecklist_AssignsNextCodeUnderLock(t *testing.T) {
	p, mock := newMockDB(t)
	gen := sequence.NewGenerator("CL", false)

	mock.ExpectBegin()
	mock.ExpectExec(q("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("checklists:CL").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(q("SELECT code FROM checklists WHERE code LIKE $1")).
		WithArgs("CL-24-%").
		WillReturnRows(sqlmock.NewRows([]string{"code"}).AddRow("CL-24-001").AddRow("CL-24-002"))
	mock.ExpectExec(q("INSERT INTO checklists")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c := &models.Checklist{Title: "Quarterly access review", Status: "waiting"}
	require.NoError(t, p.CreateChecklist(context.Background(), c, gen))

	assert.Equal(t, "CL-24-003", c.Code)
	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.True(t, c.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRevision_CountsLegacyCodes(t *testing.T) {
	p, mock := newMockDB(t)
	gen := sequence.NewGenerator("REV", true)

	mock.ExpectBegin()
	mock.ExpectExec(q("pg_advisory_xact_lock")).WithArgs("revisions:REV").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(q("SELECT code FROM revisions WHERE code LIKE $1")).
		WithArgs("REV_24_%").
		WillReturnRows(sqlmock.NewRows([]string{"code"}).AddRow("REV_24_007").AddRow("REV-24-003"))
	mock.ExpectExec(q("INSERT INTO revisions")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := &models.Revision{DocumentTitle: "Access policy", Version: "2.1"}
	require.NoError(t, p.CreateRevision(context.Background(), r, gen))
	assert.Equal(t, "REV-24-008", r.Code)
	assert.Equal(t, fixedNow, r.RevisedAt)
}

func TestToggleChecklistStatus_EntersDone(t *testing.T) {
	p, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT status, progress, completed_at FROM checklists WHERE id = $1 AND is_active FOR UPDATE")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"status", "progress", "completed_at"}).AddRow("in_progress", 40, nil))
	mock.ExpectExec(q("UPDATE checklists SET status = $2, progress = $3, completed_at = $4")).
		WithArgs(id, "done", 100, fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	change, err := p.ToggleChecklistStatus(context.Background(), id, status.ChecklistCycle)
	require.NoError(t, err)
	require.NotNil(t, change)
	assert.Equal(t, "in_progress", change.From)
	assert.Equal(t, "done", change.To)
	assert.Equal(t, 100, change.Progress)
	require.NotNil(t, change.CompletedAt)
	assert.True(t, change.Completed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleChecklistStatus_UnknownState(t *testing.T) {
	p, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q("FOR UPDATE")).WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"status", "progress", "completed_at"}).AddRow("archived", 0, nil))
	mock.ExpectRollback()

	_, err := p.ToggleChecklistStatus(context.Background(), id, status.ChecklistCycle)
	var unknown *status.UnknownStateError
	assert.ErrorAs(t, err, &unknown)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleEducationStatus_NotFound(t *testing.T) {
	p, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM security_educations WHERE id = $1 AND is_active FOR UPDATE")).WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"status", "progress", "completed_at"}))
	mock.ExpectCommit()

	change, err := p.ToggleEducationStatus(context.Background(), id, status.EducationCycle)
	require.NoError(t, err)
	assert.Nil(t, change)
}

func TestDeleteChecklist_NotFound(t *testing.T) {
	p, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectExec(q("UPDATE checklists SET is_active = FALSE")).WithArgs(id, fixedNow).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, p.DeleteChecklist(context.Background(), id), ErrNotFound)
}

func TestGetChecklists_Filters(t *testing.T) {
	p, mock := newMockDB(t)
	dept := uuid.New()

	mock.ExpectQuery(q("FROM checklists WHERE is_active AND status = $1 AND department_id = $2")).
		WithArgs("done", dept).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	list, err := p.GetChecklists(context.Background(), models.ChecklistFilter{Status: "done", DepartmentID: &dept})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAuditLogs_ClampsLimit(t *testing.T) {
	p, mock := newMockDB(t)

	mock.ExpectQuery(q("FROM audit_logs")).WithArgs("", MaxAuditLimit).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err := p.GetAuditLogs(context.Background(), "", 5000)
	require.NoError(t, err)

	mock.ExpectQuery(q("FROM audit_logs")).WithArgs("role", DefaultAuditLimit).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = p.GetAuditLogs(context.Background(), "role", 0)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublish_WritesAuditRow(t *testing.T) {
	p, mock := newMockDB(t)

	mock.ExpectExec(q("INSERT INTO audit_logs")).
		WithArgs(sqlmock.AnyArg(), fixedNow, "jdoe", "checklist", "42", "status", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := p.Publish(models.AuditLog{Actor: "jdoe", Entity: "checklist", EntityID: "42", Action: "status"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
