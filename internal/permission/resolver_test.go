package permission

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/securegate/admin-portal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	rows  map[string][]models.RoleMenuPermission
	err   error
	calls []string
}

func (f *fakeStore) RoleMenuPermissions(ctx context.Context, roleCode string) ([]models.RoleMenuPermission, error) {
	f.calls = append(f.calls, roleCode)
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[roleCode], nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[string][]models.RoleMenuPermission{
		"VIEWER": {
			{RoleCode: "VIEWER", MenuPath: "/compliance/checklists", Category: "Compliance", PageLabel: "Checklists", CanRead: true},
			{RoleCode: "VIEWER", MenuPath: "/security/education", Category: "Security", PageLabel: "Education", CanRead: true},
		},
		"MANAGER": {
			{RoleCode: "MANAGER", MenuPath: "/compliance/checklists", Category: "Compliance (mgr)", PageLabel: "Checklist admin", CanRead: true, CanCreate: true, CanUpdate: true},
			{RoleCode: "MANAGER", MenuPath: "/admin/users", Category: "Admin", PageLabel: "Users", CanRead: true, CanExport: true},
		},
	}}
}

func TestResolve_MergesFlagsWithOr(t *testing.T) {
	store := newFakeStore()
	resolver := NewResolver(store)

	set, err := resolver.Resolve(context.Background(), []string{"VIEWER", "MANAGER"})
	require.NoError(t, err)

	assert.Len(t, set, 3)

	checklists := set["/compliance/checklists"]
	assert.True(t, checklists.Read)
	assert.True(t, checklists.Create)
	assert.True(t, checklists.Update)
	assert.False(t, checklists.Delete)

	// Informational fields come from the first role holding the path
	assert.Equal(t, "Compliance", checklists.Category)
	assert.Equal(t, "Checklists", checklists.PageLabel)

	assert.True(t, set.Allows("/admin/users", Export))
	assert.False(t, set.Allows("/admin/users", Delete))
}

func TestResolve_UnseenPathIsAbsent(t *testing.T) {
	resolver := NewResolver(newFakeStore())

	set, err := resolver.Resolve(context.Background(), []string{"VIEWER"})
	require.NoError(t, err)

	_, ok := set["/admin/users"]
	assert.False(t, ok, "menu paths no role holds must be absent")
	assert.False(t, set.Allows("/admin/users", Read))
}

func TestResolve_EmptyRoleSet(t *testing.T) {
	store := newFakeStore()
	resolver := NewResolver(store)

	_, err := resolver.Resolve(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoRoles)

	_, err = resolver.Resolve(context.Background(), []string{"", ""})
	assert.ErrorIs(t, err, ErrNoRoles)
	assert.Empty(t, store.calls)
}

func TestResolve_DeduplicatesRoles(t *testing.T) {
	store := newFakeStore()
	resolver := NewResolver(store)

	_, err := resolver.Resolve(context.Background(), []string{"VIEWER", "VIEWER", "MANAGER"})
	require.NoError(t, err)
	assert.Equal(t, []string{"VIEWER", "MANAGER"}, store.calls)
}

func TestResolve_StoreError(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("connection reset")

	_, err := NewResolver(store).Resolve(context.Background(), []string{"VIEWER"})
	assert.ErrorContains(t, err, "connection reset")
}

func randomRows(rng *rand.Rand, role string) []models.RoleMenuPermission {
	paths := []string{"/a", "/b", "/c", "/d", "/e"}
	var rows []models.RoleMenuPermission
	for _, p := range paths {
		if rng.Intn(2) == 0 {
			continue
		}
		rows = append(rows, models.RoleMenuPermission{
			RoleCode:  role,
			MenuPath:  p,
			CanRead:   rng.Intn(2) == 0,
			CanCreate: rng.Intn(2) == 0,
			CanUpdate: rng.Intn(2) == 0,
			CanDelete: rng.Intn(2) == 0,
			CanExport: rng.Intn(2) == 0,
		})
	}
	return rows
}

func TestMerge_Monotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	actions := []Action{Read, Create, Update, Delete, Export}

	for i := 0; i < 200; i++ {
		r1 := randomRows(rng, "R1")
		r2 := randomRows(rng, "R2")

		base := Merge(r1)
		union := Merge(r1, r2)

		for path, p := range base {
			for _, a := range actions {
				if p.Allows(a) {
					assert.True(t, union.Allows(path, a), "flag %s on %s lost after union", a, path)
				}
			}
		}
	}
}

func TestMerge_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		rows := randomRows(rng, "R")
		assert.Equal(t, Merge(rows), Merge(rows, rows))
	}
}
