package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffective_UnionAcrossRoles(t *testing.T) {
	a := NewAssignments()
	a.AssignRole(1, 10)
	a.AssignRole(1, 20)
	a.AssignRole(2, 20)

	a.GrantPermission(10, "users.view")
	a.GrantPermission(10, "users.edit")
	a.GrantPermission(20, "users.view")
	a.GrantPermission(20, "projects.view")

	assert.Equal(t, []string{"projects.view", "users.edit", "users.view"}, a.Effective(1).Names())
	assert.Equal(t, []string{"projects.view", "users.view"}, a.Effective(2).Names())
	assert.Empty(t, a.Effective(3).Names())

	assert.True(t, a.HasPermission(1, "users.edit"))
	assert.False(t, a.HasPermission(2, "users.edit"))
	assert.False(t, a.HasPermission(3, "users.view"))
}

func TestEffective_RoleWithoutPermissions(t *testing.T) {
	a := NewAssignments()
	a.AssignRole(1, 10)

	assert.Empty(t, a.Effective(1))
}

func TestDiffIDs(t *testing.T) {
	tests := []struct {
		name       string
		current    []uint64
		desired    []uint64
		wantAdd    []uint64
		wantRemove []uint64
	}{
		{"identical", []uint64{1, 2}, []uint64{2, 1}, nil, nil},
		{"add only", []uint64{1}, []uint64{1, 3, 2}, []uint64{2, 3}, nil},
		{"remove only", []uint64{1, 2, 3}, []uint64{2}, nil, []uint64{1, 3}},
		{"replace all", []uint64{1, 2}, []uint64{3}, []uint64{3}, []uint64{1, 2}},
		{"duplicates collapse", []uint64{1}, []uint64{2, 2, 1}, []uint64{2}, nil},
		{"empty current", nil, []uint64{5}, []uint64{5}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			add, remove := DiffIDs(tt.current, tt.desired)
			assert.Equal(t, tt.wantAdd, add)
			assert.Equal(t, tt.wantRemove, remove)
		})
	}
}

// Applying the diff to the current set must yield exactly the desired set.
func TestDiffIDs_ApplyYieldsDesired(t *testing.T) {
	current := []uint64{1, 2, 3, 7}
	desired := []uint64{3, 4, 7, 9}

	add, remove := DiffIDs(current, desired)

	result := map[uint64]struct{}{}
	for _, id := range current {
		result[id] = struct{}{}
	}
	for _, id := range remove {
		delete(result, id)
	}
	for _, id := range add {
		result[id] = struct{}{}
	}

	require.Len(t, result, len(desired))
	for _, id := range desired {
		assert.Contains(t, result, id)
	}
}

func TestPrincipal_Can(t *testing.T) {
	p := Principal{UserID: 1, Permissions: NewPermissionSet("roles.view", "roles.view")}

	assert.True(t, p.Can("roles.view"))
	assert.False(t, p.Can("roles.delete"))
	assert.Len(t, p.Permissions, 1)
}
