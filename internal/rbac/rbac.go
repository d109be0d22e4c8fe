// Package rbac holds the access-control model: permission sets, the
// user -> role -> permission graph, and the set arithmetic behind
// sync-replace updates. It has no storage dependencies.
package rbac

import "sort"

// PermissionSet is a set of permission names.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from names, collapsing duplicates.
func NewPermissionSet(names ...string) PermissionSet {
	set := make(PermissionSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func (s PermissionSet) Add(name string) {
	s[name] = struct{}{}
}

func (s PermissionSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Union adds every name of other into s.
func (s PermissionSet) Union(other PermissionSet) {
	for name := range other {
		s[name] = struct{}{}
	}
}

// Names returns the names in ascending order.
func (s PermissionSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Assignments is the explicit access-control graph for a set of users.
type Assignments struct {
	UserRoles       map[uint64]map[uint64]struct{}
	RolePermissions map[uint64]PermissionSet
}

// NewAssignments returns an empty graph.
func NewAssignments() Assignments {
	return Assignments{
		UserRoles:       make(map[uint64]map[uint64]struct{}),
		RolePermissions: make(map[uint64]PermissionSet),
	}
}

// AssignRole records that userID holds roleID.
func (a Assignments) AssignRole(userID, roleID uint64) {
	roles, ok := a.UserRoles[userID]
	if !ok {
		roles = make(map[uint64]struct{})
		a.UserRoles[userID] = roles
	}
	roles[roleID] = struct{}{}
}

// GrantPermission records that roleID carries the named permission.
func (a Assignments) GrantPermission(roleID uint64, name string) {
	perms, ok := a.RolePermissions[roleID]
	if !ok {
		perms = make(PermissionSet)
		a.RolePermissions[roleID] = perms
	}
	perms.Add(name)
}

// Effective returns the union of permissions over every role of userID.
func (a Assignments) Effective(userID uint64) PermissionSet {
	effective := make(PermissionSet)
	for roleID := range a.UserRoles[userID] {
		effective.Union(a.RolePermissions[roleID])
	}
	return effective
}

// HasPermission reports whether userID reaches name through any role.
func (a Assignments) HasPermission(userID uint64, name string) bool {
	for roleID := range a.UserRoles[userID] {
		if a.RolePermissions[roleID].Has(name) {
			return true
		}
	}
	return false
}

// DiffIDs computes what a sync-replace must do to turn current into desired.
// Both results are in ascending order.
func DiffIDs(current, desired []uint64) (toAdd, toRemove []uint64) {
	currentSet := make(map[uint64]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}
	desiredSet := make(map[uint64]struct{}, len(desired))
	for _, id := range desired {
		desiredSet[id] = struct{}{}
	}

	for id := range desiredSet {
		if _, ok := currentSet[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for id := range currentSet {
		if _, ok := desiredSet[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}

	sort.Slice(toAdd, func(i, j int) bool { return toAdd[i] < toAdd[j] })
	sort.Slice(toRemove, func(i, j int) bool { return toRemove[i] < toRemove[j] })
	return toAdd, toRemove
}

// Principal is the authenticated caller of a request together with its
// effective permissions, resolved once per request.
type Principal struct {
	UserID      uint64
	Permissions PermissionSet
}

// Can reports whether the principal holds the named permission.
func (p Principal) Can(name string) bool {
	return p.Permissions.Has(name)
}
