package models

import (
	id "treasury/pkg/domain"
	dErrors "treasury/pkg/domain-errors"
)

// Role names a governance capability. Administrators own the one-shot
// permanent activation, destination updates, role membership and the upgrade
// gate; governors own the phase transition and split scheduling.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleGovernor      Role = "governor"
)

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdministrator, RoleGovernor:
		return Role(s), nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown role %q", s)
}

// RoleSet tracks role memberships. Multiple principals may hold each role.
type RoleSet map[Role]map[id.PrincipalID]struct{}

// NewRoleSet builds a role set with the initial administrator and governor.
func NewRoleSet(admin, governor id.PrincipalID) RoleSet {
	rs := RoleSet{
		RoleAdministrator: {},
		RoleGovernor:      {},
	}
	if !admin.IsZero() {
		rs[RoleAdministrator][admin] = struct{}{}
	}
	if !governor.IsZero() {
		rs[RoleGovernor][governor] = struct{}{}
	}
	return rs
}

// Has reports whether the principal holds the role.
func (rs RoleSet) Has(role Role, principal id.PrincipalID) bool {
	members, ok := rs[role]
	if !ok {
		return false
	}
	_, ok = members[principal]
	return ok
}

// Grant adds the principal to the role. Idempotent.
func (rs RoleSet) Grant(role Role, principal id.PrincipalID) {
	if rs[role] == nil {
		rs[role] = make(map[id.PrincipalID]struct{})
	}
	rs[role][principal] = struct{}{}
}

// Revoke removes the principal from the role. Idempotent.
func (rs RoleSet) Revoke(role Role, principal id.PrincipalID) {
	delete(rs[role], principal)
}

// Members returns the principals holding the role.
func (rs RoleSet) Members(role Role) []id.PrincipalID {
	members := make([]id.PrincipalID, 0, len(rs[role]))
	for principal := range rs[role] {
		members = append(members, principal)
	}
	return members
}

// Clone deep-copies the role set so store snapshots cannot alias live state.
func (rs RoleSet) Clone() RoleSet {
	out := make(RoleSet, len(rs))
	for role, members := range rs {
		cp := make(map[id.PrincipalID]struct{}, len(members))
		for principal := range members {
			cp[principal] = struct{}{}
		}
		out[role] = cp
	}
	return out
}
