package service

import (
	"fmt"
	"sort"
	"strings"
)

func (p Permission) Valid() bool {
	switch p {
	case PermissionNone, PermissionList, PermissionView, PermissionAudit, PermissionPolicyAdmin, PermissionAdmin:
		return true
	}

	return false
}

// PrincipalsFromACL expands an acl into one principal per entry, ordered
// by name within each type.
func PrincipalsFromACL(acl *ACL) Principals {
	if acl == nil {
		return Principals{
			Users:  []Principal{},
			Groups: []Principal{},
			Roles:  []Principal{},
		}
	}

	return Principals{
		Users:  principalsOf(PrincipalTypeUser, acl.Users),
		Groups: principalsOf(PrincipalTypeGroup, acl.Groups),
		Roles:  principalsOf(PrincipalTypeRole, acl.Roles),
	}
}

func principalsOf(t PrincipalType, entries map[string]Permission) []Principal {
	out := make([]Principal, 0, len(entries))

	for name, perm := range entries {
		out = append(out, Principal{Name: name, Type: t, Perm: perm})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out
}

// ACL folds the principals back into the acl mapping. A principal listed
// twice keeps its last permission.
func (p Principals) ACL() *ACL {
	acl := &ACL{
		Users:  map[string]Permission{},
		Groups: map[string]Permission{},
		Roles:  map[string]Permission{},
	}

	for _, u := range p.Users {
		acl.Users[u.Name] = u.Perm
	}

	for _, g := range p.Groups {
		acl.Groups[g.Name] = g.Perm
	}

	for _, r := range p.Roles {
		acl.Roles[r.Name] = r.Perm
	}

	return acl
}

// Normalize trims names, sets the type from the list a principal is in and
// collapses duplicates, keeping the last permission.
func (p Principals) Normalize() Principals {
	return Principals{
		Users:  normalize(PrincipalTypeUser, p.Users),
		Groups: normalize(PrincipalTypeGroup, p.Groups),
		Roles:  normalize(PrincipalTypeRole, p.Roles),
	}
}

func normalize(t PrincipalType, in []Principal) []Principal {
	byName := map[string]Permission{}

	for _, principal := range in {
		byName[strings.TrimSpace(principal.Name)] = principal.Perm
	}

	return principalsOf(t, byName)
}

// Validate returns an error describing the first principal with an empty
// name or an unknown permission.
func (p Principals) Validate() error {
	for _, list := range [][]Principal{p.Users, p.Groups, p.Roles} {
		for _, principal := range list {
			if strings.TrimSpace(principal.Name) == "" {
				return fmt.Errorf("principal name is required")
			}

			if !principal.Perm.Valid() {
				return fmt.Errorf("principal %s: unknown permission %q", principal.Name, principal.Perm)
			}
		}
	}

	return nil
}

func (p Principals) Len() int {
	return len(p.Users) + len(p.Groups) + len(p.Roles)
}
