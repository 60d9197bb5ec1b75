package rbac

import (
	"context"
	"slices"
	"strings"
)

// Policy maps admin roles to permission patterns. A pattern is an exact
// permission, a "resource:*" prefix, or "*".
type Policy map[string][]string

// NewPolicy returns p, or the default RolePermissions when p is nil.
func NewPolicy(p map[string][]string) Policy {
	if p == nil {
		return RolePermissions
	}
	return p
}

// Allows reports whether role holds perm.
func (p Policy) Allows(role, perm string) bool {
	return slices.ContainsFunc(p[role], func(pattern string) bool {
		return grants(pattern, perm)
	})
}

// AllowsAny reports whether role holds at least one of perms.
func (p Policy) AllowsAny(role string, perms ...string) bool {
	return slices.ContainsFunc(perms, func(perm string) bool { return p.Allows(role, perm) })
}

// AllowsAll reports whether role holds every perm.
func (p Policy) AllowsAll(role string, perms ...string) bool {
	for _, perm := range perms {
		if !p.Allows(role, perm) {
			return false
		}
	}
	return true
}

func grants(pattern, perm string) bool {
	if pattern == "*" || pattern == perm {
		return true
	}
	prefix, ok := strings.CutSuffix(pattern, "*")
	return ok && strings.HasPrefix(perm, prefix)
}

type roleKey struct{}

// WithRole stores the caller's admin role on ctx.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

// RoleFromContext returns the role stored by WithRole, or "".
func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleKey{}).(string)
	return role
}
