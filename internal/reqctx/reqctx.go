// Package reqctx defines the scoping context every domain operation
// receives: who is calling, at what org/branch, and at what role level.
// It has no transport dependency - the gin/jwt layer in internal/api
// builds one of these from a bearer token and passes it down; tests
// build one directly.
package reqctx

import (
	"github.com/google/uuid"

	"github.com/shiftcore/workforce/internal/models/enums"
)

// Context is the tenant/actor scope threaded through every service call.
// Every query a domain package issues is filtered by OrgID; cross-org
// access is a Forbidden error, never a NotFound, so a caller can never
// distinguish "doesn't exist" from "belongs to someone else".
type Context struct {
	OrgID     uuid.UUID
	UserID    uuid.UUID
	RoleLevel enums.RoleLevel
	BranchID  *uuid.UUID
}

// OwnsOrg is a panic-free check: callers compare c.OrgID to a resource's
// OrgID themselves: this helper just names the comparison.
func (c Context) OwnsOrg(orgID uuid.UUID) bool {
	return c.OrgID == orgID
}

// RequireRole reports whether the caller's level satisfies the gate.
func (c Context) RequireRole(required enums.RoleLevel) bool {
	return c.RoleLevel.Satisfies(required)
}
