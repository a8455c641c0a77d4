/*
Package models - User Model

==============================================================================
FILE: internal/models/user.go
==============================================================================

DESCRIPTION:
    A User belongs to exactly one organization, carries one role-level
    tier, and optionally a kiosk PIN hash (argon2id via
    internal/secrethash, never reversible - spec invariant on User).

==============================================================================
*/
package models

import "github.com/google/uuid"

// User represents a person who can authenticate into the workforce core,
// either at a kiosk terminal (PIN) or through the owning platform's own
// session layer (out of scope here - only role-level is consumed).
type User struct {
	BaseModel
	OrgID     uuid.UUID  `gorm:"type:text;not null;index:idx_users_org" json:"org_id"`
	BranchID  *uuid.UUID `gorm:"type:text;index" json:"branch_id,omitempty"`
	FullName  string     `gorm:"size:200;not null" json:"full_name"`
	Email     string     `gorm:"size:200;index" json:"email,omitempty"`
	RoleLevel int        `gorm:"not null;default:1" json:"role_level"`
	IsActive  bool       `gorm:"default:true;index" json:"is_active"`
	PinHash   string     `gorm:"size:200" json:"-"`
}

func (User) TableName() string { return "users" }
