/*
Package models - Compensation Models

==============================================================================
FILE: internal/models/compensation.go
==============================================================================

DESCRIPTION:
    CompensationComponent and CompensationProfile: a named, typed,
    enable-able payroll line item catalog, with values kept in
    shopspring/decimal rather than float64 so payroll arithmetic never
    rounds in binary floating point. "Scope" lets a component apply
    org-wide or be overridden per branch.

==============================================================================
*/
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ComponentType string

const (
	ComponentEarning        ComponentType = "EARNING"
	ComponentDeduction      ComponentType = "DEDUCTION"
	ComponentEmployerContrib ComponentType = "EMPLOYER_CONTRIB"
	ComponentTax            ComponentType = "TAX"
)

type ComponentCalc string

const (
	CalcFixed   ComponentCalc = "FIXED"
	CalcRate    ComponentCalc = "RATE"
	CalcPercent ComponentCalc = "PERCENT"
)

type ComponentScope string

const (
	ScopeOrg    ComponentScope = "ORG"
	ScopeBranch ComponentScope = "BRANCH"
)

// CompensationComponent is a named, typed payroll line item definition.
type CompensationComponent struct {
	BaseModel
	OrgID    uuid.UUID      `gorm:"type:text;not null;index" json:"org_id"`
	BranchID *uuid.UUID     `gorm:"type:text;index" json:"branch_id,omitempty"`
	Code     string         `gorm:"size:50;not null;index" json:"code"`
	Name     string         `gorm:"size:150;not null" json:"name"`
	Type     ComponentType  `gorm:"size:20;not null" json:"type"`
	Calc     ComponentCalc  `gorm:"size:10;not null" json:"calc"`
	Value    decimal.Decimal `gorm:"type:numeric;not null" json:"value"`
	// PreTax only applies to DEDUCTION components: the gross-to-net
	// calculation subtracts pre-tax deductions before computing taxes
	// and post-tax deductions after.
	PreTax  bool           `gorm:"default:false" json:"pre_tax"`
	Taxable bool           `gorm:"default:true" json:"taxable"`
	Enabled bool           `gorm:"default:true" json:"enabled"`
	Scope   ComponentScope `gorm:"size:10;not null;default:ORG" json:"scope"`
}

func (CompensationComponent) TableName() string { return "compensation_components" }

// CompensationProfile is a user's effective pay configuration for a date
// window. Invariant: exactly one profile effective on any given date;
// overlapping active windows are forbidden (enforced in the service
// layer via a store-level overlap check, since GORM cannot express an
// exclusion constraint portably across postgres/sqlite).
type CompensationProfile struct {
	BaseModel
	OrgID         uuid.UUID       `gorm:"type:text;not null;index:idx_comp_profile_user,priority:1" json:"org_id"`
	UserID        uuid.UUID       `gorm:"type:text;not null;index:idx_comp_profile_user,priority:2" json:"user_id"`
	HourlyRate    decimal.Decimal `gorm:"type:numeric;not null" json:"hourly_rate"`
	EffectiveFrom time.Time       `gorm:"type:date;not null" json:"effective_from"`
	EffectiveTo   *time.Time      `gorm:"type:date" json:"effective_to,omitempty"`
	// ComponentCodes lists which org/branch CompensationComponent codes
	// apply to this profile, stored as a JSON array.
	ComponentCodes datatypes.JSON `json:"component_codes"`
}

func (CompensationProfile) TableName() string { return "compensation_profiles" }
