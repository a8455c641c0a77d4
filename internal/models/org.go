package models

import "github.com/google/uuid"

// Organization is the tenant root. Every other entity in the system is
// scoped by OrgID; branches subdivide an organization but own nothing
// directly - they only scope queries.
type Organization struct {
	BaseModel
	Name string `gorm:"size:200;not null" json:"name"`
}

func (Organization) TableName() string { return "organizations" }

// Branch is a subdivision of an Organization (a restaurant location).
type Branch struct {
	BaseModel
	OrgID uuid.UUID `gorm:"type:text;not null;index" json:"org_id"`
	Name  string    `gorm:"size:200;not null" json:"name"`
}

func (Branch) TableName() string { return "branches" }
