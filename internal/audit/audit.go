/*
Package audit implements the append-only action log: every
state-changing operation writes one AuditLogEntry in the same
transaction as its mutation, tagged with a closed ActionCode enum
covering every mutating action in the workforce core.
*/
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shiftcore/workforce/internal/models"
)

// Record appends one audit entry. Callers pass the same *gorm.DB (tx)
// their mutation ran on so the write commits or rolls back with it.
func Record(ctx context.Context, tx *gorm.DB, orgID, actorID uuid.UUID, action models.ActionCode, entityType string, entityID uuid.UUID, payload interface{}, now time.Time) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	entry := models.AuditLogEntry{
		OrgID:      orgID,
		ActorID:    actorID,
		ActionCode: action,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    datatypes.JSON(raw),
		OccurredAt: now,
	}
	return tx.WithContext(ctx).Create(&entry).Error
}

// Query is the filter set audit reads accept: entity-type, entity-id,
// actor-id, action-code, and time range, with stable pagination.
type Query struct {
	OrgID      uuid.UUID
	EntityType string
	EntityID   *uuid.UUID
	ActorID    *uuid.UUID
	ActionCode models.ActionCode
	From, To   *time.Time
	Limit      int
	Offset     int
}

// List returns matching entries ordered by (occurred_at asc, id asc)
// for stable pagination.
func List(ctx context.Context, db *gorm.DB, q Query) ([]models.AuditLogEntry, error) {
	tx := db.WithContext(ctx).Where("org_id = ?", q.OrgID)
	if q.EntityType != "" {
		tx = tx.Where("entity_type = ?", q.EntityType)
	}
	if q.EntityID != nil {
		tx = tx.Where("entity_id = ?", *q.EntityID)
	}
	if q.ActorID != nil {
		tx = tx.Where("actor_id = ?", *q.ActorID)
	}
	if q.ActionCode != "" {
		tx = tx.Where("action_code = ?", q.ActionCode)
	}
	if q.From != nil {
		tx = tx.Where("occurred_at >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("occurred_at <= ?", *q.To)
	}
	limit := q.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []models.AuditLogEntry
	err := tx.Order("occurred_at ASC, id ASC").Limit(limit).Offset(q.Offset).Find(&out).Error
	return out, err
}
