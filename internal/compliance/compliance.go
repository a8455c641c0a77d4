/*
Package compliance implements the meal/rest break incident evaluator:
a per-time-entry pass that classifies breaks against policy and
idempotently creates the incidents they're missing.
*/
package compliance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shiftcore/workforce/internal/audit"
	"github.com/shiftcore/workforce/internal/errs"
	"github.com/shiftcore/workforce/internal/models"
	"github.com/shiftcore/workforce/internal/reqctx"
	"github.com/shiftcore/workforce/internal/store"
)

const (
	MaxRangeDays = 90
	// MealRestSplitMinutes classifies a break as a meal break at or
	// above this length, rest break below it.
	MealRestSplitMinutes = 20
)

type Service struct {
	store *store.Store
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// Summary is the evaluator's return shape.
type Summary struct {
	Evaluated        int
	IncidentsCreated int
	IncidentsSkipped int
	Errors           []string
}

// Evaluate scans completed time entries in [from, to] (optionally
// scoped to one branch), classifies their breaks, and creates any
// missing compliance incidents. Each entry is evaluated in its own
// transaction so one bad entry never aborts the rest of the range.
func (s *Service) Evaluate(ctx context.Context, rc reqctx.Context, branchID *uuid.UUID, from, to time.Time, now time.Time) (Summary, error) {
	if to.Before(from) {
		return Summary{}, errs.New(errs.Validation, "INVALID_RANGE", "range end must not precede range start")
	}
	if to.Sub(from) > MaxRangeDays*24*time.Hour {
		return Summary{}, errs.Newf(errs.Validation, "RANGE_TOO_LARGE", "range must not exceed %d days", MaxRangeDays)
	}

	var entries []models.TimeEntry
	q := s.store.Tx(ctx).
		Where("org_id = ? AND clock_out_at IS NOT NULL", rc.OrgID).
		Where("clock_in_at >= ? AND clock_in_at <= ?", from, to).
		Preload("Breaks").
		Order("id ASC")
	if branchID != nil {
		q = q.Where("branch_id = ?", *branchID)
	}
	if err := q.Find(&entries).Error; err != nil {
		return Summary{}, err
	}

	var policy models.WorkforcePolicy
	if err := s.store.Tx(ctx).Where("org_id = ?", rc.OrgID).First(&policy).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			policy = *models.DefaultWorkforcePolicy(rc.OrgID)
		} else {
			return Summary{}, err
		}
	}

	summary := Summary{Evaluated: len(entries)}
	for _, entry := range entries {
		created, skipped, err := s.evaluateEntry(ctx, rc, entry, policy, now)
		if err != nil {
			summary.Errors = append(summary.Errors, err.Error())
			continue
		}
		summary.IncidentsCreated += created
		summary.IncidentsSkipped += skipped
	}
	return summary, nil
}

func (s *Service) evaluateEntry(ctx context.Context, rc reqctx.Context, entry models.TimeEntry, policy models.WorkforcePolicy, now time.Time) (created, skipped int, err error) {
	durationMinutes := 0
	if entry.TotalMinutes != nil {
		durationMinutes = *entry.TotalMinutes
	} else if entry.ClockOutAt != nil {
		durationMinutes = int(entry.ClockOutAt.Sub(entry.ClockInAt).Minutes())
	}
	durationHours := float64(durationMinutes) / 60.0

	longestMeal, longestRest := 0, 0
	hasMeal, hasRest := false, false
	for _, b := range entry.Breaks {
		if b.Minutes == nil {
			continue
		}
		if *b.Minutes >= MealRestSplitMinutes {
			hasMeal = true
			if *b.Minutes > longestMeal {
				longestMeal = *b.Minutes
			}
		} else {
			hasRest = true
			if *b.Minutes > longestRest {
				longestRest = *b.Minutes
			}
		}
	}

	if durationHours >= policy.MealBreakRequiredAfterHours {
		switch {
		case !hasMeal:
			c, err := s.createIncident(ctx, rc, entry, models.MealBreakMissed, models.SeverityHigh, policy.MealBreakMinimumMinutes, now)
			if err != nil {
				return created, skipped, err
			}
			if c {
				created++
			} else {
				skipped++
			}
		case longestMeal < policy.MealBreakMinimumMinutes:
			c, err := s.createIncident(ctx, rc, entry, models.MealBreakShort, models.SeverityMedium, policy.MealBreakMinimumMinutes-longestMeal, now)
			if err != nil {
				return created, skipped, err
			}
			if c {
				created++
			} else {
				skipped++
			}
		}
	}

	if durationHours >= policy.RestBreakRequiredAfterHours {
		switch {
		case !hasRest:
			c, err := s.createIncident(ctx, rc, entry, models.RestBreakMissed, models.SeverityLow, policy.RestBreakMinimumMinutes, now)
			if err != nil {
				return created, skipped, err
			}
			if c {
				created++
			} else {
				skipped++
			}
		case longestRest < policy.RestBreakMinimumMinutes:
			c, err := s.createIncident(ctx, rc, entry, models.RestBreakShort, models.SeverityLow, policy.RestBreakMinimumMinutes-longestRest, now)
			if err != nil {
				return created, skipped, err
			}
			if c {
				created++
			} else {
				skipped++
			}
		}
	}

	return created, skipped, nil
}

// createIncident is idempotent on (org, time-entry, type): an existing
// row is counted as skipped rather than an error.
func (s *Service) createIncident(ctx context.Context, rc reqctx.Context, entry models.TimeEntry, incType models.IncidentType, severity models.IncidentSeverity, penaltyMinutes int, now time.Time) (bool, error) {
	created := false
	err := s.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		var existing models.ComplianceIncident
		err := tx.Where("org_id = ? AND time_entry_id = ? AND type = ?", rc.OrgID, entry.ID, incType).First(&existing).Error
		if err == nil {
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		incident := models.ComplianceIncident{
			OrgID:          rc.OrgID,
			BranchID:       entry.BranchID,
			UserID:         entry.UserID,
			TimeEntryID:    entry.ID,
			Type:           incType,
			Severity:       severity,
			IncidentDate:   entry.ClockInAt,
			PenaltyMinutes: penaltyMinutes,
		}
		if err := tx.Create(&incident).Error; err != nil {
			return err
		}
		if err := audit.Record(ctx, tx, rc.OrgID, rc.UserID, models.ActionComplianceIncident, "compliance_incident", incident.ID, incident, now); err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}
