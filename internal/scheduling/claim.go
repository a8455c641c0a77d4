package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shiftcore/workforce/internal/audit"
	"github.com/shiftcore/workforce/internal/errs"
	"github.com/shiftcore/workforce/internal/models"
	"github.com/shiftcore/workforce/internal/models/enums"
	"github.com/shiftcore/workforce/internal/reqctx"
)

// Claim files a PENDING bid on an open shift. Any role L1+ may claim;
// no conflict check happens at claim time - conflicts are only
// enforced when a claim is approved.
func (sv *Service) Claim(ctx context.Context, rc reqctx.Context, shiftID uuid.UUID, now time.Time) (*models.OpenShiftClaim, error) {
	var claim *models.OpenShiftClaim
	err := sv.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		var shift models.ScheduledShift
		if err := tx.WithContext(ctx).First(&shift, "id = ?", shiftID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.ErrNotFoundGeneric
			}
			return err
		}
		if shift.OrgID != rc.OrgID {
			return errs.ErrCrossOrg
		}
		if !shift.IsOpen {
			return errs.New(errs.StateConflict, "SHIFT_NOT_OPEN", "shift is not open for claims")
		}
		c := models.OpenShiftClaim{
			OrgID:  rc.OrgID,
			ShiftID: shiftID,
			UserID: rc.UserID,
			Status: models.ClaimPending,
		}
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		claim = &c
		return nil
	})
	return claim, err
}

// ApproveClaim runs the layered conflict check for the claimant;
// on success it atomically assigns the shift, closes it, approves the
// chosen claim, and rejects every other pending claim on it, all in
// one transaction so two approvals can never both win the same shift.
func (sv *Service) ApproveClaim(ctx context.Context, rc reqctx.Context, claimID uuid.UUID, now time.Time) (*models.OpenShiftClaim, error) {
	if !rc.RequireRole(enums.RoleManager) {
		return nil, errs.New(errs.Forbidden, "INSUFFICIENT_ROLE", "approving claims requires manager role or above")
	}

	var approved *models.OpenShiftClaim
	err := sv.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		var claim models.OpenShiftClaim
		if err := tx.WithContext(ctx).First(&claim, "id = ?", claimID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.ErrNotFoundGeneric
			}
			return err
		}
		if claim.OrgID != rc.OrgID {
			return errs.ErrCrossOrg
		}
		if claim.Status != models.ClaimPending {
			return errs.Newf(errs.StateConflict, "CLAIM_NOT_PENDING", "claim is in state %s", claim.Status)
		}

		var shift models.ScheduledShift
		if err := tx.WithContext(ctx).First(&shift, "id = ?", claim.ShiftID).Error; err != nil {
			return err
		}

		if err := sv.LayeredCheck(ctx, tx, rc.OrgID, shift.BranchID, claim.UserID, shift.StartAt, shift.EndAt, nil); err != nil {
			return err
		}

		shift.UserID = &claim.UserID
		shift.IsOpen = false
		if err := tx.Save(&shift).Error; err != nil {
			return err
		}

		claim.Status = models.ClaimApproved
		claim.DecidedByID = &rc.UserID
		claim.DecidedAt = &now
		if err := tx.Save(&claim).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.OpenShiftClaim{}).
			Where("shift_id = ? AND id <> ? AND status = ?", shift.ID, claim.ID, models.ClaimPending).
			Updates(map[string]interface{}{
				"status":        models.ClaimRejected,
				"decided_by_id": rc.UserID,
				"decided_at":    now,
			}).Error; err != nil {
			return err
		}

		if err := audit.Record(ctx, tx, rc.OrgID, rc.UserID, models.ActionClaimApproved, "open_shift_claim", claim.ID, claim, now); err != nil {
			return err
		}
		approved = &claim
		return nil
	})
	return approved, err
}

// RejectClaim (manager) or Withdraw (claimant) both keep the shift open.
func (sv *Service) RejectClaim(ctx context.Context, rc reqctx.Context, claimID uuid.UUID, now time.Time) error {
	return sv.decideNonAward(ctx, rc, claimID, now, models.ClaimRejected, models.ActionClaimRejected, enums.RoleManager)
}

func (sv *Service) WithdrawClaim(ctx context.Context, rc reqctx.Context, claimID uuid.UUID, now time.Time) error {
	return sv.decideNonAward(ctx, rc, claimID, now, models.ClaimWithdrawn, "", enums.RoleStaff)
}

func (sv *Service) decideNonAward(ctx context.Context, rc reqctx.Context, claimID uuid.UUID, now time.Time, toStatus models.ClaimStatus, action models.ActionCode, minRole enums.RoleLevel) error {
	if !rc.RequireRole(minRole) {
		return errs.New(errs.Forbidden, "INSUFFICIENT_ROLE", "insufficient role level for this action")
	}
	return sv.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		var claim models.OpenShiftClaim
		if err := tx.WithContext(ctx).First(&claim, "id = ?", claimID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.ErrNotFoundGeneric
			}
			return err
		}
		if claim.OrgID != rc.OrgID {
			return errs.ErrCrossOrg
		}
		if toStatus == models.ClaimWithdrawn && claim.UserID != rc.UserID {
			return errs.New(errs.Forbidden, "NOT_CLAIMANT", "only the claimant may withdraw their own claim")
		}
		if claim.Status != models.ClaimPending {
			return errs.Newf(errs.StateConflict, "CLAIM_NOT_PENDING", "claim is in state %s", claim.Status)
		}
		claim.Status = toStatus
		claim.DecidedByID = &rc.UserID
		claim.DecidedAt = &now
		if err := tx.Save(&claim).Error; err != nil {
			return err
		}
		if action != "" {
			if err := audit.Record(ctx, tx, rc.OrgID, rc.UserID, action, "open_shift_claim", claim.ID, claim, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// SwapValidation validates a two-sided swap: each party's shift must
// clear the layered conflict check against the other's window,
// excluding its own outgoing shift. All errors accumulate; the caller
// only executes the swap if both sides are clear.
type SwapValidation struct {
	RequesterErr error
	TargetErr    error
}

func (v SwapValidation) OK() bool { return v.RequesterErr == nil && v.TargetErr == nil }

func (sv *Service) ValidateSwap(ctx context.Context, tx *gorm.DB, orgID uuid.UUID, requesterID uuid.UUID, requesterShift models.ScheduledShift, targetID uuid.UUID, targetShift models.ScheduledShift) SwapValidation {
	var v SwapValidation
	v.RequesterErr = sv.LayeredCheck(ctx, tx, orgID, targetShift.BranchID, requesterID, targetShift.StartAt, targetShift.EndAt, []uuid.UUID{requesterShift.ID})
	v.TargetErr = sv.LayeredCheck(ctx, tx, orgID, requesterShift.BranchID, targetID, requesterShift.StartAt, requesterShift.EndAt, []uuid.UUID{targetShift.ID})
	return v
}

// ExecuteSwap performs the validated two-sided shift exchange
// atomically: both shifts' UserID fields are swapped in one
// transaction, or neither is.
func (sv *Service) ExecuteSwap(ctx context.Context, rc reqctx.Context, requesterShiftID, targetShiftID uuid.UUID, now time.Time) error {
	return sv.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		var requesterShift, targetShift models.ScheduledShift
		if err := tx.WithContext(ctx).First(&requesterShift, "id = ?", requesterShiftID).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).First(&targetShift, "id = ?", targetShiftID).Error; err != nil {
			return err
		}
		if requesterShift.OrgID != rc.OrgID || targetShift.OrgID != rc.OrgID {
			return errs.ErrCrossOrg
		}
		if requesterShift.UserID == nil || targetShift.UserID == nil {
			return errs.New(errs.Validation, "SWAP_REQUIRES_ASSIGNED_SHIFTS", "both shifts must already be assigned")
		}

		v := sv.ValidateSwap(ctx, tx, rc.OrgID, *requesterShift.UserID, requesterShift, *targetShift.UserID, targetShift)
		if !v.OK() {
			if v.RequesterErr != nil {
				return v.RequesterErr
			}
			return v.TargetErr
		}

		requesterUser, targetUser := *requesterShift.UserID, *targetShift.UserID
		requesterShift.UserID = &targetUser
		targetShift.UserID = &requesterUser
		if err := tx.Save(&requesterShift).Error; err != nil {
			return err
		}
		if err := tx.Save(&targetShift).Error; err != nil {
			return err
		}
		return audit.Record(ctx, tx, rc.OrgID, rc.UserID, models.ActionSwapExecuted, "scheduled_shift", requesterShift.ID, map[string]interface{}{
			"requester_shift": requesterShiftID,
			"target_shift":    targetShiftID,
		}, now)
	})
}
