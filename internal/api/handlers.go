package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shiftcore/workforce/internal/errs"
	"github.com/shiftcore/workforce/internal/middleware"
	"github.com/shiftcore/workforce/internal/models"
	"github.com/shiftcore/workforce/internal/reqctx"
)

// handlers holds the Services bundle every per-domain handler method
// closes over. A thin struct rather than bare functions so handler
// methods can share small helpers (loadPolicy, paramUUID, bindJSON).
type handlers struct {
	svc *Services
}

func mustReqCtx(c *gin.Context) (reqctx.Context, bool) {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "AUTH_REQUIRED", "message": "missing request context"})
		return reqctx.Context{}, false
	}
	return rc, true
}

func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, errs.WithField(errs.Validation, "INVALID_ID", name, "must be a UUID"))
		return uuid.UUID{}, false
	}
	return id, true
}

func bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		respondError(c, errs.WithField(errs.Validation, "INVALID_BODY", "body", err.Error()))
		return false
	}
	return true
}

func optionalBranchID(c *gin.Context) *uuid.UUID {
	raw := c.Query("branch_id")
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

func queryRange(c *gin.Context) (from, to time.Time, ok bool) {
	f, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		respondError(c, errs.WithField(errs.Validation, "INVALID_FROM", "from", "must be an RFC3339 timestamp"))
		return time.Time{}, time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		respondError(c, errs.WithField(errs.Validation, "INVALID_TO", "to", "must be an RFC3339 timestamp"))
		return time.Time{}, time.Time{}, false
	}
	return f, t, true
}

// loadPolicy fetches the caller's org policy, falling back to the
// documented defaults: policy thresholds are per-org-configurable but
// every org works correctly without ever configuring one.
func (h *handlers) loadPolicy(ctx context.Context, rc reqctx.Context) (models.WorkforcePolicy, error) {
	var policy models.WorkforcePolicy
	err := h.svc.Store.Tx(ctx).Where("org_id = ?", rc.OrgID).First(&policy).Error
	if err == nil {
		return policy, nil
	}
	if err == gorm.ErrRecordNotFound {
		return *models.DefaultWorkforcePolicy(rc.OrgID), nil
	}
	return models.WorkforcePolicy{}, err
}
