package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shiftcore/workforce/internal/errs"
	"github.com/shiftcore/workforce/internal/kiosk"
	"github.com/shiftcore/workforce/internal/models"
)

// registerPublicKioskRoutes wires the unauthenticated device-facing
// surface. Session/PIN checks stand in for bearer auth on this group.
func registerPublicKioskRoutes(rg *gin.RouterGroup, svc *Services) {
	h := &handlers{svc: svc}
	rg.POST("/:publicId/authenticate", h.kioskAuthenticate)
	rg.POST("/:publicId/heartbeat", h.kioskHeartbeat)
	rg.POST("/:publicId/events/batch", h.kioskEventsBatch)
	rg.POST("/:publicId/events/clock-in", h.kioskEvent(models.EventClockIn))
	rg.POST("/:publicId/events/clock-out", h.kioskEvent(models.EventClockOut))
	rg.POST("/:publicId/events/break/start", h.kioskEvent(models.EventBreakStart))
	rg.POST("/:publicId/events/break/end", h.kioskEvent(models.EventBreakEnd))
	rg.POST("/:publicId/events/status", h.kioskEvent(""))
}

type kioskAuthenticateRequest struct {
	Secret string `json:"secret" binding:"required"`
}

func (h *handlers) kioskAuthenticate(c *gin.Context) {
	var req kioskAuthenticateRequest
	if !bindJSON(c, &req) {
		return
	}
	session, device, err := h.svc.Kiosk.Authenticate(c.Request.Context(), c.Param("publicId"), req.Secret, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"sessionId": session.ID,
		"device": gin.H{
			"id":       device.ID,
			"name":     device.Name,
			"publicId": device.PublicID,
			"branch":   device.BranchID,
		},
	})
}

func (h *handlers) kioskHeartbeat(c *gin.Context) {
	sessionID, ok := sessionIDFromHeader(c)
	if !ok {
		return
	}
	if err := h.svc.Kiosk.Heartbeat(c.Request.Context(), sessionID, time.Now()); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"success": true})
}

type kioskEventRequest struct {
	Type           string    `json:"type"`
	IdempotencyKey string    `json:"idempotencyKey" binding:"required"`
	OccurredAt     time.Time `json:"occurredAt" binding:"required"`
	PIN            string    `json:"pin" binding:"required"`
}

func (h *handlers) kioskEventsBatch(c *gin.Context) {
	sessionID, ok := sessionIDFromHeader(c)
	if !ok {
		return
	}
	var body struct {
		BatchID string               `json:"batchId" binding:"required"`
		Events  []kioskEventRequest  `json:"events" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	policy, events := h.kioskBatchPolicy(c, sessionID, body.Events)
	if policy == nil {
		return
	}
	results, err := h.svc.Kiosk.ProcessBatch(c.Request.Context(), sessionID, body.BatchID, events,
		c.ClientIP(), policy.KioskSessionTimeoutMinutes, policy.KioskPINRateLimitPerMinute, policy.DailyOTThresholdMinutes, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"results": results})
}

// kioskEvent returns a handler for one of the fixed per-event public
// endpoints; an empty eventType means "status", a read-only query with
// no dispatched clock action.
func (h *handlers) kioskEvent(eventType models.KioskEventType) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := sessionIDFromHeader(c)
		if !ok {
			return
		}
		var body struct {
			PIN string `json:"pin" binding:"required"`
		}
		if !bindJSON(c, &body) {
			return
		}
		policy, err := h.kioskSessionPolicy(c.Request.Context(), sessionID)
		if err != nil {
			respondError(c, err)
			return
		}
		if eventType == "" {
			matched, lookupErr := h.kioskStatusLookup(c, sessionID, body.PIN)
			if lookupErr != nil {
				respondError(c, lookupErr)
				return
			}
			respondOK(c, matched)
			return
		}
		ev := kiosk.EventInput{Type: eventType, IdempotencyKey: c.GetHeader("X-Idempotency-Key"), OccurredAt: time.Now(), PIN: body.PIN}
		if ev.IdempotencyKey == "" {
			ev.IdempotencyKey = uuidlikeFallback(c)
		}
		result, err := h.svc.Kiosk.ProcessSingleEvent(c.Request.Context(), sessionID, ev, c.ClientIP(),
			policy.KioskSessionTimeoutMinutes, policy.KioskPINRateLimitPerMinute, policy.DailyOTThresholdMinutes, time.Now())
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, result)
	}
}

func sessionIDFromHeader(c *gin.Context) (sessionID uuid.UUID, ok bool) {
	raw := c.GetHeader("X-Kiosk-Session")
	if raw == "" {
		respondError(c, errs.WithField(errs.Auth, "MISSING_SESSION", "X-Kiosk-Session", "kiosk session header is required"))
		return sessionID, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(c, errs.WithField(errs.Auth, "INVALID_SESSION", "X-Kiosk-Session", "must be a UUID"))
		return sessionID, false
	}
	return id, true
}

// kioskSessionPolicy resolves the org policy for the session's device,
// so per-event endpoints can pass the same thresholds the batch path
// uses without re-deriving the device here.
func (h *handlers) kioskSessionPolicy(ctx context.Context, sessionID uuid.UUID) (models.WorkforcePolicy, error) {
	var sess models.KioskDeviceSession
	if err := h.svc.Store.Tx(ctx).First(&sess, "id = ?", sessionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.WorkforcePolicy{}, errs.ErrNotFoundGeneric
		}
		return models.WorkforcePolicy{}, err
	}
	var policy models.WorkforcePolicy
	err := h.svc.Store.Tx(ctx).Where("org_id = ?", sess.OrgID).First(&policy).Error
	if err == nil {
		return policy, nil
	}
	if err == gorm.ErrRecordNotFound {
		return *models.DefaultWorkforcePolicy(sess.OrgID), nil
	}
	return models.WorkforcePolicy{}, err
}

func (h *handlers) kioskBatchPolicy(c *gin.Context, sessionID uuid.UUID, in []kioskEventRequest) (*models.WorkforcePolicy, []kiosk.EventInput) {
	policy, err := h.kioskSessionPolicy(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return nil, nil
	}
	events := make([]kiosk.EventInput, 0, len(in))
	for _, e := range in {
		events = append(events, kiosk.EventInput{
			Type:           models.KioskEventType(e.Type),
			IdempotencyKey: e.IdempotencyKey,
			OccurredAt:     e.OccurredAt,
			PIN:            e.PIN,
		})
	}
	return &policy, events
}

// kioskStatusLookup is the read-only "status" per-event endpoint: it
// verifies the PIN but performs no clock action.
func (h *handlers) kioskStatusLookup(c *gin.Context, sessionID uuid.UUID, pin string) (interface{}, error) {
	var sess models.KioskDeviceSession
	if err := h.svc.Store.Tx(c.Request.Context()).First(&sess, "id = ?", sessionID).Error; err != nil {
		return nil, err
	}
	matched, err := kiosk.PINLookup(c.Request.Context(), h.svc.Store.Tx(c.Request.Context()), sess.OrgID, pin)
	if err != nil {
		return nil, err
	}
	if matched == nil {
		return nil, errs.New(errs.Auth, "INVALID_PIN", "no user matched this PIN")
	}
	return gin.H{"userId": matched.ID, "fullName": matched.FullName}, nil
}

func uuidlikeFallback(c *gin.Context) string {
	return c.GetHeader("X-Request-Id")
}
