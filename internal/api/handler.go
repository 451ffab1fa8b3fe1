package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"rackplan-backend/internal/editor"
	"rackplan-backend/internal/model"
	"rackplan-backend/internal/notification"
	"rackplan-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	sessions *editor.SessionManager
	pool     *notification.WorkerPool
	webpush  *webpush.Options
}

// NewHandler creates a new API handler. pool and webpushOptions may be nil
// when push notifications are not configured.
func NewHandler(s store.Store, sessions *editor.SessionManager, pool *notification.WorkerPool, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:    s,
		sessions: sessions,
		pool:     pool,
		webpush:  webpushOptions,
	}
}

// notifyPlanUpdate queues a push notification for a committed plan mutation.
func (h *Handler) notifyPlanUpdate(floorPlanID, version int64) {
	if h.pool == nil {
		return
	}
	h.pool.Dispatch(notification.PlanUpdate{FloorPlanID: floorPlanID, Version: version})
}

// notifyPlanChanged is notifyPlanUpdate for the single-entity paths, which
// bump the version inside the store; the fresh value is read back here.
func (h *Handler) notifyPlanChanged(floorPlanID int64) {
	if h.pool == nil {
		return
	}
	var version int64
	if err := h.store.DB().Model(&model.FloorPlan{}).
		Select("version").Where("id = ?", floorPlanID).
		Scan(&version).Error; err != nil {
		return
	}
	h.pool.Dispatch(notification.PlanUpdate{FloorPlanID: floorPlanID, Version: version})
}
