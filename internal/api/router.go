package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"rackplan-backend/config"
	"rackplan-backend/internal/editor"
	"rackplan-backend/internal/mw"
	"rackplan-backend/internal/notification"
	"rackplan-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, sessions *editor.SessionManager, pool *notification.WorkerPool, webpushOptions *webpush.Options, serverCfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	db := s.DB()
	handler := NewHandler(s, sessions, pool, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(serverCfg.RateLimitPerSec), serverCfg.RateLimitBurst)

	cacheTTL := time.Duration(serverCfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Location hierarchy
		api.GET("/substations", caching, GetSubstations(db))
		api.POST("/substations", CreateSubstation(db))
		api.GET("/substations/:substation_id/floors", caching, GetFloors(db))
		api.POST("/substations/:substation_id/floors", CreateFloor(db))

		// Floor plans; plan reads are deliberately uncached so the version
		// counter is always fresh for editors.
		api.POST("/floors/:floor_id/plan", handler.CreateFloorPlan)
		api.GET("/plans/:plan_id", handler.GetFloorPlan)
		api.PUT("/plans/:plan_id/bulk", handler.BulkUpdate)
		api.GET("/plans/:plan_id/export", handler.ExportInventory)
		api.POST("/plans/:plan_id/racks", handler.CreateRack)

		// Racks and their slot space
		api.PUT("/racks/:rack_id", handler.UpdateRack)
		api.DELETE("/racks/:rack_id", handler.DeleteRack)
		api.GET("/racks/:rack_id/equipment", handler.GetRackEquipment)
		api.GET("/racks/:rack_id/free_ranges", handler.GetFreeRanges)
		api.POST("/racks/:rack_id/equipment", handler.PlaceEquipment)

		// Equipment
		api.PUT("/equipment/:equipment_id", handler.UpdateEquipment)
		api.POST("/equipment/:equipment_id/move", handler.MoveEquipment)
		api.DELETE("/equipment/:equipment_id", handler.DeleteEquipment)

		// Editor sessions (undo/redo)
		api.POST("/sessions", handler.OpenSession)
		api.POST("/sessions/:session_id/snapshots", handler.PushSnapshot)
		api.POST("/sessions/:session_id/undo", handler.Undo)
		api.POST("/sessions/:session_id/redo", handler.Redo)
		api.DELETE("/sessions/:session_id", handler.CloseSession)

		// Push subscriptions
		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
