package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rackplan-backend/internal/model"
	"rackplan-backend/internal/slot"
	"rackplan-backend/internal/store"
)

type createFloorPlanRequest struct {
	Name            string  `json:"name" binding:"required"`
	CanvasWidth     *int    `json:"canvasWidth,omitempty"`
	CanvasHeight    *int    `json:"canvasHeight,omitempty"`
	GridSize        *int    `json:"gridSize,omitempty"`
	BackgroundColor *string `json:"backgroundColor,omitempty"`
}

// CreateFloorPlan handles POST /api/floors/{floor_id}/plan.
func (h *Handler) CreateFloorPlan(c *gin.Context) {
	floorID, err := strconv.ParseInt(c.Param("floor_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid floor ID"})
		return
	}
	var req createFloorPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan := model.FloorPlan{FloorID: floorID, Name: req.Name, Version: 1}
	if req.CanvasWidth != nil {
		plan.CanvasWidth = *req.CanvasWidth
	}
	if req.CanvasHeight != nil {
		plan.CanvasHeight = *req.CanvasHeight
	}
	if req.GridSize != nil {
		plan.GridSize = *req.GridSize
	}
	if req.BackgroundColor != nil {
		plan.BackgroundColor = *req.BackgroundColor
	}

	if err := h.store.CreateFloorPlan(c.Request.Context(), &plan); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// rackSummary decorates a rack with its derived slot usage.
type rackSummary struct {
	model.Rack
	UsedU          int          `json:"usedU"`
	EquipmentCount int          `json:"equipmentCount"`
	FreeRanges     []slot.Range `json:"freeRanges"`
}

type floorPlanResponse struct {
	model.FloorPlan
	Racks []rackSummary `json:"racks"`
}

// GetFloorPlan handles GET /api/plans/{plan_id}: the plan, its elements in
// paint order, and its racks with usage derived from equipment.
func (h *Handler) GetFloorPlan(c *gin.Context) {
	planID, err := strconv.ParseInt(c.Param("plan_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid plan ID"})
		return
	}

	plan, err := h.store.GetFloorPlan(c.Request.Context(), planID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	summaries := make([]rackSummary, 0, len(plan.Racks))
	for _, rack := range plan.Racks {
		_, occupants, err := h.store.RackOccupants(c.Request.Context(), rack.ID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		summaries = append(summaries, rackSummary{
			Rack:           rack,
			UsedU:          slot.UsedU(occupants),
			EquipmentCount: len(occupants),
			FreeRanges:     slot.FreeRanges(rack.TotalU, occupants),
		})
	}

	response := floorPlanResponse{FloorPlan: *plan, Racks: summaries}
	response.FloorPlan.Racks = nil
	c.JSON(http.StatusOK, response)
}

// BulkUpdate handles PUT /api/plans/{plan_id}/bulk: one atomic batch of
// edits, one version bump, one push notification on success.
func (h *Handler) BulkUpdate(c *gin.Context) {
	planID, err := strconv.ParseInt(c.Param("plan_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid plan ID"})
		return
	}
	var req store.BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.store.ApplyBulkUpdate(c.Request.Context(), planID, req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.notifyPlanUpdate(result.FloorPlanID, result.NewVersion)
	c.JSON(http.StatusOK, result)
}
