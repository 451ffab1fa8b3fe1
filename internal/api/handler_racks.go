package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rackplan-backend/internal/model"
	"rackplan-backend/internal/slot"
	"rackplan-backend/internal/store"
)

type createRackRequest struct {
	Name      string  `json:"name" binding:"required"`
	Code      string  `json:"code"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Rotation  float64 `json:"rotation"`
	TotalU    int     `json:"totalU"`
	SortOrder int     `json:"sortOrder"`
}

// CreateRack handles POST /api/plans/{plan_id}/racks, the direct single-rack
// path next to the bulk one. Omitted dimensions fall back to the rack
// defaults.
func (h *Handler) CreateRack(c *gin.Context) {
	planID, err := strconv.ParseInt(c.Param("plan_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid plan ID"})
		return
	}
	var req createRackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rack := model.Rack{
		FloorPlanID: planID,
		Name:        req.Name,
		Code:        req.Code,
		X:           req.X,
		Y:           req.Y,
		Width:       req.Width,
		Height:      req.Height,
		Rotation:    req.Rotation,
		TotalU:      req.TotalU,
		SortOrder:   req.SortOrder,
	}
	if err := h.store.CreateRack(c.Request.Context(), &rack); err != nil {
		abortWithError(c, err)
		return
	}

	h.notifyPlanChanged(planID)
	c.JSON(http.StatusCreated, rack)
}

// UpdateRack handles PUT /api/racks/{rack_id} with a partial edit.
func (h *Handler) UpdateRack(c *gin.Context) {
	rackID, err := strconv.ParseInt(c.Param("rack_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid rack ID"})
		return
	}
	var edit store.RackEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	edit.ID = nil // path param wins

	rack, err := h.store.UpdateRack(c.Request.Context(), rackID, edit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.notifyPlanChanged(rack.FloorPlanID)
	c.JSON(http.StatusOK, rack)
}

// DeleteRack handles DELETE /api/racks/{rack_id}. Racks that still own
// equipment are refused.
func (h *Handler) DeleteRack(c *gin.Context) {
	rackID, err := strconv.ParseInt(c.Param("rack_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid rack ID"})
		return
	}
	var planID int64
	h.store.DB().Model(&model.Rack{}).Select("floor_plan_id").Where("id = ?", rackID).Scan(&planID)

	if err := h.store.DeleteRack(c.Request.Context(), rackID); err != nil {
		abortWithError(c, err)
		return
	}
	if planID != 0 {
		h.notifyPlanChanged(planID)
	}
	c.Status(http.StatusNoContent)
}

type rackEquipmentResponse struct {
	Rack           model.Rack      `json:"rack"`
	Equipment      []slot.Occupant `json:"equipment"`
	UsedU          int             `json:"usedU"`
	EquipmentCount int             `json:"equipmentCount"`
	FreeRanges     []slot.Range    `json:"freeRanges"`
}

// GetRackEquipment handles GET /api/racks/{rack_id}/equipment.
func (h *Handler) GetRackEquipment(c *gin.Context) {
	rackID, err := strconv.ParseInt(c.Param("rack_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid rack ID"})
		return
	}
	rack, occupants, err := h.store.RackOccupants(c.Request.Context(), rackID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rackEquipmentResponse{
		Rack:           *rack,
		Equipment:      occupants,
		UsedU:          slot.UsedU(occupants),
		EquipmentCount: len(occupants),
		FreeRanges:     slot.FreeRanges(rack.TotalU, occupants),
	})
}

// GetFreeRanges handles GET /api/racks/{rack_id}/free_ranges.
func (h *Handler) GetFreeRanges(c *gin.Context) {
	rackID, err := strconv.ParseInt(c.Param("rack_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid rack ID"})
		return
	}
	rack, occupants, err := h.store.RackOccupants(c.Request.Context(), rackID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"freeRanges": slot.FreeRanges(rack.TotalU, occupants)})
}
