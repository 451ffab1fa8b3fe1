package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"rackplan-backend/internal/model"
	"rackplan-backend/internal/store"
)

type placeEquipmentRequest struct {
	Name       string         `json:"name" binding:"required"`
	StartU     int            `json:"startU" binding:"required"`
	HeightU    int            `json:"heightU" binding:"required"`
	Attributes datatypes.JSON `json:"attributes,omitempty"`
}

// PlaceEquipment handles POST /api/racks/{rack_id}/equipment. The placement
// is validated against the rack's occupants before anything is written.
func (h *Handler) PlaceEquipment(c *gin.Context) {
	rackID, err := strconv.ParseInt(c.Param("rack_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid rack ID"})
		return
	}
	var req placeEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eq := model.Equipment{
		Name:       req.Name,
		StartU:     req.StartU,
		HeightU:    req.HeightU,
		Attributes: req.Attributes,
	}
	if err := h.store.PlaceEquipment(c.Request.Context(), rackID, &eq); err != nil {
		abortWithError(c, err)
		return
	}

	h.notifyRackChanged(rackID)
	c.JSON(http.StatusCreated, eq)
}

// UpdateEquipment handles PUT /api/equipment/{equipment_id}: rename, resize
// or re-place in one partial edit, the item itself excluded from the overlap
// check.
func (h *Handler) UpdateEquipment(c *gin.Context) {
	equipmentID, err := strconv.ParseInt(c.Param("equipment_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment ID"})
		return
	}
	var edit store.EquipmentEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eq, err := h.store.UpdateEquipment(c.Request.Context(), equipmentID, edit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.notifyRackChanged(eq.RackID)
	c.JSON(http.StatusOK, eq)
}

type moveEquipmentRequest struct {
	StartU int `json:"startU" binding:"required"`
}

// MoveEquipment handles POST /api/equipment/{equipment_id}/move: a new start
// slot at the current height.
func (h *Handler) MoveEquipment(c *gin.Context) {
	equipmentID, err := strconv.ParseInt(c.Param("equipment_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment ID"})
		return
	}
	var req moveEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eq, err := h.store.MoveEquipment(c.Request.Context(), equipmentID, req.StartU)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.notifyRackChanged(eq.RackID)
	c.JSON(http.StatusOK, eq)
}

// DeleteEquipment handles DELETE /api/equipment/{equipment_id}.
func (h *Handler) DeleteEquipment(c *gin.Context) {
	equipmentID, err := strconv.ParseInt(c.Param("equipment_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment ID"})
		return
	}

	var rackID int64
	h.store.DB().Model(&model.Equipment{}).Select("rack_id").Where("id = ?", equipmentID).Scan(&rackID)

	if err := h.store.DeleteEquipment(c.Request.Context(), equipmentID); err != nil {
		abortWithError(c, err)
		return
	}
	if rackID != 0 {
		h.notifyRackChanged(rackID)
	}
	c.Status(http.StatusNoContent)
}

// notifyRackChanged resolves a rack to its plan and queues the update push.
func (h *Handler) notifyRackChanged(rackID int64) {
	if h.pool == nil {
		return
	}
	var planID int64
	if err := h.store.DB().Model(&model.Rack{}).
		Select("floor_plan_id").Where("id = ?", rackID).
		Scan(&planID).Error; err != nil || planID == 0 {
		return
	}
	h.notifyPlanChanged(planID)
}
