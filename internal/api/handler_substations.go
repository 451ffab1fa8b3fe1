package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rackplan-backend/internal/model"
)

// SubstationResponse represents the API response for a single substation.
type SubstationResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	FloorCount int64  `json:"floorCount"`
}

// GetSubstations handles the GET /api/substations request.
func GetSubstations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var substations []model.Substation
		if err := db.Order("name").Find(&substations).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve substations"})
			return
		}

		type aggRow struct {
			SubstationID int64
			FloorCount   int64
		}
		var aggs []aggRow
		if err := db.
			Model(&model.Floor{}).
			Select("substation_id as substation_id, COUNT(*) as floor_count").
			Group("substation_id").
			Scan(&aggs).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate floors"})
			return
		}

		aggMap := make(map[int64]aggRow, len(aggs))
		for _, a := range aggs {
			aggMap[a.SubstationID] = a
		}

		responses := make([]SubstationResponse, 0, len(substations))
		for _, s := range substations {
			responses = append(responses, SubstationResponse{
				ID: s.ID, Name: s.Name, Address: s.Address,
				FloorCount: aggMap[s.ID].FloorCount,
			})
		}
		c.JSON(http.StatusOK, responses)
	}
}

type createSubstationRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// CreateSubstation handles the POST /api/substations request.
func CreateSubstation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createSubstationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		substation := model.Substation{Name: req.Name, Address: req.Address}
		if err := db.Create(&substation).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, substation)
	}
}

// GetFloors handles the GET /api/substations/{substation_id}/floors request.
func GetFloors(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		substationID, err := strconv.ParseInt(c.Param("substation_id"), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid substation ID"})
			return
		}
		var floors []model.Floor
		if err := db.Where("substation_id = ?", substationID).Order("level").Find(&floors).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve floors"})
			return
		}
		c.JSON(http.StatusOK, floors)
	}
}

type createFloorRequest struct {
	Name  string `json:"name" binding:"required"`
	Level int    `json:"level"`
}

// CreateFloor handles the POST /api/substations/{substation_id}/floors request.
func CreateFloor(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		substationID, err := strconv.ParseInt(c.Param("substation_id"), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid substation ID"})
			return
		}
		var req createFloorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var substation model.Substation
		if err := db.First(&substation, substationID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "substation not found"})
			} else {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		floor := model.Floor{SubstationID: substationID, Name: req.Name, Level: req.Level}
		if err := db.Create(&floor).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, floor)
	}
}
