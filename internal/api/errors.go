package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rackplan-backend/internal/editor"
	"rackplan-backend/internal/slot"
	"rackplan-backend/internal/store"
)

// abortWithError maps the core's typed errors onto HTTP statuses: missing
// entities 404, name/slot/version conflicts 409, impossible placements 422,
// caller mistakes 400, everything else 500.
func abortWithError(c *gin.Context, err error) {
	var (
		notFound        *store.NotFoundError
		nameConflict    *store.NameConflictError
		versionConflict *store.VersionConflictError
		slotConflict    *slot.ConflictError
		outOfRange      *slot.OutOfRangeError
	)

	switch {
	case errors.As(err, &notFound),
		errors.Is(err, editor.ErrSessionNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &nameConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":          err.Error(),
			"conflictName":   nameConflict.Name,
			"conflictRackId": nameConflict.RackID,
		})
	case errors.As(err, &versionConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":          err.Error(),
			"currentVersion": versionConflict.Actual,
		})
	case errors.As(err, &slotConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":               err.Error(),
			"conflictEquipmentId": slotConflict.Occupant.ID,
			"conflictStartU":      slotConflict.Occupant.StartU,
			"conflictEndU":        slotConflict.Occupant.EndU(),
		})
	case errors.As(err, &outOfRange):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrRackNameRequired),
		errors.Is(err, store.ErrInvalidTotalU):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrRackNotEmpty),
		errors.Is(err, store.ErrFloorPlanExists):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
