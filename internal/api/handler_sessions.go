package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rackplan-backend/internal/editor"
)

type openSessionRequest struct {
	FloorPlanID int64 `json:"floorPlanId" binding:"required"`
}

// OpenSession handles POST /api/sessions and hands back a fresh session id.
func (h *Handler) OpenSession(c *gin.Context) {
	var req openSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session := h.sessions.Open(req.FloorPlanID)
	c.JSON(http.StatusCreated, gin.H{
		"sessionId":   session.ID,
		"floorPlanId": session.FloorPlanID,
	})
}

// PushSnapshot handles POST /api/sessions/{session_id}/snapshots. Pushing
// discards any redo states past the current position.
func (h *Handler) PushSnapshot(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("session_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	var snap editor.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session.Push(snap)
	c.JSON(http.StatusOK, gin.H{
		"canUndo": session.CanUndo(),
		"canRedo": session.CanRedo(),
	})
}

// Undo handles POST /api/sessions/{session_id}/undo. At the oldest state it
// is a no-op, reported with applied=false rather than an error.
func (h *Handler) Undo(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("session_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	snap, ok := session.Undo()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"applied": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"applied":  true,
		"snapshot": snap,
		"canUndo":  session.CanUndo(),
		"canRedo":  session.CanRedo(),
	})
}

// Redo handles POST /api/sessions/{session_id}/redo.
func (h *Handler) Redo(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("session_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	snap, ok := session.Redo()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"applied": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"applied":  true,
		"snapshot": snap,
		"canUndo":  session.CanUndo(),
		"canRedo":  session.CanRedo(),
	})
}

// CloseSession handles DELETE /api/sessions/{session_id}.
func (h *Handler) CloseSession(c *gin.Context) {
	h.sessions.Close(c.Param("session_id"))
	c.Status(http.StatusNoContent)
}
