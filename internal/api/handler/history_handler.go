package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/service"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/pkg/response"
)

// HistoryHandler handles the generation-log routes.
type HistoryHandler struct {
	historySvc service.HistoryService
}

// NewHistoryHandler creates the HistoryHandler.
func NewHistoryHandler(historySvc service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historySvc: historySvc}
}

// List returns the bounded newest-first history.
// GET /api/v1/history
func (h *HistoryHandler) List(c *gin.Context) {
	response.OK(c, h.historySvc.List())
}

// Restore re-activates one past generation.
// POST /api/v1/history/:id/restore
func (h *HistoryHandler) Restore(c *gin.Context) {
	result, err := h.historySvc.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondHistoryError(c, err)
		return
	}
	response.OK(c, result)
}

// Delete removes one history entry.
// DELETE /api/v1/history/:id
func (h *HistoryHandler) Delete(c *gin.Context) {
	if err := h.historySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondHistoryError(c, err)
		return
	}
	response.OK(c, nil)
}

// Clear empties the history.
// DELETE /api/v1/history
func (h *HistoryHandler) Clear(c *gin.Context) {
	if err := h.historySvc.Clear(c.Request.Context()); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// RemoteVersions lists the solver server's version registry.
// GET /api/v1/versions
func (h *HistoryHandler) RemoteVersions(c *gin.Context) {
	versions, err := h.historySvc.RemoteVersions(c.Request.Context())
	if err != nil {
		if respondUpstreamError(c, 13100, err) {
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, versions)
}

// DeleteRemoteVersion removes one server-side version.
// DELETE /api/v1/versions/:id
func (h *HistoryHandler) DeleteRemoteVersion(c *gin.Context) {
	if err := h.historySvc.DeleteRemoteVersion(c.Request.Context(), c.Param("id")); err != nil {
		if respondUpstreamError(c, 13101, err) {
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

func (h *HistoryHandler) respondHistoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHistoryNotFound):
		response.NotFound(c, 13001, "history entry not found")
	case errors.Is(err, service.ErrHistoryNoSlots):
		response.UnprocessableEntity(c, 13002, "history entry cannot be restored")
	default:
		if respondUpstreamError(c, 13100, err) {
			return
		}
		response.InternalError(c)
	}
}
