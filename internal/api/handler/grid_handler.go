package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/service"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/pkg/response"
)

// GridHandler handles timetable rendering routes.
type GridHandler struct {
	gridSvc service.GridService
}

// NewGridHandler creates the GridHandler.
func NewGridHandler(gridSvc service.GridService) *GridHandler {
	return &GridHandler{gridSvc: gridSvc}
}

// Grid renders the active timetable for one filter selection.
// GET /api/v1/grid?branch=CS&year=3&section=A
func (h *GridHandler) Grid(c *gin.Context) {
	filter := model.FilterTriple{
		Branch:  c.Query("branch"),
		Year:    c.Query("year"),
		Section: c.Query("section"),
	}
	response.OK(c, h.gridSvc.Grid(filter))
}

// Overview renders every section at once.
// GET /api/v1/grid/overview
func (h *GridHandler) Overview(c *gin.Context) {
	response.OK(c, h.gridSvc.Overview())
}
