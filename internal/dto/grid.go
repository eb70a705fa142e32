package dto

import (
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/grid"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
)

// GridResponse is the render-ready matrix for one filter selection.
type GridResponse struct {
	Filter model.FilterTriple `json:"filter"`
	View   grid.View          `json:"view"`
}

// OverviewResponse is the all-sections grid.
type OverviewResponse struct {
	Days []grid.OverviewDay `json:"days"`
}

// HistoryListResponse lists the bounded newest-first history.
type HistoryListResponse struct {
	Entries []model.HistoryEntry `json:"entries"`
}

// RestoreResponse returns the re-activated timetable's view.
type RestoreResponse struct {
	Entry model.HistoryEntry `json:"entry"`
	View  grid.View          `json:"view"`
}
