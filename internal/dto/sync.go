package dto

import (
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/grid"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
)

// GenerateRequest triggers one generation flow for a filter triple.
// Empty or "All" values leave a dimension unconstrained.
type GenerateRequest struct {
	Branch  string `json:"branch"`
	Year    string `json:"year"`
	Section string `json:"section"`
}

// Triple converts to the model filter.
func (r GenerateRequest) Triple() model.FilterTriple {
	return model.FilterTriple{Branch: r.Branch, Year: r.Year, Section: r.Section}
}

// GenerateResponse reports one resolved generation. Partial is a warning
// state, not a failure: the view is still fully rendered.
type GenerateResponse struct {
	Status      string    `json:"status"` // success | partial
	Message     string    `json:"message,omitempty"`
	Unallocated []string  `json:"unallocated,omitempty"`
	View        grid.View `json:"view"`
	HistoryID   string    `json:"history_id"`
}

// UploadResponse acknowledges an accepted spreadsheet.
type UploadResponse struct {
	UploadID string `json:"upload_id,omitempty"`
	Stage    string `json:"stage"` // master | assignment
}

// SyncStatusResponse reports the engine's current stage and the session
// flags the UI renders around it.
type SyncStatusResponse struct {
	Stage              string   `json:"stage"`
	MasterUploaded     bool     `json:"master_uploaded"`
	AssignmentUploaded bool     `json:"assignment_uploaded"`
	Loading            bool     `json:"loading"`
	Error              string   `json:"error,omitempty"`
	Unallocated        []string `json:"unallocated,omitempty"`
}
