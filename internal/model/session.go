package model

// AdminProfile is the institution administrator identity. Safe to persist:
// it carries no credential.
type AdminProfile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	CollegeName string `json:"college_name,omitempty"`
	Role        string `json:"role,omitempty"` // admin | coordinator | viewer
}

// SessionState is the full per-session view handed to the UI. The token never
// appears here; it lives only in the volatile store.
type SessionState struct {
	Admin           *AdminProfile  `json:"admin,omitempty"`
	ActiveTimetable []Slot         `json:"active_timetable"`
	History         []HistoryEntry `json:"history"`
	Authenticated   bool           `json:"authenticated"`
	Loading         bool           `json:"loading"`
	Error           string         `json:"error,omitempty"`
	Unallocated     []string       `json:"unallocated,omitempty"`
}
