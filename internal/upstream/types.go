package upstream

import (
	"encoding/json"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
)

// ── Wire shapes of the solver server ──

// Generation statuses.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
)

// LoginResult is the auth endpoint response.
type LoginResult struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	Admin       model.AdminProfile `json:"admin"`
}

// UploadResult is the master/assignment upload acknowledgement.
type UploadResult struct {
	UploadID   string `json:"upload_id"`
	AdminEmail string `json:"admin_email"`
	RowsParsed int    `json:"rows_parsed,omitempty"`
}

// GenerateRequest carries the filter triple and the admin reference.
type GenerateRequest struct {
	AdminID string `json:"admin_id"`
	Branch  string `json:"branch,omitempty"`
	Year    string `json:"year,omitempty"`
	Section string `json:"section,omitempty"`
}

// GenerateResult is the generation response. Status is success or partial;
// the richer contract carries the resolved slots inline, the older one
// leaves Timetable empty and expects a follow-up fetch. Timetable stays raw
// because its shape varies (see grid.Normalize).
type GenerateResult struct {
	Status      string          `json:"status"`
	Message     string          `json:"message,omitempty"`
	Unallocated []string        `json:"unallocated,omitempty"`
	Timetable   json.RawMessage `json:"timetable,omitempty"`
	VersionID   string          `json:"version_id,omitempty"`
}

// ProfilePayload registers or updates an admin profile. The password rides
// only on this outbound request; the server stores a hash and never returns
// either.
type ProfilePayload struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CollegeName string `json:"college_name,omitempty"`
	Role        string `json:"role,omitempty"`
}

// VersionSummary is one remote timetable version.
type VersionSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
	Source    string `json:"source,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	Entries   int    `json:"entries,omitempty"`
}

// sectionEntry is the per-section endpoint's record. Its field names predate
// the canonical slot shape: subject_name for the display name, classroom and
// labroom instead of one room field.
type sectionEntry struct {
	Day         string          `json:"day"`
	Period      int             `json:"period"`
	Subject     string          `json:"subject"`
	SubjectName string          `json:"subject_name"`
	Faculty     string          `json:"faculty"`
	Classroom   string          `json:"classroom"`
	Labroom     string          `json:"labroom"`
	Type        string          `json:"type"`
	Year        model.FlexInt   `json:"year"`
	Branch      string          `json:"branch"`
	SectionName string          `json:"section"`
}

// sectionPayload wraps the per-section entries.
type sectionPayload struct {
	Branch  string         `json:"branch"`
	Year    model.FlexInt  `json:"year"`
	Section string         `json:"section"`
	Entries []sectionEntry `json:"entries"`
}

// mapSectionEntries converts the alternate-name records to canonical slots.
// This mapping pass is deliberately separate from grid.Normalize: it handles
// renamed fields, not alternate container shapes.
func mapSectionEntries(p sectionPayload) []model.Slot {
	slots := make([]model.Slot, 0, len(p.Entries))
	for _, e := range p.Entries {
		subject := e.SubjectName
		if subject == "" {
			subject = e.Subject
		}
		room := e.Classroom
		if room == "" {
			room = e.Labroom
		}
		branch := e.Branch
		if branch == "" {
			branch = p.Branch
		}
		year := e.Year
		if year == 0 {
			year = p.Year
		}
		section := e.SectionName
		if section == "" {
			section = p.Section
		}
		slots = append(slots, model.Slot{
			Day:         e.Day,
			Period:      e.Period,
			Branch:      branch,
			Year:        year,
			Section:     section,
			Subject:     subject,
			SubjectCode: e.Subject,
			Faculty:     e.Faculty,
			Room:        room,
			Type:        model.SessionType(e.Type),
		})
	}
	return slots
}
