package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ── Session types ──

// SessionType classifies what occupies a period.
type SessionType string

const (
	SessionLecture         SessionType = "LECTURE"
	SessionTutorial        SessionType = "TUTORIAL"
	SessionLab             SessionType = "LAB"
	SessionSeminar         SessionType = "SEMINAR"
	SessionClub            SessionType = "CLUB"
	SessionBreak           SessionType = "BREAK"
	SessionExtracurricular SessionType = "EXTRACURRICULAR"
	SessionFree            SessionType = "FREE"
)

// ── Week layout ──

// WeekDays is the fixed 6-day teaching week, in display order.
var WeekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// PeriodsPerDay is the number of teaching periods per day. Break and lunch
// markers between periods are not periods themselves.
const PeriodsPerDay = 7

// ValidDay reports whether day is one of the six teaching days.
func ValidDay(day string) bool {
	for _, d := range WeekDays {
		if d == day {
			return true
		}
	}
	return false
}

// ── Slot ──

// Slot is one scheduled occupancy unit: a subject held for one student group
// on one day in one period.
type Slot struct {
	Day         string      `json:"day"`
	Period      int         `json:"period"`
	Branch      string      `json:"branch,omitempty"`
	Year        FlexInt     `json:"year,omitempty"`
	Section     string      `json:"section,omitempty"`
	Subject     string      `json:"subject"`
	SubjectCode string      `json:"subjectCode,omitempty"`
	Faculty     string      `json:"faculty,omitempty"`
	Room        string      `json:"room,omitempty"`
	Type        SessionType `json:"type,omitempty"`
	Free        bool        `json:"free,omitempty"`
}

// SectionKey returns the "branch|year" key used by the multi-section
// overview grid.
func (s Slot) SectionKey() string {
	return s.Branch + "|" + s.Year.String()
}

// ── FlexInt ──

// FlexInt is an int that tolerates string encoding on the wire. Source data
// encodes year both as 3 and as "3"; the two must compare equal.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(f))
}

func (f FlexInt) String() string {
	return strconv.Itoa(int(f))
}

// ── Filter ──

// FilterAll is the sentinel meaning "no constraint on this dimension".
const FilterAll = "All"

// FilterTriple selects a branch/year/section subset of a timetable.
// An empty or "All" value leaves that dimension unconstrained.
type FilterTriple struct {
	Branch  string `json:"branch,omitempty"`
	Year    string `json:"year,omitempty"`
	Section string `json:"section,omitempty"`
}

// Label derives the display label used for history entries.
func (f FilterTriple) Label() string {
	if !f.Constrains() {
		return FilterAll
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{f.Branch, f.Year, f.Section} {
		if active(p) {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "-")
}

// Constrains reports whether any dimension is restricted.
func (f FilterTriple) Constrains() bool {
	return active(f.Branch) || active(f.Year) || active(f.Section)
}

func active(v string) bool {
	return v != "" && !strings.EqualFold(v, FilterAll)
}
