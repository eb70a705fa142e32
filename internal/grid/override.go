package grid

import "github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"

// ── FixedOverrideLayer ──────────────────────────────────────
//
// Some coordinates are reserved by institutional rule rather than by the
// solver: a weekly club period, an assembly slot. The solver knows nothing
// about them, so they are pinned at render time and always win over
// generated data at the same coordinate.
// ────────────────────────────────────────────────────────────

// Override pins one (day, period) coordinate to a fixed activity.
type Override struct {
	Day     string            `json:"day" mapstructure:"day"`
	Period  int               `json:"period" mapstructure:"period"`
	Subject string            `json:"subject" mapstructure:"subject"`
	Type    model.SessionType `json:"type" mapstructure:"type"`
	Room    string            `json:"room,omitempty" mapstructure:"room"`
}

// OverrideSet resolves override lookups by coordinate.
type OverrideSet struct {
	byCell map[string]model.Slot
}

// NewOverrideSet indexes the configured overrides. Entries with an unknown
// day or out-of-range period are ignored.
func NewOverrideSet(overrides []Override) *OverrideSet {
	set := &OverrideSet{byCell: make(map[string]model.Slot, len(overrides))}
	for _, o := range overrides {
		if !model.ValidDay(o.Day) || o.Period < 1 || o.Period > model.PeriodsPerDay {
			continue
		}
		typ := o.Type
		if typ == "" {
			typ = model.SessionClub
		}
		set.byCell[CellKey(o.Day, o.Period)] = model.Slot{
			Day:     o.Day,
			Period:  o.Period,
			Subject: o.Subject,
			Room:    o.Room,
			Type:    typ,
		}
	}
	return set
}

// At returns the pinned slot for a coordinate, or ok=false when the
// coordinate is not overridden.
func (s *OverrideSet) At(day string, period int) (model.Slot, bool) {
	slot, ok := s.byCell[CellKey(day, period)]
	return slot, ok
}

// Len reports how many coordinates are pinned.
func (s *OverrideSet) Len() int { return len(s.byCell) }
