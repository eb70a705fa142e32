package grid

import (
	"encoding/json"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
)

// ── SlotNormalizer ──────────────────────────────────────────
//
// Generated timetables arrive in three shapes, accumulated over the life of
// the server contract:
//
//   1. a flat slot array                      [ {...}, {...} ]
//   2. a wrapped flat array                   { "timetable": [ {...} ] }
//   3. the legacy nested-by-day object        { "timetable": { "Monday": [...] } }
//
// Normalize resolves all three into one canonical flat list. Nothing
// downstream of this function branches on shape again.
// ────────────────────────────────────────────────────────────

// wrappedPayload matches shapes 2 and 3; the inner field stays raw until the
// array/object probe decides which one it is.
type wrappedPayload struct {
	Timetable json.RawMessage `json:"timetable"`
}

// Normalize turns any accepted raw payload into a canonical flat slot list.
// Malformed or empty input yields an empty list; that is the canonical
// "no data" state, not an error. Slots with an unknown day or a period
// outside 1..PeriodsPerDay are dropped.
func Normalize(raw json.RawMessage) []model.Slot {
	if len(raw) == 0 {
		return []model.Slot{}
	}

	if slots, ok := decodeSlotList(raw); ok {
		return sanitize(slots)
	}

	var wrapped wrappedPayload
	if err := json.Unmarshal(raw, &wrapped); err != nil || len(wrapped.Timetable) == 0 {
		return []model.Slot{}
	}

	if slots, ok := decodeSlotList(wrapped.Timetable); ok {
		return sanitize(slots)
	}

	// Legacy backward-compatibility path: timetable keyed by day name.
	var byDay map[string][]model.Slot
	if err := json.Unmarshal(wrapped.Timetable, &byDay); err != nil {
		return []model.Slot{}
	}
	// Legacy entries carry the day only as the map key, never in the entry
	// itself, so the key backfills an empty Day. Keys outside the known week
	// are dropped by sanitize like any other invalid day.
	flat := make([]model.Slot, 0)
	for _, day := range model.WeekDays {
		for _, s := range byDay[day] {
			if s.Day == "" {
				s.Day = day
			}
			flat = append(flat, s)
		}
	}
	return sanitize(flat)
}

// NormalizeSlots is the already-decoded variant: a shallow copy with the same
// sanitation rules.
func NormalizeSlots(slots []model.Slot) []model.Slot {
	return sanitize(slots)
}

func decodeSlotList(raw json.RawMessage) ([]model.Slot, bool) {
	var slots []model.Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func sanitize(slots []model.Slot) []model.Slot {
	out := make([]model.Slot, 0, len(slots))
	for _, s := range slots {
		if !model.ValidDay(s.Day) {
			continue
		}
		if s.Period < 1 || s.Period > model.PeriodsPerDay {
			continue
		}
		out = append(out, s)
	}
	return out
}
