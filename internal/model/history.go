package model

import "time"

// HistoryCapacity is the default bound on the newest-first generation log.
const HistoryCapacity = 20

// HistoryEntry records one past generation. It carries either the generated
// slots inline or a remote version reference to re-fetch them.
type HistoryEntry struct {
	ID        string       `json:"id"`
	Label     string       `json:"label"`
	Filter    FilterTriple `json:"filter"`
	CreatedAt time.Time    `json:"created_at"`
	Slots     []Slot       `json:"slots,omitempty"`
	VersionID string       `json:"version_id,omitempty"`
}

// PushHistory prepends entry and trims the list to capacity, newest first.
func PushHistory(history []HistoryEntry, entry HistoryEntry, capacity int) []HistoryEntry {
	if capacity <= 0 {
		capacity = HistoryCapacity
	}
	out := make([]HistoryEntry, 0, capacity)
	out = append(out, entry)
	for _, h := range history {
		if len(out) == capacity {
			break
		}
		out = append(out, h)
	}
	return out
}
