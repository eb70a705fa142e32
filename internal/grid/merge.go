package grid

import (
	"fmt"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
)

// ── BlockMerger ─────────────────────────────────────────────
//
// A 2-period lab occupies two adjacent cells that are really one block. The
// merger identifies every cell that is the SECOND period of such a block;
// the renderer skips those and draws the first cell spanning both columns.
//
// Detection looks exactly one period ahead. A 3-period run of identical LAB
// slots therefore merges periods 1-2 and leaves period 3 single; that is the
// established behavior, not an oversight.
// ────────────────────────────────────────────────────────────

// CellKey identifies one (day, period) cell as "day-period".
func CellKey(day string, period int) string {
	return fmt.Sprintf("%s-%d", day, period)
}

// MarkMerges returns the set of continuation cells in the indexed week:
// every key "day-(p+1)" where the slots at p and p+1 form one merged block.
// Periods are walked in ascending order; a cell already consumed as a
// continuation cannot start a new block.
func MarkMerges(week WeekGrid) map[string]bool {
	skip := make(map[string]bool)
	for day, dayGrid := range week {
		for period := 1; period < model.PeriodsPerDay; period++ {
			if skip[CellKey(day, period)] {
				continue
			}
			slot, ok := dayGrid[period]
			if !ok {
				continue
			}
			next, ok := dayGrid[period+1]
			if !ok {
				continue
			}
			if mergeable(slot, next) {
				skip[CellKey(day, period+1)] = true
			}
		}
	}
	return skip
}

// mergeable reports whether a (period p, period p+1) pair is one block:
// both LAB, identical subject code, faculty and room.
func mergeable(a, b model.Slot) bool {
	return a.Type == model.SessionLab &&
		b.Type == model.SessionLab &&
		a.SubjectCode == b.SubjectCode &&
		a.Faculty == b.Faculty &&
		a.Room == b.Room
}
