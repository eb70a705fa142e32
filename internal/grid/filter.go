package grid

import (
	"strings"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
)

// Filter applies the branch/year/section selection over a canonical slot
// list. A dimension set to "All" (or left empty) is unconstrained. Input
// order is preserved; the indexer's keep-first collision policy depends on
// that.
func Filter(slots []model.Slot, f model.FilterTriple) []model.Slot {
	if !f.Constrains() {
		return append([]model.Slot(nil), slots...)
	}

	out := make([]model.Slot, 0, len(slots))
	for _, s := range slots {
		if !matchDim(f.Branch, s.Branch) {
			continue
		}
		// Year compares string-normalized: source data encodes 3 and "3".
		if !matchDim(f.Year, s.Year.String()) {
			continue
		}
		if !matchDim(f.Section, s.Section) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func matchDim(want, have string) bool {
	if want == "" || strings.EqualFold(want, model.FilterAll) {
		return true
	}
	return strings.EqualFold(want, have)
}
