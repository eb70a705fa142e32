package grid

import (
	"sort"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
)

// DayGrid maps period → slot for one day.
type DayGrid map[int]model.Slot

// WeekGrid maps day → period → slot. Every day of the 6-day week is present,
// possibly empty, so renderers never branch on missing days.
type WeekGrid map[string]DayGrid

// SectionGrid is the multi-section overview: day → "branch|year" → period → slot.
type SectionGrid map[string]map[string]DayGrid

// Index builds the primary day×period lookup. When two slots land on the
// same (day, period) cell the first one in input order wins and later ones
// are dropped; Filter preserves input order so this stays deterministic.
func Index(slots []model.Slot) WeekGrid {
	week := make(WeekGrid, len(model.WeekDays))
	for _, day := range model.WeekDays {
		week[day] = make(DayGrid)
	}
	for _, s := range slots {
		dayGrid, ok := week[s.Day]
		if !ok {
			continue
		}
		if _, taken := dayGrid[s.Period]; taken {
			continue
		}
		dayGrid[s.Period] = s
	}
	return week
}

// SectionIndex builds the section-keyed overview variant. Slots explicitly
// marked free are excluded; a free period is an absence in the overview, not
// a cell.
func SectionIndex(slots []model.Slot) SectionGrid {
	week := make(SectionGrid, len(model.WeekDays))
	for _, day := range model.WeekDays {
		week[day] = make(map[string]DayGrid)
	}
	for _, s := range slots {
		if s.Free || s.Type == model.SessionFree {
			continue
		}
		sections, ok := week[s.Day]
		if !ok {
			continue
		}
		key := s.SectionKey()
		dayGrid, ok := sections[key]
		if !ok {
			dayGrid = make(DayGrid)
			sections[key] = dayGrid
		}
		if _, taken := dayGrid[s.Period]; taken {
			continue
		}
		dayGrid[s.Period] = s
	}
	return week
}

// SectionKeys returns the overview row keys present in the grid, sorted by
// branch then by year.
func SectionKeys(g SectionGrid) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, sections := range g {
		for key := range sections {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
