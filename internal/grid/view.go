package grid

import (
	"sort"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
)

// ── Render-ready matrix ─────────────────────────────────────
//
// Build is the single composition point: normalize → filter → index →
// merge-marking → override injection, producing the matrix the UI draws
// without further timetable logic.
// ────────────────────────────────────────────────────────────

// Cell is one drawable grid cell. Span is 2 for the head of a merged lab
// block; the continuation cell is omitted from the row entirely.
type Cell struct {
	Period   int               `json:"period"`
	Span     int               `json:"span"`
	Subject  string            `json:"subject,omitempty"`
	Code     string            `json:"code,omitempty"`
	Faculty  string            `json:"faculty,omitempty"`
	Room     string            `json:"room,omitempty"`
	Type     model.SessionType `json:"type,omitempty"`
	Override bool              `json:"override,omitempty"`
	Empty    bool              `json:"empty,omitempty"`
}

// DayRow is one rendered day.
type DayRow struct {
	Day   string `json:"day"`
	Cells []Cell `json:"cells"`
}

// View is the complete render-ready matrix.
type View struct {
	Days    []DayRow `json:"days"`
	Periods int      `json:"periods"`
	Skip    []string `json:"skip"` // continuation cells, "day-period"
}

// Build produces the render-ready view for one filtered timetable.
func Build(slots []model.Slot, filter model.FilterTriple, overrides *OverrideSet) View {
	filtered := Filter(NormalizeSlots(slots), filter)
	week := Index(filtered)
	skip := MarkMerges(week)

	view := View{
		Days:    make([]DayRow, 0, len(model.WeekDays)),
		Periods: model.PeriodsPerDay,
		Skip:    sortedKeys(skip),
	}

	for _, day := range model.WeekDays {
		row := DayRow{Day: day, Cells: make([]Cell, 0, model.PeriodsPerDay)}
		dayGrid := week[day]

		for period := 1; period <= model.PeriodsPerDay; period++ {
			// Pinned coordinates win over anything generated here.
			if overrides != nil {
				if pinned, ok := overrides.At(day, period); ok {
					row.Cells = append(row.Cells, Cell{
						Period:   period,
						Span:     1,
						Subject:  pinned.Subject,
						Room:     pinned.Room,
						Type:     pinned.Type,
						Override: true,
					})
					continue
				}
			}

			if skip[CellKey(day, period)] {
				continue // drawn as part of the previous cell's span
			}

			slot, ok := dayGrid[period]
			if !ok {
				row.Cells = append(row.Cells, Cell{Period: period, Span: 1, Empty: true})
				continue
			}

			span := 1
			if skip[CellKey(day, period+1)] && !overridden(overrides, day, period+1) {
				if next, hasNext := dayGrid[period+1]; hasNext && mergeable(slot, next) {
					span = 2
				}
			}

			row.Cells = append(row.Cells, Cell{
				Period:  period,
				Span:    span,
				Subject: slot.Subject,
				Code:    slot.SubjectCode,
				Faculty: slot.Faculty,
				Room:    slot.Room,
				Type:    InferType(slot),
			})
		}
		view.Days = append(view.Days, row)
	}
	return view
}

// OverviewRow is one section's rendered day in the multi-section overview.
type OverviewRow struct {
	Section string `json:"section"` // "branch|year"
	Cells   []Cell `json:"cells"`
}

// OverviewDay groups the overview rows of one day.
type OverviewDay struct {
	Day      string        `json:"day"`
	Sections []OverviewRow `json:"sections"`
}

// BuildOverview produces the all-sections view, one row per "branch|year"
// key, rows ordered by branch then year.
func BuildOverview(slots []model.Slot, overrides *OverrideSet) []OverviewDay {
	canonical := NormalizeSlots(slots)
	sections := SectionIndex(canonical)
	keys := SectionKeys(sections)

	out := make([]OverviewDay, 0, len(model.WeekDays))
	for _, day := range model.WeekDays {
		od := OverviewDay{Day: day, Sections: make([]OverviewRow, 0, len(keys))}
		for _, key := range keys {
			dayGrid := sections[day][key]
			skip := MarkMerges(WeekGrid{day: dayGrid})
			row := OverviewRow{Section: key, Cells: make([]Cell, 0, model.PeriodsPerDay)}
			for period := 1; period <= model.PeriodsPerDay; period++ {
				if overrides != nil {
					if pinned, ok := overrides.At(day, period); ok {
						row.Cells = append(row.Cells, Cell{
							Period: period, Span: 1,
							Subject: pinned.Subject, Room: pinned.Room,
							Type: pinned.Type, Override: true,
						})
						continue
					}
				}
				if skip[CellKey(day, period)] {
					continue
				}
				slot, ok := dayGrid[period]
				if !ok {
					row.Cells = append(row.Cells, Cell{Period: period, Span: 1, Empty: true})
					continue
				}
				span := 1
				if skip[CellKey(day, period+1)] && !overridden(overrides, day, period+1) {
					if next, hasNext := dayGrid[period+1]; hasNext && mergeable(slot, next) {
						span = 2
					}
				}
				row.Cells = append(row.Cells, Cell{
					Period: period, Span: span,
					Subject: slot.Subject, Code: slot.SubjectCode,
					Faculty: slot.Faculty, Room: slot.Room,
					Type: InferType(slot),
				})
			}
			od.Sections = append(od.Sections, row)
		}
		out = append(out, od)
	}
	return out
}

// overridden reports whether a pinned cell occupies the coordinate. A pinned
// continuation means the lab head cannot span into it.
func overridden(overrides *OverrideSet, day string, period int) bool {
	if overrides == nil {
		return false
	}
	_, ok := overrides.At(day, period)
	return ok
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
