package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/grid"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/session"
)

// ── export module errors ──

var (
	ErrExportNoTimetable  = errors.New("no active timetable to export")
	ErrExportGenerateFail = errors.New("failed to generate export file")
)

// periodTimes maps period number to wall-clock bounds for calendar export.
// Period 5 follows the lunch break, hence the gap.
var periodTimes = map[int][2]string{
	1: {"09:00", "09:50"},
	2: {"09:50", "10:40"},
	3: {"10:50", "11:40"},
	4: {"11:40", "12:30"},
	5: {"13:30", "14:20"},
	6: {"14:20", "15:10"},
	7: {"15:20", "16:10"},
}

// ExportService turns the active timetable into downloadable artifacts.
//
// Both exports work from the same rendered view the UI shows, so merged
// lab blocks and fixed overrides appear in the files exactly as on screen.
// Buffers are returned for the handler to stream with the right headers.
type ExportService interface {
	// ExportXLSX renders the filtered grid as an Excel workbook.
	ExportXLSX(filter model.FilterTriple) (*bytes.Buffer, string, error)
	// ExportICS renders the filtered grid as a weekly-recurring iCalendar.
	ExportICS(filter model.FilterTriple) (*bytes.Buffer, string, error)
}

type exportService struct {
	session   *session.Manager
	overrides *grid.OverrideSet
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService creates the export service.
func NewExportService(sess *session.Manager, overrides *grid.OverrideSet, logger *zap.Logger) ExportService {
	return &exportService{session: sess, overrides: overrides, logger: logger, now: time.Now}
}

func (s *exportService) view(filter model.FilterTriple) (grid.View, error) {
	slots := s.session.ActiveTimetable()
	if len(slots) == 0 {
		return grid.View{}, ErrExportNoTimetable
	}
	return grid.Build(slots, filter, s.overrides), nil
}

// ═══════════════════════════════════════════════════════════
// ExportXLSX
// ═══════════════════════════════════════════════════════════
//
// Layout:
//   - one sheet, days as rows, periods 1..7 as columns
//   - two-period lab blocks merged across their columns
//   - cell text: subject, then faculty and room on following lines

func (s *exportService) ExportXLSX(filter model.FilterTriple) (*bytes.Buffer, string, error) {
	view, err := s.view(filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Timetable"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	lastCol := colName(model.PeriodsPerDay)
	f.SetColWidth(sheetName, "B", lastCol, 22)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	cellStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})

	// title row
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Timetable — %s", filter.Label()))
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", cell(lastCol, 1), headerStyle)

	// header row
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "Day")
	for p := 1; p <= model.PeriodsPerDay; p++ {
		f.SetCellValue(sheetName, cell(colName(p), row), fmt.Sprintf("Period %d", p))
	}
	f.SetCellStyle(sheetName, cell("A", row), cell(lastCol, row), headerStyle)

	// one row per day; lab spans merge across columns
	row = 3
	for _, dayRow := range view.Days {
		f.SetCellValue(sheetName, cell("A", row), dayRow.Day)
		for _, c := range dayRow.Cells {
			col := colName(c.Period)
			if c.Empty {
				f.SetCellValue(sheetName, cell(col, row), "-")
				continue
			}
			f.SetCellValue(sheetName, cell(col, row), cellText(c))
			if c.Span > 1 {
				end := colName(c.Period + c.Span - 1)
				f.MergeCell(sheetName, cell(col, row), cell(end, row))
			}
		}
		f.SetCellStyle(sheetName, cell("B", row), cell(lastCol, row), cellStyle)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("failed to write xlsx", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("timetable_%s.xlsx", filenameLabel(filter))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportICS
// ═══════════════════════════════════════════════════════════
//
// Each occupied cell becomes one VEVENT anchored to the current week's
// matching weekday, recurring weekly. A two-period lab is a single event
// spanning both periods.

func (s *exportService) ExportICS(filter model.FilterTriple) (*bytes.Buffer, string, error) {
	view, err := s.view(filter)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Time-Table-Scheduler//EN")

	monday := weekMonday(s.now())
	seq := 0
	for di, dayRow := range view.Days {
		date := monday.AddDate(0, 0, di)
		for _, c := range dayRow.Cells {
			if c.Empty {
				continue
			}
			start, ok := periodClock(date, c.Period, 0)
			if !ok {
				continue
			}
			end, ok := periodClock(date, c.Period+c.Span-1, 1)
			if !ok {
				continue
			}

			seq++
			evt := cal.AddEvent(fmt.Sprintf("%s-%d-%d@timetable", strings.ToLower(dayRow.Day), c.Period, seq))
			evt.SetCreatedTime(s.now())
			evt.SetDtStampTime(s.now())
			evt.SetStartAt(start)
			evt.SetEndAt(end)
			evt.SetSummary(c.Subject)
			if c.Room != "" {
				evt.SetLocation(c.Room)
			}
			if c.Faculty != "" {
				evt.SetDescription(fmt.Sprintf("%s (%s)", c.Faculty, c.Type))
			} else {
				evt.SetDescription(string(c.Type))
			}
			evt.AddRrule("FREQ=WEEKLY")
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("timetable_%s.ics", filenameLabel(filter))
	return buf, filename, nil
}

// ── helpers ──

func cellText(c grid.Cell) string {
	var b strings.Builder
	b.WriteString(c.Subject)
	if c.Faculty != "" {
		b.WriteString("\n")
		b.WriteString(c.Faculty)
	}
	if c.Room != "" {
		b.WriteString("\n")
		b.WriteString(c.Room)
	}
	return b.String()
}

func filenameLabel(filter model.FilterTriple) string {
	label := filter.Label()
	label = strings.ReplaceAll(label, " ", "_")
	label = strings.ReplaceAll(label, "/", "-")
	return label
}

// weekMonday returns the Monday of the week containing t, at midnight.
func weekMonday(t time.Time) time.Time {
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	d := t.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// periodClock resolves period bounds on a given date. bound 0 is the
// start of the period, 1 the end.
func periodClock(date time.Time, period, bound int) (time.Time, bool) {
	times, ok := periodTimes[period]
	if !ok {
		return time.Time{}, false
	}
	var hh, mm int
	if _, err := fmt.Sscanf(times[bound], "%d:%d", &hh, &mm); err != nil {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hh, mm, 0, 0, date.Location()), true
}

func colName(period int) string {
	// column B holds period 1
	name, _ := excelize.ColumnNumberToName(period + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
