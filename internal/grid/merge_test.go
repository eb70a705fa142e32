package grid

import (
	"testing"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
)

func labSlot(day string, period int) model.Slot {
	return model.Slot{
		Day: day, Period: period,
		Subject: "CS Lab", SubjectCode: "CS301",
		Faculty: "Dr. X", Room: "L1",
		Type: model.SessionLab,
	}
}

func TestMarkMerges_TwoPeriodLab(t *testing.T) {
	week := Index([]model.Slot{labSlot("Monday", 3), labSlot("Monday", 4)})
	skip := MarkMerges(week)
	if !skip[CellKey("Monday", 4)] {
		t.Error("period 4 must be marked as continuation")
	}
	if skip[CellKey("Monday", 3)] {
		t.Error("period 3 is the block head, not a continuation")
	}
	if len(skip) != 1 {
		t.Errorf("expected exactly 1 continuation cell, got %d", len(skip))
	}
}

func TestMarkMerges_DifferingRoomDoesNotMerge(t *testing.T) {
	a := labSlot("Monday", 3)
	b := labSlot("Monday", 4)
	b.Room = "L2"
	skip := MarkMerges(Index([]model.Slot{a, b}))
	if len(skip) != 0 {
		t.Errorf("differing rooms must not merge, got skip set %v", skip)
	}
}

func TestMarkMerges_NonLabDoesNotMerge(t *testing.T) {
	a := labSlot("Monday", 3)
	b := labSlot("Monday", 4)
	a.Type = model.SessionLecture
	b.Type = model.SessionLecture
	skip := MarkMerges(Index([]model.Slot{a, b}))
	if len(skip) != 0 {
		t.Errorf("lectures must not merge, got skip set %v", skip)
	}
}

func TestMarkMerges_NonAdjacentDoesNotMerge(t *testing.T) {
	skip := MarkMerges(Index([]model.Slot{labSlot("Monday", 3), labSlot("Monday", 5)}))
	if len(skip) != 0 {
		t.Errorf("non-adjacent labs must not merge, got skip set %v", skip)
	}
}

// A run of three identical lab periods merges 1-2 and leaves 3 single. The
// scan only ever looks one period ahead and a consumed continuation cannot
// start a new block.
func TestMarkMerges_ThreeRunMergesFirstPairOnly(t *testing.T) {
	week := Index([]model.Slot{labSlot("Monday", 1), labSlot("Monday", 2), labSlot("Monday", 3)})
	skip := MarkMerges(week)
	if !skip[CellKey("Monday", 2)] {
		t.Error("period 2 must be the continuation of period 1")
	}
	if skip[CellKey("Monday", 3)] {
		t.Error("period 3 must stay unmerged in a 3-run")
	}
	if len(skip) != 1 {
		t.Errorf("expected exactly 1 continuation cell, got %d", len(skip))
	}
}

func TestInferType_ExplicitWins(t *testing.T) {
	s := model.Slot{Subject: "Physics Lab", Type: model.SessionLecture}
	if got := InferType(s); got != model.SessionLecture {
		t.Errorf("explicit type must win over heuristics, got %s", got)
	}
}

func TestInferType_Heuristics(t *testing.T) {
	tests := []struct {
		subject string
		want    model.SessionType
	}{
		{"Physics Lab", model.SessionLab},
		{"Maths Tutorial", model.SessionTutorial},
		{"Research Seminar", model.SessionSeminar},
		{"Chess Club", model.SessionClub},
		{"Lunch Break", model.SessionBreak},
		{"Operating Systems", model.SessionLecture},
		{"", model.SessionLecture},
	}
	for _, tt := range tests {
		got := InferType(model.Slot{Subject: tt.subject})
		if got != tt.want {
			t.Errorf("subject %q: expected %s, got %s", tt.subject, tt.want, got)
		}
	}
}
