package grid

import (
	"testing"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
)

func sampleSlots() []model.Slot {
	return []model.Slot{
		{Day: "Monday", Period: 1, Subject: "Maths", Branch: "CS", Year: 3, Section: "A"},
		{Day: "Monday", Period: 2, Subject: "Physics", Branch: "CS", Year: 3, Section: "B"},
		{Day: "Monday", Period: 3, Subject: "Thermo", Branch: "ME", Year: 2, Section: "A"},
		{Day: "Tuesday", Period: 1, Subject: "Circuits", Branch: "EC", Year: 3, Section: "A"},
	}
}

func TestFilter_AllSentinelMeansUnconstrained(t *testing.T) {
	for _, f := range []model.FilterTriple{
		{},
		{Branch: "All", Year: "All", Section: "All"},
		{Branch: "all"},
	} {
		got := Filter(sampleSlots(), f)
		if len(got) != 4 {
			t.Errorf("filter %+v: expected all 4 slots, got %d", f, len(got))
		}
	}
}

func TestFilter_Exactness(t *testing.T) {
	tests := []struct {
		name    string
		filter  model.FilterTriple
		want    int
		subject string
	}{
		{"branch only", model.FilterTriple{Branch: "CS"}, 2, "Maths"},
		{"branch+section", model.FilterTriple{Branch: "CS", Section: "B"}, 1, "Physics"},
		{"full triple", model.FilterTriple{Branch: "ME", Year: "2", Section: "A"}, 1, "Thermo"},
		{"no match", model.FilterTriple{Branch: "CE"}, 0, ""},
	}
	for _, tt := range tests {
		got := Filter(sampleSlots(), tt.filter)
		if len(got) != tt.want {
			t.Errorf("%s: expected %d slots, got %d", tt.name, tt.want, len(got))
			continue
		}
		if tt.want > 0 && got[0].Subject != tt.subject {
			t.Errorf("%s: expected first survivor %q, got %q", tt.name, tt.subject, got[0].Subject)
		}
	}
}

func TestFilter_YearStringNormalized(t *testing.T) {
	slots := []model.Slot{
		{Day: "Monday", Period: 1, Subject: "A", Branch: "CS", Year: 3},
	}
	got := Filter(slots, model.FilterTriple{Year: "3"})
	if len(got) != 1 {
		t.Fatal("numeric year 3 must match textual filter \"3\"")
	}
}

func TestFilter_PreservesInputOrder(t *testing.T) {
	got := Filter(sampleSlots(), model.FilterTriple{Branch: "CS"})
	if len(got) != 2 || got[0].Period != 1 || got[1].Period != 2 {
		t.Errorf("surviving slot order must follow input order, got %+v", got)
	}
}

func TestFilter_CopiesWhenUnconstrained(t *testing.T) {
	in := sampleSlots()
	got := Filter(in, model.FilterTriple{})
	got[0].Subject = "Changed"
	if in[0].Subject != "Maths" {
		t.Error("unconstrained filter must return a copy, not the input slice")
	}
}
