package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/session"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/upstream"
)

func seedHistory(t *testing.T, sess *session.Manager, entry model.HistoryEntry) {
	t.Helper()
	if err := sess.CommitGeneration(context.Background(), entry.Slots, entry); err != nil {
		t.Fatalf("seed history: %v", err)
	}
}

func historyEntry(label string, slots []model.Slot) model.HistoryEntry {
	return model.HistoryEntry{
		ID:        uuid.New().String(),
		Label:     label,
		Filter:    model.FilterTriple{Branch: "CS", Year: "3", Section: "A"},
		CreatedAt: time.Now(),
		Slots:     slots,
	}
}

func TestHistoryService_Restore_InlineSlots(t *testing.T) {
	api := newMockSolverAPI()
	sess := loggedInSession()
	svc := NewHistoryService(api, sess, testOverrides(), zap.NewNop())

	entry := historyEntry("CS-3-A", sampleSlots())
	seedHistory(t, sess, entry)
	if err := sess.SetActiveTimetable(context.Background(), nil); err != nil {
		t.Fatalf("reset timetable: %v", err)
	}

	resp, err := svc.Restore(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if resp.Entry.ID != entry.ID {
		t.Errorf("restored wrong entry: %q", resp.Entry.ID)
	}
	if api.sectionCalls != 0 || api.allSlotsCalls != 0 {
		t.Error("inline slots must not trigger a re-fetch")
	}
	if got := sess.ActiveTimetable(); len(got) != len(entry.Slots) {
		t.Errorf("active timetable = %d slots, want %d", len(got), len(entry.Slots))
	}
}

func TestHistoryService_Restore_RefetchesWhenSlotsMissing(t *testing.T) {
	api := newMockSolverAPI()
	api.sectionSlots = sampleSlots()
	sess := loggedInSession()
	svc := NewHistoryService(api, sess, testOverrides(), zap.NewNop())

	entry := historyEntry("CS-3-A", nil)
	entry.VersionID = "v3"
	seedHistory(t, sess, entry)

	resp, err := svc.Restore(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if api.sectionCalls != 1 {
		t.Errorf("expected one section fetch, got %d", api.sectionCalls)
	}
	if len(resp.View.Days) != len(model.WeekDays) {
		t.Errorf("view days = %d", len(resp.View.Days))
	}
	if got := sess.ActiveTimetable(); len(got) != len(sampleSlots()) {
		t.Errorf("active timetable = %d slots", len(got))
	}
}

func TestHistoryService_Restore_RefetchFailureKeepsState(t *testing.T) {
	api := newMockSolverAPI()
	api.sectionErr = &upstream.Error{Status: 502, Detail: "solver unavailable"}
	sess := loggedInSession()
	svc := NewHistoryService(api, sess, testOverrides(), zap.NewNop())

	if err := sess.SetActiveTimetable(context.Background(), sampleSlots()); err != nil {
		t.Fatalf("seed timetable: %v", err)
	}
	entry := historyEntry("CS-3-A", nil)
	seedHistory(t, sess, model.HistoryEntry{
		ID: entry.ID, Label: entry.Label, Filter: entry.Filter, CreatedAt: entry.CreatedAt,
	})
	before := len(sess.ActiveTimetable())

	_, err := svc.Restore(context.Background(), entry.ID)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := len(sess.ActiveTimetable()); got != before {
		t.Errorf("failed restore must not touch the active timetable: %d -> %d", before, got)
	}
}

func TestHistoryService_Restore_UnknownID(t *testing.T) {
	svc := NewHistoryService(newMockSolverAPI(), loggedInSession(), testOverrides(), zap.NewNop())

	_, err := svc.Restore(context.Background(), "no-such-id")
	if !errors.Is(err, ErrHistoryNotFound) {
		t.Errorf("expected ErrHistoryNotFound, got: %v", err)
	}
}

func TestHistoryService_DeleteAndClear(t *testing.T) {
	sess := loggedInSession()
	svc := NewHistoryService(newMockSolverAPI(), sess, testOverrides(), zap.NewNop())

	first := historyEntry("CS-3-A", sampleSlots())
	second := historyEntry("All", sampleSlots())
	seedHistory(t, sess, first)
	seedHistory(t, sess, second)

	if err := svc.Delete(context.Background(), first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := sess.History(); len(got) != 1 || got[0].ID != second.ID {
		t.Errorf("history after delete: %+v", got)
	}
	if err := svc.Delete(context.Background(), first.ID); !errors.Is(err, ErrHistoryNotFound) {
		t.Errorf("double delete: %v", err)
	}

	if err := svc.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := sess.History(); len(got) != 0 {
		t.Errorf("history after clear: %d entries", len(got))
	}
}

func TestHistoryService_RemoteVersions(t *testing.T) {
	api := newMockSolverAPI()
	api.versions = []upstream.VersionSummary{{ID: "v1", Name: "week 1"}, {ID: "v2", Name: "week 2"}}
	svc := NewHistoryService(api, loggedInSession(), testOverrides(), zap.NewNop())

	versions, err := svc.RemoteVersions(context.Background())
	if err != nil {
		t.Fatalf("remote versions: %v", err)
	}
	if len(versions) != 2 {
		t.Errorf("versions = %d", len(versions))
	}

	if err := svc.DeleteRemoteVersion(context.Background(), "v1"); err != nil {
		t.Fatalf("delete remote version: %v", err)
	}
	if len(api.deletedIDs) != 1 || api.deletedIDs[0] != "v1" {
		t.Errorf("deleted ids = %v", api.deletedIDs)
	}
}
