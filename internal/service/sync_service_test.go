package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/dto"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/upstream"
)

func setupSyncService(api *mockSolverAPI) (SyncService, *mockSolverAPI) {
	sess := loggedInSession()
	svc := NewSyncService(api, sess, testOverrides(), zap.NewNop())
	return svc, api
}

func uploadBoth(t *testing.T, svc SyncService) {
	t.Helper()
	if _, err := svc.UploadMaster(context.Background(), "master.xlsx", strings.NewReader("rows")); err != nil {
		t.Fatalf("master upload: %v", err)
	}
	if _, err := svc.UploadAssignment(context.Background(), "assignment.xlsx", strings.NewReader("rows")); err != nil {
		t.Fatalf("assignment upload: %v", err)
	}
}

// ── uploads ──

func TestSyncService_UploadMaster_RequiresAdmin(t *testing.T) {
	api := newMockSolverAPI()
	svc := NewSyncService(api, newTestSession(), testOverrides(), zap.NewNop())

	_, err := svc.UploadMaster(context.Background(), "master.xlsx", strings.NewReader("rows"))
	if !errors.Is(err, ErrSyncNoAdmin) {
		t.Errorf("expected ErrSyncNoAdmin, got: %v", err)
	}
}

func TestSyncService_Upload_RejectsBadExtension(t *testing.T) {
	svc, api := setupSyncService(newMockSolverAPI())

	_, err := svc.UploadMaster(context.Background(), "master.csv", strings.NewReader("rows"))
	if !errors.Is(err, ErrSyncBadExtension) {
		t.Errorf("expected ErrSyncBadExtension, got: %v", err)
	}
	_, err = svc.UploadMaster(context.Background(), "  ", strings.NewReader("rows"))
	if !errors.Is(err, ErrSyncEmptyFile) {
		t.Errorf("expected ErrSyncEmptyFile, got: %v", err)
	}
	if len(api.uploadCalls) != 0 {
		t.Errorf("rejected file must not reach the server, calls: %v", api.uploadCalls)
	}
}

func TestSyncService_UploadAssignment_RequiresMasterFirst(t *testing.T) {
	svc, _ := setupSyncService(newMockSolverAPI())

	_, err := svc.UploadAssignment(context.Background(), "assignment.xlsx", strings.NewReader("rows"))
	if !errors.Is(err, ErrSyncMasterRequired) {
		t.Errorf("expected ErrSyncMasterRequired, got: %v", err)
	}
}

func TestSyncService_NewMaster_InvalidatesAssignment(t *testing.T) {
	svc, _ := setupSyncService(newMockSolverAPI())
	uploadBoth(t, svc)

	if _, err := svc.UploadMaster(context.Background(), "master2.xlsx", strings.NewReader("rows")); err != nil {
		t.Fatalf("second master upload: %v", err)
	}

	status := svc.Status()
	if !status.MasterUploaded || status.AssignmentUploaded {
		t.Errorf("new master must reset assignment flag, got master=%v assignment=%v",
			status.MasterUploaded, status.AssignmentUploaded)
	}
	_, err := svc.Generate(context.Background(), dto.GenerateRequest{})
	if !errors.Is(err, ErrSyncAssignmentRequired) {
		t.Errorf("expected ErrSyncAssignmentRequired, got: %v", err)
	}
}

// ── generate: result resolution ──

func TestSyncService_Generate_InlineTimetable(t *testing.T) {
	api := newMockSolverAPI()
	api.generateResult = &upstream.GenerateResult{
		Status:    upstream.StatusSuccess,
		Timetable: rawTimetable(sampleSlots()),
		VersionID: "v1",
	}
	svc, _ := setupSyncService(api)
	uploadBoth(t, svc)

	resp, err := svc.Generate(context.Background(), dto.GenerateRequest{Branch: "CS", Year: "3", Section: "A"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Status != upstream.StatusSuccess {
		t.Errorf("status = %q, want success", resp.Status)
	}
	if resp.HistoryID == "" {
		t.Error("expected a history id")
	}
	if api.allSlotsCalls != 0 {
		t.Errorf("inline timetable must not trigger a fallback fetch, got %d calls", api.allSlotsCalls)
	}
	if len(resp.View.Days) != len(model.WeekDays) {
		t.Errorf("view days = %d, want %d", len(resp.View.Days), len(model.WeekDays))
	}
}

func TestSyncService_Generate_FallbackFetch(t *testing.T) {
	api := newMockSolverAPI()
	api.generateResult = &upstream.GenerateResult{Status: upstream.StatusSuccess}
	api.allSlotsRaw = rawTimetable(sampleSlots())
	svc, _ := setupSyncService(api)
	uploadBoth(t, svc)

	resp, err := svc.Generate(context.Background(), dto.GenerateRequest{Branch: "CS", Year: "3", Section: "A"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if api.allSlotsCalls != 1 {
		t.Errorf("empty inline timetable needs exactly one fallback fetch, got %d", api.allSlotsCalls)
	}
	// fallback result is filtered to the requested triple
	monday := resp.View.Days[0]
	if monday.Cells[0].Empty || monday.Cells[0].Subject != "Algorithms" {
		t.Errorf("expected Algorithms in Monday period 1, got %+v", monday.Cells[0])
	}
	tuesday := resp.View.Days[1]
	if !tuesday.Cells[1].Empty {
		t.Errorf("ME slot must be filtered out of a CS view, got %+v", tuesday.Cells[1])
	}
}

func TestSyncService_Generate_PartialSurfacesWarning(t *testing.T) {
	api := newMockSolverAPI()
	api.generateResult = &upstream.GenerateResult{
		Status:      upstream.StatusPartial,
		Unallocated: []string{"Physics", "Chemistry"},
		Timetable:   rawTimetable(sampleSlots()),
	}
	svc, _ := setupSyncService(api)
	uploadBoth(t, svc)

	resp, err := svc.Generate(context.Background(), dto.GenerateRequest{})
	if err != nil {
		t.Fatalf("partial is not a failure: %v", err)
	}
	if resp.Status != upstream.StatusPartial {
		t.Errorf("status = %q, want partial", resp.Status)
	}
	if len(resp.Unallocated) != 2 {
		t.Errorf("unallocated = %v", resp.Unallocated)
	}

	status := svc.Status()
	if len(status.Unallocated) != 2 {
		t.Errorf("warning not surfaced in status: %+v", status)
	}

	svc.DismissWarning()
	if got := svc.Status().Unallocated; len(got) != 0 {
		t.Errorf("warning must clear on dismissal, got %v", got)
	}
}

func TestSyncService_Generate_UpstreamDetailSurfaced(t *testing.T) {
	api := newMockSolverAPI()
	api.generateErr = &upstream.Error{Status: 422, Detail: "assignment references unknown faculty"}
	svc, _ := setupSyncService(api)
	uploadBoth(t, svc)

	_, err := svc.Generate(context.Background(), dto.GenerateRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	status := svc.Status()
	if status.Stage != StageError {
		t.Errorf("stage = %q, want error", status.Stage)
	}
	if status.Error != "assignment references unknown faculty" {
		t.Errorf("error message = %q, want the server's detail", status.Error)
	}

	svc.DismissError()
	status = svc.Status()
	if status.Stage != StageIdle || status.Error != "" {
		t.Errorf("dismissal must return to idle, got %+v", status)
	}
}

func TestSyncService_Generate_FailureLeavesStateUntouched(t *testing.T) {
	api := newMockSolverAPI()
	api.generateResult = &upstream.GenerateResult{
		Status:    upstream.StatusSuccess,
		Timetable: rawTimetable(sampleSlots()),
	}
	sess := loggedInSession()
	svc := NewSyncService(api, sess, testOverrides(), zap.NewNop())
	uploadBoth(t, svc)

	if _, err := svc.Generate(context.Background(), dto.GenerateRequest{}); err != nil {
		t.Fatalf("first generate: %v", err)
	}
	before := sess.ActiveTimetable()
	historyBefore := len(sess.History())

	api.generateErr = errors.New("solver crashed")
	if _, err := svc.Generate(context.Background(), dto.GenerateRequest{}); err == nil {
		t.Fatal("expected error")
	}

	if got := sess.ActiveTimetable(); len(got) != len(before) {
		t.Errorf("failed generation must not touch the active timetable: %d -> %d", len(before), len(got))
	}
	if got := len(sess.History()); got != historyBefore {
		t.Errorf("failed generation must not touch history: %d -> %d", historyBefore, got)
	}
}

// ── single flight ──

func TestSyncService_Generate_InFlightGuard(t *testing.T) {
	api := newMockSolverAPI()
	started := make(chan struct{})
	proceed := make(chan struct{})
	api.generateResult = &upstream.GenerateResult{
		Status:    upstream.StatusSuccess,
		Timetable: rawTimetable(sampleSlots()),
	}
	blocking := &blockingAPI{mockSolverAPI: api, started: started, proceed: proceed}

	sess := loggedInSession()
	svc := NewSyncService(blocking, sess, testOverrides(), zap.NewNop())
	uploadBoth(t, svc)

	errCh := make(chan error, 1)
	go func() {
		_, err := svc.Generate(context.Background(), dto.GenerateRequest{})
		errCh <- err
	}()
	<-started

	_, err := svc.Generate(context.Background(), dto.GenerateRequest{})
	if !errors.Is(err, ErrSyncInFlight) {
		t.Errorf("expected ErrSyncInFlight while a flow is running, got: %v", err)
	}

	close(proceed)
	if err := <-errCh; err != nil {
		t.Fatalf("first generate: %v", err)
	}

	// guard released: the next flow may start
	if _, err := svc.Generate(context.Background(), dto.GenerateRequest{}); err != nil {
		t.Errorf("generate after release: %v", err)
	}
}

// blockingAPI parks the first Generate call until told to proceed.
type blockingAPI struct {
	*mockSolverAPI
	started chan struct{}
	proceed chan struct{}
	once    sync.Once
}

func (b *blockingAPI) Generate(ctx context.Context, req upstream.GenerateRequest) (*upstream.GenerateResult, error) {
	b.once.Do(func() {
		close(b.started)
		<-b.proceed
	})
	return b.mockSolverAPI.Generate(ctx, req)
}

// ── history bookkeeping ──

func TestSyncService_Generate_AppendsHistory(t *testing.T) {
	api := newMockSolverAPI()
	api.generateResult = &upstream.GenerateResult{
		Status:    upstream.StatusSuccess,
		Timetable: rawTimetable(sampleSlots()),
		VersionID: "v7",
	}
	sess := loggedInSession()
	svc := NewSyncService(api, sess, testOverrides(), zap.NewNop())
	uploadBoth(t, svc)

	resp, err := svc.Generate(context.Background(), dto.GenerateRequest{Branch: "CS", Year: "3", Section: "A"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	history := sess.History()
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	entry := history[0]
	if entry.ID != resp.HistoryID {
		t.Errorf("history id mismatch: %q vs %q", entry.ID, resp.HistoryID)
	}
	if entry.Label != "CS-3-A" {
		t.Errorf("label = %q", entry.Label)
	}
	if entry.VersionID != "v7" {
		t.Errorf("version id = %q", entry.VersionID)
	}
	if len(entry.Slots) == 0 {
		t.Error("history entry must carry its slots inline")
	}
}
