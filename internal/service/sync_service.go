package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/dto"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/grid"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/session"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/upstream"
)

// ── sync engine business errors ──

var (
	ErrSyncNoAdmin            = errors.New("no admin profile: log in before generating")
	ErrSyncMasterRequired     = errors.New("master data must be uploaded before this step")
	ErrSyncAssignmentRequired = errors.New("assignment data must be uploaded before generating")
	ErrSyncInFlight           = errors.New("a generation flow is already in progress")
	ErrSyncBadExtension       = errors.New("only .xlsx and .xls files are accepted")
	ErrSyncEmptyFile          = errors.New("uploaded file name must not be empty")
)

// Engine stages.
const (
	StageIdle                = "idle"
	StageUploadingMaster     = "uploading_master"
	StageUploadingAssignment = "uploading_assignment"
	StageGenerating          = "generating"
	StageResolved            = "resolved"
	StageError               = "error"
)

// ── SyncService ─────────────────────────────────────────────
//
// The orchestrator of the upload → generate → resolve → persist flow:
//
//   Idle → Uploading(master) → Uploading(assignment) → Generating
//        → Resolved(success|partial) → Idle, Error reachable from anywhere.
//
// The engine is not reentrant: one flow at a time per session, enforced by
// a single-flight guard. Uploads are sequential because the server
// validates assignment data against committed master data.
// ────────────────────────────────────────────────────────────

// SyncService drives generation and synchronization.
type SyncService interface {
	// UploadMaster submits the master-data spreadsheet.
	UploadMaster(ctx context.Context, filename string, file io.Reader) (*dto.UploadResponse, error)
	// UploadAssignment submits the assignment-data spreadsheet.
	UploadAssignment(ctx context.Context, filename string, file io.Reader) (*dto.UploadResponse, error)
	// Generate runs one full generation flow for the filter.
	Generate(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateResponse, error)
	// Status reports the engine stage and session flags.
	Status() dto.SyncStatusResponse
	// DismissWarning clears the partial-result banner.
	DismissWarning()
	// DismissError clears the surfaced error.
	DismissError()
	// Versions returns the cached best-effort version list.
	Versions() []upstream.VersionSummary
}

type syncService struct {
	api       SolverAPI
	session   *session.Manager
	overrides *grid.OverrideSet
	logger    *zap.Logger

	mu             sync.Mutex
	inFlight       bool
	stage          string
	masterDone     bool
	assignmentDone bool
	versions       []upstream.VersionSummary
}

// NewSyncService creates the sync engine.
func NewSyncService(api SolverAPI, sess *session.Manager, overrides *grid.OverrideSet, logger *zap.Logger) SyncService {
	return &syncService{
		api:       api,
		session:   sess,
		overrides: overrides,
		logger:    logger,
		stage:     StageIdle,
	}
}

// ── uploads ──

func (s *syncService) UploadMaster(ctx context.Context, filename string, file io.Reader) (*dto.UploadResponse, error) {
	admin, err := s.requireAdmin()
	if err != nil {
		return nil, err
	}
	if err := validateSpreadsheetName(filename); err != nil {
		return nil, err // rejected before any network call
	}

	release, err := s.begin(StageUploadingMaster)
	if err != nil {
		return nil, err
	}
	defer release()

	result, err := s.api.UploadMaster(ctx, filename, file, admin.Email)
	if err != nil {
		s.fail("master upload failed", err)
		return nil, err
	}

	s.mu.Lock()
	s.masterDone = true
	// A new master dataset invalidates any previously accepted assignment.
	s.assignmentDone = false
	s.mu.Unlock()

	s.logger.Info("master data accepted",
		zap.String("upload_id", result.UploadID),
		zap.String("admin", admin.Email),
	)
	return &dto.UploadResponse{UploadID: result.UploadID, Stage: "master"}, nil
}

func (s *syncService) UploadAssignment(ctx context.Context, filename string, file io.Reader) (*dto.UploadResponse, error) {
	admin, err := s.requireAdmin()
	if err != nil {
		return nil, err
	}
	if err := validateSpreadsheetName(filename); err != nil {
		return nil, err
	}
	s.mu.Lock()
	masterDone := s.masterDone
	s.mu.Unlock()
	if !masterDone {
		return nil, ErrSyncMasterRequired
	}

	release, err := s.begin(StageUploadingAssignment)
	if err != nil {
		return nil, err
	}
	defer release()

	result, err := s.api.UploadAssignment(ctx, filename, file, admin.Email)
	if err != nil {
		s.fail("assignment upload failed", err)
		return nil, err
	}

	s.mu.Lock()
	s.assignmentDone = true
	s.mu.Unlock()

	s.logger.Info("assignment data accepted",
		zap.String("upload_id", result.UploadID),
		zap.String("admin", admin.Email),
	)
	return &dto.UploadResponse{UploadID: result.UploadID, Stage: "assignment"}, nil
}

// ════════════════════════════════════════════════════════════
// Generate — one full generation flow
// ════════════════════════════════════════════════════════════
//
// Steps:
//   1. preconditions: admin present, both uploads accepted, nothing in flight
//   2. ask the server to generate for the filter triple
//   3. resolve slots: inline result if present, otherwise one fallback fetch
//   4. partial status surfaces the unallocated list as a warning
//   5. commit timetable + history; failure leaves prior persisted state alone

func (s *syncService) Generate(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateResponse, error) {
	admin, err := s.requireAdmin()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	masterDone, assignmentDone := s.masterDone, s.assignmentDone
	s.mu.Unlock()
	if !masterDone {
		return nil, ErrSyncMasterRequired
	}
	if !assignmentDone {
		return nil, ErrSyncAssignmentRequired
	}

	release, err := s.begin(StageGenerating)
	if err != nil {
		return nil, err
	}
	defer release()

	filter := req.Triple()
	result, err := s.api.Generate(ctx, upstream.GenerateRequest{
		AdminID: admin.ID,
		Branch:  wireValue(filter.Branch),
		Year:    wireValue(filter.Year),
		Section: wireValue(filter.Section),
	})
	if err != nil {
		s.fail("generation failed", err)
		return nil, err
	}

	// Result resolution: the richer contract carries slots inline; the
	// older one needs a follow-up fetch of the full collection.
	slots := grid.Normalize(result.Timetable)
	if len(slots) == 0 {
		raw, fetchErr := s.api.AllSlots(ctx)
		if fetchErr != nil {
			s.fail("fallback slot fetch failed", fetchErr)
			return nil, fetchErr
		}
		slots = grid.Filter(grid.Normalize(raw), filter)
	}

	status := result.Status
	if status == "" {
		status = upstream.StatusSuccess
	}
	if status == upstream.StatusPartial {
		s.session.SetUnallocated(result.Unallocated)
	} else {
		s.session.ClearUnallocated()
	}

	entry := model.HistoryEntry{
		ID:        uuid.New().String(),
		Label:     filter.Label(),
		Filter:    filter,
		CreatedAt: time.Now(),
		Slots:     slots,
		VersionID: result.VersionID,
	}
	if err := s.session.CommitGeneration(ctx, slots, entry); err != nil {
		s.fail("persisting generation result failed", err)
		return nil, err
	}

	s.mu.Lock()
	s.stage = StageResolved
	s.mu.Unlock()
	s.session.ClearError()

	// Convenience refresh only; a failure here must not disturb the flow.
	go s.refreshVersions()

	s.logger.Info("generation resolved",
		zap.String("status", status),
		zap.Int("slots", len(slots)),
		zap.String("label", entry.Label),
		zap.Strings("unallocated", result.Unallocated),
	)

	return &dto.GenerateResponse{
		Status:      status,
		Message:     result.Message,
		Unallocated: result.Unallocated,
		View:        grid.Build(slots, filter, s.overrides),
		HistoryID:   entry.ID,
	}, nil
}

// ── status & dismissals ──

func (s *syncService) Status() dto.SyncStatusResponse {
	s.mu.Lock()
	stage, master, assignment := s.stage, s.masterDone, s.assignmentDone
	s.mu.Unlock()

	state := s.session.State()
	return dto.SyncStatusResponse{
		Stage:              stage,
		MasterUploaded:     master,
		AssignmentUploaded: assignment,
		Loading:            state.Loading,
		Error:              state.Error,
		Unallocated:        state.Unallocated,
	}
}

func (s *syncService) DismissWarning() {
	s.session.ClearUnallocated()
}

func (s *syncService) DismissError() {
	s.session.ClearError()
	s.mu.Lock()
	if s.stage == StageError {
		s.stage = StageIdle
	}
	s.mu.Unlock()
}

func (s *syncService) Versions() []upstream.VersionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]upstream.VersionSummary(nil), s.versions...)
}

// ── helpers ──

// begin acquires the single-flight guard and enters a stage. The returned
// release drops the guard and the loading flag; the stage survives so the
// UI can show the outcome.
func (s *syncService) begin(stage string) (func(), error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrSyncInFlight
	}
	s.inFlight = true
	s.stage = stage
	s.mu.Unlock()

	s.session.SetLoading(true)
	return func() {
		s.session.SetLoading(false)
		s.mu.Lock()
		s.inFlight = false
		if s.stage != StageResolved && s.stage != StageError {
			s.stage = StageIdle
		}
		s.mu.Unlock()
	}, nil
}

func (s *syncService) requireAdmin() (*model.AdminProfile, error) {
	admin, ok := s.session.Admin()
	if !ok {
		return nil, ErrSyncNoAdmin
	}
	return admin, nil
}

// fail enters the Error stage and surfaces a human-readable message,
// preferring the server's own detail string.
func (s *syncService) fail(context string, err error) {
	s.mu.Lock()
	s.stage = StageError
	s.mu.Unlock()

	s.session.SetError(HumanMessage(err, context))
	s.logger.Error(context, zap.Error(err))
}

// refreshVersions is the best-effort background version sync. It fails
// silently: it is a convenience refresh, not a correctness requirement.
func (s *syncService) refreshVersions() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	versions, err := s.api.ListVersions(ctx)
	if err != nil {
		s.logger.Debug("background version sync failed", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.versions = versions
	s.mu.Unlock()
}

// HumanMessage converts an error to the message surfaced in session state:
// the server's detail string when present, the fallback otherwise.
func HumanMessage(err error, fallback string) string {
	var ue *upstream.Error
	if errors.As(err, &ue) && ue.Detail != "" {
		return ue.Detail
	}
	if fallback != "" {
		return fmt.Sprintf("%s, please try again", fallback)
	}
	return "something went wrong, please try again"
}

func validateSpreadsheetName(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return ErrSyncEmptyFile
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return nil
	default:
		return ErrSyncBadExtension
	}
}

func wireValue(v string) string {
	if v == "" || strings.EqualFold(v, model.FilterAll) {
		return ""
	}
	return v
}
