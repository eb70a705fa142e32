package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/dto"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/grid"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/session"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/upstream"
)

var (
	ErrHistoryNotFound = errors.New("history entry not found")
	ErrHistoryNoSlots  = errors.New("history entry carries no slots and no remote reference")
)

// HistoryService manages the bounded generation log: listing, restoring a
// past timetable as the active one, deleting entries and the global reset.
type HistoryService interface {
	List() dto.HistoryListResponse
	Restore(ctx context.Context, id string) (*dto.RestoreResponse, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	// RemoteVersions lists the server-side version registry.
	RemoteVersions(ctx context.Context) ([]upstream.VersionSummary, error)
	// DeleteRemoteVersion removes one server-side version.
	DeleteRemoteVersion(ctx context.Context, versionID string) error
}

type historyService struct {
	api       SolverAPI
	session   *session.Manager
	overrides *grid.OverrideSet
	logger    *zap.Logger
}

// NewHistoryService creates the history service.
func NewHistoryService(api SolverAPI, sess *session.Manager, overrides *grid.OverrideSet, logger *zap.Logger) HistoryService {
	return &historyService{api: api, session: sess, overrides: overrides, logger: logger}
}

func (s *historyService) List() dto.HistoryListResponse {
	return dto.HistoryListResponse{Entries: s.session.History()}
}

// Restore re-activates a past generation. Entries created under the richer
// contract carry their slots inline; older ones only hold a reference and
// are re-fetched through the section endpoint or the full collection.
func (s *historyService) Restore(ctx context.Context, id string) (*dto.RestoreResponse, error) {
	var entry *model.HistoryEntry
	for _, h := range s.session.History() {
		if h.ID == id {
			copied := h
			entry = &copied
			break
		}
	}
	if entry == nil {
		return nil, ErrHistoryNotFound
	}

	slots := entry.Slots
	if len(slots) == 0 {
		fetched, err := s.refetch(ctx, entry)
		if err != nil {
			return nil, err
		}
		slots = fetched
	}

	if err := s.session.SetActiveTimetable(ctx, slots); err != nil {
		return nil, err
	}

	s.logger.Info("history entry restored",
		zap.String("id", entry.ID),
		zap.String("label", entry.Label),
	)
	return &dto.RestoreResponse{
		Entry: *entry,
		View:  grid.Build(slots, entry.Filter, s.overrides),
	}, nil
}

func (s *historyService) refetch(ctx context.Context, entry *model.HistoryEntry) ([]model.Slot, error) {
	f := entry.Filter
	if f.Constrains() && f.Branch != "" && f.Year != "" && f.Section != "" {
		return s.api.SlotsBySection(ctx, f.Branch, f.Year, f.Section)
	}
	if entry.VersionID == "" && !f.Constrains() {
		// Unfiltered legacy entry: the full collection is the reference.
		raw, err := s.api.AllSlots(ctx)
		if err != nil {
			return nil, err
		}
		return grid.Normalize(raw), nil
	}
	if entry.VersionID == "" {
		return nil, ErrHistoryNoSlots
	}
	raw, err := s.api.AllSlots(ctx)
	if err != nil {
		return nil, err
	}
	return grid.Filter(grid.Normalize(raw), f), nil
}

func (s *historyService) Delete(ctx context.Context, id string) error {
	found, err := s.session.DeleteHistory(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrHistoryNotFound
	}
	return nil
}

func (s *historyService) Clear(ctx context.Context) error {
	return s.session.ClearHistory(ctx)
}

func (s *historyService) RemoteVersions(ctx context.Context) ([]upstream.VersionSummary, error) {
	return s.api.ListVersions(ctx)
}

func (s *historyService) DeleteRemoteVersion(ctx context.Context, versionID string) error {
	return s.api.DeleteVersion(ctx, versionID)
}
