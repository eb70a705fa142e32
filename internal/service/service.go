package service

import (
	"context"
	"encoding/json"
	"io"

	"go.uber.org/zap"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/config"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/grid"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/session"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/upstream"
)

// SolverAPI is the surface of the solver server this side consumes.
// *upstream.Client implements it; tests substitute a mock.
type SolverAPI interface {
	Login(ctx context.Context, email, password string) (*upstream.LoginResult, error)
	SaveProfile(ctx context.Context, payload upstream.ProfilePayload) (*model.AdminProfile, error)
	UploadMaster(ctx context.Context, filename string, file io.Reader, adminEmail string) (*upstream.UploadResult, error)
	UploadAssignment(ctx context.Context, filename string, file io.Reader, adminEmail string) (*upstream.UploadResult, error)
	Generate(ctx context.Context, req upstream.GenerateRequest) (*upstream.GenerateResult, error)
	AllSlots(ctx context.Context) (json.RawMessage, error)
	SlotsBySection(ctx context.Context, branch, year, section string) ([]model.Slot, error)
	ListVersions(ctx context.Context) ([]upstream.VersionSummary, error)
	DeleteVersion(ctx context.Context, versionID string) error
}

// Service aggregates all services.
type Service struct {
	Auth    AuthService
	Sync    SyncService
	Grid    GridService
	History HistoryService
	Export  ExportService
}

// NewService wires the services over one session manager, one solver client
// and one override set.
func NewService(cfg *config.Config, api SolverAPI, sess *session.Manager, logger *zap.Logger) *Service {
	overrides := grid.NewOverrideSet(cfg.Grid.Overrides)
	return &Service{
		Auth:    NewAuthService(api, sess, logger),
		Sync:    NewSyncService(api, sess, overrides, logger),
		Grid:    NewGridService(sess, overrides),
		History: NewHistoryService(api, sess, overrides, logger),
		Export:  NewExportService(sess, overrides, logger),
	}
}
