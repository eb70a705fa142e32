package handler

import "github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/service"

// Handler is the aggregate of all HTTP handlers.
type Handler struct {
	Auth    *AuthHandler
	Grid    *GridHandler
	Sync    *SyncHandler
	History *HistoryHandler
	Export  *ExportHandler
}

// NewHandler creates the handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth),
		Grid:    NewGridHandler(svc.Grid),
		Sync:    NewSyncHandler(svc.Sync),
		History: NewHistoryHandler(svc.History),
		Export:  NewExportHandler(svc.Export),
	}
}
