package handler

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/dto"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/service"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/pkg/response"
)

// SyncHandler handles the upload/generate flow routes.
type SyncHandler struct {
	syncSvc service.SyncService
}

// NewSyncHandler creates the SyncHandler.
func NewSyncHandler(syncSvc service.SyncService) *SyncHandler {
	return &SyncHandler{syncSvc: syncSvc}
}

// UploadMaster accepts the master-data spreadsheet.
// POST /api/v1/sync/upload/master  (multipart field "file")
func (h *SyncHandler) UploadMaster(c *gin.Context) {
	h.upload(c, h.syncSvc.UploadMaster)
}

// UploadAssignment accepts the assignment-data spreadsheet.
// POST /api/v1/sync/upload/assignment  (multipart field "file")
func (h *SyncHandler) UploadAssignment(c *gin.Context) {
	h.upload(c, h.syncSvc.UploadAssignment)
}

func (h *SyncHandler) upload(c *gin.Context, submit func(ctx context.Context, filename string, file io.Reader) (*dto.UploadResponse, error)) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "multipart field 'file' is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 10001, "cannot read uploaded file")
		return
	}
	defer f.Close()

	result, err := submit(c.Request.Context(), fileHeader.Filename, f)
	if err != nil {
		h.respondSyncError(c, err)
		return
	}
	response.OK(c, result)
}

// Generate triggers one full generation flow.
// POST /api/v1/sync/generate
func (h *SyncHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.syncSvc.Generate(c.Request.Context(), req)
	if err != nil {
		h.respondSyncError(c, err)
		return
	}
	response.OK(c, result)
}

// Status reports the engine stage and the session flags around it.
// GET /api/v1/sync/status
func (h *SyncHandler) Status(c *gin.Context) {
	response.OK(c, h.syncSvc.Status())
}

// DismissWarning clears the partial-result banner.
// POST /api/v1/sync/dismiss-warning
func (h *SyncHandler) DismissWarning(c *gin.Context) {
	h.syncSvc.DismissWarning()
	response.OK(c, nil)
}

// DismissError clears the surfaced error and returns the engine to idle.
// POST /api/v1/sync/dismiss-error
func (h *SyncHandler) DismissError(c *gin.Context) {
	h.syncSvc.DismissError()
	response.OK(c, nil)
}

// Versions returns the cached remote version list.
// GET /api/v1/sync/versions
func (h *SyncHandler) Versions(c *gin.Context) {
	response.OK(c, h.syncSvc.Versions())
}

func (h *SyncHandler) respondSyncError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSyncNoAdmin):
		response.Unauthorized(c, 12001, "log in before uploading or generating")
	case errors.Is(err, service.ErrSyncMasterRequired):
		response.Conflict(c, 12002, "master data must be uploaded first")
	case errors.Is(err, service.ErrSyncAssignmentRequired):
		response.Conflict(c, 12003, "assignment data must be uploaded first")
	case errors.Is(err, service.ErrSyncInFlight):
		response.Conflict(c, 12004, "a generation flow is already in progress")
	case errors.Is(err, service.ErrSyncBadExtension):
		response.UnprocessableEntity(c, 12005, "only .xlsx and .xls files are accepted")
	case errors.Is(err, service.ErrSyncEmptyFile):
		response.UnprocessableEntity(c, 12006, "uploaded file name must not be empty")
	default:
		if respondUpstreamError(c, 12100, err) {
			return
		}
		response.InternalError(c)
	}
}
