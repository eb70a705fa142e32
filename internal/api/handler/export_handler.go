package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/service"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler handles the download routes.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates the ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportXLSX downloads the filtered grid as an Excel workbook.
// GET /api/v1/export/xlsx?branch=CS&year=3&section=A
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportXLSX(queryFilter(c))
	if err != nil {
		h.respondExportError(c, err)
		return
	}
	writeDownload(c, xlsxContentType, filename, buf.Bytes())
}

// ExportICS downloads the filtered grid as an iCalendar file.
// GET /api/v1/export/ics?branch=CS&year=3&section=A
func (h *ExportHandler) ExportICS(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportICS(queryFilter(c))
	if err != nil {
		h.respondExportError(c, err)
		return
	}
	writeDownload(c, icsContentType, filename, buf.Bytes())
}

func (h *ExportHandler) respondExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoTimetable):
		response.NotFound(c, 16001, "no active timetable to export")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}

func queryFilter(c *gin.Context) model.FilterTriple {
	return model.FilterTriple{
		Branch:  c.Query("branch"),
		Year:    c.Query("year"),
		Section: c.Query("section"),
	}
}

func writeDownload(c *gin.Context, contentType, filename string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}
