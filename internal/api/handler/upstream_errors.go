package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/upstream"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/pkg/response"
)

// respondUpstreamError maps solver-server failures onto the envelope.
// Client-class statuses pass through with the server's detail string;
// everything else is a 502 because the fault sits beyond this service.
func respondUpstreamError(c *gin.Context, code int, err error) bool {
	var ue *upstream.Error
	if !errors.As(err, &ue) {
		return false
	}
	if ue.Status >= 400 && ue.Status < 500 {
		response.ErrorWithDetails(c, ue.Status, code, http.StatusText(ue.Status), ue.Detail)
		return true
	}
	response.BadGateway(c, code, "timetable server unavailable")
	return true
}
