package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/dto"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/service"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/pkg/response"
)

// AuthHandler handles the auth routes.
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates the AuthHandler.
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login authenticates against the solver server.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if respondUpstreamError(c, 11001, err) {
			return
		}
		if errors.Is(err, service.ErrAuthNoToken) {
			response.BadGateway(c, 11002, "login response carried no token")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Register creates an admin profile on the solver server.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	profile, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		if respondUpstreamError(c, 11003, err) {
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, profile)
}

// Logout clears the session, durable and volatile.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authSvc.Logout(c.Request.Context()); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// State exposes the session state the UI renders on load.
// GET /api/v1/auth/state
func (h *AuthHandler) State(c *gin.Context) {
	response.OK(c, h.authSvc.State())
}
