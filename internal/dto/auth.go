package dto

import (
	"time"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
)

// LoginRequest authenticates against the solver server.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest creates an admin profile on the solver server. The
// password goes straight upstream; this side never stores it.
type RegisterRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	CollegeName string `json:"college_name"`
}

// LoginResponse returns the persisted profile. The token itself stays
// server-side in the volatile store; the UI only learns when it lapses.
type LoginResponse struct {
	Admin     model.AdminProfile `json:"admin"`
	ExpiresAt *time.Time         `json:"expires_at,omitempty"`
}
