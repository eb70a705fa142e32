package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/dto"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/session"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/upstream"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/pkg/token"
)

var (
	ErrAuthNoToken = errors.New("login response carried no access token")
)

// AuthService handles login, logout and session state exposure. Credential
// verification itself happens upstream; this side only brokers the token
// into the volatile store and the profile into the durable one.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*model.AdminProfile, error)
	Logout(ctx context.Context) error
	State() model.SessionState
}

type authService struct {
	api     SolverAPI
	session *session.Manager
	logger  *zap.Logger
}

// NewAuthService creates the auth service.
func NewAuthService(api SolverAPI, sess *session.Manager, logger *zap.Logger) AuthService {
	return &authService{api: api, session: sess, logger: logger}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	result, err := s.api.Login(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Warn("login rejected", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}
	if result.AccessToken == "" {
		return nil, ErrAuthNoToken
	}

	// Track the token's own expiry so the session can require re-auth at
	// the right moment. An unreadable exp claim just disables tracking.
	var expiresAt *time.Time
	ttl, ttlErr := token.RemainingTTL(result.AccessToken, time.Now())
	if ttlErr == nil && ttl > 0 {
		t := time.Now().Add(ttl)
		expiresAt = &t
	}

	s.session.Tokens().Set(result.AccessToken, ttl)
	if err := s.session.SetAdmin(ctx, result.Admin); err != nil {
		// Token is live; the profile just failed to persist. Keep the
		// session usable and let the next mutation retry the write.
		s.logger.Warn("persisting admin profile failed", zap.Error(err))
	}

	s.logger.Info("login succeeded", zap.String("admin", result.Admin.Email))
	return &dto.LoginResponse{Admin: result.Admin, ExpiresAt: expiresAt}, nil
}

// Register creates the admin profile upstream. It does not log in; the new
// admin authenticates through the normal login flow afterwards.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*model.AdminProfile, error) {
	profile, err := s.api.SaveProfile(ctx, upstream.ProfilePayload{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		CollegeName: req.CollegeName,
	})
	if err != nil {
		s.logger.Warn("profile registration failed", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("admin profile registered", zap.String("email", profile.Email))
	return profile, nil
}

func (s *authService) Logout(ctx context.Context) error {
	if err := s.session.Logout(ctx); err != nil {
		s.logger.Error("logout failed", zap.Error(err))
		return err
	}
	s.logger.Info("session cleared")
	return nil
}

func (s *authService) State() model.SessionState {
	return s.session.State()
}
