package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
)

// ── Solver server client ────────────────────────────────────
//
// Every call the UI-facing side makes against the scheduling server goes
// through this client. The bearer token is attached automatically while the
// volatile store holds one; calls work unauthenticated where the server
// allows it.
// ────────────────────────────────────────────────────────────

// TokenSource yields the current bearer token, if any.
type TokenSource interface {
	Token() (string, bool)
}

// Error is a failure reported by the server, carrying its detail string so
// callers can surface the server's own words.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("upstream: %s (status %d)", e.Detail, e.Status)
	}
	return fmt.Sprintf("upstream: request failed with status %d", e.Status)
}

// Client talks to the solver server.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *zap.Logger
}

// NewClient creates the solver server client.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  logger,
	}
}

// ── auth ──

// Login exchanges credentials for a bearer token and the admin profile.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.postJSON(ctx, "/api/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ── uploads ──

// UploadMaster submits the master-data spreadsheet.
func (c *Client) UploadMaster(ctx context.Context, filename string, file io.Reader, adminEmail string) (*UploadResult, error) {
	return c.upload(ctx, "/api/upload/master", filename, file, adminEmail)
}

// UploadAssignment submits the assignment-data spreadsheet. The server
// validates it against committed master data, so master must go first.
func (c *Client) UploadAssignment(ctx context.Context, filename string, file io.Reader, adminEmail string) (*UploadResult, error) {
	return c.upload(ctx, "/api/upload/assignment", filename, file, adminEmail)
}

func (c *Client) upload(ctx context.Context, path, filename string, file io.Reader, adminEmail string) (*UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("reading upload payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing upload form: %w", err)
	}

	endpoint := path + "?admin_email=" + url.QueryEscape(adminEmail)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result UploadResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ── generation ──

// Generate asks the server to produce a timetable for the given filter.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	var result GenerateResult
	if err := c.postJSON(ctx, "/api/timetable/generate", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AllSlots fetches the full slot collection. The payload shape varies with
// server age, so the raw body is returned for grid.Normalize to resolve.
func (c *Client) AllSlots(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/timetable", nil)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.do(req, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// SlotsBySection fetches one section's slots, converting the endpoint's
// alternate field names to canonical slots.
func (c *Client) SlotsBySection(ctx context.Context, branch, year, section string) ([]model.Slot, error) {
	path := fmt.Sprintf("/api/timetable/%s/%s/%s",
		url.PathEscape(branch), url.PathEscape(year), url.PathEscape(section))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	var payload sectionPayload
	if err := c.do(req, &payload); err != nil {
		return nil, err
	}
	return mapSectionEntries(payload), nil
}

// ── versions ──

// ListVersions lists the server's generated timetable versions.
func (c *Client) ListVersions(ctx context.Context) ([]VersionSummary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/timetable/versions", nil)
	if err != nil {
		return nil, err
	}
	var versions []VersionSummary
	if err := c.do(req, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// DeleteVersion removes one remote version.
func (c *Client) DeleteVersion(ctx context.Context, versionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/api/timetable/versions/"+url.PathEscape(versionID), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// ── profile ──

// SaveProfile registers an admin profile. The server answers with the stored
// profile when the email is already registered, so the call is idempotent.
func (c *Client) SaveProfile(ctx context.Context, payload ProfilePayload) (*model.AdminProfile, error) {
	var saved model.AdminProfile
	if err := c.postJSON(ctx, "/api/profiles", payload, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// ── plumbing ──

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// errorBody matches the server's error envelope.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if token, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("upstream: reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		detail := eb.Detail
		if detail == "" {
			detail = eb.Message
		}
		c.logger.Warn("upstream request failed",
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail),
		)
		return &Error{Status: resp.StatusCode, Detail: detail}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("upstream: decoding response: %w", err)
	}
	return nil
}
