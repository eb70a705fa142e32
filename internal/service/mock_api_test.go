package service

import (
	"context"
	"encoding/json"
	"io"

	"go.uber.org/zap"

	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/grid"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/model"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/session"
	"github.com/DhruvJohri/Time-Table-Scheduler-Major/internal/upstream"
)

// ── Mock SolverAPI ──

type mockSolverAPI struct {
	loginResult      *upstream.LoginResult
	loginErr         error
	uploadErr        error
	generateResult   *upstream.GenerateResult
	generateErr      error
	allSlotsRaw      json.RawMessage
	allSlotsErr      error
	sectionSlots     []model.Slot
	sectionErr       error
	versions         []upstream.VersionSummary
	versionsErr      error
	deleteVersionErr error

	loginCalls    int
	uploadCalls   []string
	generateCalls int
	allSlotsCalls int
	sectionCalls  int
	deletedIDs    []string
}

func newMockSolverAPI() *mockSolverAPI {
	return &mockSolverAPI{}
}

func (m *mockSolverAPI) Login(_ context.Context, email, _ string) (*upstream.LoginResult, error) {
	m.loginCalls++
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	if m.loginResult != nil {
		return m.loginResult, nil
	}
	return &upstream.LoginResult{
		AccessToken: "mock-token",
		Admin:       model.AdminProfile{ID: "adm-1", Name: "Admin", Email: email},
	}, nil
}

func (m *mockSolverAPI) SaveProfile(_ context.Context, payload upstream.ProfilePayload) (*model.AdminProfile, error) {
	return &model.AdminProfile{
		ID:          "adm-new",
		Name:        payload.Name,
		Email:       payload.Email,
		CollegeName: payload.CollegeName,
	}, nil
}

func (m *mockSolverAPI) UploadMaster(_ context.Context, filename string, _ io.Reader, _ string) (*upstream.UploadResult, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.uploadCalls = append(m.uploadCalls, "master:"+filename)
	return &upstream.UploadResult{UploadID: "up-master"}, nil
}

func (m *mockSolverAPI) UploadAssignment(_ context.Context, filename string, _ io.Reader, _ string) (*upstream.UploadResult, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.uploadCalls = append(m.uploadCalls, "assignment:"+filename)
	return &upstream.UploadResult{UploadID: "up-assignment"}, nil
}

func (m *mockSolverAPI) Generate(_ context.Context, _ upstream.GenerateRequest) (*upstream.GenerateResult, error) {
	m.generateCalls++
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	if m.generateResult != nil {
		return m.generateResult, nil
	}
	return &upstream.GenerateResult{Status: upstream.StatusSuccess}, nil
}

func (m *mockSolverAPI) AllSlots(_ context.Context) (json.RawMessage, error) {
	m.allSlotsCalls++
	if m.allSlotsErr != nil {
		return nil, m.allSlotsErr
	}
	if m.allSlotsRaw != nil {
		return m.allSlotsRaw, nil
	}
	return json.RawMessage(`[]`), nil
}

func (m *mockSolverAPI) SlotsBySection(_ context.Context, _, _, _ string) ([]model.Slot, error) {
	m.sectionCalls++
	if m.sectionErr != nil {
		return nil, m.sectionErr
	}
	return m.sectionSlots, nil
}

func (m *mockSolverAPI) ListVersions(_ context.Context) ([]upstream.VersionSummary, error) {
	if m.versionsErr != nil {
		return nil, m.versionsErr
	}
	return m.versions, nil
}

func (m *mockSolverAPI) DeleteVersion(_ context.Context, versionID string) error {
	if m.deleteVersionErr != nil {
		return m.deleteVersionErr
	}
	m.deletedIDs = append(m.deletedIDs, versionID)
	return nil
}

// ── shared fixtures ──

func newTestSession() *session.Manager {
	return session.NewManager(session.NewMemoryStore(), session.NewTokenStore(), "test:session", 20, zap.NewNop())
}

func loggedInSession() *session.Manager {
	sess := newTestSession()
	sess.Tokens().Set("mock-token", 0)
	_ = sess.SetAdmin(context.Background(), model.AdminProfile{ID: "adm-1", Name: "Admin", Email: "admin@college.edu"})
	return sess
}

func testOverrides() *grid.OverrideSet {
	return grid.NewOverrideSet([]grid.Override{
		{Day: "Wednesday", Period: 7, Subject: "Club Activity", Type: "CLUB"},
	})
}

func rawTimetable(slots []model.Slot) json.RawMessage {
	b, _ := json.Marshal(slots)
	return b
}

func sampleSlots() []model.Slot {
	return []model.Slot{
		{Day: "Monday", Period: 1, Branch: "CS", Year: 3, Section: "A", Subject: "Algorithms", SubjectCode: "CS301", Faculty: "Dr. Rao", Room: "204", Type: model.SessionLecture},
		{Day: "Monday", Period: 3, Branch: "CS", Year: 3, Section: "A", Subject: "Physics Lab", SubjectCode: "PH302", Faculty: "Dr. Iyer", Room: "L2", Type: model.SessionLab},
		{Day: "Monday", Period: 4, Branch: "CS", Year: 3, Section: "A", Subject: "Physics Lab", SubjectCode: "PH302", Faculty: "Dr. Iyer", Room: "L2", Type: model.SessionLab},
		{Day: "Tuesday", Period: 2, Branch: "ME", Year: 2, Section: "B", Subject: "Thermodynamics", SubjectCode: "ME201", Faculty: "Dr. Khan", Room: "108", Type: model.SessionLecture},
	}
}
