package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/kumar-pranav/dojotrack-api/internal/dto"
	"github.com/kumar-pranav/dojotrack-api/internal/handler"
	"github.com/kumar-pranav/dojotrack-api/internal/models"
	"github.com/kumar-pranav/dojotrack-api/internal/service"
)

type mockSessionService struct {
	snapshot   dto.SessionResponse
	markErr    error
	commitErr  error
	lastMarkID string
	lastStatus models.AttendanceStatus
	loadCalls  int
	undoCalls  int
}

func (m *mockSessionService) Load(_ context.Context) dto.SessionResponse {
	m.loadCalls++
	return m.snapshot
}

func (m *mockSessionService) Snapshot() dto.SessionResponse { return m.snapshot }

func (m *mockSessionService) Mark(_ context.Context, studentID string, status models.AttendanceStatus) (dto.SessionResponse, error) {
	m.lastMarkID = studentID
	m.lastStatus = status
	if m.markErr != nil {
		return dto.SessionResponse{}, m.markErr
	}
	return m.snapshot, nil
}

func (m *mockSessionService) Undo(_ context.Context) dto.SessionResponse {
	m.undoCalls++
	return m.snapshot
}

func (m *mockSessionService) Commit(_ context.Context) error { return m.commitErr }

func newSessionApp(svc service.SessionService) *fiber.App {
	app := fiber.New()
	handler.NewSessionHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/session"))
	return app
}

func TestSessionHandler_MarkSuccess(t *testing.T) {
	svc := &mockSessionService{snapshot: dto.SessionResponse{
		DateKey:    "2026-02-10",
		TotalCount: 3,
		Progress:   1.0 / 3.0,
		Marked:     map[string]models.AttendanceStatus{"s1": models.StatusPresent},
	}}
	app := newSessionApp(svc)

	body, err := json.Marshal(dto.MarkRequest{StudentID: "s1", Status: "PRESENT"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/session/mark", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                `json:"success"`
		Data    dto.SessionResponse `json:"data"`
		Message string              `json:"message"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, "attendance marked", response.Message)
	require.Equal(t, "2026-02-10", response.Data.DateKey)
	require.Equal(t, "s1", svc.lastMarkID)
	require.Equal(t, models.StatusPresent, svc.lastStatus)
}

func TestSessionHandler_MarkErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{name: "not loaded", err: service.ErrSessionNotLoaded, statusCode: fiber.StatusConflict},
		{name: "finalized", err: service.ErrSessionFinalized, statusCode: fiber.StatusConflict},
		{name: "not head", err: service.ErrNotQueueHead, statusCode: fiber.StatusConflict},
		{name: "bad status", err: service.ErrUnknownStatus, statusCode: fiber.StatusBadRequest},
		{name: "generic", err: errors.New("boom"), statusCode: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockSessionService{markErr: tc.err}
			app := newSessionApp(svc)

			body, err := json.Marshal(dto.MarkRequest{StudentID: "s1", Status: "PRESENT"})
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/session/mark", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)
		})
	}
}

func TestSessionHandler_LoadAndUndo(t *testing.T) {
	svc := &mockSessionService{snapshot: dto.SessionResponse{DateKey: "2026-02-10"}}
	app := newSessionApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/session/load", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 1, svc.loadCalls)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/api/session/undo", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 1, svc.undoCalls)
}

func TestSessionHandler_CommitFinalizedConflict(t *testing.T) {
	svc := &mockSessionService{commitErr: service.ErrSessionFinalized}
	app := newSessionApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/session/commit", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}
