package opname

import (
	"fmt"
	"net/http"
	"testing"

	"opname-backend/internal/config"
	"opname-backend/internal/database"
	"opname-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSessionStartsOpen(t *testing.T) {
	app := newTestApp(t, nil)

	resp, payload := doRequest(t, app, http.MethodPost, "/api/sessions",
		fiber.Map{"title": "Dec Count"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	s := decodeJSON[SessionResponse](t, payload)
	assert.Equal(t, "Dec Count", s.Title)
	assert.Equal(t, "OPEN", s.Status)
	assert.Nil(t, s.CompletedAt)
	assert.NotEmpty(t, s.CreatedAt)
}

func TestCreateSessionRejectsBlankTitle(t *testing.T) {
	app := newTestApp(t, nil)

	resp, _ := doRequest(t, app, http.MethodPost, "/api/sessions",
		fiber.Map{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFinalizeSetsCompletedAt(t *testing.T) {
	app := newTestApp(t, nil)
	s := seedSession(t, "Weekly", models.SessionStatusOpen)

	resp, payload := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/sessions/%d/finalize", s.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decodeJSON[SessionResponse](t, payload)
	assert.Equal(t, "COMPLETED", got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.NotEmpty(t, *got.CompletedAt)
}

func TestFinalizeIsIdempotentByDefault(t *testing.T) {
	app := newTestApp(t, nil)
	s := seedSession(t, "Weekly", models.SessionStatusOpen)

	path := fmt.Sprintf("/api/sessions/%d/finalize", s.ID)
	resp, _ := doRequest(t, app, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, payload := doRequest(t, app, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "COMPLETED", decodeJSON[SessionResponse](t, payload).Status)
}

func TestFinalizeStrictRejectsCompletedSession(t *testing.T) {
	app := newTestApp(t, &config.Config{StrictFinalize: true})
	s := seedSession(t, "Weekly", models.SessionStatusOpen)

	path := fmt.Sprintf("/api/sessions/%d/finalize", s.ID)
	resp, _ := doRequest(t, app, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestFinalizeUnknownSession(t *testing.T) {
	app := newTestApp(t, nil)

	resp, _ := doRequest(t, app, http.MethodPost, "/api/sessions/999/finalize", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestToggleLockFlipsAgainstStoredStatus(t *testing.T) {
	app := newTestApp(t, nil)
	s := seedSession(t, "Weekly", models.SessionStatusOpen)

	path := fmt.Sprintf("/api/sessions/%d/toggle-lock", s.ID)

	resp, payload := doRequest(t, app, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "LOCKED", decodeJSON[SessionResponse](t, payload).Status)

	resp, payload = doRequest(t, app, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OPEN", decodeJSON[SessionResponse](t, payload).Status)
}

func TestToggleLockRejectsCompletedSession(t *testing.T) {
	app := newTestApp(t, nil)
	s := seedSession(t, "Weekly", models.SessionStatusCompleted)

	resp, _ := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/sessions/%d/toggle-lock", s.ID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestToggleLockUnknownSession(t *testing.T) {
	app := newTestApp(t, nil)

	resp, _ := doRequest(t, app, http.MethodPost, "/api/sessions/999/toggle-lock", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListSessionsFiltersOpen(t *testing.T) {
	app := newTestApp(t, nil)
	seedSession(t, "Done", models.SessionStatusCompleted)
	open := seedSession(t, "Running", models.SessionStatusOpen)

	resp, payload := doRequest(t, app, http.MethodGet, "/api/sessions?status=OPEN", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	sessions := decodeJSON[[]SessionResponse](t, payload)
	require.Len(t, sessions, 1)
	assert.Equal(t, open.ID, sessions[0].ID)

	resp, payload = doRequest(t, app, http.MethodGet, "/api/sessions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeJSON[[]SessionResponse](t, payload), 2)
}

func TestDeleteSessionCascadesEntries(t *testing.T) {
	app := newTestApp(t, nil)
	p := seedProduct(t, "BB-001", "Biji Kopi Arabica (kg)", 50)
	s := seedSession(t, "Weekly", models.SessionStatusOpen)

	require.NoError(t, database.DB.Create(&models.OpnameEntry{
		SessionID: s.ID, ProductID: p.ID, QtyActual: 48,
	}).Error)

	resp, _ := doRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/api/sessions/%d", s.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var count int64
	require.NoError(t, database.DB.Model(&models.OpnameEntry{}).
		Where("session_id = ?", s.ID).Count(&count).Error)
	assert.Zero(t, count)

	// The report for a deleted session refuses to render.
	resp, _ = doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/api/sessions/%d/report", s.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
