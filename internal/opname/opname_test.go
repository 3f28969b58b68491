package opname

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"opname-backend/internal/config"
	"opname-backend/internal/database"
	"opname-backend/internal/events"
	"opname-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// newTestApp wires the opname routes against a fresh SQLite database in the
// test's temp dir. Pass nil for the default (lenient finalize) config.
func newTestApp(t *testing.T, cfg *config.Config) *fiber.App {
	t.Helper()

	if cfg == nil {
		cfg = &config.Config{}
	}
	cfg.DatabaseDSN = filepath.Join(t.TempDir(), "opname-test.db")
	database.Init(cfg)

	hub := events.NewHub()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	api := app.Group("/api")
	api.Get("/sessions", ListSessionsHandler())
	api.Post("/sessions", CreateSessionHandler())
	api.Get("/sessions/:id", GetSessionHandler())
	api.Post("/sessions/:id/finalize", FinalizeSessionHandler(cfg, hub))
	api.Post("/sessions/:id/toggle-lock", ToggleLockHandler(hub))
	api.Delete("/sessions/:id", DeleteSessionHandler(hub))
	api.Put("/sessions/:id/entries", SubmitEntryHandler(hub))
	api.Get("/sessions/:id/report", GetSessionReportHandler())
	api.Get("/sessions/:id/report/export", ExportSessionReportHandler())

	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	return resp, payload
}

func decodeJSON[T any](t *testing.T, payload []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(payload, &out))
	return out
}

func seedProduct(t *testing.T, sku, name string, systemStock int) models.Product {
	t.Helper()
	p := models.Product{SKU: sku, Name: name, SystemStock: systemStock}
	require.NoError(t, database.DB.Create(&p).Error)
	return p
}

func seedSession(t *testing.T, title string, status models.SessionStatus) models.OpnameSession {
	t.Helper()
	s := models.OpnameSession{Title: title, Status: status}
	require.NoError(t, database.DB.Create(&s).Error)
	return s
}
