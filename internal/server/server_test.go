package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"productos/internal/database"
	"productos/internal/handlers"
	"productos/internal/middleware"
	"productos/internal/repositories"
	"productos/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupServer(t *testing.T, opts Options) (*fiber.App, *gorm.DB) {
	t.Helper()

	log, _ := test.NewNullLogger()
	db, err := database.Open(database.Config{
		URL: "sqlite://file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, log)
	require.NoError(t, err)
	require.NoError(t, database.Connect(context.Background(), db, log))
	t.Cleanup(func() { database.Close(db) })

	service := services.NewProductService(repositories.NewGORMProductRepository(db), nil, log)
	app := New(opts, db, handlers.NewProductHandler(service, log), middleware.NewMetrics(), log)
	return app, db
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func TestHealth(t *testing.T) {
	app, db := setupServer(t, Options{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	payload := decode(t, resp)
	assert.Equal(t, "healthy", payload["status"])
	assert.Equal(t, "up", payload["database"])

	require.NoError(t, database.Close(db))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	payload = decode(t, resp)
	assert.Equal(t, "unhealthy", payload["status"])
	assert.Equal(t, "down", payload["database"])
}

func TestMetrics(t *testing.T) {
	app, _ := setupServer(t, Options{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/products", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "http_requests_total")
	assert.Contains(t, string(body), `status="200"`)
	assert.Contains(t, string(body), "http_request_duration_seconds")
}

func TestUnknownRoute(t *testing.T) {
	app, _ := setupServer(t, Options{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/clientes", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, decode(t, resp), "error")
}

func TestRequestID(t *testing.T) {
	app, _ := setupServer(t, Options{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/products", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	_, err = uuid.Parse(resp.Header.Get(fiber.HeaderXRequestID))
	assert.NoError(t, err)
}

func TestCORS(t *testing.T) {
	app, _ := setupServer(t, Options{
		AllowedOrigins: []string{"http://localhost:5173", "not a url"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:5173")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "http://localhost:5173", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://evil.example.com")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
}

func TestAllowedOrigins(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		want    string
	}{
		{"none", nil, ""},
		{"trailing slash", []string{"http://localhost:5173/"}, "http://localhost:5173"},
		{"frontend and docs", []string{"http://localhost:5173", "https://docs.example.com"}, "http://localhost:5173,https://docs.example.com"},
		{"drops malformed", []string{"localhost", "http://app.example.com/path", ""}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, allowedOrigins(tt.origins))
		})
	}
}
