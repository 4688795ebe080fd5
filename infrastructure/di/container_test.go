package di

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techknowledgepills/infrastructure/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Environment = "test"
	cfg.SQLitePath = filepath.Join(t.TempDir(), "tkp.db")
	cfg.JWTSecret = "container-test-secret"
	cfg.BcryptCost = 4
	cfg.LogLevel = "error"
	return cfg
}

type apiClient struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func (c *apiClient) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestInitializeContainer(t *testing.T) {
	ctx := context.Background()

	container, cleanup, err := InitializeContainer(ctx, testConfig(t))
	require.NoError(t, err)
	t.Cleanup(cleanup)

	seeded, err := container.Seeder.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 13, seeded)

	client := &apiClient{t: t, handler: container.Router.Setup()}

	t.Run("answers health checks", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, client.do(http.MethodGet, "/health", "").Code)
		assert.Equal(t, http.StatusOK, client.do(http.MethodGet, "/ready", "").Code)
	})

	t.Run("rejects anonymous API calls", func(t *testing.T) {
		rec := client.do(http.MethodGet, "/api/content", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		body := decodeJSON[map[string]interface{}](t, rec)
		assert.Equal(t, "UNAUTHORIZED", body["error"])
	})

	t.Run("registers and serves the catalogue", func(t *testing.T) {
		rec := client.do(http.MethodPost, "/api/auth/register", `{"email":"Ada@Example.com","password":"secret1"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		auth := decodeJSON[map[string]interface{}](t, rec)
		assert.Equal(t, "ada@example.com", auth["email"])
		client.token, _ = auth["token"].(string)
		require.NotEmpty(t, client.token)

		rec = client.do(http.MethodGet, "/api/content", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeJSON[[]map[string]interface{}](t, rec), 13)

		rec = client.do(http.MethodGet, "/api/content/type/quiz", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeJSON[[]map[string]interface{}](t, rec), 4)
	})

	t.Run("drops quizzes from recommendations once stress is high", func(t *testing.T) {
		rec := client.do(http.MethodGet, "/api/recommendation", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeJSON[[]map[string]interface{}](t, rec), 10)

		rec = client.do(http.MethodPost, "/api/stressindicator", `{"stressLevel":4,"notes":"deadline"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = client.do(http.MethodGet, "/api/recommendation", "")
		require.Equal(t, http.StatusOK, rec.Code)
		recs := decodeJSON[[]map[string]interface{}](t, rec)
		assert.Len(t, recs, 9)
		for _, c := range recs {
			assert.NotEqual(t, float64(3), c["type"], "quiz recommended to a stressed user: %v", c["title"])
		}

		rec = client.do(http.MethodGet, "/api/stressindicator/latest", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(4), decodeJSON[map[string]interface{}](t, rec)["stressLevel"])
	})

	t.Run("ingests device readings anonymously", func(t *testing.T) {
		me := decodeJSON[map[string]interface{}](t, client.do(http.MethodGet, "/api/auth/me", ""))
		userID, _ := me["id"].(string)
		require.NotEmpty(t, userID)

		saved := client.token
		client.token = ""
		rec := client.do(http.MethodPost, "/api/healthmetric/iot",
			`{"userId":"`+userID+`","heartRate":72,"sleepHours":8,"timestamp":"`+time.Now().UTC().Format(time.RFC3339)+`"}`)
		client.token = saved
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "unknown", decodeJSON[map[string]interface{}](t, rec)["deviceType"])

		rec = client.do(http.MethodGet, "/api/healthmetric?startDate=2000-01-01", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeJSON[[]map[string]interface{}](t, rec), 1)
	})

	t.Run("exposes Prometheus metrics", func(t *testing.T) {
		rec := client.do(http.MethodGet, "/metrics", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "tkp_http_requests_total")
		assert.Contains(t, rec.Body.String(), `name="command_count"`)
	})
}

func TestContainersSharingStorage(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	first, cleanupFirst, err := InitializeContainer(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(cleanupFirst)
	second, cleanupSecond, err := InitializeContainer(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(cleanupSecond)

	_, err = first.Seeder.Run(ctx)
	require.NoError(t, err)

	a := &apiClient{t: t, handler: first.Router.Setup()}
	b := &apiClient{t: t, handler: second.Router.Setup()}

	rec := a.do(http.MethodPost, "/api/auth/register", `{"email":"shared@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	a.token, _ = decodeJSON[map[string]interface{}](t, rec)["token"].(string)
	b.token = a.token

	ids := func(rec *httptest.ResponseRecorder) []string {
		var out []string
		for _, c := range decodeJSON[[]map[string]interface{}](t, rec) {
			id, _ := c["id"].(string)
			out = append(out, id)
		}
		return out
	}

	rec = b.do(http.MethodGet, "/api/recommendation", "")
	require.Equal(t, http.StatusOK, rec.Code)
	before := ids(rec)
	require.NotEmpty(t, before)
	done := before[0]

	rec = a.do(http.MethodPost, "/api/content/"+done+"/complete", `{"rating":5}`)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	t.Run("second instance stops recommending completed content", func(t *testing.T) {
		rec := b.do(http.MethodGet, "/api/recommendation", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, ids(rec), done)
	})

	t.Run("second instance sees catalogue writes", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/content",
			`{"title":"Shared pill","type":1,"body":"Short read","tags":"shared"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = b.do(http.MethodGet, "/api/content", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeJSON[[]map[string]interface{}](t, rec), 14)
	})
}
