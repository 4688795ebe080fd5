package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techknowledgepills/pkg/client/config"
	"techknowledgepills/pkg/client/session"
)

func TestInitializeApp(t *testing.T) {
	var authorized int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer shared-token" {
			atomic.AddInt32(&authorized, 1)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cfg := config.Defaults()
	cfg.ServerURL = srv.URL
	cfg.SessionDir = t.TempDir()

	app, cleanup, err := InitializeApp(cfg)
	require.NoError(t, err)
	defer cleanup()

	t.Run("builds distinct view-models per call", func(t *testing.T) {
		assert.NotSame(t, app.ContentViewModel(), app.ContentViewModel())
		assert.NotSame(t, app.RecommendationViewModel(), app.RecommendationViewModel())
		assert.NotSame(t, app.StressIndicatorViewModel(), app.StressIndicatorViewModel())
		assert.NotSame(t, app.HomeViewModel(), app.HomeViewModel())
	})

	t.Run("shares one session across screens", func(t *testing.T) {
		require.NoError(t, app.Tokens.Save(session.Session{Token: "shared-token"}))
		ctx := context.Background()

		require.NoError(t, app.ContentViewModel().LoadAll(ctx))
		require.NoError(t, app.RecommendationViewModel().Load(ctx))
		require.NoError(t, app.ContentViewModel().LoadAll(ctx))

		assert.Equal(t, int32(3), atomic.LoadInt32(&authorized))
	})

	t.Run("does not touch the network while building", func(t *testing.T) {
		before := atomic.LoadInt32(&authorized)
		_, cleanup2, err := InitializeApp(cfg)
		require.NoError(t, err)
		cleanup2()
		assert.Equal(t, before, atomic.LoadInt32(&authorized))
	})
}
