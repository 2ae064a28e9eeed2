package application

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/search-client/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, server, index string) *config.Config {
	t.Helper()
	cfg := &config.Config{AppHost: "127.0.0.1", HTTPPort: "0"}
	cfg.Elasticsearch.Server = server
	cfg.Elasticsearch.Index = index
	return cfg
}

func TestNewAPI_RequiresServer(t *testing.T) {
	_, err := NewAPI(testConfig(t, "", "articles"))
	require.Error(t, err)
}

func TestAPI_ProxiesToEngine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/articles/post/42", r.URL.Path)
		_, _ = w.Write([]byte(`{"_id":"42","found":true}`))
	}))
	defer engine.Close()

	api, err := NewAPI(testConfig(t, engine.URL, "articles"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	api.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/types/post/docs/42", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"_id":"42","found":true}`, w.Body.String())
}

func TestAPI_MissingIndexIsUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api, err := NewAPI(testConfig(t, "http://127.0.0.1:1", ""))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	api.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAPI_RunStopsOnCancel(t *testing.T) {
	api, err := NewAPI(testConfig(t, "http://127.0.0.1:1", "articles"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- api.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestAPI_RunReportsListenError(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()
	_, port, _ := net.SplitHostPort(lis.Addr().String())

	cfg := testConfig(t, "http://127.0.0.1:1", "articles")
	cfg.HTTPPort = port
	api, err := NewAPI(cfg)
	require.NoError(t, err)

	err = api.Run(context.Background())
	assert.Error(t, err)
}
