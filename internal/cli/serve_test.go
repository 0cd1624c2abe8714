package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/fomod/internal/config"
	"github.com/aretw0/fomod/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceHandler_Metrics(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"FOMOD_METRICS":   "true",
		"FOMOD_LOG_LEVEL": "error",
	})
	require.NoError(t, err)

	handler, closeFn, err := newServiceHandler(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()

	srv := httptest.NewServer(handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := json.Marshal(map[string]string{"module_config": testutils.ModuleConfigXML})
	require.NoError(t, err)
	resp, err = http.Post(srv.URL+"/sessions", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `fomod_sessions_loaded_total{module="Sample Mod"} 1`)
}

func TestServiceHandler_MetricsDisabled(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)

	handler, closeFn, err := newServiceHandler(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeMCP_UnknownTransport(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)
	err = ServeMCP(context.Background(), cfg, "carrier-pigeon", "")
	assert.ErrorContains(t, err, "unknown transport")
}
