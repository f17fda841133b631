package rpcapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaban/trackd/internal/control"
	"github.com/shaban/trackd/internal/engine"
	"github.com/shaban/trackd/internal/pluginhost"
	"github.com/shaban/trackd/internal/rtqueue"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	q := rtqueue.New[engine.Command](64)
	mgr := control.NewManager(pluginhost.NewDummy(), q, 48000, 128)
	return NewRouter(mgr, false)
}

func TestCreateAndListTracks(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tracks", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var created control.Track
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, uint64(1), created.ID)

	rec2 := httptest.NewRecorder()
	r.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/tracks", nil))
	require.Equal(t, http.StatusOK, rec2.Code)

	var tracks []control.Track
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &tracks))
	require.Len(t, tracks, 1)
	assert.Equal(t, "Track1", tracks[0].Name)
}

func TestDeleteUnknownTrackReturns404(t *testing.T) {
	r := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/tracks/42", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPluginsListsDummyPlugins(t *testing.T) {
	r := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plugins", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var plugins []control.Plugin
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plugins))
	assert.NotEmpty(t, plugins)
}
