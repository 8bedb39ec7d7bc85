package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adgenius-server/modules/adgen"
)

type fixedStats adgen.Stats

func (s fixedStats) Stats() adgen.Stats { return adgen.Stats(s) }

func newTestRouter(m *Manager) *mux.Router {
	r := mux.NewRouter()
	NewHandler(m, fixedStats{Generations: 3, Failures: 1}).RegisterRoutes(r)
	return r
}

func TestHandleMetrics(t *testing.T) {
	m := newTestManager()
	m.GetOrCreate("a")
	m.GetOrCreate("b")

	rec := httptest.NewRecorder()
	newTestRouter(m).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Server struct {
			TotalSessions  int `json:"totalSessions"`
			ActiveSessions int `json:"activeSessions"`
		} `json:"server"`
		Sessions   []workspaceInfo `json:"sessions"`
		Generation adgen.Stats     `json:"generation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Server.TotalSessions)
	assert.Equal(t, 2, body.Server.ActiveSessions)
	assert.Len(t, body.Sessions, 2)
	assert.Equal(t, int64(3), body.Generation.Generations)
	assert.Equal(t, int64(1), body.Generation.Failures)
}

func TestHandleSessionInfo(t *testing.T) {
	m := newTestManager()
	m.GetOrCreate("known")
	r := newTestRouter(m)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/session/known", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var info workspaceInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "known", info.SessionID)
	assert.Equal(t, 142, info.Credits)
	assert.Equal(t, 2, info.Creatives)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/session/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleForceCleanup(t *testing.T) {
	m := newTestManager()
	m.GetOrCreate("stale")
	m.now = func() time.Time { return time.Now().Add(time.Hour) }

	rec := httptest.NewRecorder()
	newTestRouter(m).ServeHTTP(rec, httptest.NewRequest("POST", "/admin/cleanup", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Cleanup completed", body["status"])
	assert.Equal(t, float64(1), body["empty"])

	_, ok := m.Get("stale")
	assert.False(t, ok)
}
