package session

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"adgenius-server/modules/adgen"
)

// StatsSource reports generation counters for /metrics.
type StatsSource interface {
	Stats() adgen.Stats
}

// Handler serves the operational endpoints of the session layer.
type Handler struct {
	manager *Manager
	stats   StatsSource
}

func NewHandler(manager *Manager, stats StatsSource) *Handler {
	return &Handler{manager: manager, stats: stats}
}

// RegisterRoutes mounts /ws, /session/{sessionId}, /metrics and /admin/cleanup.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/ws", h.manager.HandleWebSocket)
	r.HandleFunc("/session/{sessionId}", h.HandleSessionInfo).Methods("GET")
	r.HandleFunc("/metrics", h.HandleMetrics).Methods("GET")
	r.HandleFunc("/admin/cleanup", h.HandleForceCleanup).Methods("POST")
}

type workspaceInfo struct {
	SessionID    string    `json:"sessionId"`
	ClientCount  int       `json:"clientCount"`
	Credits      int       `json:"credits"`
	Creatives    int       `json:"creatives"`
	Generating   bool      `json:"generating"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
	Age          string    `json:"age"`
	Inactive     string    `json:"inactive"`
}

func (ws *Workspace) info() workspaceInfo {
	snap := ws.store.Snapshot()

	ws.mutex.Lock()
	defer ws.mutex.Unlock()
	return workspaceInfo{
		SessionID:    ws.id,
		ClientCount:  len(ws.clients),
		Credits:      snap.Credits,
		Creatives:    len(snap.Creatives),
		Generating:   snap.Generating,
		CreatedAt:    ws.createdAt,
		LastActivity: ws.lastActivity,
		Age:          time.Since(ws.createdAt).String(),
		Inactive:     time.Since(ws.lastActivity).String(),
	}
}

// HandleSessionInfo - GET /session/{sessionId}
func (h *Handler) HandleSessionInfo(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.manager.Get(mux.Vars(r)["sessionId"])
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Session not found"})
		return
	}
	writeJSON(w, http.StatusOK, ws.info())
}

// HandleMetrics - GET /metrics
func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := h.manager.Metrics()

	h.manager.mutex.RLock()
	workspaces := make([]*Workspace, 0, len(h.manager.workspaces))
	for _, ws := range h.manager.workspaces {
		workspaces = append(workspaces, ws)
	}
	h.manager.mutex.RUnlock()

	details := make([]workspaceInfo, 0, len(workspaces))
	totalClients := 0
	for _, ws := range workspaces {
		info := ws.info()
		totalClients += info.ClientCount
		details = append(details, info)
	}

	body := map[string]any{
		"server": map[string]any{
			"uptime":           time.Since(metrics.StartTime).String(),
			"startTime":        metrics.StartTime,
			"totalSessions":    metrics.TotalSessions,
			"activeSessions":   metrics.ActiveSessions,
			"totalConnections": metrics.TotalConnections,
			"currentClients":   totalClients,
		},
		"sessions": details,
	}
	if h.stats != nil {
		body["generation"] = h.stats.Stats()
	}

	writeJSON(w, http.StatusOK, body)
}

// HandleForceCleanup - POST /admin/cleanup runs both sweeps immediately.
func (h *Handler) HandleForceCleanup(w http.ResponseWriter, r *http.Request) {
	empty := h.manager.CleanupEmpty()
	expired := h.manager.CleanupExpired()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "Cleanup completed",
		"empty":   empty,
		"expired": expired,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
