package session

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"adgenius-server/modules/adgen"
)

// CookieName carries the workspace id between page loads.
const CookieName = "adgenius_session"

// Options - workspace lifetime limits
type Options struct {
	EmptyGrace  time.Duration // no clients and untouched this long: dropped by the empty sweep
	MaxAge      time.Duration // dropped regardless of activity
	IdleTimeout time.Duration // idle with no clients: dropped by the expiry sweep
}

// DefaultOptions mirrors the config defaults.
func DefaultOptions() Options {
	return Options{
		EmptyGrace:  30 * time.Minute,
		MaxAge:      24 * time.Hour,
		IdleTimeout: 2 * time.Hour,
	}
}

// Workspace - one browser's state plus its live WebSocket clients
type Workspace struct {
	id           string
	store        *adgen.Store
	clients      map[string]*Client
	mutex        sync.Mutex
	createdAt    time.Time
	lastActivity time.Time
}

// ID returns the workspace id.
func (ws *Workspace) ID() string { return ws.id }

// Store returns the workspace state container.
func (ws *Workspace) Store() *adgen.Store { return ws.store }

// generating reports whether a generation is in flight. Sweeps skip such
// workspaces.
func (ws *Workspace) generating() bool { return ws.store.Snapshot().Generating }

// ClientCount returns the number of connected WebSocket clients.
func (ws *Workspace) ClientCount() int {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()
	return len(ws.clients)
}

// Metrics - server-wide session counters
type Metrics struct {
	TotalSessions    int       `json:"totalSessions"`
	ActiveSessions   int       `json:"activeSessions"`
	TotalConnections int       `json:"totalConnections"`
	StartTime        time.Time `json:"startTime"`
}

// Manager owns every workspace of the process.
type Manager struct {
	workspaces map[string]*Workspace
	mutex      sync.RWMutex
	newStore   func() *adgen.Store
	opts       Options

	metrics      Metrics
	metricsMutex sync.Mutex

	now func() time.Time
}

// NewManager creates a manager seeding each new workspace with newStore.
func NewManager(newStore func() *adgen.Store, opts Options) *Manager {
	return &Manager{
		workspaces: make(map[string]*Workspace),
		newStore:   newStore,
		opts:       opts,
		metrics:    Metrics{StartTime: time.Now()},
		now:        time.Now,
	}
}

// GetOrCreate returns the workspace with the given id, creating it if needed.
func (m *Manager) GetOrCreate(id string) *Workspace {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.now()
	ws, exists := m.workspaces[id]
	if !exists {
		ws = &Workspace{
			id:           id,
			store:        m.newStore(),
			clients:      make(map[string]*Client),
			createdAt:    now,
			lastActivity: now,
		}
		ws.store.OnChange(ws.broadcastState)
		m.workspaces[id] = ws

		m.metricsMutex.Lock()
		m.metrics.TotalSessions++
		m.metrics.ActiveSessions++
		total, active := m.metrics.TotalSessions, m.metrics.ActiveSessions
		m.metricsMutex.Unlock()

		log.Printf("✅ [Session] Created workspace %s (Total: %d, Active: %d)", id, total, active)
	}

	ws.mutex.Lock()
	ws.lastActivity = now
	ws.mutex.Unlock()
	return ws
}

// Get returns an existing workspace.
func (m *Manager) Get(id string) (*Workspace, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	ws, ok := m.workspaces[id]
	return ws, ok
}

// Resolve finds the workspace of a request from its cookie or ?session= and
// issues a fresh id when there is none.
func (m *Manager) Resolve(w http.ResponseWriter, r *http.Request) (string, *adgen.Store) {
	id := requestSessionID(r)
	if id == "" {
		id = uuid.NewString()
	}
	if c, err := r.Cookie(CookieName); err != nil || c.Value != id {
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return id, m.GetOrCreate(id).store
}

func requestSessionID(r *http.Request) string {
	if id := r.URL.Query().Get("session"); id != "" {
		return id
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// Metrics returns a copy of the counters.
func (m *Manager) Metrics() Metrics {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	return m.metrics
}

func (m *Manager) countConnection() int {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics.TotalConnections++
	return m.metrics.TotalConnections
}

func (m *Manager) dropped(n int) int {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics.ActiveSessions -= n
	return m.metrics.ActiveSessions
}

// CleanupEmpty drops workspaces without clients that have been untouched for
// longer than the empty grace period.
func (m *Manager) CleanupEmpty() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.now()
	cleaned := 0
	for id, ws := range m.workspaces {
		if ws.generating() {
			log.Printf("⏳ [Session] Workspace %s is generating, skipping cleanup", id)
			continue
		}

		ws.mutex.Lock()
		isEmpty := len(ws.clients) == 0 && now.Sub(ws.lastActivity) > m.opts.EmptyGrace
		ws.mutex.Unlock()

		if isEmpty {
			delete(m.workspaces, id)
			cleaned++
			log.Printf("🧹 [Session] Cleaned up empty workspace: %s", id)
		}
	}

	if cleaned > 0 {
		active := m.dropped(cleaned)
		log.Printf("🗑️  [Session] Cleaned up %d empty workspaces (Active: %d)", cleaned, active)
	}
	return cleaned
}

// CleanupExpired drops workspaces older than MaxAge, or idle past IdleTimeout
// with no clients. Clients of dropped workspaces are disconnected. Workspaces
// with a generation in flight are left for a later sweep.
func (m *Manager) CleanupExpired() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.now()
	cleaned := 0
	for id, ws := range m.workspaces {
		if ws.generating() {
			log.Printf("⏳ [Session] Workspace %s is generating, skipping cleanup", id)
			continue
		}

		ws.mutex.Lock()
		isExpired := now.Sub(ws.createdAt) > m.opts.MaxAge
		isInactive := now.Sub(ws.lastActivity) > m.opts.IdleTimeout && len(ws.clients) == 0

		if isExpired || isInactive {
			for clientID, client := range ws.clients {
				close(client.send)
				delete(ws.clients, clientID)
				log.Printf("🔌 [Session] Disconnecting client %s from expired workspace %s", clientID, id)
			}
		}
		age, idle := now.Sub(ws.createdAt), now.Sub(ws.lastActivity)
		ws.mutex.Unlock()

		if isExpired || isInactive {
			delete(m.workspaces, id)
			cleaned++

			reason := "expired"
			if !isExpired {
				reason = "inactive"
			}
			log.Printf("⏰ [Session] Cleaned up %s workspace: %s (Age: %v, Inactive: %v)", reason, id, age, idle)
		}
	}

	if cleaned > 0 {
		active := m.dropped(cleaned)
		log.Printf("🧼 [Session] Cleaned up %d expired/inactive workspaces (Active: %d)", cleaned, active)
	}
	return cleaned
}

// StartCleanupRoutine runs the empty sweep every 5 minutes and the expiry
// sweep every 30 minutes until stop is closed.
func (m *Manager) StartCleanupRoutine(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.CleanupEmpty()
			case <-stop:
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.CleanupExpired()
			case <-stop:
				return
			}
		}
	}()

	log.Printf("🔄 [Session] Started cleanup routines (Empty: 5min, Expired: 30min)")
}

// broadcastState pushes a snapshot to every client of the workspace.
func (ws *Workspace) broadcastState(snap adgen.Snapshot) {
	ws.broadcast(Message{Type: TypeStateUpdated, SessionID: ws.id, State: &snap})
}

func (ws *Workspace) broadcast(message Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("❌ [Session] Error marshaling message: %v", err)
		return
	}

	ws.mutex.Lock()
	defer ws.mutex.Unlock()
	for clientID, client := range ws.clients {
		select {
		case client.send <- data:
		default:
			log.Printf("⚠️  [Session] Client %s is not keeping up, dropping it", clientID)
			close(client.send)
			delete(ws.clients, clientID)
		}
	}
}

func (ws *Workspace) addClient(client *Client) int {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()
	ws.clients[client.id] = client
	ws.lastActivity = time.Now()
	return len(ws.clients)
}

func (ws *Workspace) removeClient(clientID string) {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()
	if client, exists := ws.clients[clientID]; exists {
		close(client.send)
		delete(ws.clients, clientID)
		ws.lastActivity = time.Now()
		log.Printf("👋 [Session] Client %s left workspace %s (Remaining: %d)", clientID, ws.id, len(ws.clients))
	}
}
