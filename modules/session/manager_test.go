package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adgenius-server/modules/adgen"
)

func newTestManager() *Manager {
	return NewManager(func() *adgen.Store { return adgen.NewSeededStore(142, true) }, DefaultOptions())
}

func TestManager_GetOrCreate(t *testing.T) {
	m := newTestManager()

	a := m.GetOrCreate("a")
	again := m.GetOrCreate("a")
	b := m.GetOrCreate("b")

	assert.Same(t, a, again)
	assert.NotSame(t, a.Store(), b.Store())
	assert.Equal(t, 142, a.Store().Snapshot().Credits)
	assert.Len(t, a.Store().Snapshot().Creatives, 2)

	metrics := m.Metrics()
	assert.Equal(t, 2, metrics.TotalSessions)
	assert.Equal(t, 2, metrics.ActiveSessions)
}

func TestManager_ResolveIssuesCookie(t *testing.T) {
	m := newTestManager()

	rec := httptest.NewRecorder()
	id, store := m.Resolve(rec, httptest.NewRequest("GET", "/", nil))
	require.NotEmpty(t, id)
	require.NotNil(t, store)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)

	// The same cookie resolves to the same workspace and is not re-issued.
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: id})
	rec = httptest.NewRecorder()
	id2, store2 := m.Resolve(rec, req)
	assert.Equal(t, id, id2)
	assert.Same(t, store, store2)
	assert.Empty(t, rec.Result().Cookies())
}

func TestManager_ResolvePrefersQueryParam(t *testing.T) {
	m := newTestManager()

	req := httptest.NewRequest("GET", "/api/state?session=from-query", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "from-cookie"})
	id, _ := m.Resolve(httptest.NewRecorder(), req)

	assert.Equal(t, "from-query", id)
}

func TestManager_CleanupEmpty(t *testing.T) {
	m := newTestManager()
	m.GetOrCreate("idle")
	busy := m.GetOrCreate("busy")
	busy.addClient(&Client{id: "c1", send: make(chan []byte, 1)})

	// Within the grace period nothing is dropped.
	assert.Equal(t, 0, m.CleanupEmpty())

	m.now = func() time.Time { return time.Now().Add(time.Hour) }
	assert.Equal(t, 1, m.CleanupEmpty())

	_, ok := m.Get("idle")
	assert.False(t, ok)
	_, ok = m.Get("busy")
	assert.True(t, ok)
	assert.Equal(t, 1, m.Metrics().ActiveSessions)
}

func TestManager_CleanupExpired(t *testing.T) {
	m := newTestManager()
	old := m.GetOrCreate("old")
	client := &Client{id: "c1", send: make(chan []byte, 1)}
	old.addClient(client)

	m.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	assert.Equal(t, 1, m.CleanupExpired())

	_, ok := m.Get("old")
	assert.False(t, ok)
	_, open := <-client.send
	assert.False(t, open)
	assert.Equal(t, 0, old.ClientCount())
}

func TestManager_CleanupExpiredKeepsConnectedIdleWorkspace(t *testing.T) {
	m := newTestManager()
	ws := m.GetOrCreate("watched")
	ws.addClient(&Client{id: "c1", send: make(chan []byte, 1)})

	m.now = func() time.Time { return time.Now().Add(3 * time.Hour) }
	assert.Equal(t, 0, m.CleanupExpired())
}

func TestWorkspace_BroadcastsStoreChanges(t *testing.T) {
	m := newTestManager()
	ws := m.GetOrCreate("w")
	client := &Client{id: "c1", send: make(chan []byte, 4)}
	ws.addClient(client)

	ws.Store().SwitchTab(adgen.TabBilling)

	var msg Message
	require.NoError(t, json.Unmarshal(<-client.send, &msg))
	assert.Equal(t, TypeStateUpdated, msg.Type)
	assert.Equal(t, "w", msg.SessionID)
	require.NotNil(t, msg.State)
	assert.Equal(t, adgen.TabBilling, msg.State.ActiveTab)
}

func TestWorkspace_DropsSlowClient(t *testing.T) {
	m := newTestManager()
	ws := m.GetOrCreate("w")
	ws.addClient(&Client{id: "slow", send: make(chan []byte)})

	ws.Store().SwitchTab(adgen.TabBilling)

	assert.Equal(t, 0, ws.ClientCount())
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHandleWebSocket_PushesState(t *testing.T) {
	m := newTestManager()
	r := mux.NewRouter()
	NewHandler(m, nil).RegisterRoutes(r)
	server := httptest.NewServer(r)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?session=live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	initial := readMessage(t, conn)
	assert.Equal(t, TypeStateUpdated, initial.Type)
	require.NotNil(t, initial.State)
	assert.Equal(t, 142, initial.State.Credits)

	ws, ok := m.Get("live")
	require.True(t, ok)
	ws.Store().SwitchTab(adgen.TabProjects)

	pushed := readMessage(t, conn)
	require.NotNil(t, pushed.State)
	assert.Equal(t, adgen.TabProjects, pushed.State.ActiveTab)

	require.NoError(t, conn.WriteJSON(Message{Type: TypeRequestState}))
	requested := readMessage(t, conn)
	assert.Equal(t, TypeStateUpdated, requested.Type)
	assert.Equal(t, adgen.TabProjects, requested.State.ActiveTab)

	require.NoError(t, conn.WriteJSON(Message{Type: "cursor_move"}))
	assert.Equal(t, TypeError, readMessage(t, conn).Type)

	assert.Equal(t, 1, m.Metrics().TotalConnections)
}

func TestHandleWebSocket_RequiresSession(t *testing.T) {
	m := newTestManager()
	rec := httptest.NewRecorder()
	m.HandleWebSocket(rec, httptest.NewRequest("GET", "/ws", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestManager_CleanupSkipsGeneratingWorkspace(t *testing.T) {
	m := newTestManager()
	ws := m.GetOrCreate("busy")
	_, err := ws.Store().BeginGeneration(5)
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	assert.Equal(t, 0, m.CleanupEmpty())
	assert.Equal(t, 0, m.CleanupExpired())
	got, ok := m.Get("busy")
	require.True(t, ok)
	assert.Same(t, ws, got)

	ws.Store().EndGeneration()
	assert.Equal(t, 1, m.CleanupExpired())
	_, ok = m.Get("busy")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Metrics().ActiveSessions)
}
