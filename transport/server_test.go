package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"timeline-lab/catalog"
	"timeline-lab/runtime"
	"timeline-lab/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type client struct {
	t    *testing.T
	conn *websocket.Conn
}

func (c client) send(event string, data any) {
	c.t.Helper()
	frame := map[string]any{"event": event}
	if data != nil {
		frame["data"] = data
	}
	require.NoError(c.t, c.conn.WriteJSON(frame))
}

// expect reads frames until one named event arrives and returns its data.
func (c client) expect(event string) json.RawMessage {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var env Envelope
		require.NoError(c.t, c.conn.ReadJSON(&env), "waiting for %s", event)
		if env.Event == event {
			return env.Data
		}
	}
}

type testServer struct {
	*httptest.Server
	registry *runtime.Registry
	shutdown context.CancelFunc
}

func newTestServer(t *testing.T, config RouterConfig) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	registry, err := runtime.NewRegistry(log)
	require.NoError(t, err)
	hub := NewHub(log)
	service := services.NewGameService(log, registry, catalog.NewProvider(log), hub, nil)

	server := httptest.NewServer(NewRouter(ctx, log, config, hub, service))
	t.Cleanup(server.Close)
	return testServer{Server: server, registry: registry, shutdown: cancel}
}

func dial(t *testing.T, server testServer) client {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return client{t: t, conn: conn}
}

func TestRouter_Health(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t, RouterConfig{RateLimitPerSecond: 10, RateLimitBurst: 10})

	resp, err := http.Get(server.URL + "/api/health")
	req.NoError(err)
	defer resp.Body.Close()

	req.Equal(http.StatusOK, resp.StatusCode)
	var body map[string]string
	req.NoError(json.NewDecoder(resp.Body).Decode(&body))
	req.Equal("ok", body["status"])
}

func TestRouter_GameSession(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t, RouterConfig{RateLimitPerSecond: 100, RateLimitBurst: 100})
	alice, bob := dial(t, server), dial(t, server)

	alice.send(SetName, "Alice")
	var named struct{ Name string }
	req.NoError(json.Unmarshal(alice.expect("nameSet"), &named))
	req.Equal("Alice", named.Name)

	alice.send(CreateRoom, nil)
	var created struct {
		Code    string
		Host    string
		Players []struct{ Name string }
	}
	req.NoError(json.Unmarshal(alice.expect("roomCreated"), &created))
	req.Len(created.Code, 4)
	req.Equal("Alice", created.Players[0].Name)

	bob.send(SetName, "Bob")
	bob.expect("nameSet")
	bob.send(JoinRoom, strings.ToLower(created.Code))
	bob.expect("roomJoined")

	var updated struct{ Players []struct{ Name string } }
	req.NoError(json.Unmarshal(alice.expect("roomUpdated"), &updated))
	req.Len(updated.Players, 2)

	bob.send(StartGame, nil)
	var failed struct{ Message string }
	req.NoError(json.Unmarshal(bob.expect("error"), &failed))
	req.Equal("Only the host can do this", failed.Message)

	alice.send(StartGame, nil)
	var started struct {
		GameState   string
		CurrentGame map[string]any
	}
	req.NoError(json.Unmarshal(bob.expect("gameStarted"), &started))
	req.Equal("playing", started.GameState)
	req.Contains(started.CurrentGame, "year")
	req.Nil(started.CurrentGame["year"])

	req.NoError(bob.conn.Close())
	var left struct{ PlayerID, PlayerName string }
	req.NoError(json.Unmarshal(alice.expect("playerLeft"), &left))
	req.Equal("Bob", left.PlayerName)
}

func TestRouter_RateLimit(t *testing.T) {
	server := newTestServer(t, RouterConfig{RateLimitPerSecond: 0.001, RateLimitBurst: 1})
	alice := dial(t, server)

	alice.send(SetName, "Alice")
	alice.expect("nameSet")
	alice.send(SetName, "Again")

	var failed struct{ Message string }
	require.NoError(t, json.Unmarshal(alice.expect("error"), &failed))
	require.Equal(t, "Slow down", failed.Message)
}

func TestRouter_ShutdownKeepsRooms(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t, RouterConfig{RateLimitPerSecond: 100, RateLimitBurst: 100})
	alice, bob := dial(t, server), dial(t, server)

	alice.send(CreateRoom, nil)
	var created struct{ Code string }
	req.NoError(json.Unmarshal(alice.expect("roomCreated"), &created))
	bob.send(JoinRoom, created.Code)
	bob.expect("roomJoined")

	server.shutdown()

	// The server closes both sockets on its way down.
	for _, c := range []client{alice, bob} {
		req.NoError(c.conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
		for {
			if _, _, err := c.conn.ReadMessage(); err != nil {
				break
			}
		}
	}
	req.Never(func() bool {
		room, ok := server.registry.GetRoom(created.Code)
		return !ok || len(room.Players) != 2
	}, 300*time.Millisecond, 20*time.Millisecond)
	req.Len(server.registry.Snapshot(), 1)
}
