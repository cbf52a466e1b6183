package transport

import (
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"timeline-lab/domain/event"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type fakeOutbox struct {
	mu     sync.Mutex
	frames [][]byte
	full   bool
}

func (f *fakeOutbox) Deliver(frame []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return false
	}
	f.frames = append(f.frames, frame)
	return true
}

func (f *fakeOutbox) events(t *testing.T) []string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.frames))
	for _, frame := range f.frames {
		env, err := Decode(frame)
		require.NoError(t, err)
		names = append(names, env.Event)
	}
	return names
}

func TestHub_PublishReachesOnlyRoomMembers(t *testing.T) {
	req := require.New(t)
	hub := NewHub(logs.GetLoggerFromLevel(slog.LevelDebug))
	alice, bob, clara := &fakeOutbox{}, &fakeOutbox{}, &fakeOutbox{}
	hub.Register("alice", alice)
	hub.Register("bob", bob)
	hub.Register("clara", clara)
	hub.Subscribe("alice", "AB2C")
	hub.Subscribe("bob", "AB2C")
	hub.Subscribe("clara", "XY9Z")

	hub.Publish("AB2C", event.PlayerLeftEvent{PlayerID: "dave", PlayerName: "Dave"})

	req.Equal([]string{"playerLeft"}, alice.events(t))
	req.Equal([]string{"playerLeft"}, bob.events(t))
	req.Empty(clara.events(t))
}

func TestHub_EmitTargetsOneConnection(t *testing.T) {
	req := require.New(t)
	hub := NewHub(logs.GetLoggerFromLevel(slog.LevelDebug))
	alice, bob := &fakeOutbox{}, &fakeOutbox{}
	hub.Register("alice", alice)
	hub.Register("bob", bob)

	hub.Emit("alice", event.ErrorEvent{Message: "Room not found"})
	hub.Emit("unknown", event.LeftRoomEvent{})

	req.Len(alice.frames, 1)
	req.Empty(bob.frames)
	var payload struct {
		Event string `json:"event"`
		Data  struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	req.NoError(json.Unmarshal(alice.frames[0], &payload))
	req.Equal("error", payload.Event)
	req.Equal("Room not found", payload.Data.Message)
}

func TestHub_UnsubscribeAndRemove(t *testing.T) {
	req := require.New(t)
	hub := NewHub(logs.GetLoggerFromLevel(slog.LevelDebug))
	alice, bob := &fakeOutbox{}, &fakeOutbox{}
	hub.Register("alice", alice)
	hub.Register("bob", bob)
	hub.Subscribe("alice", "AB2C")
	hub.Subscribe("bob", "AB2C")

	hub.Unsubscribe("alice", "AB2C")
	req.Equal([]string{"bob"}, hub.Members("AB2C"))

	hub.Remove("bob")
	req.Empty(hub.Members("AB2C"))

	hub.Publish("AB2C", event.LeftRoomEvent{})
	req.Empty(alice.frames)
	req.Empty(bob.frames)
}

func TestHub_FullOutboxDoesNotBlock(t *testing.T) {
	hub := NewHub(logs.GetLoggerFromLevel(slog.LevelDebug))
	slow, fast := &fakeOutbox{full: true}, &fakeOutbox{}
	hub.Register("slow", slow)
	hub.Register("fast", fast)
	hub.Subscribe("slow", "AB2C")
	hub.Subscribe("fast", "AB2C")

	hub.Publish("AB2C", event.LeftRoomEvent{})

	require.Len(t, fast.frames, 1)
}
