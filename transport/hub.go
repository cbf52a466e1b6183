package transport

import (
	"log/slog"
	"sync"

	"timeline-lab/domain/event"
)

// Outbox accepts encoded frames for one connection. Deliver must not block.
type Outbox interface {
	Deliver(frame []byte) bool
}

type Set map[string]struct{}

// Hub routes events to connections and to room members.
type Hub struct {
	mu          sync.RWMutex
	sessions    map[string]Outbox
	roomMembers map[string]Set
	log         *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		sessions:    make(map[string]Outbox),
		roomMembers: make(map[string]Set),
		log:         log,
	}
}

func (h *Hub) Register(connID string, outbox Outbox) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[connID] = outbox
}

// Remove forgets the connection and drops it from every room.
func (h *Hub) Remove(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, connID)
	for code, members := range h.roomMembers {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.roomMembers, code)
		}
	}
}

func (h *Hub) Subscribe(connID, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.roomMembers[code]; !ok {
		h.roomMembers[code] = make(Set)
	}
	h.roomMembers[code][connID] = struct{}{}
}

// Unsubscribe removes connID from the room and drops empty rooms.
func (h *Hub) Unsubscribe(connID, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.roomMembers[code]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.roomMembers, code)
		}
	}
}

func (h *Hub) Emit(connID string, evt event.DomainEvent) {
	frame, err := Encode(evt)
	if err != nil {
		h.log.Error("Unable to encode event", "error", err)
		return
	}
	h.mu.RLock()
	outbox, ok := h.sessions[connID]
	h.mu.RUnlock()
	if ok {
		h.deliver(connID, outbox, frame)
	}
}

// Publish encodes evt once and hands it to every member of the room.
func (h *Hub) Publish(code string, evt event.DomainEvent) {
	frame, err := Encode(evt)
	if err != nil {
		h.log.Error("Unable to encode event", "code", code, "error", err)
		return
	}
	h.mu.RLock()
	targets := make(map[string]Outbox, len(h.roomMembers[code]))
	for connID := range h.roomMembers[code] {
		if outbox, ok := h.sessions[connID]; ok {
			targets[connID] = outbox
		}
	}
	h.mu.RUnlock()

	for connID, outbox := range targets {
		h.deliver(connID, outbox, frame)
	}
}

// Members returns the connections subscribed to the room.
func (h *Hub) Members(code string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	members := make([]string, 0, len(h.roomMembers[code]))
	for connID := range h.roomMembers[code] {
		members = append(members, connID)
	}
	return members
}

func (h *Hub) deliver(connID string, outbox Outbox, frame []byte) {
	if !outbox.Deliver(frame) {
		h.log.Warn("Outbox full, frame dropped", "player_id", connID)
	}
}
