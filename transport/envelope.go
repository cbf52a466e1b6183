// Package transport carries session events over websockets and exposes the
// HTTP and gRPC health endpoints.
package transport

import (
	"encoding/json"
	"fmt"

	"timeline-lab/domain/event"
)

// Inbound event names.
const (
	SetName        = "setName"
	CreateRoom     = "createRoom"
	JoinRoom       = "joinRoom"
	LeaveRoom      = "leaveRoom"
	StartGame      = "startGame"
	PlaceGame      = "placeGame"
	UpdateSettings = "updateSettings"
	Rematch        = "rematch"
)

// Envelope is the frame exchanged in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event event.Name        `json:"event"`
	Data  event.DomainEvent `json:"data"`
}

func Encode(evt event.DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(outbound{Event: evt.EventName(), Data: evt})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", evt.EventName(), err)
	}
	return payload, nil
}

func Decode(frame []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode frame: %w", err)
	}
	if env.Event == "" {
		return Envelope{}, fmt.Errorf("decode frame: missing event")
	}
	return env, nil
}
