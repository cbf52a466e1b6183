package transport

import (
	"context"
	"encoding/json"
	"fmt"

	"timeline-lab/domain"
	"timeline-lab/errors"
	"timeline-lab/services"
)

// Dispatcher decodes inbound envelopes into service calls.
type Dispatcher struct {
	service services.IGameService
}

func NewDispatcher(service services.IGameService) *Dispatcher {
	return &Dispatcher{service: service}
}

// Dispatch routes one frame. Malformed frames are reported to the sender.
func (d *Dispatcher) Dispatch(ctx context.Context, connID string, frame []byte) {
	env, err := Decode(frame)
	if err != nil {
		d.service.Fail(connID, fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err))
		return
	}
	if err := d.route(ctx, connID, env); err != nil {
		d.service.Fail(connID, err)
	}
}

func (d *Dispatcher) route(ctx context.Context, connID string, env Envelope) error {
	switch env.Event {
	case SetName:
		var name string
		if err := decodeData(env, &name); err != nil {
			return err
		}
		d.service.SetName(connID, domain.SetNameCommand{Name: name})
	case CreateRoom:
		d.service.CreateRoom(connID)
	case JoinRoom:
		var code string
		if err := decodeData(env, &code); err != nil {
			return err
		}
		d.service.JoinRoom(connID, domain.JoinRoomCommand{Code: code})
	case LeaveRoom:
		d.service.LeaveRoom(connID)
	case StartGame:
		// A cold catalog load can outlast the read deadline, so the
		// session keeps reading meanwhile.
		go d.service.StartGame(ctx, connID)
	case PlaceGame:
		var position int
		if err := decodeData(env, &position); err != nil {
			return err
		}
		d.service.PlaceGame(connID, domain.PlaceGameCommand{Position: position})
	case UpdateSettings:
		var cmd domain.UpdateSettingsCommand
		if err := decodeData(env, &cmd); err != nil {
			return err
		}
		d.service.UpdateSettings(connID, cmd)
	case Rematch:
		d.service.Rematch(connID)
	default:
		return fmt.Errorf("%w: unknown event %q", errors.ErrInvalidRequest, env.Event)
	}
	return nil
}

func decodeData(env Envelope, target any) error {
	if len(env.Data) == 0 {
		return fmt.Errorf("%w: %s without data", errors.ErrInvalidRequest, env.Event)
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return fmt.Errorf("%w: %s: %v", errors.ErrInvalidRequest, env.Event, err)
	}
	return nil
}
