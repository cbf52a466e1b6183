package transport

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"timeline-lab/domain"
	"timeline-lab/errors"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	arg  any
}

// recordingService stands in for the game service.
type recordingService struct {
	mu    sync.Mutex
	calls []call
}

func (r *recordingService) record(name string, arg any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{name, arg})
}

func (r *recordingService) recorded() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

func (r *recordingService) Connect(string) { r.record("Connect", nil) }
func (r *recordingService) SetName(_ string, cmd domain.SetNameCommand) {
	r.record(SetName, cmd)
}
func (r *recordingService) CreateRoom(string) { r.record(CreateRoom, nil) }
func (r *recordingService) JoinRoom(_ string, cmd domain.JoinRoomCommand) {
	r.record(JoinRoom, cmd)
}
func (r *recordingService) LeaveRoom(string) { r.record(LeaveRoom, nil) }
func (r *recordingService) StartGame(context.Context, string) { r.record(StartGame, nil) }
func (r *recordingService) PlaceGame(_ string, cmd domain.PlaceGameCommand) {
	r.record(PlaceGame, cmd)
}
func (r *recordingService) UpdateSettings(_ string, cmd domain.UpdateSettingsCommand) {
	r.record(UpdateSettings, cmd)
}
func (r *recordingService) Rematch(string) { r.record(Rematch, nil) }
func (r *recordingService) Disconnect(string) { r.record("Disconnect", nil) }
func (r *recordingService) Fail(_ string, err error) { r.record("Fail", err) }

func TestDispatcher_Routes(t *testing.T) {
	testCases := []struct {
		name     string
		frame    string
		expected call
	}{
		{"setName", `{"event":"setName","data":"Alice"}`, call{SetName, domain.SetNameCommand{Name: "Alice"}}},
		{"createRoom", `{"event":"createRoom"}`, call{CreateRoom, nil}},
		{"joinRoom", `{"event":"joinRoom","data":"ab2c"}`, call{JoinRoom, domain.JoinRoomCommand{Code: "ab2c"}}},
		{"leaveRoom", `{"event":"leaveRoom"}`, call{LeaveRoom, nil}},
		{"startGame", `{"event":"startGame"}`, call{StartGame, nil}},
		{"placeGame", `{"event":"placeGame","data":2}`, call{PlaceGame, domain.PlaceGameCommand{Position: 2}}},
		{"updateSettings", `{"event":"updateSettings","data":{"winCondition":7}}`,
			call{UpdateSettings, domain.UpdateSettingsCommand{WinCondition: lo.ToPtr(7)}}},
		{"rematch", `{"event":"rematch"}`, call{Rematch, nil}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service := &recordingService{}

			NewDispatcher(service).Dispatch(context.Background(), "c1", []byte(tc.frame))

			require.Eventually(t, func() bool { return len(service.recorded()) == 1 },
				time.Second, 5*time.Millisecond)
			require.Equal(t, []call{tc.expected}, service.recorded())
		})
	}
}

func TestDispatcher_RejectsMalformedFrames(t *testing.T) {
	frames := []string{
		`not json`,
		`{"data":1}`,
		`{"event":"dance"}`,
		`{"event":"placeGame"}`,
		`{"event":"placeGame","data":"first"}`,
		`{"event":"joinRoom","data":42}`,
	}

	for _, frame := range frames {
		t.Run(frame, func(t *testing.T) {
			req := require.New(t)
			service := &recordingService{}

			NewDispatcher(service).Dispatch(context.Background(), "c1", []byte(frame))

			calls := service.recorded()
			req.Len(calls, 1)
			req.Equal("Fail", calls[0].name)
			req.ErrorIs(calls[0].arg.(error), errors.ErrInvalidRequest)
		})
	}
}

// blockingService holds StartGame until released.
type blockingService struct {
	recordingService
	release chan struct{}
}

func (b *blockingService) StartGame(ctx context.Context, connID string) {
	<-b.release
	b.recordingService.StartGame(ctx, connID)
}

func TestDispatcher_StartGameDoesNotBlockReads(t *testing.T) {
	req := require.New(t)
	service := &blockingService{release: make(chan struct{})}
	dispatcher := NewDispatcher(service)

	done := make(chan struct{})
	go func() {
		dispatcher.Dispatch(context.Background(), "c1", []byte(`{"event":"startGame"}`))
		dispatcher.Dispatch(context.Background(), "c1", []byte(`{"event":"rematch"}`))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		req.FailNow("dispatch blocked on a pending game start")
	}
	req.Equal([]call{{Rematch, nil}}, service.recorded())

	close(service.release)
	req.Eventually(func() bool { return len(service.recorded()) == 2 }, time.Second, 5*time.Millisecond)
}
