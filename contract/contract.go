//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"timeline-lab/domain"
	"timeline-lab/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Catalog supplies the items a game is dealt from.
type Catalog interface {
	FetchShuffledItems(ctx context.Context, minCount int) ([]domain.Item, error)
}

// ImageResolver looks up a display image for a catalog item.
// An empty string means no image was found.
type ImageResolver interface {
	ResolveImage(ctx context.Context, itemID string) (string, error)
}

// Persister schedules writes of the registry to a RoomStore.
type Persister interface {
	Schedule()
	Flush()
}

// Broadcaster delivers events to connections and to every member of a room.
type Broadcaster interface {
	Emit(connID string, evt event.DomainEvent)
	Publish(code string, evt event.DomainEvent)
	Subscribe(connID, code string)
	Unsubscribe(connID, code string)
}
