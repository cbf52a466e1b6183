//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"timeline-lab/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

// SnapshotKey holds the JSON array of every live room.
const SnapshotKey = "rooms:snapshot"

type IRoomRepository interface {
	Load() map[string]*domain.Room
	Save(rooms []*domain.Room) error
}

type RoomRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRoomRepository(db *badger.DB, log *slog.Logger) RoomRepository {
	return RoomRepository{db: db, log: log}
}

// Load reads the snapshot written by Save. A missing, unreadable or corrupt
// snapshot yields an empty map: the server starts fresh rather than failing.
func (r RoomRepository) Load() map[string]*domain.Room {
	rooms := make(map[string]*domain.Room)
	data, err := r.read()
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			r.log.Info("No persisted rooms found, starting fresh")
		} else {
			r.log.Error("Failed to read persisted rooms", "error", err)
		}
		return rooms
	}

	list, err := DecodeRooms(data)
	if err != nil {
		r.log.Error("Failed to decode persisted rooms", "error", err)
		return rooms
	}
	for _, room := range list {
		if room == nil || room.Code == "" {
			continue
		}
		rooms[room.Code] = room
	}
	r.log.Info(fmt.Sprintf("Loaded %d rooms from disk", len(rooms)))
	return rooms
}

// Save overwrites the snapshot with rooms in a single transaction.
func (r RoomRepository) Save(rooms []*domain.Room) error {
	data, err := EncodeRooms(rooms)
	if err != nil {
		return fmt.Errorf("encode rooms: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(SnapshotKey), data)
	})
}

func (r RoomRepository) read() ([]byte, error) {
	var data []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(SnapshotKey))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	return data, err
}

// EncodeRooms produces the persisted layout: one array of room records with
// players and timelines inline.
func EncodeRooms(rooms []*domain.Room) ([]byte, error) {
	return json.Marshal(lo.Compact(rooms))
}

func DecodeRooms(data []byte) ([]*domain.Room, error) {
	var rooms []*domain.Room
	if err := json.Unmarshal(data, &rooms); err != nil {
		return nil, err
	}
	for _, room := range rooms {
		if room == nil {
			continue
		}
		for _, p := range room.Players {
			if p != nil && p.Timeline == nil {
				p.Timeline = []domain.TimelineEntry{}
			}
		}
		room.Players = lo.Compact(room.Players)
		if room.Deck == nil {
			room.Deck = domain.Deck{}
		}
	}
	return rooms, nil
}
