package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"timeline-lab/domain"
	"timeline-lab/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "./data/rooms", "Path to badger DB")
	state := flag.String("state", "", "Only show rooms in this state (lobby, playing, finished)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	rooms, err := readRooms(db)
	if err != nil {
		log.Fatal(err)
	}
	render(os.Stdout, filterRooms(rooms, domain.GameState(*state)), time.Now())
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}

// readRooms decodes the raw snapshot so that a corrupt entry is reported
// instead of silently skipped like the server does.
func readRooms(db *badger.DB) ([]*domain.Room, error) {
	var data []byte
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(repositories.SnapshotKey))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return repositories.DecodeRooms(data)
}

func filterRooms(rooms []*domain.Room, state domain.GameState) []*domain.Room {
	filtered := make([]*domain.Room, 0, len(rooms))
	for _, room := range rooms {
		if room == nil {
			continue
		}
		if state != "" && room.GameState != state {
			continue
		}
		filtered = append(filtered, room)
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].LastActivity.After(filtered[j].LastActivity)
	})
	return filtered
}

func render(w io.Writer, rooms []*domain.Room, now time.Time) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Code", "State", "Host", "Players", "Scores", "Deck", "Goal", "Idle"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, room := range rooms {
		table.Append(row(room, now))
	}
	table.Render()
	fmt.Fprintf(w, "%d rooms\n", len(rooms))
}

func row(room *domain.Room, now time.Time) []string {
	host := room.Host
	scores := make([]string, 0, len(room.Players))
	for _, p := range room.Players {
		if p.ID == room.Host {
			host = p.Name
		}
		scores = append(scores, fmt.Sprintf("%s:%d", p.Name, p.Score))
	}

	idle := "never"
	if !room.LastActivity.IsZero() {
		idle = now.Sub(room.LastActivity).Truncate(time.Second).String()
	}

	return []string{
		room.Code,
		stateLabel(room.GameState),
		host,
		fmt.Sprintf("%d/%d", len(room.Players), domain.MaxPlayers),
		strings.Join(scores, " "),
		fmt.Sprintf("%d", room.Deck.Len()),
		fmt.Sprintf("%d", room.Settings.WinCondition),
		idle,
	}
}

func stateLabel(state domain.GameState) string {
	switch state {
	case domain.Playing:
		return color.FgGreen.Render(string(state))
	case domain.Finished:
		return color.FgYellow.Render(string(state))
	default:
		return color.FgCyan.Render(string(state))
	}
}
