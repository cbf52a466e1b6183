package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"sentinel", ErrRoomFull, "Room is full (max. 8 players)"},
		{"wrapped sentinel", fmt.Errorf("join ABCD: %w", ErrNotYourTurn), "It is not your turn"},
		{"unknown error", fmt.Errorf("disk on fire"), "Something went wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, UserMessage(tt.err))
		})
	}
}
