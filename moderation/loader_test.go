package moderation

import (
	"testing"
	"testing/fstest"

	"timeline-lab/errors"

	"github.com/stretchr/testify/require"
)

func TestCensoredLoader_LoadAll(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{
		"words/en.txt":    {Data: []byte("badger\r\nsnake\n\n  snake  \n")},
		"words/fr.txt":    {Data: []byte("blaireau\nbadger\n")},
		"words/README.md": {Data: []byte("ignored")},
	}

	data, err := NewCensoredLoader(fsys).LoadAll("words")

	req.NoError(err)
	req.Equal([]string{"badger", "blaireau", "snake"}, data.Words)
	req.Equal([]string{"en", "fr"}, data.Languages)
}

func TestCensoredLoader_Empty(t *testing.T) {
	fsys := fstest.MapFS{"words/en.txt": {Data: []byte("\n\n")}}

	_, err := NewCensoredLoader(fsys).LoadAll("words")

	require.ErrorIs(t, err, errors.ErrEmptyWords)
}

func TestCensoredLoader_Embedded(t *testing.T) {
	req := require.New(t)

	data, err := NewCensoredLoader(nil).LoadAll(CensoredDir)

	req.NoError(err)
	req.NotEmpty(data.Words)
	req.Contains(data.Languages, "en")
}
