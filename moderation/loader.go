package moderation

import (
	"bufio"
	"bytes"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"timeline-lab/errors"
)

//go:embed censored/*.txt
var censoredFolder embed.FS

// CensoredDir is the folder of the embedded word lists.
const CensoredDir = "censored"

// CensoredData is the merged content of every word list.
type CensoredData struct {
	Words     []string
	Languages []string
}

// CensoredLoader reads word lists, one word per line, one file per language.
type CensoredLoader struct {
	fs fs.FS
}

// NewCensoredLoader reads from fsys, or from the embedded lists when nil.
func NewCensoredLoader(fsys fs.FS) *CensoredLoader {
	if fsys == nil {
		fsys = censoredFolder
	}
	return &CensoredLoader{fs: fsys}
}

// LoadAll merges every .txt file of dir into a deduplicated word list.
func (l *CensoredLoader) LoadAll(dir string) (*CensoredData, error) {
	entries, err := fs.ReadDir(l.fs, dir)
	if err != nil {
		return nil, err
	}

	var languages []string
	uniqueWords := make(map[string]struct{})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := fs.ReadFile(l.fs, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		// Scanner copes with \r\n endings.
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				uniqueWords[line] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	if len(uniqueWords) == 0 {
		return nil, errors.ErrEmptyWords
	}

	words := make([]string, 0, len(uniqueWords))
	for w := range uniqueWords {
		words = append(words, w)
	}
	sort.Strings(words)

	return &CensoredData{Words: words, Languages: languages}, nil
}
