// Package tables reads and writes the precomputed completion tables.
//
// Each table lists, in ascending order of resulting strength, every way to
// complete a partial formation to three cards. There is one table of all
// three-card formations and one table of two-card completions for every
// single known card. Records are CSV; each card is a (number, color) pair
// of fields, so a duo record has four fields and a triplet record six.
package tables

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/stoneclaim/schotten/card"
)

const (
	TripletsFilename = "triplets_sorted.csv"
	ManifestFilename = "manifest.yaml"
)

var (
	ErrCorruptTable     = errors.New("corrupt completion table")
	ErrManifestMismatch = errors.New("completion table does not match manifest")
)

// DuosFilename is the table of two-card completions for the known card c.
func DuosFilename(c card.Card) string {
	return fmt.Sprintf("duos_sorted_%d%d.csv", c.Num(), c.Color())
}

// FilenameFor picks the table that completes the given known cards. Only
// zero or one known card is backed by a table.
func FilenameFor(known []card.Card) (string, error) {
	switch len(known) {
	case 0:
		return TripletsFilename, nil
	case 1:
		return DuosFilename(known[0]), nil
	}
	return "", fmt.Errorf("no table completes %d known cards", len(known))
}

// AllFilenames lists every table file, triplets first.
func AllFilenames() []string {
	names := []string{TripletsFilename}
	for _, c := range card.All() {
		names = append(names, DuosFilename(c))
	}
	return names
}

// Source opens tables by file name.
type Source interface {
	Open(name string) (io.ReadCloser, error)
}

// Dir is a Source rooted at a directory on disk.
type Dir string

func (d Dir) Open(name string) (io.ReadCloser, error) {
	path := filepath.Join(string(d), name)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Msg("opened-completion-table")
	return f, nil
}
