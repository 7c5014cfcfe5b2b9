package tables

import (
	"bufio"
	"cmp"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/stoneclaim/schotten/card"
	"github.com/stoneclaim/schotten/combo"
)

// Row is one completion together with the strength it produces.
type Row struct {
	Cards    []card.Card
	Strength uint8
}

// Completions enumerates every way to complete known to three cards using
// cards from universe, sorted ascending by resulting strength. Cards within
// a row, and rows of equal strength, keep the canonical order of universe.
func Completions(known []card.Card, universe []card.Card) []Row {
	missing := combo.StoneCardsLimit - len(known)
	if missing <= 0 {
		return nil
	}
	pool := make([]card.Card, 0, len(universe))
	for _, c := range universe {
		if !slices.Contains(known, c) {
			pool = append(pool, c)
		}
	}
	if len(pool) < missing {
		return nil
	}
	rows := make([]Row, 0, combin.Binomial(len(pool), missing))
	full := make([]card.Card, combo.StoneCardsLimit)
	copy(full, known)
	gen := combin.NewCombinationGenerator(len(pool), missing)
	idxs := make([]int, missing)
	for gen.Next() {
		gen.Combination(idxs)
		cards := make([]card.Card, missing)
		for i, idx := range idxs {
			cards[i] = pool[idx]
			full[len(known)+i] = pool[idx]
		}
		rows = append(rows, Row{Cards: cards, Strength: combo.Strength(full[0], full[1], full[2])})
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		return cmp.Compare(a.Strength, b.Strength)
	})
	return rows
}

// Write encodes rows as CSV.
func Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	var record []string
	for _, row := range rows {
		record = record[:0]
		for _, c := range row.Cards {
			record = append(record, strconv.Itoa(int(c.Num())), strconv.Itoa(int(c.Color())))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Generate writes every table and the manifest into dir, creating it if
// needed.
func Generate(ctx context.Context, dir string) (*Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	names := AllFilenames()
	entries := make([]Entry, len(names))
	universe := card.All()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var known []card.Card
			if i > 0 {
				known = []card.Card{universe[i-1]}
			}
			rows := Completions(known, universe)
			digest, err := writeFile(filepath.Join(dir, name), rows)
			if err != nil {
				return fmt.Errorf("write %s: %w", name, err)
			}
			entries[i] = Entry{Name: name, Rows: len(rows), Digest: digest}
			log.Debug().Str("table", name).Int("rows", len(rows)).Msg("wrote-completion-table")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	m := &Manifest{Tables: entries}
	if err := m.WriteFile(filepath.Join(dir, ManifestFilename)); err != nil {
		return nil, err
	}
	log.Info().Str("dir", dir).Int("tables", len(entries)).Msg("generated-completion-tables")
	return m, nil
}

func writeFile(path string, rows []Row) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := xxhash.New()
	bw := bufio.NewWriter(io.MultiWriter(f, h))
	if err := Write(bw, rows); err != nil {
		return "", err
	}
	if err := bw.Flush(); err != nil {
		return "", err
	}
	return formatDigest(h.Sum64()), f.Close()
}
