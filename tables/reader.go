package tables

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/stoneclaim/schotten/card"
	"github.com/stoneclaim/schotten/combo"
)

// Reader streams the rows of one table, validating each as it goes.
type Reader struct {
	name  string
	rc    io.ReadCloser
	r     *csv.Reader
	known []card.Card
	width int
	last  uint8
	row   int
	done  bool
}

// NewReader opens the table that completes known (zero or one card).
func NewReader(src Source, known []card.Card) (*Reader, error) {
	name, err := FilenameFor(known)
	if err != nil {
		return nil, err
	}
	rc, err := src.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	width := combo.StoneCardsLimit - len(known)
	r := csv.NewReader(rc)
	r.FieldsPerRecord = 2 * width
	r.ReuseRecord = true
	return &Reader{
		name:  name,
		rc:    rc,
		r:     r,
		known: append([]card.Card(nil), known...),
		width: width,
	}, nil
}

func (r *Reader) Name() string { return r.name }

// Rows is the number of rows read so far.
func (r *Reader) Rows() int { return r.row }

// Next returns the next completion and the strength of the formation it
// completes. It returns io.EOF once the table is exhausted; any other
// error wraps ErrCorruptTable.
func (r *Reader) Next() ([]card.Card, uint8, error) {
	if r.done {
		return nil, 0, io.EOF
	}
	record, err := r.r.Read()
	if errors.Is(err, io.EOF) {
		r.done = true
		return nil, 0, io.EOF
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s row %d: %v", ErrCorruptTable, r.name, r.row+1, err)
	}
	r.row++
	cards := make([]card.Card, r.width)
	for i := range cards {
		num, err := strconv.ParseUint(record[2*i], 10, 8)
		if err != nil {
			return nil, 0, r.corrupt("bad number %q", record[2*i])
		}
		color, err := strconv.ParseUint(record[2*i+1], 10, 8)
		if err != nil {
			return nil, 0, r.corrupt("bad color %q", record[2*i+1])
		}
		cards[i], err = card.TryNew(uint8(num), uint8(color))
		if err != nil {
			return nil, 0, r.corrupt("%v", err)
		}
		for _, k := range r.known {
			if k == cards[i] {
				return nil, 0, r.corrupt("completion repeats known card %v", k)
			}
		}
		for j := 0; j < i; j++ {
			if cards[j] == cards[i] {
				return nil, 0, r.corrupt("duplicate card %v", cards[i])
			}
		}
	}
	full := append(append(make([]card.Card, 0, combo.StoneCardsLimit), r.known...), cards...)
	strength := combo.Strength(full[0], full[1], full[2])
	if strength < r.last {
		return nil, 0, r.corrupt("strength %d after %d", strength, r.last)
	}
	r.last = strength
	return cards, strength, nil
}

func (r *Reader) corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s row %d: %s", ErrCorruptTable, r.name, r.row, fmt.Sprintf(format, args...))
}

// Close releases the underlying file. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.rc == nil {
		return nil
	}
	err := r.rc.Close()
	r.rc = nil
	r.done = true
	return err
}
