package completion

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/stoneclaim/schotten/card"
	"github.com/stoneclaim/schotten/tables"
)

// WorkCollector holds the completions of one Job materialized so far, in
// ascending order of strength. Readers load the published prefix without
// locking; growth is serialized by mu and publishes a new, longer prefix.
type WorkCollector struct {
	job Job
	src tables.Source

	mu        sync.Mutex
	reader    *tables.Reader
	exhausted atomic.Bool
	data      atomic.Pointer[[]Completion]
}

func newWorkCollector(job Job, src tables.Source) *WorkCollector {
	wc := &WorkCollector{job: job, src: src}
	var data []Completion
	if job.Missing() == 1 {
		rows := tables.Completions(job.Known(), card.All())
		data = make([]Completion, len(rows))
		for i, r := range rows {
			data[i] = newCompletion(r.Cards, r.Strength)
		}
		wc.exhausted.Store(true)
	}
	wc.data.Store(&data)
	log.Debug().Str("job", job.String()).Int("materialized", len(data)).Msg("created-work-collector")
	return wc
}

func (wc *WorkCollector) Job() Job { return wc.job }

// Snapshot returns the currently published prefix. It must not be modified.
func (wc *WorkCollector) Snapshot() []Completion {
	return *wc.data.Load()
}

func (wc *WorkCollector) Exhausted() bool { return wc.exhausted.Load() }

// growPast materializes entries until more than n are published or the
// source runs out, and returns the resulting snapshot. A missing or
// corrupt table is unrecoverable.
func (wc *WorkCollector) growPast(n int) []Completion {
	// exhausted is loaded first: once it is set, every row is published.
	exhausted := wc.exhausted.Load()
	if snap := wc.Snapshot(); len(snap) > n || exhausted {
		return snap
	}
	wc.mu.Lock()
	defer wc.mu.Unlock()
	snap := wc.Snapshot()
	for len(snap) <= n && !wc.exhausted.Load() {
		if wc.reader == nil {
			r, err := tables.NewReader(wc.src, wc.job.Known())
			if err != nil {
				log.Panic().Err(err).Str("job", wc.job.String()).Msg("cannot-open-completion-table")
			}
			// A reopened table resumes after the rows already published.
			for range len(snap) {
				if _, _, err := r.Next(); err != nil {
					log.Panic().Err(err).Str("job", wc.job.String()).Msg("completion-table-defect")
				}
			}
			wc.reader = r
		}
		cards, strength, err := wc.reader.Next()
		if errors.Is(err, io.EOF) {
			wc.finish()
			break
		}
		if err != nil {
			log.Panic().Err(err).Str("job", wc.job.String()).Msg("completion-table-defect")
		}
		// Appending may share the backing array with the published
		// snapshot, but only past its length, which no reader sees.
		next := append(snap, newCompletion(cards, strength))
		wc.data.Store(&next)
		snap = next
	}
	return snap
}

// advance moves cur to the first completion at or after its offset that is
// possible given present.
func (wc *WorkCollector) advance(cur *Cursor, present Presence) (Completion, bool) {
	snap := wc.Snapshot()
	for {
		if cur.Offset >= len(snap) {
			snap = wc.growPast(cur.Offset)
			if cur.Offset >= len(snap) {
				return Completion{}, false
			}
		}
		if snap[cur.Offset].Possible(present) {
			return snap[cur.Offset], true
		}
		cur.Offset++
	}
}

// finish closes the table reader. mu must be held.
func (wc *WorkCollector) finish() {
	wc.exhausted.Store(true)
	if wc.reader == nil {
		return
	}
	rows := wc.reader.Rows()
	if err := wc.reader.Close(); err != nil {
		log.Err(err).Str("job", wc.job.String()).Msg("closing-completion-table")
	}
	wc.reader = nil
	log.Debug().Str("job", wc.job.String()).Int("rows", rows).Msg("completion-table-exhausted")
}

// materializeAll reads the source to the end.
func (wc *WorkCollector) materializeAll() []Completion {
	snap := wc.Snapshot()
	for !wc.exhausted.Load() {
		snap = wc.growPast(len(snap))
	}
	return snap
}

func (wc *WorkCollector) close() {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	if wc.reader != nil {
		if err := wc.reader.Close(); err != nil {
			log.Err(err).Str("job", wc.job.String()).Msg("closing-completion-table")
		}
		wc.reader = nil
	}
}
