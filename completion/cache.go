// Package completion keeps, for each multiset of cards known at a stone,
// the ways that multiset can still be completed, ordered from weakest to
// strongest. It is the search structure behind claim legality.
package completion

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/stoneclaim/schotten/tables"
)

// Cache maps Jobs to their WorkCollectors. A single Cache is meant to be
// shared by every board in a process, including boards used on different
// goroutines.
type Cache struct {
	src tables.Source

	sync.Mutex
	collectors map[Job]*WorkCollector
}

func NewCache(src tables.Source) *Cache {
	return &Cache{
		src:        src,
		collectors: make(map[Job]*WorkCollector),
	}
}

// Collector returns the WorkCollector for job, creating it on first use.
// It panics for a Job that already knows three cards.
func (c *Cache) Collector(job Job) *WorkCollector {
	if job.Missing() == 0 {
		panic("a complete formation has no completions")
	}
	c.Lock()
	defer c.Unlock()
	if wc, ok := c.collectors[job]; ok {
		return wc
	}
	wc := newWorkCollector(job, c.src)
	c.collectors[job] = wc
	return wc
}

// AddJobs creates collectors ahead of time.
func (c *Cache) AddJobs(jobs ...Job) {
	for _, j := range jobs {
		c.Collector(j)
	}
}

// Cursor is a position within the ordered completions of one Job.
type Cursor struct {
	Job    Job
	Offset int
}

func (c *Cache) NewCursor(job Job) *Cursor {
	c.Collector(job)
	return &Cursor{Job: job}
}

// Advance moves cur forward to the weakest completion at or after its
// offset that is still possible given present, and returns it. The second
// result is false once every completion has been passed; cur then stays
// at the end.
func (c *Cache) Advance(cur *Cursor, present Presence) (Completion, bool) {
	return c.Collector(cur.Job).advance(cur, present)
}

// AnyBeats returns a possible completion of job whose strength is strictly
// greater than threshold, if one exists. The completion returned is the
// weakest such one.
func (c *Cache) AnyBeats(job Job, present Presence, threshold uint8) (Completion, bool) {
	wc := c.Collector(job)
	snap := wc.Snapshot()
	// Skip the published rows that are too weak to matter.
	cur := &Cursor{Job: job, Offset: sort.Search(len(snap), func(i int) bool {
		return snap[i].strength > threshold
	})}
	for {
		comp, ok := wc.advance(cur, present)
		if !ok {
			return Completion{}, false
		}
		if comp.strength > threshold {
			return comp, true
		}
		cur.Offset++
	}
}

// Possible returns every completion of job that is possible given present,
// weakest first. It reads the job's table to the end.
func (c *Cache) Possible(job Job, present Presence) []Completion {
	var out []Completion
	for _, comp := range c.Collector(job).materializeAll() {
		if comp.Possible(present) {
			out = append(out, comp)
		}
	}
	return out
}

type Stats struct {
	Jobs         int
	Materialized int
	Exhausted    int
}

func (c *Cache) Stats() Stats {
	c.Lock()
	defer c.Unlock()
	var s Stats
	for _, wc := range c.collectors {
		s.Jobs++
		s.Materialized += len(wc.Snapshot())
		if wc.Exhausted() {
			s.Exhausted++
		}
	}
	return s
}

// Close releases any table still open. The cache remains usable; a
// collector that needs more rows reopens its table.
func (c *Cache) Close() error {
	c.Lock()
	defer c.Unlock()
	for _, wc := range c.collectors {
		wc.close()
	}
	log.Debug().Int("jobs", len(c.collectors)).Msg("closed-completion-cache")
	return nil
}
