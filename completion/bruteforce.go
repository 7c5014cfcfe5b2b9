package completion

import (
	"gonum.org/v1/gonum/stat/combin"

	"github.com/stoneclaim/schotten/card"
	"github.com/stoneclaim/schotten/combo"
	"github.com/stoneclaim/schotten/tables"
)

// Unseen lists, in canonical order, the cards that are neither present nor
// part of job.
func Unseen(job Job, present Presence) []card.Card {
	var out []card.Card
	for _, c := range card.All() {
		if !present.IsPresent(c) && !job.contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// BruteForce enumerates every completion of job from the unseen cards,
// weakest first. It does not touch any table.
func BruteForce(job Job, present Presence) []Completion {
	rows := tables.Completions(job.Known(), Unseen(job, present))
	out := make([]Completion, len(rows))
	for i, r := range rows {
		out[i] = newCompletion(r.Cards, r.Strength)
	}
	return out
}

// BruteForceBeats reports whether some completion of job drawn from the
// unseen cards is strictly stronger than threshold. It stops at the first
// one found.
func BruteForceBeats(job Job, present Presence, threshold uint8) (Completion, bool) {
	missing := job.Missing()
	if missing == 0 {
		return Completion{}, false
	}
	pool := Unseen(job, present)
	if len(pool) < missing {
		return Completion{}, false
	}
	full := make([]card.Card, combo.StoneCardsLimit)
	copy(full, job.cards[:job.n])
	idxs := make([]int, missing)
	gen := combin.NewCombinationGenerator(len(pool), missing)
	for gen.Next() {
		gen.Combination(idxs)
		for i, idx := range idxs {
			full[job.Len()+i] = pool[idx]
		}
		if s := combo.Strength(full[0], full[1], full[2]); s > threshold {
			return newCompletion(full[job.Len():], s), true
		}
	}
	return Completion{}, false
}
