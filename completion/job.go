package completion

import (
	"slices"
	"strings"

	"github.com/stoneclaim/schotten/card"
	"github.com/stoneclaim/schotten/combo"
)

// Presence reports whether a card has already been committed somewhere on
// a board. Completions that use a present card are not possible.
type Presence interface {
	IsPresent(c card.Card) bool
}

// Job is the exact multiset of cards known for one side at one stone. It is
// stored in canonical order, so two equal multisets are equal Jobs no
// matter the order their cards were played in.
type Job struct {
	cards [combo.StoneCardsLimit]card.Card
	n     uint8
}

// NewJob builds the Job for the given known cards. It panics on more than
// three cards or on a repeated card.
func NewJob(known ...card.Card) Job {
	if len(known) > combo.StoneCardsLimit {
		panic("a job cannot know more than three cards")
	}
	var j Job
	copy(j.cards[:], known)
	j.n = uint8(len(known))
	slices.SortFunc(j.cards[:j.n], func(a, b card.Card) int {
		return a.Index() - b.Index()
	})
	for i := 1; i < int(j.n); i++ {
		if j.cards[i] == j.cards[i-1] {
			panic("a job cannot know the same card twice")
		}
	}
	return j
}

// JobFor is the Job describing the cards already committed in sc.
func JobFor(sc *combo.StoneCards) Job {
	return NewJob(sc.Cards()...)
}

func (j Job) Len() int { return int(j.n) }

// Missing is the number of cards a completion supplies.
func (j Job) Missing() int { return combo.StoneCardsLimit - int(j.n) }

// Known returns a copy of the known cards in canonical order.
func (j Job) Known() []card.Card {
	return slices.Clone(j.cards[:j.n])
}

func (j Job) contains(c card.Card) bool {
	return slices.Contains(j.cards[:j.n], c)
}

func (j Job) String() string {
	parts := make([]string, j.n)
	for i := range parts {
		parts[i] = j.cards[i].String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Completion is a set of cards that would complete a Job, together with
// the strength of the resulting formation.
type Completion struct {
	cards    [combo.StoneCardsLimit]card.Card
	n        uint8
	strength uint8
}

func newCompletion(cards []card.Card, strength uint8) Completion {
	var c Completion
	copy(c.cards[:], cards)
	c.n = uint8(len(cards))
	c.strength = strength
	return c
}

func (c Completion) Cards() []card.Card {
	return slices.Clone(c.cards[:c.n])
}

func (c Completion) Strength() uint8 { return c.strength }

// Possible is false when the completion needs a card that is present.
func (c Completion) Possible(present Presence) bool {
	for i := uint8(0); i < c.n; i++ {
		if present.IsPresent(c.cards[i]) {
			return false
		}
	}
	return true
}

func (c Completion) String() string {
	parts := make([]string, c.n)
	for i := range parts {
		parts[i] = c.cards[i].String()
	}
	return "+" + strings.Join(parts, "+")
}
