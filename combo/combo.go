// Package combo scores three-card formations and holds the cards a player
// has committed to a single stone.
package combo

import (
	"strings"

	"github.com/stoneclaim/schotten/card"
)

// StoneCardsLimit is the number of cards that completes a formation.
const StoneCardsLimit = 3

// Category is the kind of formation, weakest first.
type Category uint8

const (
	SumCat Category = iota
	RunCat
	ColorCat
	ThreeOfAKindCat
	ColorRunCat
)

func (c Category) String() string {
	switch c {
	case SumCat:
		return "sum"
	case RunCat:
		return "run"
	case ColorCat:
		return "color"
	case ThreeOfAKindCat:
		return "three-of-a-kind"
	case ColorRunCat:
		return "color-run"
	}
	return "unknown"
}

/*
Strength ranges, by category:

	sum             | 4-26
	run             | 27-33
	color           | 40-56
	three of a kind | 57-65
	color run       | 66-72

Equal strengths are ties; they are broken by advantage, never here.
*/

// Strength scores three cards. Input order does not matter.
func Strength(a, b, c card.Card) uint8 {
	s0, s1, s2 := sorted(a, b, c)
	n0, n1, n2 := s0.Num(), s1.Num(), s2.Num()

	if n0 == n1 && n1 == n2 {
		return 56 + n0
	}
	isRun := n0+1 == n1 && n1+1 == n2
	isColor := s0.Color() == s1.Color() && s1.Color() == s2.Color()

	switch {
	case isRun && isColor:
		return 65 + n0
	case isRun:
		return 26 + n0
	case isColor:
		return 33 + n0 + n1 + n2
	}
	return n0 + n1 + n2
}

// CategoryOf classifies three cards using the same precedence as Strength.
func CategoryOf(a, b, c card.Card) Category {
	s0, s1, s2 := sorted(a, b, c)
	n0, n1, n2 := s0.Num(), s1.Num(), s2.Num()
	if n0 == n1 && n1 == n2 {
		return ThreeOfAKindCat
	}
	isRun := n0+1 == n1 && n1+1 == n2
	isColor := s0.Color() == s1.Color() && s1.Color() == s2.Color()
	switch {
	case isRun && isColor:
		return ColorRunCat
	case isRun:
		return RunCat
	case isColor:
		return ColorCat
	}
	return SumCat
}

// sorted orders three cards by number.
func sorted(a, b, c card.Card) (card.Card, card.Card, card.Card) {
	if a.Num() > b.Num() {
		a, b = b, a
	}
	if b.Num() > c.Num() {
		b, c = c, b
	}
	if a.Num() > b.Num() {
		a, b = b, a
	}
	return a, b, c
}

// StoneCards are the cards one player has committed to one stone, in the
// order they were played.
type StoneCards struct {
	cards [StoneCardsLimit]card.Card
	n     uint8
}

// NewStoneCards builds a formation from the given cards. It panics if more
// than StoneCardsLimit cards are given.
func NewStoneCards(cards ...card.Card) StoneCards {
	var sc StoneCards
	for _, c := range cards {
		sc.Push(c)
	}
	return sc
}

func (sc *StoneCards) Len() int { return int(sc.n) }

func (sc *StoneCards) IsFull() bool { return sc.n == StoneCardsLimit }

// Push appends a card. Pushing onto a full formation is a caller bug.
func (sc *StoneCards) Push(c card.Card) {
	if sc.IsFull() {
		panic("cannot push a card onto a full stone")
	}
	sc.cards[sc.n] = c
	sc.n++
}

// At returns the i-th played card.
func (sc *StoneCards) At(i int) card.Card {
	if i < 0 || i >= int(sc.n) {
		panic("stone cards index out of bounds")
	}
	return sc.cards[i]
}

// Cards returns a copy of the played cards.
func (sc *StoneCards) Cards() []card.Card {
	out := make([]card.Card, sc.n)
	copy(out, sc.cards[:sc.n])
	return out
}

func (sc *StoneCards) Contains(c card.Card) bool {
	for i := uint8(0); i < sc.n; i++ {
		if sc.cards[i] == c {
			return true
		}
	}
	return false
}

// Strength of a full formation. Asking for the strength of a formation that
// is not full is a caller bug.
func (sc *StoneCards) Strength() uint8 {
	if !sc.IsFull() {
		panic("cannot determine strength of a non-full stone")
	}
	return Strength(sc.cards[0], sc.cards[1], sc.cards[2])
}

func (sc *StoneCards) Category() Category {
	if !sc.IsFull() {
		panic("cannot determine category of a non-full stone")
	}
	return CategoryOf(sc.cards[0], sc.cards[1], sc.cards[2])
}

func (sc *StoneCards) String() string {
	parts := make([]string, sc.n)
	for i := range parts {
		parts[i] = sc.cards[i].String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
