package game

import (
	"slices"

	"lukechampine.com/frand"

	"github.com/stoneclaim/schotten/card"
)

// Deck is the draw pile. Cards are drawn from the end.
type Deck struct {
	cards []card.Card
}

// NewDeck returns all cards, shuffled.
func NewDeck() *Deck {
	d := &Deck{cards: card.All()}
	d.Shuffle()
	return d
}

// NewDeckFrom returns a deck that draws cards from the end of cards.
func NewDeckFrom(cards []card.Card) *Deck {
	return &Deck{cards: slices.Clone(cards)}
}

func (d *Deck) Shuffle() {
	frand.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

func (d *Deck) Len() int { return len(d.cards) }

// Draw removes the top card. It returns false once the deck is empty.
func (d *Deck) Draw() (card.Card, bool) {
	if len(d.cards) == 0 {
		return card.Card{}, false
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, true
}

func (d *Deck) Cards() []card.Card { return slices.Clone(d.cards) }

func (d *Deck) Copy() *Deck { return NewDeckFrom(d.cards) }
