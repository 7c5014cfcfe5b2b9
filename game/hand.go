package game

import (
	"slices"
	"strings"

	"github.com/stoneclaim/schotten/card"
	"github.com/stoneclaim/schotten/config"
)

// Hand holds the cards a player has drawn but not yet placed.
type Hand struct {
	cards []card.Card
}

func NewHand(cards ...card.Card) *Hand {
	h := &Hand{cards: make([]card.Card, 0, config.HandSize)}
	for _, c := range cards {
		h.Add(c)
	}
	return h
}

// Add panics if the hand already holds HandSize cards.
func (h *Hand) Add(c card.Card) {
	if len(h.cards) == config.HandSize {
		panic("hand is full")
	}
	h.cards = append(h.cards, c)
}

// Remove takes out the card at idx. The last card moves into its place.
func (h *Hand) Remove(idx int) card.Card {
	c := h.cards[idx]
	last := len(h.cards) - 1
	h.cards[idx] = h.cards[last]
	h.cards = h.cards[:last]
	return c
}

func (h *Hand) Len() int { return len(h.cards) }

func (h *Hand) At(idx int) card.Card { return h.cards[idx] }

func (h *Hand) Cards() []card.Card { return slices.Clone(h.cards) }

func (h *Hand) Copy() *Hand { return &Hand{cards: slices.Clone(h.cards)} }

func (h *Hand) String() string {
	parts := make([]string, len(h.cards))
	for i, c := range h.cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
