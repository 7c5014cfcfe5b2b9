package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/stoneclaim/schotten/board"
	"github.com/stoneclaim/schotten/card"
	"github.com/stoneclaim/schotten/config"
)

// firstAvailable plays its first card on the first stone it can.
type firstAvailable struct{}

func (firstAvailable) ChooseAction(hand *Hand, b *board.Board, p board.Player) (int, board.Stone) {
	return 0, b.AvailableStonesFor(p)[0]
}

func (firstAvailable) ClaimAttempts(*Hand, *board.Board, board.Player) []board.Stone {
	return board.AllStones()
}

type badIndex struct{ firstAvailable }

func (badIndex) ChooseAction(hand *Hand, b *board.Board, p board.Player) (int, board.Stone) {
	return hand.Len(), 0
}

func TestDeck(t *testing.T) {
	is := is.New(t)
	d := NewDeck()
	is.Equal(d.Len(), card.CardsInDeck)
	seen := map[card.Card]bool{}
	for {
		c, ok := d.Draw()
		if !ok {
			break
		}
		is.True(!seen[c])
		seen[c] = true
	}
	is.Equal(len(seen), card.CardsInDeck)
	_, ok := d.Draw()
	is.True(!ok)
}

func TestDeckFromDrawsFromEnd(t *testing.T) {
	is := is.New(t)
	d := NewDeckFrom([]card.Card{card.New(1, 1), card.New(2, 2)})
	c, _ := d.Draw()
	is.Equal(c, card.New(2, 2))
	is.Equal(d.Len(), 1)
}

func TestHand(t *testing.T) {
	is := is.New(t)
	h := NewHand(card.New(1, 1), card.New(2, 1), card.New(3, 1))
	is.Equal(h.Remove(0), card.New(1, 1))
	is.Equal(h.Cards(), []card.Card{card.New(3, 1), card.New(2, 1)})
	for i := h.Len(); i < config.HandSize; i++ {
		h.Add(card.New(9, uint8(i)))
	}
	assert.Panics(t, func() { h.Add(card.New(8, 1)) })
	is.Equal(h.String(), "Pu3 Pu2 Re9 Or9 Ye9 Gr9")
}

func TestNewGameDeals(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	is.Equal(g.Hand(board.Player1).Len(), config.HandSize)
	is.Equal(g.Hand(board.Player2).Len(), config.HandSize)
	is.Equal(g.Deck().Len(), card.CardsInDeck-config.NumPlayers*config.HandSize)
	is.Equal(g.PlayerOnTurn(), board.Player1)
	is.True(g.Uid() != "")
}

func TestPlayTurn(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	first := g.Hand(board.Player1).At(0)
	rec, err := g.PlayTurn(firstAvailable{})
	is.NoErr(err)
	is.True(rec.Placed)
	is.True(rec.Drew)
	is.Equal(rec.Card, first)
	is.Equal(rec.Stone, board.Stone(0))
	is.Equal(g.Board().Cards(board.Player1, 0), []card.Card{first})
	is.Equal(g.Hand(board.Player1).Len(), config.HandSize)
	is.Equal(g.PlayerOnTurn(), board.Player2)
	is.Equal(len(g.History()), 1)
}

func TestPlayTurnRejectsIllegalChoice(t *testing.T) {
	g := NewGame()
	_, err := g.PlayTurn(badIndex{})
	assert.ErrorIs(t, err, ErrIllegalAction)
}

func TestPlayToTheEnd(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	winner, err := g.Play(firstAvailable{}, firstAvailable{})
	if errors.Is(err, ErrStalled) {
		t.Skip("stalled deal")
	}
	is.NoErr(err)
	w, ok := g.Winner()
	is.True(ok)
	is.Equal(w, winner)
	is.Equal(len(g.History()), g.Turn())
	_, err = g.PlayTurn(firstAvailable{})
	is.True(errors.Is(err, ErrGameOver))
	is.True(strings.Contains(g.ToDisplayText(), "Winner: "+winner.String()))
}

func TestCopyIsIndependent(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	cp := g.Copy()
	_, err := cp.PlayTurn(firstAvailable{})
	is.NoErr(err)
	is.Equal(g.Turn(), 0)
	is.Equal(g.Deck().Len(), card.CardsInDeck-config.NumPlayers*config.HandSize)
	is.Equal(len(g.Board().Cards(board.Player1, 0)), 0)
	is.Equal(cp.Turn(), 1)
}

func TestToDisplayText(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	text := g.ToDisplayText()
	is.True(strings.Contains(text, "Deck: 42"))
	is.True(strings.Contains(text, "-> P1"))
	is.True(strings.Contains(text, g.Hand(board.Player2).String()))
}
