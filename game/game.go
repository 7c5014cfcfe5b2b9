// Package game runs the turn-taking loop around a board: dealing, placing
// cards from hands, attempting claims and drawing.
package game

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/stoneclaim/schotten/board"
	"github.com/stoneclaim/schotten/card"
	"github.com/stoneclaim/schotten/config"
)

var (
	ErrIllegalAction = errors.New("illegal action")
	ErrStalled       = errors.New("neither player can move")
	ErrGameOver      = errors.New("game is over")
)

// Strategy decides what a player does on their turn.
type Strategy interface {
	// ChooseAction returns the index of the hand card to play and the
	// stone to play it on. It is only called when the player has a card
	// and an available stone.
	ChooseAction(hand *Hand, b *board.Board, p board.Player) (int, board.Stone)
	// ClaimAttempts lists the stones to try to claim before playing.
	ClaimAttempts(hand *Hand, b *board.Board, p board.Player) []board.Stone
}

// TurnRecord describes what happened on one turn.
type TurnRecord struct {
	Turn    int
	Player  board.Player
	Claimed []board.Stone
	Placed  bool
	Card    card.Card
	Stone   board.Stone
	Drew    bool
}

func (t TurnRecord) String() string {
	s := fmt.Sprintf("%d %v", t.Turn, t.Player)
	if len(t.Claimed) > 0 {
		s += fmt.Sprintf(" claimed %v", t.Claimed)
	}
	if t.Placed {
		s += fmt.Sprintf(" played %v on %d", t.Card, t.Stone)
	} else {
		s += " passed"
	}
	return s
}

// Game is a board, a deck and the players' hands, plus whose turn it is.
// It does not decide moves; strategies do.
type Game struct {
	uid     string
	board   *board.Board
	deck    *Deck
	hands   [config.NumPlayers]*Hand
	onturn  board.Player
	turnnum int
	history []TurnRecord
	// consecutive turns on which nothing happened
	idle int
}

// NewGame shuffles a fresh deck and deals both hands.
func NewGame(opts ...board.Option) *Game {
	return NewGameFromDeck(NewDeck(), opts...)
}

// NewGameFromDeck deals from deck, alternating between the players.
func NewGameFromDeck(deck *Deck, opts ...board.Option) *Game {
	g := &Game{
		uid:   uuid.NewString(),
		board: board.New(opts...),
		deck:  deck,
	}
	for i := range g.hands {
		g.hands[i] = NewHand()
	}
	for range config.HandSize {
		for _, h := range g.hands {
			if c, ok := deck.Draw(); ok {
				h.Add(c)
			}
		}
	}
	log.Debug().Str("uid", g.uid).Int("deck", deck.Len()).Msg("new-game")
	return g
}

// NewGameFromState builds a game in progress, for simulations.
func NewGameFromState(b *board.Board, deck *Deck, hands [config.NumPlayers]*Hand, onturn board.Player) *Game {
	return &Game{
		uid:    uuid.NewString(),
		board:  b,
		deck:   deck,
		hands:  hands,
		onturn: onturn,
	}
}

func (g *Game) Uid() string { return g.uid }

func (g *Game) Board() *board.Board { return g.board }

func (g *Game) Deck() *Deck { return g.deck }

func (g *Game) Hand(p board.Player) *Hand { return g.hands[p] }

func (g *Game) PlayerOnTurn() board.Player { return g.onturn }

func (g *Game) Turn() int { return g.turnnum }

func (g *Game) History() []TurnRecord { return slices.Clone(g.history) }

// Winner is the player the claims have decided for, if any.
func (g *Game) Winner() (board.Player, bool) {
	return g.board.TerminalState()
}

// Copy returns an independent game sharing the board's completion cache.
func (g *Game) Copy() *Game {
	cp := &Game{
		uid:     g.uid,
		board:   g.board.Copy(),
		deck:    g.deck.Copy(),
		onturn:  g.onturn,
		turnnum: g.turnnum,
		idle:    g.idle,
	}
	for i, h := range g.hands {
		cp.hands[i] = h.Copy()
	}
	return cp
}

// PlayTurn lets s move for the player on turn: it first tries the claims s
// asks for, then, if the player has somewhere to play, places the chosen
// card and draws a replacement.
func (g *Game) PlayTurn(s Strategy) (TurnRecord, error) {
	if _, over := g.Winner(); over {
		return TurnRecord{}, ErrGameOver
	}
	p := g.onturn
	hand := g.hands[p]
	rec := TurnRecord{Turn: g.turnnum, Player: p}

	for _, stone := range s.ClaimAttempts(hand, g.board, p) {
		if g.board.Claim(p, stone) {
			rec.Claimed = append(rec.Claimed, stone)
		}
	}

	if hand.Len() > 0 && g.board.AnyAvailableStonesFor(p) {
		idx, stone := s.ChooseAction(hand, g.board, p)
		if idx < 0 || idx >= hand.Len() {
			return rec, fmt.Errorf("%w: %v chose hand index %d of %d", ErrIllegalAction, p, idx, hand.Len())
		}
		if !slices.Contains(g.board.AvailableStonesFor(p), stone) {
			return rec, fmt.Errorf("%w: %v chose unavailable stone %d", ErrIllegalAction, p, stone)
		}
		rec.Card = hand.Remove(idx)
		rec.Stone = stone
		rec.Placed = true
		g.board.PlaceCard(p, stone, rec.Card)
		if c, ok := g.deck.Draw(); ok {
			hand.Add(c)
			rec.Drew = true
		}
	}

	if rec.Placed || len(rec.Claimed) > 0 {
		g.idle = 0
	} else {
		g.idle++
	}
	log.Debug().Str("uid", g.uid).Stringer("turn", rec).Msg("played-turn")
	g.history = append(g.history, rec)
	g.turnnum++
	g.onturn = p.Other()
	return rec, nil
}

// Play alternates turns, p1 moving first, until the claims decide a
// winner. It fails when a strategy makes an illegal choice or when both
// players pass in succession without the game being decided.
func (g *Game) Play(p1, p2 Strategy) (board.Player, error) {
	strategies := [config.NumPlayers]Strategy{p1, p2}
	for {
		if w, ok := g.Winner(); ok {
			return w, nil
		}
		if g.idle >= config.NumPlayers {
			return 0, ErrStalled
		}
		if _, err := g.PlayTurn(strategies[g.onturn]); err != nil {
			return 0, err
		}
	}
}
