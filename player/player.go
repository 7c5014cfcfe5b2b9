// Package player has computer strategies for the game loop.
package player

import (
	"lukechampine.com/frand"

	"github.com/stoneclaim/schotten/board"
	"github.com/stoneclaim/schotten/game"
)

// ClaimEverything attempts to claim every stone each turn. Illegal claims
// simply fail, so this never loses anything.
type ClaimEverything struct{}

func (ClaimEverything) ClaimAttempts(*game.Hand, *board.Board, board.Player) []board.Stone {
	return board.AllStones()
}

// Random plays a uniformly random card on a uniformly random available
// stone.
type Random struct {
	ClaimEverything
}

func (Random) ChooseAction(hand *game.Hand, b *board.Board, p board.Player) (int, board.Stone) {
	stones := b.AvailableStonesFor(p)
	return frand.Intn(hand.Len()), stones[frand.Intn(len(stones))]
}

// Scripted replays fixed actions in order and then falls back to Random.
type Scripted struct {
	ClaimEverything
	Actions []Action
	next    int
}

type Action struct {
	HandIndex int
	Stone     board.Stone
}

func (s *Scripted) ChooseAction(hand *game.Hand, b *board.Board, p board.Player) (int, board.Stone) {
	if s.next < len(s.Actions) {
		a := s.Actions[s.next]
		s.next++
		return a.HandIndex, a.Stone
	}
	return Random{}.ChooseAction(hand, b, p)
}
