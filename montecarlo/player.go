package montecarlo

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stoneclaim/schotten/board"
	"github.com/stoneclaim/schotten/game"
	"github.com/stoneclaim/schotten/player"
)

// Player is a strategy that simulates every action before choosing the
// one with the best win rate.
type Player struct {
	player.ClaimEverything
	Simmer  *Simmer
	Timeout time.Duration
}

func NewPlayer(threads int, iterations int) *Player {
	s := NewSimmer(threads)
	s.SetIterationsCutoff(iterations)
	s.SetStoppingCondition(Stop99)
	return &Player{Simmer: s, Timeout: 10 * time.Second}
}

func (p *Player) ChooseAction(hand *game.Hand, b *board.Board, pl board.Player) (int, board.Stone) {
	if err := p.Simmer.PrepareSim(b, hand, pl); err != nil {
		log.Err(err).Msg("sim-player-prepare")
		return player.Random{}.ChooseAction(hand, b, pl)
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
	defer cancel()
	if err := p.Simmer.Simulate(ctx); err != nil {
		log.Err(err).Msg("sim-player-simulate")
		return player.Random{}.ChooseAction(hand, b, pl)
	}
	best, _ := p.Simmer.BestAction()
	return best.HandIndex, best.Stone
}
