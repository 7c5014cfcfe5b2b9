// Package automatic plays computer vs computer games in bulk and analyzes
// the logs they leave behind.
package automatic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/stoneclaim/schotten/board"
	"github.com/stoneclaim/schotten/completion"
	"github.com/stoneclaim/schotten/config"
	"github.com/stoneclaim/schotten/game"
	"github.com/stoneclaim/schotten/montecarlo"
	"github.com/stoneclaim/schotten/player"
)

const (
	RandomPlayer = "random"
	SimPlayer    = "sim"
)

// Labels of the two bots in a match. Seats alternate between games, so a
// bot label is not the same thing as a board.Player.
const (
	Bot1    = "bot1"
	Bot2    = "bot2"
	NoBot   = "none"
	noClaim = '.'
)

var ErrUnknownPlayer = errors.New("unknown player")

// NewStrategy builds a strategy by name. simIterations only matters for
// SimPlayer.
func NewStrategy(name string, simIterations int) (game.Strategy, error) {
	switch name {
	case RandomPlayer:
		return player.Random{}, nil
	case SimPlayer:
		return montecarlo.NewPlayer(1, simIterations), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, name)
}

// Result is one finished game, seen from the bots rather than the seats.
type Result struct {
	GameID string
	Bots   [config.NumPlayers]string
	// First is the index of the bot that sat in the first seat.
	First int
	// Winner is a bot index, or -1 when the game stalled.
	Winner int
	Turns  int
	// Claims is the seat-indexed claim pattern of the final board.
	Claims []int8
}

func botLabel(idx int) string {
	switch idx {
	case 0:
		return Bot1
	case 1:
		return Bot2
	}
	return NoBot
}

func botIndex(label string) (int, error) {
	switch label {
	case Bot1:
		return 0, nil
	case Bot2:
		return 1, nil
	case NoBot:
		return -1, nil
	}
	return 0, fmt.Errorf("unknown bot label %q", label)
}

// seatToBot maps a board seat to the bot sitting in it.
func (r Result) seatToBot(p board.Player) int {
	return (p.Index() + r.First) % config.NumPlayers
}

var csvHeader = []string{"gameID", "bot1", "bot2", "first", "winner", "turns", "claims"}

func (r Result) CSVRecord() []string {
	return []string{
		r.GameID,
		r.Bots[0],
		r.Bots[1],
		botLabel(r.First),
		botLabel(r.Winner),
		fmt.Sprint(r.Turns),
		EncodePattern(r.Claims),
	}
}

// EncodePattern writes a claim pattern as one character per stone: the
// 1-based seat of the owner, or '.' when unclaimed.
func EncodePattern(pattern []int8) string {
	var sb strings.Builder
	for _, v := range pattern {
		if v < 0 {
			sb.WriteByte(noClaim)
		} else {
			sb.WriteByte(byte('1' + v))
		}
	}
	return sb.String()
}

func DecodePattern(s string) ([]int8, error) {
	out := make([]int8, len(s))
	for i := range len(s) {
		switch ch := s[i]; {
		case ch == noClaim:
			out[i] = -1
		case ch >= '1' && int(ch-'1') < config.NumPlayers:
			out[i] = int8(ch - '1')
		default:
			return nil, fmt.Errorf("bad claim %q at stone %d", ch, i)
		}
	}
	return out, nil
}

// GameRunner plays games between two named bots, one after another.
type GameRunner struct {
	cache      *completion.Cache
	bots       [config.NumPlayers]string
	strategies [config.NumPlayers]game.Strategy
	game       *game.Game
}

func NewGameRunner(cache *completion.Cache) *GameRunner {
	return &GameRunner{cache: cache}
}

// Init picks the two bots.
func (r *GameRunner) Init(bot1, bot2 string, simIterations int) error {
	for i, name := range []string{bot1, bot2} {
		s, err := NewStrategy(name, simIterations)
		if err != nil {
			return err
		}
		r.bots[i] = name
		r.strategies[i] = s
	}
	return nil
}

// Game is the most recently played game.
func (r *GameRunner) Game() *game.Game { return r.game }

// PlayFull plays one game to the end with bot index first in the first
// seat. A stalled game is a result with no winner, not an error.
func (r *GameRunner) PlayFull(first int) (Result, error) {
	var opts []board.Option
	if r.cache != nil {
		opts = append(opts, board.WithCompletions(r.cache))
	}
	r.game = game.NewGame(opts...)
	seats := [config.NumPlayers]game.Strategy{
		r.strategies[first],
		r.strategies[(first+1)%config.NumPlayers],
	}
	res := Result{GameID: r.game.Uid(), Bots: r.bots, First: first, Winner: -1}

	w, err := r.game.Play(seats[0], seats[1])
	switch {
	case errors.Is(err, game.ErrStalled):
		log.Debug().Str("uid", res.GameID).Msg("game-stalled")
	case err != nil:
		return res, err
	default:
		res.Winner = res.seatToBot(w)
	}
	res.Turns = r.game.Turn()
	res.Claims = r.game.Board().Claims().Pattern()
	return res, nil
}
