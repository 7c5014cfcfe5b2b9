package board

import (
	"errors"
	"fmt"

	"github.com/stoneclaim/schotten/config"
)

type Player uint8

const (
	Player1 Player = 0
	Player2 Player = 1
)

// NewPlayer panics for an index other than 0 or 1.
func NewPlayer(idx int) Player {
	if idx < 0 || idx >= config.NumPlayers {
		panic(fmt.Sprintf("player index %d out of range", idx))
	}
	return Player(idx)
}

func (p Player) Other() Player { return 1 - p }

func (p Player) Index() int { return int(p) }

func (p Player) String() string {
	return fmt.Sprintf("P%d", p+1)
}

// Stone is one of the contested positions, numbered from 0.
type Stone uint8

var ErrInvalidStone = errors.New("invalid stone")

// NewStone panics for an index outside [0, NumStones).
func NewStone(idx int) Stone {
	s, err := TryStone(idx)
	if err != nil {
		panic(err)
	}
	return s
}

func TryStone(idx int) (Stone, error) {
	if idx < 0 || idx >= config.NumStones {
		return 0, fmt.Errorf("%w: %d", ErrInvalidStone, idx)
	}
	return Stone(idx), nil
}

func (s Stone) Index() int { return int(s) }

// AllStones lists every stone in board order.
func AllStones() []Stone {
	stones := make([]Stone, config.NumStones)
	for i := range stones {
		stones[i] = Stone(i)
	}
	return stones
}
