package board

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/stoneclaim/schotten/config"
)

func claimsOf(t *testing.T, pattern ...int8) Claims {
	t.Helper()
	c, err := ClaimsFromPattern(pattern)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestWinnerFixtures(t *testing.T) {
	is := is.New(t)

	p, ok := Winner(claimsOf(t, 0, 0, 0, -1, -1, -1, -1, -1, -1))
	is.True(ok)
	is.Equal(p, Player1)

	p, ok = Winner(claimsOf(t, 1, 1, -1, 1, 1, -1, 1, -1, -1))
	is.True(ok)
	is.Equal(p, Player2)

	_, ok = Winner(claimsOf(t, 0, 1, -1, 0, -1, 1, -1, -1, -1))
	is.True(!ok)

	// a streak outranks the other player's majority
	p, ok = Winner(claimsOf(t, 1, 1, 0, 1, 1, 0, 0, 0, 1))
	is.True(ok)
	is.Equal(p, Player1)

	_, ok = Winner(Claims{})
	is.True(!ok)
}

// naiveWinner restates the winning rules directly over a claim pattern.
func naiveWinner(pattern []int8) (Player, bool) {
	for i := 0; i+config.StreakToWin <= len(pattern); i++ {
		owner := pattern[i]
		if owner < 0 {
			continue
		}
		run := true
		for j := 1; j < config.StreakToWin; j++ {
			if pattern[i+j] != owner {
				run = false
				break
			}
		}
		if run {
			return Player(owner), true
		}
	}
	var counts [config.NumPlayers]int
	for _, owner := range pattern {
		if owner >= 0 {
			counts[owner]++
		}
	}
	for p, n := range counts {
		if n >= config.StonesToWin {
			return Player(p), true
		}
	}
	return 0, false
}

func TestWinnerAllPatterns(t *testing.T) {
	pattern := make([]int8, config.NumStones)
	var walk func(i int)
	walk = func(i int) {
		if i == len(pattern) {
			c := claimsOf(t, pattern...)
			gotP, gotOK := Winner(c)
			wantP, wantOK := naiveWinner(pattern)
			assert.Equal(t, wantOK, gotOK, "%v", pattern)
			if wantOK {
				assert.Equal(t, wantP, gotP, "%v", pattern)
			}
			assert.Equal(t, pattern, c.Pattern())
			return
		}
		for _, v := range []int8{-1, 0, 1} {
			pattern[i] = v
			walk(i + 1)
		}
	}
	walk(0)
}

func TestClaimsFromPatternRejectsBadInput(t *testing.T) {
	_, err := ClaimsFromPattern([]int8{0, 1})
	assert.Error(t, err)
	_, err = ClaimsFromPattern([]int8{0, 1, 2, -1, -1, -1, -1, -1, -1})
	assert.Error(t, err)
}

func TestClaimsLedger(t *testing.T) {
	is := is.New(t)
	var c Claims
	c.Set(Player2, 4)
	is.Equal(c.Count(Player2), 1)
	assert.Panics(t, func() { c.Set(Player1, 4) })
	c.Unclaim(4)
	_, ok := c.Owner(4)
	is.True(!ok)
	c.Set(Player1, 4)
	owner, _ := c.Owner(4)
	is.Equal(owner, Player1)
}

func TestStoneBounds(t *testing.T) {
	_, err := TryStone(config.NumStones)
	assert.ErrorIs(t, err, ErrInvalidStone)
	assert.Panics(t, func() { NewStone(-1) })
	assert.Panics(t, func() { NewPlayer(2) })
	assert.Equal(t, Player1, Player2.Other())
}
