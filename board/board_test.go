package board

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/stoneclaim/schotten/card"
	"github.com/stoneclaim/schotten/combo"
	"github.com/stoneclaim/schotten/completion"
	"github.com/stoneclaim/schotten/config"
	"github.com/stoneclaim/schotten/testhelpers"
)

func c(num, color uint8) card.Card { return card.New(num, color) }

func place(b *Board, p Player, s int, cards ...card.Card) {
	for _, cd := range cards {
		b.PlaceCard(p, NewStone(s), cd)
	}
}

// boardMakers builds boards that check claims by brute force and through a
// shared completion cache. Both must agree on every fixture.
func boardMakers(t *testing.T) map[string]func() *Board {
	cache := completion.NewCache(testhelpers.Tables(t))
	return map[string]func() *Board{
		"brute-force": func() *Board { return New() },
		"cached":      func() *Board { return New(WithCompletions(cache)) },
	}
}

func TestNoClaimWithoutThreeCards(t *testing.T) {
	is := is.New(t)
	b := New()
	place(b, Player2, 1, c(1, 1))
	place(b, Player2, 2, c(1, 2), c(1, 3))
	place(b, Player1, 3, c(1, 4))
	place(b, Player1, 4, c(1, 5))
	place(b, Player2, 4, c(1, 6))
	place(b, Player1, 5, c(2, 1))
	place(b, Player2, 5, c(2, 2), c(2, 3))
	place(b, Player1, 6, c(2, 4), c(2, 5))
	place(b, Player1, 7, c(2, 6), c(3, 1))
	place(b, Player2, 7, c(3, 2))
	place(b, Player1, 8, c(3, 3), c(3, 4))
	place(b, Player2, 8, c(3, 5), c(3, 6))

	for _, p := range []Player{Player1, Player2} {
		for _, s := range AllStones() {
			is.True(!b.IsLegalClaim(p, s))
			is.True(!b.Claim(p, s))
		}
	}
}

// compare plays mine and theirs alternately at one stone, with the claimant
// completing first when it should hold the advantage.
func compare(p Player, mine, theirs []card.Card, withAdvantage bool) bool {
	b := New()
	s := NewStone(rand.IntN(config.NumStones))
	for i := range mine {
		if withAdvantage {
			b.PlaceCard(p, s, mine[i])
			b.PlaceCard(p.Other(), s, theirs[i])
		} else {
			b.PlaceCard(p.Other(), s, theirs[i])
			b.PlaceCard(p, s, mine[i])
		}
	}
	return b.IsLegalClaim(p, s)
}

func TestFullHandsCompareDirectly(t *testing.T) {
	hands := [][]card.Card{
		{c(1, 1), c(1, 2), c(2, 1)},
		{c(9, 1), c(9, 2), c(8, 2)},
		{c(1, 3), c(2, 2), c(3, 2)},
		{c(7, 1), c(8, 1), c(9, 3)},
		{c(1, 4), c(2, 4), c(4, 4)},
		{c(6, 4), c(8, 4), c(9, 4)},
		{c(1, 5), c(1, 6), c(1, 1)},
		{c(1, 5), c(1, 6), c(1, 3)},
		{c(9, 5), c(9, 6), c(9, 1)},
		{c(9, 5), c(9, 6), c(9, 3)},
		{c(1, 5), c(2, 5), c(3, 5)},
		{c(1, 3), c(2, 3), c(3, 3)},
		{c(9, 5), c(8, 5), c(7, 5)},
		{c(9, 4), c(8, 4), c(7, 4)},
	}
	for i, mine := range hands {
		for j, theirs := range hands {
			sm := combo.Strength(mine[0], mine[1], mine[2])
			st := combo.Strength(theirs[0], theirs[1], theirs[2])
			for _, p := range []Player{Player1, Player2} {
				assert.Equal(t, sm >= st, compare(p, mine, theirs, true), "%d vs %d", i, j)
				assert.Equal(t, sm > st, compare(p, mine, theirs, false), "%d vs %d", i, j)
			}
		}
	}
}

func TestTiesGoToAdvantage(t *testing.T) {
	is := is.New(t)
	for _, row := range allTriples() {
		for _, p := range []Player{Player1, Player2} {
			is.True(compare(p, row, row, true))
			is.True(!compare(p, row, row, false))
		}
	}
}

func TestLegalityFixtures(t *testing.T) {
	for name, newBoard := range boardMakers(t) {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)

			// nothing beats 7-8-9 of one color
			b := newBoard()
			place(b, Player1, 0, c(7, 1), c(8, 1), c(9, 1))
			is.True(b.IsLegalClaim(Player1, 0))

			// 1-2-3 red
			red123 := func() *Board {
				b := newBoard()
				place(b, Player2, 1, c(1, 2), c(2, 2), c(3, 2))
				return b
			}
			b = red123()
			place(b, Player1, 1, c(1, 6))
			is.True(b.IsLegalClaim(Player2, 1))

			b = red123()
			place(b, Player1, 1, c(2, 6))
			is.True(!b.IsLegalClaim(Player2, 1))

			b = red123()
			place(b, Player1, 1, c(7, 5), c(8, 5))
			place(b, Player2, 5, c(9, 1), c(9, 2), c(9, 3))
			place(b, Player1, 5, c(9, 4), c(9, 5), c(9, 6))
			place(b, Player2, 6, c(6, 1), c(6, 2), c(6, 3))
			place(b, Player1, 6, c(6, 4), c(6, 5), c(6, 6))
			is.True(b.IsLegalClaim(Player2, 1))

			// three nines
			b = newBoard()
			place(b, Player2, 2, c(1, 6))
			place(b, Player1, 2, c(9, 1), c(9, 4), c(9, 5))
			is.True(!b.IsLegalClaim(Player1, 2))
			place(b, Player1, 6, c(2, 1), c(2, 2), c(2, 3))
			place(b, Player2, 6, c(2, 4), c(2, 5), c(2, 6))
			is.True(b.IsLegalClaim(Player1, 2))

			// three ones
			b = newBoard()
			place(b, Player1, 3, c(1, 6))
			place(b, Player2, 3, c(1, 2), c(1, 4), c(1, 5))
			is.True(!b.IsLegalClaim(Player2, 3))
			place(b, Player2, 6, c(2, 1), c(2, 2), c(2, 3))
			place(b, Player1, 6, c(2, 4), c(2, 5), c(2, 6))
			is.True(b.IsLegalClaim(Player2, 3))

			b = newBoard()
			place(b, Player2, 1, c(1, 2), c(1, 4), c(1, 5))
			place(b, Player1, 1, c(7, 5), c(4, 5))
			is.True(b.IsLegalClaim(Player2, 1))
		})
	}
}

func TestLegalityFixturesColor(t *testing.T) {
	for name, newBoard := range boardMakers(t) {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)

			// 6-8-9 yellow
			yellow := func() *Board {
				b := newBoard()
				place(b, Player1, 4, c(6, 4), c(8, 4), c(9, 4))
				place(b, Player2, 4, c(2, 1))
				return b
			}
			b := yellow()
			is.True(!b.IsLegalClaim(Player1, 4))
			place(b, Player2, 4, c(2, 4))
			is.True(!b.IsLegalClaim(Player1, 4))

			b = yellow()
			place(b, Player2, 4, c(3, 1))
			is.True(!b.IsLegalClaim(Player1, 4))

			b = yellow()
			place(b, Player2, 4, c(3, 6))
			is.True(b.IsLegalClaim(Player1, 4))

			b = newBoard()
			place(b, Player1, 4, c(6, 4), c(8, 4), c(9, 4))
			place(b, Player2, 4, c(6, 5), c(9, 5))
			is.True(b.IsLegalClaim(Player1, 4))

			// 1-2-4 blue
			blue := func() *Board {
				b := newBoard()
				place(b, Player2, 5, c(4, 6), c(1, 6), c(2, 6))
				return b
			}
			b = blue()
			place(b, Player1, 5, c(4, 2), c(1, 2))
			is.True(!b.IsLegalClaim(Player2, 5))

			b = blue()
			place(b, Player1, 5, c(9, 2), c(6, 3))
			is.True(b.IsLegalClaim(Player2, 5))

			b = blue()
			place(b, Player1, 5, c(2, 1), c(3, 2))
			is.True(b.IsLegalClaim(Player2, 5))
		})
	}
}

func TestLegalityFixturesRuns(t *testing.T) {
	for name, newBoard := range boardMakers(t) {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)

			// 1-2-3 run
			run123 := func() *Board {
				b := newBoard()
				place(b, Player1, 6, c(3, 3), c(1, 3), c(2, 2))
				return b
			}
			b := run123()
			place(b, Player2, 6, c(1, 6), c(2, 6))
			is.True(!b.IsLegalClaim(Player1, 6))

			b = run123()
			place(b, Player2, 6, c(1, 6), c(2, 5))
			is.True(b.IsLegalClaim(Player1, 6))

			b = run123()
			place(b, Player2, 6, c(6, 3), c(9, 3))
			place(b, Player1, 0, c(2, 3), c(4, 3), c(5, 3))
			place(b, Player2, 0, c(7, 3), c(8, 3))
			is.True(b.IsLegalClaim(Player1, 6))

			b = run123()
			place(b, Player2, 6, c(6, 3), c(9, 4))
			is.True(b.IsLegalClaim(Player1, 6))

			// 7-8-9 run
			b = newBoard()
			place(b, Player1, 0, c(6, 2), c(7, 1))
			place(b, Player2, 0, c(8, 2), c(7, 4), c(9, 3))
			is.True(b.IsLegalClaim(Player2, 0))

			// 6-8-9 sum
			sum689 := func() *Board {
				b := newBoard()
				place(b, Player1, 1, c(6, 1), c(9, 6), c(8, 1))
				return b
			}
			b = sum689()
			place(b, Player2, 1, c(7, 1), c(8, 5))
			is.True(!b.IsLegalClaim(Player1, 1))

			b = sum689()
			place(b, Player2, 1, c(7, 5), c(8, 5))
			place(b, Player1, 8, c(9, 1), c(9, 2))
			place(b, Player2, 8, c(9, 3), c(9, 4), c(9, 5))
			is.True(!b.IsLegalClaim(Player1, 1))
			place(b, Player1, 7, c(6, 2), c(6, 3), c(6, 4))
			place(b, Player2, 7, c(6, 5), c(6, 6))
			is.True(!b.IsLegalClaim(Player1, 1))
			place(b, Player1, 2, c(1, 5), c(2, 5), c(3, 5))
			place(b, Player2, 2, c(4, 5), c(5, 5))
			is.True(b.IsLegalClaim(Player1, 1))

			// 8-9-9 sum
			sum899 := func() *Board {
				b := newBoard()
				place(b, Player2, 2, c(9, 1), c(9, 6), c(8, 1))
				return b
			}
			b = sum899()
			place(b, Player1, 2, c(9, 2))
			place(b, Player2, 8, c(9, 3), c(9, 4), c(9, 5))
			is.True(!b.IsLegalClaim(Player2, 2))

			b = sum899()
			place(b, Player1, 2, c(9, 2), c(9, 3))
			place(b, Player2, 8, c(9, 4), c(9, 5))
			is.True(b.IsLegalClaim(Player2, 2))
		})
	}
}

func TestColorRunAgainstUnknownOpponent(t *testing.T) {
	for name, newBoard := range boardMakers(t) {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			b := newBoard()
			place(b, Player1, 0, c(1, 2), c(2, 2), c(3, 2))
			stone := 1
			for _, num := range []uint8{8, 9} {
				for color := uint8(1); color <= card.NumColors; color++ {
					if len(b.Cards(Player2, NewStone(stone))) == combo.StoneCardsLimit {
						stone++
					}
					place(b, Player2, stone, c(num, color))
				}
			}
			// 5-6-7 of any color is still unseen and scores 70.
			is.True(!b.IsLegalClaim(Player1, 0))
			is.True(!b.Claim(Player1, 0))
			_, claimed := b.Claims().Owner(0)
			is.True(!claimed)
		})
	}
}

func TestCacheAgreesWithBruteForce(t *testing.T) {
	cache := completion.NewCache(testhelpers.Tables(t))
	rng := rand.New(rand.NewPCG(17, 42))
	for game := 0; game < 12; game++ {
		brute, cached := New(), New(WithCompletions(cache))
		deck := card.All()
		rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
		p := Player1
		for _, cd := range deck {
			avail := brute.AvailableStonesFor(p)
			if len(avail) == 0 {
				break
			}
			s := avail[rng.IntN(len(avail))]
			brute.PlaceCard(p, s, cd)
			cached.PlaceCard(p, s, cd)
			for _, q := range []Player{Player1, Player2} {
				for _, st := range AllStones() {
					assert.Equal(t, brute.IsLegalClaim(q, st), cached.IsLegalClaim(q, st),
						"game %d %v stone %d\n%v", game, q, st, brute)
				}
			}
			p = p.Other()
		}
	}
}

// Revealing one more opposing card can only rule completions out, so a
// legal claim stays legal.
func TestLegalityMonotonicInInformation(t *testing.T) {
	for name, newBoard := range boardMakers(t) {
		t.Run(name, func(t *testing.T) {
			rng := rand.New(rand.NewPCG(5, 99))
			checked := 0
			for round := 0; round < 60; round++ {
				b := newBoard()
				deck := card.All()
				rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
				p := Player1
				for _, cd := range deck[:10+rng.IntN(20)] {
					avail := b.AvailableStonesFor(p)
					if len(avail) == 0 {
						break
					}
					b.PlaceCard(p, avail[rng.IntN(len(avail))], cd)
					p = p.Other()
				}
				for _, q := range []Player{Player1, Player2} {
					for _, st := range AllStones() {
						if len(b.Cards(q.Other(), st)) > 1 || !b.IsLegalClaim(q, st) {
							continue
						}
						present := b.Present()
						for _, u := range present.Unseen() {
							revealed := b.Copy()
							revealed.PlaceCard(q.Other(), st, u)
							checked++
							assert.True(t, revealed.IsLegalClaim(q, st),
								"round %d %v stone %d reveal %v\n%v", round, q, st, u, b)
						}
					}
				}
			}
			assert.Greater(t, checked, 0)
		})
	}
}

func TestClaim(t *testing.T) {
	is := is.New(t)
	b := New()
	place(b, Player1, 0, c(7, 6), c(8, 6), c(9, 6))
	is.True(b.Claim(Player1, 0))
	owner, ok := b.Claims().Owner(0)
	is.True(ok)
	is.Equal(owner, Player1)
	// already claimed
	is.True(!b.Claim(Player1, 0))
	is.Equal(len(b.AvailableStones()), config.NumStones-1)
}

func TestAdvantage(t *testing.T) {
	is := is.New(t)
	b := New()
	place(b, Player2, 3, c(1, 1), c(2, 1))
	place(b, Player1, 3, c(5, 5), c(6, 5), c(7, 1))
	place(b, Player2, 3, c(3, 1))
	holder, ok := b.Advantage().Holder(3)
	is.True(ok)
	is.Equal(holder, Player1)

	var a Advantage
	a.Set(Player2, 4)
	a.Set(Player2, 4)
	assert.Panics(t, func() { a.Set(Player1, 4) })
}

func TestPlaceCardPanicsWhenFull(t *testing.T) {
	b := New()
	place(b, Player1, 0, c(1, 1), c(2, 1), c(3, 1))
	assert.Panics(t, func() { place(b, Player1, 0, c(4, 1)) })
	// the rejected card is not recorded anywhere
	assert.False(t, b.IsPresent(c(4, 1)))
	present := b.Present()
	assert.Equal(t, 3, present.Count())
}

func TestAvailableStones(t *testing.T) {
	is := is.New(t)
	b := New()
	is.Equal(b.AvailableStones(), AllStones())
	place(b, Player1, 2, c(9, 1), c(9, 2), c(9, 3))
	place(b, Player2, 2, c(9, 4), c(9, 5), c(9, 6))
	is.True(b.Claim(Player1, 2))
	place(b, Player1, 5, c(1, 1), c(1, 2), c(1, 3))

	is.Equal(len(b.AvailableStones()), config.NumStones-1)
	forP1 := b.AvailableStonesFor(Player1)
	is.Equal(forP1, []Stone{0, 1, 3, 4, 6, 7, 8})
	is.Equal(len(b.AvailableStonesFor(Player2)), config.NumStones-1)
	is.True(b.AnyAvailableStonesFor(Player1))
}

func TestCopyIsIndependent(t *testing.T) {
	is := is.New(t)
	cache := completion.NewCache(testhelpers.Tables(t))
	b := New(WithCompletions(cache))
	place(b, Player1, 0, c(1, 1))
	cp := b.Copy()
	place(cp, Player1, 0, c(2, 1))
	is.Equal(len(b.Cards(Player1, 0)), 1)
	is.Equal(len(cp.Cards(Player1, 0)), 2)
	is.True(!b.IsPresent(c(2, 1)))
	is.True(cp.Completions() == cache)
}

func TestPresentCards(t *testing.T) {
	is := is.New(t)
	var p PresentCards
	p.Add(c(4, 4))
	p.Add(c(4, 4))
	is.Equal(p.Count(), 1)
	is.True(p.IsPresent(c(4, 4)))
	unseen := p.Unseen()
	is.Equal(len(unseen), card.CardsInDeck-1)
	assert.NotContains(t, unseen, c(4, 4))
}

func TestCardRows(t *testing.T) {
	is := is.New(t)
	b := New()
	for num := uint8(1); num <= card.NumNums; num++ {
		if num != 4 {
			place(b, Player1, int(num)-1, c(num, 1))
		}
	}
	blankRow := strings.Repeat(blankCell, 2*config.NumStones)
	want := "Pu1   Pu2   Pu3         Pu5   Pu6   Pu7   Pu8   Pu9   "
	is.Equal(b.cardRow(Player1, 0), want)
	is.Equal(b.cardRow(Player2, 0), blankRow)
	is.Equal(b.cardRow(Player1, 1), blankRow)
	is.Equal(b.cardRow(Player1, 2), blankRow)

	for num := uint8(1); num <= card.NumNums; num++ {
		if num != 4 {
			place(b, Player2, int(num)-1, c(num, 1))
		}
	}
	is.Equal(b.cardRow(Player2, 0), want)
}

func TestString(t *testing.T) {
	is := is.New(t)
	b := New()
	place(b, Player1, 0, c(7, 6), c(8, 6), c(9, 6))
	place(b, Player2, 1, c(2, 2))
	is.True(b.Claim(Player1, 0))

	blankRow := strings.Repeat(blankCell, 2*config.NumStones)
	rest := strings.Repeat(blankCell+blankCell, config.NumStones-1)
	rows := []string{
		blankRow,
		blankRow,
		blankRow,
		blankCell + blankCell + "Re2" + blankCell + strings.Repeat(blankCell+blankCell, config.NumStones-2),
		blankCell + blankCell + strings.Repeat(claimedCell+blankCell, config.NumStones-1),
		"Bl7" + blankCell + rest,
		"Bl8" + blankCell + rest,
		"Bl9" + blankCell + rest,
		claimedCell + blankCell + rest,
	}
	is.Equal(b.String(), strings.Join(rows, "\n")+"\n")
}

// allTriples lists every set of three distinct cards.
func allTriples() [][]card.Card {
	var out [][]card.Card
	all := card.All()
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			for k := j + 1; k < len(all); k++ {
				out = append(out, []card.Card{all[i], all[j], all[k]})
			}
		}
	}
	return out
}
