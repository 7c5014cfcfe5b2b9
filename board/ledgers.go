package board

import (
	"fmt"

	"github.com/stoneclaim/schotten/card"
	"github.com/stoneclaim/schotten/config"
)

// PresentCards records every card committed anywhere on the board. Cards
// are never removed during play.
type PresentCards struct {
	cards [card.NumNums][card.NumColors]bool
}

// Add marks c present. Adding a card twice has no further effect.
func (p *PresentCards) Add(c card.Card) {
	p.cards[c.NumIndex()][c.ColorIndex()] = true
}

func (p *PresentCards) IsPresent(c card.Card) bool {
	return p.cards[c.NumIndex()][c.ColorIndex()]
}

func (p *PresentCards) Count() int {
	n := 0
	for _, row := range p.cards {
		for _, present := range row {
			if present {
				n++
			}
		}
	}
	return n
}

// Unseen returns the cards not yet present, in canonical order.
func (p *PresentCards) Unseen() []card.Card {
	out := make([]card.Card, 0, card.CardsInDeck-p.Count())
	for _, c := range card.All() {
		if !p.IsPresent(c) {
			out = append(out, c)
		}
	}
	return out
}

// stoneOwners maps each stone to at most one player. The zero value has
// no owners.
type stoneOwners [config.NumStones]uint8

func (o stoneOwners) owner(s Stone) (Player, bool) {
	v := o[s]
	if v == 0 {
		return 0, false
	}
	return Player(v - 1), true
}

func (o *stoneOwners) set(p Player, s Stone) {
	o[s] = uint8(p) + 1
}

// Advantage records which player first completed three cards at each
// stone. That player wins ties there.
type Advantage struct {
	owners stoneOwners
}

// Set gives p the advantage at s. Setting it again for the same player is
// a no-op; setting it for the other player panics.
func (a *Advantage) Set(p Player, s Stone) {
	if holder, ok := a.owners.owner(s); ok {
		if holder != p {
			panic(fmt.Sprintf("advantage at stone %d already belongs to %v", s, holder))
		}
		return
	}
	a.owners.set(p, s)
}

func (a Advantage) Holder(s Stone) (Player, bool) {
	return a.owners.owner(s)
}

// Claims records who owns each stone.
type Claims struct {
	owners stoneOwners
}

// Set claims s for p. It panics if s is already claimed; callers check
// Owner first.
func (c *Claims) Set(p Player, s Stone) {
	if holder, ok := c.owners.owner(s); ok {
		panic(fmt.Sprintf("stone %d already claimed by %v", s, holder))
	}
	c.owners.set(p, s)
}

func (c Claims) Owner(s Stone) (Player, bool) {
	return c.owners.owner(s)
}

// Unclaim clears s. It is never used during play.
func (c *Claims) Unclaim(s Stone) {
	c.owners[s] = 0
}

func (c Claims) Count(p Player) int {
	n := 0
	for _, s := range AllStones() {
		if owner, ok := c.Owner(s); ok && owner == p {
			n++
		}
	}
	return n
}

// Pattern encodes the claims as one entry per stone: the owning player's
// index, or -1 when unclaimed.
func (c Claims) Pattern() []int8 {
	out := make([]int8, config.NumStones)
	for i, s := range AllStones() {
		out[i] = -1
		if owner, ok := c.Owner(s); ok {
			out[i] = int8(owner)
		}
	}
	return out
}

// ClaimsFromPattern rebuilds a Claims ledger from the output of Pattern.
func ClaimsFromPattern(pattern []int8) (Claims, error) {
	var c Claims
	if len(pattern) != config.NumStones {
		return c, fmt.Errorf("claim pattern has %d stones, want %d", len(pattern), config.NumStones)
	}
	for i, v := range pattern {
		switch {
		case v == -1:
		case v >= 0 && int(v) < config.NumPlayers:
			c.owners.set(Player(v), Stone(i))
		default:
			return c, fmt.Errorf("claim pattern: bad owner %d at stone %d", v, i)
		}
	}
	return c, nil
}

// Winner decides the game from the claims alone. A player owning
// StreakToWin adjacent stones wins; otherwise a player owning StonesToWin
// stones wins.
func Winner(c Claims) (Player, bool) {
	streak := 0
	var last Player
	for _, s := range AllStones() {
		owner, ok := c.Owner(s)
		switch {
		case !ok:
			streak = 0
		case streak > 0 && owner == last:
			streak++
		default:
			streak = 1
			last = owner
		}
		if streak == config.StreakToWin {
			return last, true
		}
	}
	for _, p := range []Player{Player1, Player2} {
		if c.Count(p) >= config.StonesToWin {
			return p, true
		}
	}
	return 0, false
}
