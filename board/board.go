package board

import (
	"github.com/samber/lo"

	"github.com/stoneclaim/schotten/card"
	"github.com/stoneclaim/schotten/combo"
	"github.com/stoneclaim/schotten/completion"
	"github.com/stoneclaim/schotten/config"
)

func init() {
	if err := config.ValidateConstants(); err != nil {
		panic(err)
	}
}

// Board holds every card committed to the stones, the advantage and claim
// ledgers, and the record of which cards are present.
type Board struct {
	cards     [config.NumPlayers][config.NumStones]combo.StoneCards
	present   PresentCards
	advantage Advantage
	claims    Claims

	completions *completion.Cache
}

type Option func(*Board)

// WithCompletions makes claim checks use the shared completion cache c
// instead of enumerating completions on every call.
func WithCompletions(c *completion.Cache) Option {
	return func(b *Board) {
		b.completions = c
	}
}

func New(opts ...Option) *Board {
	b := &Board{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Copy returns an independent board sharing the completion cache.
func (b *Board) Copy() *Board {
	nb := *b
	return &nb
}

func (b *Board) Completions() *completion.Cache { return b.completions }

// PlaceCard commits c to player's side of stone. The first player to
// reach three cards there takes the advantage. It panics if player
// already has three cards there.
func (b *Board) PlaceCard(player Player, stone Stone, c card.Card) {
	sc := &b.cards[player][stone]
	sc.Push(c)
	b.present.Add(c)
	if sc.IsFull() {
		if _, ok := b.advantage.Holder(stone); !ok {
			b.advantage.Set(player, stone)
		}
	}
}

// Cards returns the cards player has committed to stone, in play order.
func (b *Board) Cards(player Player, stone Stone) []card.Card {
	return b.cards[player][stone].Cards()
}

func (b *Board) StoneCards(player Player, stone Stone) combo.StoneCards {
	return b.cards[player][stone]
}

func (b *Board) IsPresent(c card.Card) bool { return b.present.IsPresent(c) }

func (b *Board) Present() PresentCards { return b.present }

func (b *Board) Claims() Claims { return b.claims }

func (b *Board) Advantage() Advantage { return b.advantage }

// IsLegalClaim reports whether player's three cards at stone beat every
// formation the opponent could still complete there. Ties go to the
// player holding the advantage.
func (b *Board) IsLegalClaim(player Player, stone Stone) bool {
	mine := &b.cards[player][stone]
	if !mine.IsFull() {
		return false
	}
	theirs := &b.cards[player.Other()][stone]
	strength := mine.Strength()
	holder, ok := b.advantage.Holder(stone)
	hasAdvantage := ok && holder == player

	if theirs.IsFull() {
		if hasAdvantage {
			return strength >= theirs.Strength()
		}
		return strength > theirs.Strength()
	}

	// An opposing completion beats us when its strength exceeds threshold.
	threshold := strength
	if !hasAdvantage {
		threshold--
	}
	job := completion.JobFor(theirs)
	var beaten bool
	if b.completions != nil {
		_, beaten = b.completions.AnyBeats(job, &b.present, threshold)
	} else {
		_, beaten = completion.BruteForceBeats(job, &b.present, threshold)
	}
	return !beaten
}

// Claim gives stone to player if it is unclaimed and the claim is legal.
func (b *Board) Claim(player Player, stone Stone) bool {
	if _, claimed := b.claims.Owner(stone); claimed {
		return false
	}
	if !b.IsLegalClaim(player, stone) {
		return false
	}
	b.claims.Set(player, stone)
	return true
}

// AvailableStones are the stones nobody has claimed.
func (b *Board) AvailableStones() []Stone {
	return lo.Filter(AllStones(), func(s Stone, _ int) bool {
		_, claimed := b.claims.Owner(s)
		return !claimed
	})
}

// AvailableStonesFor are the unclaimed stones where player can still
// place a card.
func (b *Board) AvailableStonesFor(player Player) []Stone {
	return lo.Filter(AllStones(), func(s Stone, _ int) bool {
		return b.availableFor(player, s)
	})
}

func (b *Board) AnyAvailableStonesFor(player Player) bool {
	return lo.ContainsBy(AllStones(), func(s Stone) bool {
		return b.availableFor(player, s)
	})
}

func (b *Board) availableFor(player Player, s Stone) bool {
	_, claimed := b.claims.Owner(s)
	return !claimed && !b.cards[player][s].IsFull()
}

// TerminalState returns the winner, if the claims already decide one.
func (b *Board) TerminalState() (Player, bool) {
	return Winner(b.claims)
}
