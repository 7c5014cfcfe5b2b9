package board

import (
	"strings"

	"github.com/stoneclaim/schotten/combo"
)

const (
	blankCell   = "   "
	claimedCell = "(#)"
)

// claimRow marks the stones owned by player; with ok false it marks the
// unclaimed ones.
func (b *Board) claimRow(player Player, ok bool) string {
	var sb strings.Builder
	for _, s := range AllStones() {
		owner, claimed := b.claims.Owner(s)
		if claimed == ok && (!ok || owner == player) {
			sb.WriteString(claimedCell)
		} else {
			sb.WriteString(blankCell)
		}
		sb.WriteString(blankCell)
	}
	return sb.String()
}

// cardRow renders the idx-th card player committed to each stone.
func (b *Board) cardRow(player Player, idx int) string {
	var sb strings.Builder
	for _, s := range AllStones() {
		sc := &b.cards[player][s]
		if idx < sc.Len() {
			sb.WriteString(sc.At(idx).String())
		} else {
			sb.WriteString(blankCell)
		}
		sb.WriteString(blankCell)
	}
	return sb.String()
}

// String draws the board with Player2 on top. Each side's cards grow away
// from the middle row, which marks the stones still unclaimed.
func (b *Board) String() string {
	var sb strings.Builder
	line := func(s string) {
		sb.WriteString(s)
		sb.WriteByte('\n')
	}
	line(b.claimRow(Player2, true))
	for i := combo.StoneCardsLimit - 1; i >= 0; i-- {
		line(b.cardRow(Player2, i))
	}
	line(b.claimRow(0, false))
	for i := range combo.StoneCardsLimit {
		line(b.cardRow(Player1, i))
	}
	line(b.claimRow(Player1, true))
	return sb.String()
}
