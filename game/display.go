package game

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/stoneclaim/schotten/board"
)

func splitSubN(s string, n int) []string {
	var subs []string
	runes := []rune(s)
	for len(runes) > n {
		subs = append(subs, string(runes[:n]))
		runes = runes[n:]
	}
	if len(runes) > 0 {
		subs = append(subs, string(runes))
	}
	return subs
}

func addText(lines []string, row int, hpad int, text string) {
	maxTextSize := 42
	for _, chunk := range splitSubN(text, maxTextSize) {
		if row >= len(lines) {
			return
		}
		lines[row] = lines[row] + strings.Repeat(" ", hpad) + chunk
		row++
	}
}

func (g *Game) stateString(p board.Player) string {
	onturn := ""
	if g.onturn == p {
		onturn = "-> "
	}
	return fmt.Sprintf("%4s%v  %s", onturn, p, g.hands[p])
}

// ToDisplayText renders the board with both hands, the deck size and the
// last turn alongside it.
func (g *Game) ToDisplayText() string {
	bts := strings.Split(strings.TrimRight(g.board.String(), "\n"), "\n")
	hpadding := 3

	log.Debug().Stringer("onturn", g.onturn).Msg("todisplaytext")
	// Player2 sits at the top of the board.
	addText(bts, 1, hpadding, g.stateString(board.Player2))
	addText(bts, len(bts)-2, hpadding, g.stateString(board.Player1))
	addText(bts, len(bts)/2-1, hpadding, fmt.Sprintf("Deck: %d", g.deck.Len()))
	if n := len(g.history); n > 0 {
		addText(bts, len(bts)/2+1, hpadding, "Last: "+g.history[n-1].String())
	}
	if w, ok := g.Winner(); ok {
		bts = append(bts, fmt.Sprintf("Winner: %v", w))
	}
	return strings.Join(bts, "\n") + "\n"
}
