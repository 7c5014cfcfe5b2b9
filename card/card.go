// Package card defines the 54 cards of the stone game: nine numbers in each
// of six colors. A Card is a small comparable value; two cards are equal
// exactly when their number and color are equal.
package card

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// NumNums is the number of distinct card numbers (1..NumNums).
	NumNums = 9
	// NumColors is the number of distinct colors (1..NumColors).
	NumColors = 6
	// CardsInDeck is the size of the universe of cards.
	CardsInDeck = NumNums * NumColors
)

var ErrInvalidCard = errors.New("invalid card")

// colorAbbrevs is indexed by color-1.
var colorAbbrevs = [NumColors]string{"Pu", "Re", "Or", "Ye", "Gr", "Bl"}

var colorNames = [NumColors]string{"purple", "red", "orange", "yellow", "green", "blue"}

// Card is a single (number, color) card.
type Card struct {
	num   uint8
	color uint8
}

// New builds a card. It panics if num is not in [1, NumNums] or color is
// not in [1, NumColors]; use TryNew for untrusted input.
func New(num, color uint8) Card {
	c, err := TryNew(num, color)
	if err != nil {
		panic(err)
	}
	return c
}

// TryNew builds a card, returning ErrInvalidCard for out-of-range input.
func TryNew(num, color uint8) (Card, error) {
	if num < 1 || num > NumNums || color < 1 || color > NumColors {
		return Card{}, fmt.Errorf("%w: expected num in [1, %d] and color in [1, %d], got (%d, %d)",
			ErrInvalidCard, NumNums, NumColors, num, color)
	}
	return Card{num: num, color: color}, nil
}

// FromIndex is the inverse of Index.
func FromIndex(idx int) Card {
	if idx < 0 || idx >= CardsInDeck {
		panic(fmt.Sprintf("card index must be in [0, %d), got %d", CardsInDeck, idx))
	}
	return Card{num: uint8(idx/NumColors) + 1, color: uint8(idx%NumColors) + 1}
}

func (c Card) Num() uint8   { return c.num }
func (c Card) Color() uint8 { return c.color }

// NumIndex and ColorIndex are zero-based versions of Num and Color.
func (c Card) NumIndex() int   { return int(c.num) - 1 }
func (c Card) ColorIndex() int { return int(c.color) - 1 }

// Index orders cards by number, then color. It is in [0, CardsInDeck).
func (c Card) Index() int {
	return c.NumIndex()*NumColors + c.ColorIndex()
}

// IsZero is true for the zero value, which is not a valid card.
func (c Card) IsZero() bool {
	return c.num == 0
}

// Less reports whether c sorts before o in canonical order.
func (c Card) Less(o Card) bool {
	return c.Index() < o.Index()
}

func (c Card) String() string {
	if c.IsZero() {
		return "---"
	}
	return colorAbbrevs[c.color-1] + strconv.Itoa(int(c.num))
}

// ColorName is the full lowercase name of the card's color.
func (c Card) ColorName() string {
	return colorNames[c.color-1]
}

// FromString parses either the display form ("Pu1", case-insensitive) or
// the two-digit numeric form "<num><color>" ("11").
func FromString(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) == 2 && s[0] >= '0' && s[0] <= '9' && s[1] >= '0' && s[1] <= '9' {
		return TryNew(s[0]-'0', s[1]-'0')
	}
	if len(s) != 3 {
		return Card{}, fmt.Errorf("%w: cannot parse %q", ErrInvalidCard, s)
	}
	for i, abbrev := range colorAbbrevs {
		if strings.EqualFold(s[:2], abbrev) {
			if s[2] < '0' || s[2] > '9' {
				break
			}
			return TryNew(s[2]-'0', uint8(i+1))
		}
	}
	return Card{}, fmt.Errorf("%w: cannot parse %q", ErrInvalidCard, s)
}

// All returns the whole universe in canonical order.
func All() []Card {
	cards := make([]Card, 0, CardsInDeck)
	for num := uint8(1); num <= NumNums; num++ {
		for color := uint8(1); color <= NumColors; color++ {
			cards = append(cards, Card{num: num, color: color})
		}
	}
	return cards
}
