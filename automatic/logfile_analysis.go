package automatic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/stoneclaim/schotten/board"
	"github.com/stoneclaim/schotten/stats"
)

var ErrReplayMismatch = errors.New("logged winner does not follow from logged claims")

// readResults parses a log written by StartCompVComp, calling fn for every
// game in order.
func readResults(filepath string, fn func(Result) error) error {
	file, err := os.Open(filepath)
	if err != nil {
		return err
	}
	defer file.Close()
	r := csv.NewReader(file)
	r.FieldsPerRecord = len(csvHeader)

	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if record[0] == csvHeader[0] {
			continue
		}
		res, err := parseRecord(record)
		if err != nil {
			return fmt.Errorf("game %s: %w", record[0], err)
		}
		if err := fn(res); err != nil {
			return err
		}
	}
}

func parseRecord(record []string) (Result, error) {
	res := Result{GameID: record[0], Bots: [2]string{record[1], record[2]}}
	var err error
	if res.First, err = botIndex(record[3]); err != nil {
		return res, err
	}
	if res.First < 0 {
		return res, fmt.Errorf("no first player")
	}
	if res.Winner, err = botIndex(record[4]); err != nil {
		return res, err
	}
	if res.Turns, err = strconv.Atoi(record[5]); err != nil {
		return res, err
	}
	res.Claims, err = DecodePattern(record[6])
	return res, err
}

// AnalyzeLogFile analyzes the given game CSV file and spits out a bunch of
// statistics. A stalled game counts as half a win for each bot.
func AnalyzeLogFile(filepath string) (string, error) {
	bot1wins := &stats.Statistic{}
	turns := &stats.Statistic{}
	wentFirstWL := float64(0)
	bot1first := 0
	stalled := 0
	var bots [2]string

	err := readResults(filepath, func(res Result) error {
		bots = res.Bots
		switch res.Winner {
		case 0:
			bot1wins.Push(1)
		case 1:
			bot1wins.Push(0)
		default:
			bot1wins.Push(0.5)
			wentFirstWL += 0.5
			stalled++
		}
		if res.Winner == res.First {
			wentFirstWL++
		}
		if res.First == 0 {
			bot1first++
		}
		turns.Push(float64(res.Turns))
		return nil
	})
	if err != nil {
		return "", err
	}
	gamesPlayed := bot1wins.Iterations()
	if gamesPlayed == 0 {
		return "Games played: 0\n", nil
	}

	lo, hi := bot1wins.Interval(95)
	out := fmt.Sprintf("Games played: %d\n", gamesPlayed)
	out += fmt.Sprintf("%v (%v) wins: %.1f (%.3f%%)\n", Bot1, bots[0],
		bot1wins.Mean()*float64(gamesPlayed), 100.0*bot1wins.Mean())
	out += fmt.Sprintf("%v win rate 95%% interval: [%.3f%%, %.3f%%]\n", Bot1, 100.0*lo, 100.0*hi)
	out += fmt.Sprintf("%v (%v) went first: %d (%.3f%%)\n", Bot1, bots[0],
		bot1first, 100.0*float64(bot1first)/float64(gamesPlayed))
	out += fmt.Sprintf("Player who went first wins: %.1f (%.3f%%)\n",
		wentFirstWL, 100.0*wentFirstWL/float64(gamesPlayed))
	out += fmt.Sprintf("Stalled games: %d\n", stalled)
	out += fmt.Sprintf("Mean turns: %.3f  Stdev: %.3f\n", turns.Mean(), turns.Stdev())
	return out, nil
}

// ReplayClaims re-decides every logged game from its final claims and
// checks that the logged winner agrees. It returns the number of games
// checked.
func ReplayClaims(filepath string) (int, error) {
	n := 0
	err := readResults(filepath, func(res Result) error {
		claims, err := board.ClaimsFromPattern(res.Claims)
		if err != nil {
			return fmt.Errorf("game %s: %w", res.GameID, err)
		}
		want := -1
		if w, ok := board.Winner(claims); ok {
			want = res.seatToBot(w)
		}
		if want != res.Winner {
			return fmt.Errorf("%w: game %s logged %s, claims give %s",
				ErrReplayMismatch, res.GameID, botLabel(res.Winner), botLabel(want))
		}
		n++
		return nil
	})
	return n, err
}
