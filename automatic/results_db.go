package automatic

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	_ "modernc.org/sqlite"
)

const resultsSchema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	bot1    TEXT NOT NULL,
	bot2    TEXT NOT NULL,
	first   TEXT NOT NULL,
	winner  TEXT NOT NULL,
	turns   INTEGER NOT NULL,
	claims  TEXT NOT NULL
)`

// ResultsDB stores self-play results in a SQLite file so that several runs
// can be queried together.
type ResultsDB struct {
	db     *sql.DB
	insert *sql.Stmt
}

func OpenResultsDB(ctx context.Context, path string) (*ResultsDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single writer; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, resultsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating results schema: %w", err)
	}
	insert, err := db.PrepareContext(ctx,
		`INSERT INTO games (game_id, bot1, bot2, first, winner, turns, claims) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &ResultsDB{db: db, insert: insert}, nil
}

func (r *ResultsDB) Insert(ctx context.Context, res Result) error {
	_, err := r.insert.ExecContext(ctx, res.GameID, res.Bots[0], res.Bots[1],
		botLabel(res.First), botLabel(res.Winner), res.Turns, EncodePattern(res.Claims))
	return err
}

// WinCounts counts games by winning strategy name; stalled games are
// counted under NoBot.
func (r *ResultsDB) WinCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT CASE winner WHEN 'bot1' THEN bot1 WHEN 'bot2' THEN bot2 ELSE 'none' END AS name,
		       COUNT(*)
		FROM games GROUP BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := map[string]int{}
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		counts[name] += n
	}
	return counts, rows.Err()
}

// SummarizeResultsDB reports the wins of every strategy stored in the
// results database at path, across all the runs that wrote to it.
func SummarizeResultsDB(ctx context.Context, path string) (string, error) {
	db, err := OpenResultsDB(ctx, path)
	if err != nil {
		return "", err
	}
	defer db.Close()
	counts, err := db.WinCounts(ctx)
	if err != nil {
		return "", err
	}
	total := lo.Sum(lo.Values(counts))
	var sb strings.Builder
	fmt.Fprintf(&sb, "Games in %s: %d\n", path, total)
	names := lo.Without(lo.Keys(counts), NoBot)
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "%s wins: %d (%.3f%%)\n", name, counts[name],
			100*float64(counts[name])/float64(total))
	}
	fmt.Fprintf(&sb, "Stalled games: %d\n", counts[NoBot])
	return sb.String(), nil
}

func (r *ResultsDB) Close() error {
	r.insert.Close()
	return r.db.Close()
}
