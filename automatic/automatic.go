package automatic

// Data collection for automatic games.

import (
	"context"
	"encoding/csv"
	"errors"
	"expvar"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/stoneclaim/schotten/completion"
	"github.com/stoneclaim/schotten/config"
)

var (
	CVCCounter     *expvar.Int
	IsPlaying      *expvar.Int
	StalledCounter *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
	StalledCounter = expvar.NewInt("cvcStalled")
}

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

// startMu makes checking IsPlaying and reserving the worker threads one step.
var startMu sync.Mutex

type CompVCompOptions struct {
	Bot1, Bot2     string
	NumGames       int
	Threads        int
	SimIterations  int
	OutputFilename string
	// ResultsDB, when set, is a SQLite file that receives every result
	// alongside the CSV log.
	ResultsDB string
}

type job struct {
	first int
}

// StartCompVComp starts playing games in the background and returns at
// once. The returned channel yields the outcome of writing the logs and is
// then closed. Cancelling ctx stops queueing new games; games in progress
// still finish and are logged.
func StartCompVComp(ctx context.Context, cfg *config.Config, cache *completion.Cache,
	opts CompVCompOptions) (<-chan error, error) {

	startMu.Lock()
	defer startMu.Unlock()
	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	threads := opts.Threads
	if threads <= 0 {
		threads = cfg.Threads()
	}
	// Fail on bad bot names before any file is touched.
	if err := NewGameRunner(cache).Init(opts.Bot1, opts.Bot2, opts.SimIterations); err != nil {
		return nil, err
	}

	logfile, err := os.Create(opts.OutputFilename)
	if err != nil {
		return nil, err
	}
	var db *ResultsDB
	if opts.ResultsDB != "" {
		db, err = OpenResultsDB(ctx, opts.ResultsDB)
		if err != nil {
			logfile.Close()
			return nil, err
		}
	}
	log.Debug().Msgf("Starting %v games, %v threads", opts.NumGames, threads)

	CVCCounter.Set(0)
	StalledCounter.Set(0)
	jobs := make(chan job, 100)
	logChan := make(chan Result, 100)
	var wg sync.WaitGroup
	wg.Add(threads)
	IsPlaying.Add(int64(threads))

	for i := 1; i <= threads; i++ {
		go func(i int) {
			defer wg.Done()
			r := NewGameRunner(cache)
			// Names were checked above.
			_ = r.Init(opts.Bot1, opts.Bot2, opts.SimIterations)
			defer IsPlaying.Add(-1)
			for j := range jobs {
				res, err := r.PlayFull(j.first)
				if err != nil {
					log.Err(err).Int("thread", i).Str("uid", res.GameID).Msg("game-failed")
					continue
				}
				CVCCounter.Add(1)
				if res.Winner < 0 {
					StalledCounter.Add(1)
				}
				logChan <- res
			}
		}(i)
	}

	go func() {
	gameLoop:
		for i := range opts.NumGames {
			select {
			case <-ctx.Done():
				log.Info().Msg("Got stop signal, exiting soon...")
				break gameLoop
			case jobs <- job{first: i % config.NumPlayers}:
			}
			if (i+1)%1000 == 0 {
				log.Info().Msgf("Queued %v jobs", i+1)
			}
		}
		close(jobs)
		log.Info().Msg("Finished queueing all jobs.")
		wg.Wait()
		log.Info().Msg("All games finished.")
		close(logChan)
	}()

	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- writeResults(logfile, db, logChan)
		log.Info().Msg("Exiting result logger goroutine!")
	}()

	return done, nil
}

// writeResults drains results into the CSV log and the optional database.
// It keeps draining after a write error so the workers never block.
func writeResults(logfile *os.File, db *ResultsDB, results <-chan Result) error {
	w := csv.NewWriter(logfile)
	errs := []error{w.Write(csvHeader)}
	for res := range results {
		if err := w.Write(res.CSVRecord()); err != nil {
			errs = append(errs, err)
		}
		if db != nil {
			if err := db.Insert(context.Background(), res); err != nil {
				errs = append(errs, err)
			}
		}
	}
	w.Flush()
	errs = append(errs, w.Error(), logfile.Close())
	if db != nil {
		errs = append(errs, db.Close())
	}
	return errors.Join(errs...)
}
