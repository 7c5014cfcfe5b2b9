// selfplay runs computer vs computer batches and checks their logs.
//
//	selfplay run [--bot1 random] [--bot2 sim] [--games n] [--out file] [--db file]
//	selfplay analyze [--db file] <file>
//	selfplay replay <file>
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/stoneclaim/schotten/automatic"
	"github.com/stoneclaim/schotten/completion"
	"github.com/stoneclaim/schotten/config"
	"github.com/stoneclaim/schotten/tables"
)

func main() {
	flags := pflag.NewFlagSet("selfplay", pflag.ContinueOnError)
	opts := automatic.CompVCompOptions{}
	flags.StringVar(&opts.Bot1, "bot1", automatic.RandomPlayer, "first bot: random or sim")
	flags.StringVar(&opts.Bot2, "bot2", automatic.RandomPlayer, "second bot: random or sim")
	flags.IntVar(&opts.NumGames, "games", 1000, "number of games")
	flags.IntVar(&opts.SimIterations, "iterations", 200, "iterations per decision for sim bots")
	flags.StringVar(&opts.OutputFilename, "out", "selfplay.csv", "CSV log of results")
	flags.StringVar(&opts.ResultsDB, "db", "", "optional SQLite file that also receives results")

	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:], flags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.InitLogging(os.Stderr)
	if err := config.ValidateConstants(); err != nil {
		log.Fatal().Err(err).Msg("")
	}

	args := cfg.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: selfplay run|analyze|replay [file]")
		os.Exit(2)
	}
	switch args[0] {
	case "run":
		run(cfg, opts)
	case "analyze", "replay":
		if len(args) != 2 {
			log.Fatal().Msgf("%s needs a log file", args[0])
		}
		inspect(args[0], args[1])
		if args[0] == "analyze" && opts.ResultsDB != "" {
			summarizeDB(opts.ResultsDB)
		}
	default:
		log.Fatal().Msgf("unknown command %q", args[0])
	}
}

func run(cfg *config.Config, opts automatic.CompVCompOptions) {
	if err := tables.Verify(cfg.DataPath()); err != nil {
		log.Fatal().Err(err).Msg("completion tables unavailable; run make_tables first")
	}
	cache := completion.NewCache(cfg.TableSource())
	defer cache.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	opts.Threads = cfg.Threads()
	done, err := automatic.StartCompVComp(ctx, cfg, cache, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
	if err := <-done; err != nil {
		log.Fatal().Err(err).Msg("writing results")
	}
	st := cache.Stats()
	log.Info().Int64("games", automatic.CVCCounter.Value()).
		Int64("stalled", automatic.StalledCounter.Value()).
		Int("cache-jobs", st.Jobs).Msg("selfplay-finished")
	inspect("analyze", opts.OutputFilename)
	if opts.ResultsDB != "" {
		summarizeDB(opts.ResultsDB)
	}
}

func summarizeDB(path string) {
	out, err := automatic.SummarizeResultsDB(context.Background(), path)
	if err != nil {
		log.Fatal().Err(err).Str("db", path).Msg("")
	}
	fmt.Print(out)
}

func inspect(what, file string) {
	if what == "replay" {
		n, err := automatic.ReplayClaims(file)
		if err != nil {
			log.Fatal().Err(err).Int("checked", n).Msg("replay-failed")
		}
		fmt.Printf("%d games replayed, all consistent\n", n)
		return
	}
	out, err := automatic.AnalyzeLogFile(file)
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
	fmt.Print(out)
}
