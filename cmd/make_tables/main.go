// make_tables writes the completion tables that claim checking reads.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/pflag"

	"github.com/stoneclaim/schotten/card"
	"github.com/stoneclaim/schotten/config"
	"github.com/stoneclaim/schotten/tables"
)

func main() {
	flags := pflag.NewFlagSet("make_tables", pflag.ContinueOnError)
	verify := flags.Bool("verify", false, "check the existing tables against their manifest instead of writing")
	histo := flags.Bool("histogram", false, "print the strength distribution of all formations")

	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:], flags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.InitLogging(os.Stderr)
	if err := config.ValidateConstants(); err != nil {
		log.Fatal().Err(err).Msg("")
	}
	dir := cfg.DataPath()

	if *verify {
		if err := tables.Verify(dir); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("tables-invalid")
		}
		log.Info().Str("dir", dir).Msg("tables-ok")
	} else {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if _, err := tables.Generate(ctx, dir); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("generate-failed")
		}
	}

	if *histo {
		if err := printHistogram(os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("")
		}
	}
}

func printHistogram(w io.Writer) error {
	rows := tables.Completions(nil, card.All())
	strengths := lo.Map(rows, func(r tables.Row, _ int) float64 {
		return float64(r.Strength)
	})
	fmt.Fprintf(w, "Strengths of all %d formations:\n", len(rows))
	return histogram.Fprint(w, histogram.Hist(15, strengths), histogram.Linear(50))
}
