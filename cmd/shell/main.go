package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/stoneclaim/schotten/completion"
	"github.com/stoneclaim/schotten/config"
	"github.com/stoneclaim/schotten/shell"
	"github.com/stoneclaim/schotten/tables"
)

var (
	GitVersion string
)

func main() {
	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.InitLogging(os.Stderr)
	if err := config.ValidateConstants(); err != nil {
		log.Fatal().Err(err).Msg("")
	}
	fmt.Println("schotten", GitVersion)

	var cache *completion.Cache
	if err := tables.Verify(cfg.DataPath()); err != nil {
		log.Warn().Err(err).Msg("completion tables unavailable; checking claims by brute force")
	} else {
		cache = completion.NewCache(cfg.TableSource())
		defer cache.Close()
	}

	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal...")
		close(idleConnsClosed)
	}()

	sc, err := shell.NewShellController(cfg, cache)
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
	if line := strings.TrimSpace(strings.Join(cfg.Args(), " ")); line == "" {
		go sc.Loop(sig)
	} else {
		resp, err := sc.Execute(line)
		if err != nil {
			log.Error().Err(err).Msg("")
		} else if resp != nil {
			fmt.Println(resp)
		}
		sig <- syscall.SIGINT
	}

	<-idleConnsClosed
	sc.Cleanup()
	log.Info().Msg("shell shutting down")
}
