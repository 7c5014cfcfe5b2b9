package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/stoneclaim/schotten/card"
	"github.com/stoneclaim/schotten/combo"
	"github.com/stoneclaim/schotten/tables"
)

// Rules of the game. They are fixed at compile time and checked once by
// ValidateConstants.
const (
	NumPlayers  = 2
	NumStones   = 9
	HandSize    = 6
	StreakToWin = 3
	StonesToWin = 5
)

const (
	ConfigDataPath = "data-path"
	ConfigLogLevel = "log-level"
	ConfigThreads  = "threads"
	ConfigDebug    = "debug"
	ConfigNoColor  = "no-color"
)

type Config struct {
	*viper.Viper
	args []string
}

var ErrInvalidConstants = errors.New("invalid game constants")

func ValidateConstants() error {
	switch {
	case NumPlayers*NumStones*combo.StoneCardsLimit > card.CardsInDeck:
		return fmt.Errorf("%w: %d stones need more cards than the deck holds", ErrInvalidConstants, NumStones)
	case StreakToWin < 1 || StreakToWin > NumStones:
		return fmt.Errorf("%w: streak of %d on %d stones", ErrInvalidConstants, StreakToWin, NumStones)
	case 2*StonesToWin <= NumStones || StonesToWin > NumStones:
		return fmt.Errorf("%w: %d stones is not a majority of %d", ErrInvalidConstants, StonesToWin, NumStones)
	case HandSize < 1 || NumPlayers*HandSize > card.CardsInDeck:
		return fmt.Errorf("%w: hand size %d", ErrInvalidConstants, HandSize)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("schotten")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(ConfigDataPath, "./data/tables")
	v.SetDefault(ConfigLogLevel, "info")
	v.SetDefault(ConfigThreads, runtime.NumCPU())
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigNoColor, false)
	return v
}

// DefaultConfig returns a configuration built from defaults and the
// environment only.
func DefaultConfig() *Config {
	return &Config{Viper: newViper()}
}

// Load builds the configuration from defaults, SCHOTTEN_* environment
// variables and the given command-line arguments, in increasing order of
// precedence. Commands pass their own flags in extra; they are parsed in
// the same pass.
func (c *Config) Load(args []string, extra ...*pflag.FlagSet) error {
	v := newViper()
	fs := pflag.NewFlagSet("schotten", pflag.ContinueOnError)
	fs.String(ConfigDataPath, v.GetString(ConfigDataPath), "directory holding the completion tables")
	fs.String(ConfigLogLevel, v.GetString(ConfigLogLevel), "log level: trace, debug, info, warn, error")
	fs.Int(ConfigThreads, v.GetInt(ConfigThreads), "worker goroutines for simulations and self-play")
	fs.Bool(ConfigDebug, v.GetBool(ConfigDebug), "shorthand for -log-level debug")
	fs.Bool(ConfigNoColor, v.GetBool(ConfigNoColor), "disable colored console logs")
	for _, e := range extra {
		fs.AddFlagSet(e)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := v.BindPFlags(fs); err != nil {
		return err
	}
	c.Viper = v
	c.args = fs.Args()
	if c.Threads() < 1 {
		return fmt.Errorf("threads must be positive, got %d", c.Threads())
	}
	if _, err := zerolog.ParseLevel(c.GetString(ConfigLogLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// Args are the positional arguments left over after Load.
func (c *Config) Args() []string { return c.args }

func (c *Config) DataPath() string { return c.GetString(ConfigDataPath) }

func (c *Config) Threads() int { return c.GetInt(ConfigThreads) }

// TableSource is where completion tables are read from.
func (c *Config) TableSource() tables.Source { return tables.Dir(c.DataPath()) }

// InitLogging points the global logger at a console writer and sets the
// global level.
func (c *Config) InitLogging(out io.Writer) {
	if out == nil {
		out = os.Stderr
	}
	level, err := zerolog.ParseLevel(c.GetString(ConfigLogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if c.GetBool(ConfigDebug) {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, NoColor: c.GetBool(ConfigNoColor)})
	log.Debug().Str("level", level.String()).Str("data-path", c.DataPath()).Msg("logger-initialized")
}
