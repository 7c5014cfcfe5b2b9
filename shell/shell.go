// Package shell is an interactive console for playing against the
// computer and for running simulations and self-play batches.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/stoneclaim/schotten/board"
	"github.com/stoneclaim/schotten/completion"
	"github.com/stoneclaim/schotten/config"
	"github.com/stoneclaim/schotten/game"
)

var errExit = errors.New("exit")

type ShellController struct {
	l   *readline.Instance
	out io.Writer

	cfg   *config.Config
	cache *completion.Cache

	game          *game.Game
	human         board.Player
	bot           game.Strategy
	pendingClaims []board.Stone

	autoplayCancel context.CancelFunc
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func newController(cfg *config.Config, cache *completion.Cache, out io.Writer) *ShellController {
	return &ShellController{cfg: cfg, cache: cache, out: out, human: board.Player1}
}

func NewShellController(cfg *config.Config, cache *completion.Cache) (*ShellController, error) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mschotten>\033[0m ",
		HistoryFile:     filepath.Join(os.TempDir(), "schotten_history.tmp"),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	sc := newController(cfg, cache, l.Stdout())
	sc.l = l
	return sc, nil
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// Execute runs one line of input.
func (sc *ShellController) Execute(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	handler, ok := sc.commands()[cmd.cmd]
	if !ok {
		return nil, errors.New("command " + cmd.cmd + " not found")
	}
	log.Debug().Str("cmd", cmd.cmd).Strs("args", cmd.args).Msg("execute")
	return handler(cmd)
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		resp, err := sc.Execute(line)
		if errors.Is(err, errExit) {
			sig <- syscall.SIGINT
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	sc.Cleanup()
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops any self-play batch still running.
func (sc *ShellController) Cleanup() {
	if sc.autoplayCancel != nil {
		sc.autoplayCancel()
	}
}
