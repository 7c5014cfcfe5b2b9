// Package montecarlo estimates, for each card the player on turn could
// play, how often random playouts from that position end in a win.
// Hidden cards (the opponent's hand and the deck) are re-dealt from the
// unseen cards on every iteration.
package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"

	"github.com/stoneclaim/schotten/board"
	"github.com/stoneclaim/schotten/card"
	"github.com/stoneclaim/schotten/completion"
	"github.com/stoneclaim/schotten/config"
	"github.com/stoneclaim/schotten/game"
	"github.com/stoneclaim/schotten/player"
	"github.com/stoneclaim/schotten/stats"
)

// LogIteration is one iteration of the simulation, for writing to a log
// stream.
type LogIteration struct {
	Iteration int         `yaml:"iteration"`
	Thread    int         `yaml:"thread"`
	Actions   []LogAction `yaml:"actions"`
}

type LogAction struct {
	Action string `yaml:"action"`
	Winner string `yaml:"winner"`
	Turns  int    `yaml:"turns"`
}

// Action is one card from the hand placed on one stone.
type Action struct {
	HandIndex int
	Card      card.Card
	Stone     board.Stone
}

func (a Action) String() string {
	return fmt.Sprintf("%v@%d", a.Card, a.Stone)
}

type SimmedAction struct {
	sync.RWMutex
	action    Action
	winStats  stats.Statistic
	turnStats stats.Statistic
	ignore    bool
}

func (sa *SimmedAction) Action() Action { return sa.action }

// WinProb is the fraction of playouts won, counting stalls as half.
func (sa *SimmedAction) WinProb() float64 {
	sa.RLock()
	defer sa.RUnlock()
	return sa.winStats.Mean()
}

func (sa *SimmedAction) Iterations() int {
	sa.RLock()
	defer sa.RUnlock()
	return sa.winStats.Iterations()
}

func (sa *SimmedAction) Ignore() {
	sa.Lock()
	sa.ignore = true
	sa.Unlock()
}

func (sa *SimmedAction) String() string {
	sa.RLock()
	defer sa.RUnlock()
	return fmt.Sprintf("<Simmed action: %v win %v turns %.1f>", sa.action, &sa.winStats, sa.turnStats.Mean())
}

func (sa *SimmedAction) addResult(win float64, turns int) {
	sa.Lock()
	defer sa.Unlock()
	sa.winStats.Push(win)
	sa.turnStats.Push(float64(turns))
}

// Simmer runs the playouts. A Simmer is prepared for one position at a
// time; all of its threads share the board's completion cache.
type Simmer struct {
	board       *board.Board
	hand        *game.Hand
	onturn      board.Player
	unseen      []card.Card
	oppHandSize int

	threads   int
	actions   []*SimmedAction
	logStream io.Writer

	iterationCount atomic.Uint64
	autostopper    autostopper
	simming        atomic.Bool
}

func NewSimmer(threads int) *Simmer {
	s := &Simmer{}
	s.SetThreads(threads)
	s.autostopper.stoppingCondition = StopNone
	s.autostopper.iterationsCutoff = IterationsCutoff
	s.autostopper.checkInterval = 200
	return s
}

func (s *Simmer) SetThreads(threads int) {
	s.threads = max(1, threads)
}

func (s *Simmer) Threads() int { return s.threads }

func (s *Simmer) SetLogStream(l io.Writer) { s.logStream = l }

func (s *Simmer) SetStoppingCondition(sc StoppingCondition) {
	s.autostopper.stoppingCondition = sc
}

// SetIterationsCutoff bounds the number of iterations a simulation runs.
func (s *Simmer) SetIterationsCutoff(n int) {
	s.autostopper.iterationsCutoff = n
}

func (s *Simmer) IsSimming() bool { return s.simming.Load() }

func (s *Simmer) Iterations() int { return int(s.iterationCount.Load()) }

// HiddenCards splits what p cannot see into the cards that exist
// somewhere (the unseen cards) and how many of them the opponent holds.
// The rest are in the deck.
func HiddenCards(b *board.Board, hand *game.Hand) ([]card.Card, int) {
	present := b.Present()
	unseen := slices.DeleteFunc(present.Unseen(), func(c card.Card) bool {
		return slices.Contains(hand.Cards(), c)
	})
	dealt := config.NumPlayers * config.HandSize
	deck := max(0, card.CardsInDeck-dealt-present.Count())
	return unseen, min(config.HandSize, max(0, len(unseen)-deck))
}

// PrepareSim sets up a simulation of every action available to p, who
// holds hand, on b.
func (s *Simmer) PrepareSim(b *board.Board, hand *game.Hand, p board.Player) error {
	if s.IsSimming() {
		return errors.New("a simulation is already running")
	}
	s.board = b.Copy()
	s.hand = hand.Copy()
	s.onturn = p
	s.unseen, s.oppHandSize = HiddenCards(b, hand)
	if c := b.Completions(); c != nil {
		c.AddJobs(openJobs(b)...)
	}
	s.actions = s.actions[:0]
	s.iterationCount.Store(0)

	seen := map[card.Card]bool{}
	for idx, c := range hand.Cards() {
		if seen[c] {
			continue
		}
		seen[c] = true
		for _, stone := range b.AvailableStonesFor(p) {
			s.actions = append(s.actions, &SimmedAction{action: Action{HandIndex: idx, Card: c, Stone: stone}})
		}
	}
	if len(s.actions) == 0 {
		return errors.New("no actions to simulate")
	}
	log.Debug().Int("actions", len(s.actions)).Int("unseen", len(s.unseen)).
		Int("opp-hand", s.oppHandSize).Msg("prepared-sim")
	return nil
}

// openJobs lists the completion jobs of every unfinished side of every
// unclaimed stone, so that simulation threads find their collectors ready.
func openJobs(b *board.Board) []completion.Job {
	var jobs []completion.Job
	for _, st := range b.AvailableStones() {
		for _, pl := range []board.Player{board.Player1, board.Player2} {
			sc := b.StoneCards(pl, st)
			if !sc.IsFull() {
				jobs = append(jobs, completion.JobFor(&sc))
			}
		}
	}
	return jobs
}

// Simulate runs playouts until ctx is done, the stopping condition is met
// or the iteration cutoff is reached.
func (s *Simmer) Simulate(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	if len(s.actions) == 0 {
		return errors.New("please prepare the simulation first")
	}
	s.simming.Store(true)
	defer func() {
		s.simming.Store(false)
		logger.Debug().Uint64("iterations", s.iterationCount.Load()).Msg("sim-ended")
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logChan := make(chan []byte)
	writer := errgroup.Group{}
	if s.logStream != nil {
		writer.Go(func() error {
			for out := range logChan {
				if _, err := s.logStream.Write(out); err != nil {
					logger.Err(err).Msg("sim-log-write")
				}
			}
			return nil
		})
	}

	tstart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for t := 0; t < s.threads; t++ {
		g.Go(func() error {
			for {
				if gctx.Err() != nil {
					return nil
				}
				numIters := s.iterationCount.Add(1)
				if numIters > uint64(s.autostopper.iterationsCutoff) {
					cancel()
					return nil
				}
				if err := s.simSingleIteration(gctx, t, numIters-1, logChan); err != nil {
					return err
				}
				if numIters%s.autostopper.checkInterval == 0 && s.autostopper.shouldStop(s.actions) {
					logger.Debug().Uint64("iterations", numIters).Msg("reached-stopping-condition")
					cancel()
				}
			}
		})
	}
	err := g.Wait()
	close(logChan)
	writer.Wait()
	logger.Debug().Dur("elapsed", time.Since(tstart)).Msg("sim-threads-done")
	s.sortActions()
	return err
}

// redeal deals the opponent a fresh hand from the unseen cards and puts
// the remainder into a shuffled deck.
func (s *Simmer) redeal() (*game.Hand, *game.Deck) {
	cards := slices.Clone(s.unseen)
	frand.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	return game.NewHand(cards[:s.oppHandSize]...), game.NewDeckFrom(cards[s.oppHandSize:])
}

func (s *Simmer) simSingleIteration(ctx context.Context, thread int, iteration uint64, logChan chan []byte) error {
	oppHand, deck := s.redeal()
	logIter := LogIteration{Iteration: int(iteration), Thread: thread}
	for _, sa := range s.actions {
		sa.RLock()
		ignored := sa.ignore
		sa.RUnlock()
		if ignored {
			continue
		}
		if ctx.Err() != nil {
			return nil
		}
		var hands [config.NumPlayers]*game.Hand
		hands[s.onturn] = s.hand.Copy()
		hands[s.onturn.Other()] = oppHand.Copy()
		g := game.NewGameFromState(s.board.Copy(), deck.Copy(), hands, s.onturn)

		var strategies [config.NumPlayers]game.Strategy
		strategies[s.onturn] = &player.Scripted{Actions: []player.Action{{HandIndex: sa.action.HandIndex, Stone: sa.action.Stone}}}
		strategies[s.onturn.Other()] = player.Random{}
		winner, err := g.Play(strategies[board.Player1], strategies[board.Player2])

		win := 0.5
		winnerStr := "none"
		switch {
		case errors.Is(err, game.ErrStalled):
		case err != nil:
			return fmt.Errorf("playout of %v: %w", sa.action, err)
		case winner == s.onturn:
			win = 1
			winnerStr = winner.String()
		default:
			win = 0
			winnerStr = winner.String()
		}
		sa.addResult(win, g.Turn())
		if s.logStream != nil {
			logIter.Actions = append(logIter.Actions, LogAction{
				Action: sa.action.String(), Winner: winnerStr, Turns: g.Turn(),
			})
		}
	}
	if s.logStream != nil {
		out, err := yaml.Marshal([]LogIteration{logIter})
		if err != nil {
			return err
		}
		select {
		case logChan <- out:
		case <-ctx.Done():
		}
	}
	return nil
}

func (s *Simmer) sortActions() {
	slices.SortStableFunc(s.actions, func(a, b *SimmedAction) int {
		wa, wb := a.WinProb(), b.WinProb()
		switch {
		case wa > wb:
			return -1
		case wa < wb:
			return 1
		}
		return 0
	})
}

// Actions returns the simulated actions, best first once a simulation has
// finished.
func (s *Simmer) Actions() []*SimmedAction {
	return slices.Clone(s.actions)
}

func (s *Simmer) BestAction() (Action, bool) {
	if len(s.actions) == 0 {
		return Action{}, false
	}
	return s.actions[0].action, true
}

// ShortDetails renders the top n actions.
func (s *Simmer) ShortDetails(n int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-8s%-10s%-20s%s\n", "Rank", "Action", "Win%", "Iterations")
	for i, sa := range s.actions {
		if i >= n {
			break
		}
		sa.RLock()
		lo, hi := sa.winStats.Interval(95)
		fmt.Fprintf(&sb, "%-8d%-10s%5.1f [%4.1f, %4.1f]  %d\n", i+1, sa.action,
			100*sa.winStats.Mean(), 100*lo, 100*hi, sa.winStats.Iterations())
		sa.RUnlock()
	}
	fmt.Fprintf(&sb, "Iterations: %d\n", s.Iterations())
	return sb.String()
}
