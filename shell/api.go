package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stoneclaim/schotten/automatic"
	"github.com/stoneclaim/schotten/board"
	"github.com/stoneclaim/schotten/card"
	"github.com/stoneclaim/schotten/game"
	"github.com/stoneclaim/schotten/montecarlo"
)

var (
	errNoGame      = errors.New("no game loaded; use the new command")
	errNotYourTurn = errors.New("it is not your turn")
)

type Response struct {
	message string
}

func (r *Response) String() string { return r.message }

func msg(message string) *Response {
	return &Response{message: message}
}

type handler func(*shellcmd) (*Response, error)

func (sc *ShellController) commands() map[string]handler {
	return map[string]handler{
		"help":     sc.help,
		"new":      sc.newGame,
		"show":     sc.show,
		"hand":     sc.hand,
		"legal":    sc.legal,
		"claim":    sc.claim,
		"play":     sc.play,
		"pass":     sc.pass,
		"sim":      sc.sim,
		"autoplay": sc.autoplay,
		"analyze":  sc.analyze,
		"cache":    sc.cacheStats,
		"exit":     sc.exit,
	}
}

// humanMove is a strategy that returns what the user typed.
type humanMove struct {
	idx    int
	stone  board.Stone
	claims []board.Stone
}

func (h humanMove) ChooseAction(*game.Hand, *board.Board, board.Player) (int, board.Stone) {
	return h.idx, h.stone
}

func (h humanMove) ClaimAttempts(*game.Hand, *board.Board, board.Player) []board.Stone {
	return h.claims
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return usage()
	}
	return usageTopic(cmd.args[0])
}

func (sc *ShellController) exit(cmd *shellcmd) (*Response, error) {
	return nil, errExit
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	botName := cmd.options.String("bot")
	if botName == "" {
		botName = automatic.RandomPlayer
	}
	iters, err := cmd.options.IntDefault("iterations", 500)
	if err != nil {
		return nil, err
	}
	bot, err := automatic.NewStrategy(botName, iters)
	if err != nil {
		return nil, err
	}
	var opts []board.Option
	if sc.cache != nil {
		opts = append(opts, board.WithCompletions(sc.cache))
	}
	sc.game = game.NewGame(opts...)
	sc.bot = bot
	sc.pendingClaims = nil
	log.Info().Str("uid", sc.game.Uid()).Str("bot", botName).Msg("new-game")
	return sc.show(cmd)
}

func (sc *ShellController) checkTurn() error {
	if sc.game == nil {
		return errNoGame
	}
	if _, over := sc.game.Winner(); over {
		return game.ErrGameOver
	}
	if sc.game.PlayerOnTurn() != sc.human {
		return errNotYourTurn
	}
	return nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	out := sc.game.ToDisplayText()
	if len(sc.pendingClaims) > 0 {
		out += fmt.Sprintf("\nPending claims: %v", sc.pendingClaims)
	}
	return msg(out), nil
}

var titleCaser = cases.Title(language.English)

func describeCard(c card.Card) string {
	return fmt.Sprintf("%v (%s %d)", c, titleCaser.String(c.ColorName()), c.Num())
}

func (sc *ShellController) hand(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	var sb strings.Builder
	for i, c := range sc.game.Hand(sc.human).Cards() {
		fmt.Fprintf(&sb, "%d: %s\n", i, describeCard(c))
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func parseStones(args []string) ([]board.Stone, error) {
	stones := make([]board.Stone, 0, len(args))
	for _, a := range args {
		idx, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", board.ErrInvalidStone, a)
		}
		s, err := board.TryStone(idx)
		if err != nil {
			return nil, err
		}
		stones = append(stones, s)
	}
	return stones, nil
}

func (sc *ShellController) legal(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	stones := board.AllStones()
	if len(cmd.args) > 0 {
		var err error
		if stones, err = parseStones(cmd.args); err != nil {
			return nil, err
		}
	}
	b := sc.game.Board()
	var sb strings.Builder
	for _, s := range stones {
		fmt.Fprintf(&sb, "stone %d: %v\n", s, b.IsLegalClaim(sc.human, s))
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

// claim queues claims for the next play or pass, once they are legal now.
func (sc *ShellController) claim(cmd *shellcmd) (*Response, error) {
	if err := sc.checkTurn(); err != nil {
		return nil, err
	}
	if len(cmd.args) == 0 {
		return nil, errors.New("claim which stone?")
	}
	stones, err := parseStones(cmd.args)
	if err != nil {
		return nil, err
	}
	b := sc.game.Board()
	for _, s := range stones {
		if !b.IsLegalClaim(sc.human, s) {
			return nil, fmt.Errorf("%w: cannot claim stone %d", game.ErrIllegalAction, s)
		}
	}
	for _, s := range stones {
		if !slices.Contains(sc.pendingClaims, s) {
			sc.pendingClaims = append(sc.pendingClaims, s)
		}
	}
	return msg(fmt.Sprintf("Pending claims: %v", sc.pendingClaims)), nil
}

// parseHandCard accepts a hand index or a card in the hand.
func (sc *ShellController) parseHandCard(s string) (int, error) {
	h := sc.game.Hand(sc.human)
	if idx, err := strconv.Atoi(s); err == nil && len(s) == 1 {
		if idx < 0 || idx >= h.Len() {
			return 0, fmt.Errorf("hand index %d out of range", idx)
		}
		return idx, nil
	}
	c, err := card.FromString(s)
	if err != nil {
		return 0, err
	}
	idx := slices.Index(h.Cards(), c)
	if idx < 0 {
		return 0, fmt.Errorf("%v is not in your hand", c)
	}
	return idx, nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if err := sc.checkTurn(); err != nil {
		return nil, err
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: play <card> <stone>")
	}
	idx, err := sc.parseHandCard(cmd.args[0])
	if err != nil {
		return nil, err
	}
	stones, err := parseStones(cmd.args[1:])
	if err != nil {
		return nil, err
	}
	if !slices.Contains(sc.game.Board().AvailableStonesFor(sc.human), stones[0]) {
		return nil, fmt.Errorf("%w: stone %d is full or claimed", game.ErrIllegalAction, stones[0])
	}
	return sc.takeTurn(humanMove{idx: idx, stone: stones[0], claims: sc.pendingClaims})
}

// pass makes only the pending claims; it fails if a card could be placed.
func (sc *ShellController) pass(cmd *shellcmd) (*Response, error) {
	if err := sc.checkTurn(); err != nil {
		return nil, err
	}
	if sc.game.Hand(sc.human).Len() > 0 && sc.game.Board().AnyAvailableStonesFor(sc.human) {
		return nil, fmt.Errorf("%w: you must place a card", game.ErrIllegalAction)
	}
	return sc.takeTurn(humanMove{idx: -1, claims: sc.pendingClaims})
}

// takeTurn plays the user's move and then lets the bot answer.
func (sc *ShellController) takeTurn(move humanMove) (*Response, error) {
	rec, err := sc.game.PlayTurn(move)
	if err != nil {
		return nil, err
	}
	sc.pendingClaims = nil
	lines := []string{"You: " + rec.String()}
	if _, over := sc.game.Winner(); !over {
		botRec, err := sc.game.PlayTurn(sc.bot)
		if err != nil {
			return nil, err
		}
		lines = append(lines, "Bot: "+botRec.String())
	}
	lines = append(lines, "", sc.game.ToDisplayText())
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) sim(cmd *shellcmd) (*Response, error) {
	if err := sc.checkTurn(); err != nil {
		return nil, err
	}
	iters, err := cmd.options.IntDefault("iterations", 1000)
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.cfg.Threads())
	if err != nil {
		return nil, err
	}
	timeout, err := cmd.options.IntDefault("seconds", 30)
	if err != nil {
		return nil, err
	}
	simmer := montecarlo.NewSimmer(threads)
	simmer.SetStoppingCondition(montecarlo.Stop99)
	if logPath := cmd.options.String("log"); logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		simmer.SetLogStream(f)
	}
	if err := simmer.PrepareSim(sc.game.Board(), sc.game.Hand(sc.human), sc.human); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()
	simmer.SetIterationsCutoff(iters)
	if err := simmer.Simulate(ctx); err != nil {
		return nil, err
	}
	return msg(simmer.ShortDetails(10)), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 1 && cmd.args[0] == "stop" {
		if sc.autoplayCancel == nil {
			return nil, errors.New("no automatic games are running")
		}
		sc.autoplayCancel()
		return msg("Stopping automatic games..."), nil
	}
	if len(cmd.args) == 1 && cmd.args[0] == "status" {
		return msg(fmt.Sprintf("Games finished: %d, running threads: %d, stalled: %d",
			automatic.CVCCounter.Value(), automatic.IsPlaying.Value(),
			automatic.StalledCounter.Value())), nil
	}

	opts := automatic.CompVCompOptions{
		Bot1:           automatic.RandomPlayer,
		Bot2:           automatic.RandomPlayer,
		OutputFilename: cmd.options.String("file"),
		ResultsDB:      cmd.options.String("db"),
	}
	if opts.OutputFilename == "" {
		opts.OutputFilename = "/tmp/autoplay.csv"
	}
	if len(cmd.args) == 2 {
		opts.Bot1, opts.Bot2 = cmd.args[0], cmd.args[1]
	}
	var err error
	if opts.NumGames, err = cmd.options.IntDefault("games", 1000); err != nil {
		return nil, err
	}
	if opts.SimIterations, err = cmd.options.IntDefault("iterations", 200); err != nil {
		return nil, err
	}
	if opts.Threads, err = cmd.options.IntDefault("threads", 0); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done, err := automatic.StartCompVComp(ctx, sc.cfg, sc.cache, opts)
	if err != nil {
		cancel()
		return nil, err
	}
	sc.autoplayCancel = cancel
	go func() {
		if err := <-done; err != nil {
			log.Err(err).Msg("autoplay-finished")
			return
		}
		log.Info().Str("file", opts.OutputFilename).Msg("autoplay-finished")
	}()
	return msg(fmt.Sprintf("Started %d games of %s vs %s, logging to %s",
		opts.NumGames, opts.Bot1, opts.Bot2, opts.OutputFilename)), nil
}

// analyze summarizes an autoplay log, a results database, or both.
func (sc *ShellController) analyze(cmd *shellcmd) (*Response, error) {
	dbPath := cmd.options.String("db")
	if len(cmd.args) > 1 || (len(cmd.args) == 0 && dbPath == "") {
		return nil, errors.New("usage: analyze [-db path] [logfile]")
	}
	var parts []string
	if len(cmd.args) == 1 {
		out, err := automatic.AnalyzeLogFile(cmd.args[0])
		if err != nil {
			return nil, err
		}
		parts = append(parts, out)
	}
	if dbPath != "" {
		out, err := automatic.SummarizeResultsDB(context.Background(), dbPath)
		if err != nil {
			return nil, err
		}
		parts = append(parts, out)
	}
	return msg(strings.TrimRight(strings.Join(parts, "\n"), "\n")), nil
}

func (sc *ShellController) cacheStats(cmd *shellcmd) (*Response, error) {
	if sc.cache == nil {
		return msg("No completion cache; claims are checked by brute force."), nil
	}
	st := sc.cache.Stats()
	return msg(fmt.Sprintf("Jobs: %d  Materialized: %d  Exhausted: %d",
		st.Jobs, st.Materialized, st.Exhausted)), nil
}
