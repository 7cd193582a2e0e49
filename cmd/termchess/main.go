// termchess is a terminal chess board. Rules come from notnil/chess and
// the opponent from an external UCI engine such as Stockfish.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/notnil/chess"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/earther/termchess/pkg/config"
	"github.com/earther/termchess/pkg/engine"
	"github.com/earther/termchess/pkg/game"
	"github.com/earther/termchess/pkg/gui"
	"github.com/earther/termchess/pkg/store"
)

func main() {
	var (
		configPath = flag.String("config", defaultConfigPath(), "path to the config file")
		enginePath = flag.String("engine", "", "UCI engine binary (overrides config)")
		moveTime   = flag.Int("movetime", 0, "engine think time in ms (overrides config)")
		fen        = flag.String("fen", "", "start position in FEN")
		resume     = flag.String("resume", "", "resume a saved game by name")
		side       = flag.String("side", "white", "side to play against the engine (white|black)")
		twoPlayer  = flag.Bool("2p", false, "two players at the board, no engine")
		listGames  = flag.Bool("games", false, "list saved games and exit")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if *enginePath != "" {
		cfg.Engine.Path = *enginePath
	}
	if *moveTime > 0 {
		cfg.Engine.MoveTimeMs = *moveTime
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()

	var st *store.Store
	if cfg.Store.Path != "" {
		st, err = store.Open(cfg.Store.Path, logger)
		if err != nil {
			color.New(color.FgYellow).Fprintf(os.Stderr, "saved games unavailable: %v\n", err)
			logger.Warn("store unavailable", zap.Error(err))
			st = nil
		} else {
			defer st.Close()
		}
	}

	if *listGames {
		printGames(st)
		return
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fatal(errors.New("termchess needs an interactive terminal"))
	}

	startFEN := *fen
	if *resume != "" {
		if st == nil {
			fatal(errors.New("no store configured, cannot resume"))
		}
		rec, err := st.Load(*resume)
		if err != nil {
			fatal(err)
		}
		startFEN = rec.FEN
	}
	session, err := game.NewSession(game.WithFEN(startFEN))
	if err != nil {
		fatal(err)
	}

	opts := []gui.Option{
		gui.WithLogger(logger),
		gui.WithFlipped(cfg.UI.Flipped || *side == "black"),
	}
	if st != nil {
		opts = append(opts, gui.WithStore(st))
	}

	theme, err := gui.ThemeByName(cfg.UI.Theme)
	if err != nil {
		color.New(color.FgYellow).Fprintf(os.Stderr, "%v, using %q\n", err, gui.ThemeBasic.Name)
		theme = gui.ThemeBasic
	}
	opts = append(opts, gui.WithTheme(theme))

	if cfg.UI.ClockMinutes > 0 {
		opts = append(opts, gui.WithClocks(
			time.Duration(cfg.UI.ClockMinutes)*time.Minute,
			time.Duration(cfg.UI.ClockIncrementSec)*time.Second))
	}

	if !*twoPlayer {
		engineColor := chess.Black
		if *side == "black" {
			engineColor = chess.White
		}
		eng, err := engine.New(cfg.Engine.Path,
			engine.WithMoveTime(time.Duration(cfg.Engine.MoveTimeMs)*time.Millisecond),
			engine.WithDepth(cfg.Engine.Depth),
			engine.WithElo(cfg.Engine.Elo),
			engine.WithLogger(logger))
		if err != nil {
			color.New(color.FgYellow).Fprintf(os.Stderr,
				"engine unavailable (%v), running as a two-player board\n", err)
			logger.Warn("engine unavailable", zap.Error(err))
		} else {
			defer eng.Close()
			opts = append(opts, gui.WithMover(eng, engineColor))
		}
	}

	ui := gui.New(session, opts...)
	if err := ui.Run(); err != nil {
		logger.Error("ui stopped", zap.Error(err))
		fatal(err)
	}
}

// newLogger writes structured logs to a file; the TUI owns the terminal.
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{cfg.Path}
	zcfg.ErrorOutputPaths = []string{cfg.Path}
	return zcfg.Build()
}

func printGames(st *store.Store) {
	if st == nil {
		fatal(errors.New("no store configured"))
	}
	recs, err := st.List()
	if err != nil {
		fatal(err)
	}
	if len(recs) == 0 {
		fmt.Println("no saved games")
		return
	}
	bold := color.New(color.Bold)
	for _, rec := range recs {
		bold.Printf("%-24s", rec.Name)
		fmt.Printf(" %s  %s\n", time.Unix(rec.SavedAt, 0).Format("2006-01-02 15:04"), rec.FEN)
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "termchess.json"
	}
	return filepath.Join(dir, "termchess", "config.json")
}

func fatal(err error) {
	color.New(color.FgRed).Fprintln(os.Stderr, err)
	os.Exit(1)
}
