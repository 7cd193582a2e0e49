// Package engine drives an external UCI engine process. The protocol
// work (handshake, position setup, bestmove parsing) is owned by
// notnil/chess/uci; this package only configures the search and maps
// replies onto the game session.
package engine

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/notnil/chess"
	"github.com/notnil/chess/uci"
	"go.uber.org/zap"
)

// ErrNoMove is returned when the engine reply carries no usable move.
var ErrNoMove = errors.New("engine: no best move")

// DefaultMoveTime is the think budget used when none is configured.
const DefaultMoveTime = 100 * time.Millisecond

// Mover is the move source the board consults on the engine's turn.
type Mover interface {
	BestMove(game *chess.Game) (*chess.Move, error)
}

// Engine wraps a UCI engine subprocess (Stockfish by default).
type Engine struct {
	mu       sync.Mutex
	uci      *uci.Engine
	moveTime time.Duration
	depth    int
	elo      int
	score    int
	log      *zap.Logger
}

// Option configures the engine before the UCI handshake.
type Option func(*Engine)

// WithMoveTime bounds each search by wall time.
func WithMoveTime(d time.Duration) Option {
	return func(e *Engine) { e.moveTime = d }
}

// WithDepth bounds each search by depth instead of time.
func WithDepth(depth int) Option {
	return func(e *Engine) { e.depth = depth }
}

// WithElo limits playing strength via UCI_LimitStrength/UCI_Elo.
func WithElo(elo int) Option {
	return func(e *Engine) { e.elo = elo }
}

// WithLogger sets the logger; the default is a nop.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New launches the engine binary and performs the UCI handshake.
func New(path string, opts ...Option) (*Engine, error) {
	if path == "" {
		path = "stockfish"
	}
	e := &Engine{
		moveTime: DefaultMoveTime,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	eng, err := uci.New(path)
	if err != nil {
		return nil, fmt.Errorf("engine: start %s: %w", path, err)
	}
	if err := eng.Run(uci.CmdUCI, uci.CmdIsReady, uci.CmdUCINewGame); err != nil {
		eng.Close()
		return nil, fmt.Errorf("engine: handshake: %w", err)
	}
	e.uci = eng

	if e.elo > 0 {
		err := eng.Run(
			uci.CmdSetOption{Name: "UCI_LimitStrength", Value: "true"},
			uci.CmdSetOption{Name: "UCI_Elo", Value: strconv.Itoa(e.elo)},
		)
		if err != nil {
			// Not every engine supports strength limiting.
			e.log.Warn("engine ignored strength options", zap.Int("elo", e.elo), zap.Error(err))
		}
	}

	e.log.Info("engine started", zap.String("path", path),
		zap.Duration("movetime", e.moveTime), zap.Int("depth", e.depth))
	return e, nil
}

// goCmd builds the search command from the configured budget. Depth wins
// over move time when both are set.
func (e *Engine) goCmd() uci.CmdGo {
	if e.depth > 0 {
		return uci.CmdGo{Depth: e.depth}
	}
	return uci.CmdGo{MoveTime: e.moveTime}
}

// BestMove sends the game's position and returns the engine's reply.
// A reply without a move is reported as ErrNoMove.
func (e *Engine) BestMove(game *chess.Game) (*chess.Move, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.uci.Run(uci.CmdPosition{Position: game.Position()}, e.goCmd()); err != nil {
		return nil, fmt.Errorf("engine: search: %w", err)
	}
	results := e.uci.SearchResults()
	e.score = results.Info.Score.CP
	if results.BestMove == nil {
		return nil, ErrNoMove
	}
	e.log.Debug("bestmove",
		zap.String("move", results.BestMove.String()),
		zap.Int("cp", e.score),
		zap.Int("depth", results.Info.Depth))
	return results.BestMove, nil
}

// Score returns the centipawn evaluation of the last search, from the
// engine's point of view.
func (e *Engine) Score() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.score
}

// NewGame tells the engine to drop its game state.
func (e *Engine) NewGame() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.uci.Run(uci.CmdUCINewGame, uci.CmdIsReady); err != nil {
		return fmt.Errorf("engine: new game: %w", err)
	}
	return nil
}

// Close shuts the subprocess down.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.uci != nil {
		e.uci.Close()
		e.uci = nil
	}
}
