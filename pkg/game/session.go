// Package game is a thin pass-through over notnil/chess. It owns no rule
// logic: legal moves, check and terminal states all come from the library.
// The only state added here is the UI selection (selected square plus its
// legal destinations).
package game

import (
	"errors"
	"fmt"
	"sort"

	"github.com/notnil/chess"
)

// SelectResult describes what a square selection did to the session.
type SelectResult int

const (
	// SelectIgnored means the click had no effect (empty square, opponent
	// piece, or the game is over).
	SelectIgnored SelectResult = iota
	// SelectPicked means a piece was picked up and its targets are set.
	SelectPicked
	// SelectMoved means a legal move was applied.
	SelectMoved
	// SelectCleared means the selection was dropped.
	SelectCleared
)

// Session wraps a chess game with the transient selection state the board
// view needs. It is not safe for concurrent use; the UI goroutine owns it.
type Session struct {
	game         *chess.Game
	startFEN     string
	selected     chess.Square
	hasSelection bool
	targets      []chess.Square
}

// Option configures a new session.
type Option func(*Session)

// WithFEN starts the session from the given position instead of the
// standard starting position. An empty string is ignored.
func WithFEN(fen string) Option {
	return func(s *Session) { s.startFEN = fen }
}

// NewSession creates a session, validating any configured start position.
func NewSession(opts ...Option) (*Session, error) {
	s := &Session{}
	for _, opt := range opts {
		opt(s)
	}
	g, err := s.newGame()
	if err != nil {
		return nil, err
	}
	s.game = g
	return s, nil
}

func (s *Session) newGame() (*chess.Game, error) {
	if s.startFEN == "" {
		return chess.NewGame(), nil
	}
	fen, err := chess.FEN(s.startFEN)
	if err != nil {
		return nil, fmt.Errorf("game: parse fen %q: %w", s.startFEN, err)
	}
	return chess.NewGame(fen), nil
}

// Game exposes the underlying chess game for the engine adapter.
func (s *Session) Game() *chess.Game { return s.game }

// Position returns the library's current position.
func (s *Session) Position() *chess.Position { return s.game.Position() }

// Turn returns the side to move.
func (s *Session) Turn() chess.Color { return s.game.Position().Turn() }

// FEN returns the current position in FEN.
func (s *Session) FEN() string { return s.game.Position().String() }

// PGN returns the game so far as PGN movetext.
func (s *Session) PGN() string { return s.game.String() }

// Selected returns the currently selected square, if any.
func (s *Session) Selected() (chess.Square, bool) { return s.selected, s.hasSelection }

// Targets returns the legal destinations of the selected piece, sorted.
func (s *Session) Targets() []chess.Square { return s.targets }

// IsTarget reports whether sq is a legal destination of the selection.
func (s *Session) IsTarget(sq chess.Square) bool {
	for _, t := range s.targets {
		if t == sq {
			return true
		}
	}
	return false
}

// LastMove returns the most recent move, or nil before the first one.
func (s *Session) LastMove() *chess.Move {
	moves := s.game.Moves()
	if len(moves) == 0 {
		return nil
	}
	return moves[len(moves)-1]
}

// ClearSelection drops any picked-up piece.
func (s *Session) ClearSelection() {
	s.hasSelection = false
	s.selected = 0
	s.targets = nil
}

// Select handles a click on sq. With no active selection it picks up a
// piece of the side to move. With one, it applies the move when sq is a
// legal destination, re-anchors on another own piece, or clears.
func (s *Session) Select(sq chess.Square) SelectResult {
	if s.GameOver() {
		return SelectIgnored
	}
	p := s.Position().Board().Piece(sq)
	if !s.hasSelection {
		if p != chess.NoPiece && p.Color() == s.Turn() {
			s.pick(sq)
			return SelectPicked
		}
		return SelectIgnored
	}
	if sq == s.selected {
		s.ClearSelection()
		return SelectCleared
	}
	if m := s.moveTo(sq); m != nil {
		if err := s.game.Move(m); err != nil {
			s.ClearSelection()
			return SelectCleared
		}
		s.ClearSelection()
		return SelectMoved
	}
	if p != chess.NoPiece && p.Color() == s.Turn() {
		s.pick(sq)
		return SelectPicked
	}
	s.ClearSelection()
	return SelectCleared
}

func (s *Session) pick(sq chess.Square) {
	s.selected = sq
	s.hasSelection = true
	seen := make(map[chess.Square]bool)
	s.targets = s.targets[:0]
	for _, m := range s.game.ValidMoves() {
		if m.S1() != sq || seen[m.S2()] {
			continue
		}
		seen[m.S2()] = true
		s.targets = append(s.targets, m.S2())
	}
	sort.Slice(s.targets, func(i, j int) bool { return s.targets[i] < s.targets[j] })
}

// moveTo finds the legal move from the selection to sq. Promotions are
// resolved to a queen, matching the click-only input model.
func (s *Session) moveTo(sq chess.Square) *chess.Move {
	var fallback *chess.Move
	for _, m := range s.game.ValidMoves() {
		if m.S1() != s.selected || m.S2() != sq {
			continue
		}
		if m.Promo() == chess.NoPieceType || m.Promo() == chess.Queen {
			return m
		}
		if fallback == nil {
			fallback = m
		}
	}
	return fallback
}

// ApplyMove pushes a move produced outside the selection flow (the
// engine). The library rejects moves that are not legal in the current
// position, leaving it untouched.
func (s *Session) ApplyMove(m *chess.Move) error {
	if m == nil {
		return errors.New("game: nil move")
	}
	if err := s.game.Move(m); err != nil {
		return fmt.Errorf("game: apply %v: %w", m, err)
	}
	s.ClearSelection()
	return nil
}

// MoveSAN applies a move given in standard algebraic notation.
func (s *Session) MoveSAN(san string) error {
	if err := s.game.MoveStr(san); err != nil {
		return fmt.Errorf("game: move %q: %w", san, err)
	}
	s.ClearSelection()
	return nil
}

// Undo rewinds the last half-move by replaying the rest from the start
// position. The selection is cleared either way.
func (s *Session) Undo() error {
	s.ClearSelection()
	moves := s.game.Moves()
	if len(moves) == 0 {
		return nil
	}
	g, err := s.newGame()
	if err != nil {
		return err
	}
	for _, m := range moves[:len(moves)-1] {
		if err := g.Move(m); err != nil {
			return fmt.Errorf("game: replay %v: %w", m, err)
		}
	}
	s.game = g
	return nil
}

// Reset starts a fresh game from the standard starting position.
func (s *Session) Reset() {
	s.startFEN = ""
	s.game = chess.NewGame()
	s.ClearSelection()
}

// GameOver reports whether the library sees a terminal position.
func (s *Session) GameOver() bool { return s.game.Outcome() != chess.NoOutcome }

// InCheck returns the color whose king is currently in check.
func (s *Session) InCheck() (chess.Color, bool) {
	last := s.LastMove()
	if last == nil || !last.HasTag(chess.Check) {
		return chess.NoColor, false
	}
	return s.Turn(), true
}

// StatusText renders the game state line shown above the board.
func (s *Session) StatusText() string {
	switch s.game.Outcome() {
	case chess.WhiteWon:
		if s.game.Method() == chess.Checkmate {
			return "Checkmate - White wins"
		}
		return fmt.Sprintf("White wins (%v)", s.game.Method())
	case chess.BlackWon:
		if s.game.Method() == chess.Checkmate {
			return "Checkmate - Black wins"
		}
		return fmt.Sprintf("Black wins (%v)", s.game.Method())
	case chess.Draw:
		if s.game.Method() == chess.Stalemate {
			return "Stalemate"
		}
		return fmt.Sprintf("Draw (%v)", s.game.Method())
	}
	name := colorName(s.Turn())
	if _, check := s.InCheck(); check {
		return name + " to move - Check!"
	}
	return name + " to move"
}

func colorName(c chess.Color) string {
	if c == chess.Black {
		return "Black"
	}
	return "White"
}
