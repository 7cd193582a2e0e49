package engine

import (
	"fmt"

	"github.com/notnil/chess"

	"github.com/earther/termchess/pkg/game"
)

// Play asks m for a move in the session's current position and applies
// it. On any failure the position is left untouched.
func Play(m Mover, s *game.Session) (*chess.Move, error) {
	mv, err := m.BestMove(s.Game())
	if err != nil {
		return nil, err
	}
	if mv == nil {
		return nil, ErrNoMove
	}
	if err := s.ApplyMove(mv); err != nil {
		return nil, fmt.Errorf("engine: apply %v: %w", mv, err)
	}
	return mv, nil
}
