package gui

import (
	"strings"
	"testing"

	"github.com/notnil/chess"

	"github.com/earther/termchess/pkg/game"
)

func TestSquareAt(t *testing.T) {
	cases := []struct {
		row, col int
		flipped  bool
		want     chess.Square
		ok       bool
	}{
		{0, 1, false, chess.A8, true},
		{7, 1, false, chess.A1, true},
		{7, 8, false, chess.H1, true},
		{4, 5, false, chess.E4, true},
		{0, 1, true, chess.H1, true},
		{7, 8, true, chess.A8, true},
		{0, 0, false, 0, false}, // rank label column
		{8, 3, false, 0, false}, // file label row
		{3, 9, false, 0, false},
	}
	for _, tc := range cases {
		got, ok := squareAt(tc.row, tc.col, tc.flipped)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("squareAt(%d, %d, %v) = %v, %v; want %v, %v",
				tc.row, tc.col, tc.flipped, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLabels(t *testing.T) {
	if got := rankLabel(0, false); got != "8" {
		t.Errorf("rankLabel(0) = %q, want 8", got)
	}
	if got := rankLabel(0, true); got != "1" {
		t.Errorf("flipped rankLabel(0) = %q, want 1", got)
	}
	if got := fileLabel(1, false); got != " a" {
		t.Errorf("fileLabel(1) = %q, want ' a'", got)
	}
	if got := fileLabel(1, true); got != " h" {
		t.Errorf("flipped fileLabel(1) = %q, want ' h'", got)
	}
}

func newSession(t *testing.T, opts ...game.Option) *game.Session {
	t.Helper()
	s, err := game.NewSession(opts...)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestCellBackgroundPrecedence(t *testing.T) {
	s := newSession(t)
	g := &GUI{session: s, theme: ThemeBasic}

	board := s.Position().Board()
	// Plain parity before anything happens.
	if got := g.cellBackground(chess.A1, board.Piece(chess.A1), nil, chess.NoColor, false); got != ThemeBasic.SquareDark {
		t.Errorf("a1 background = %v, want dark", got)
	}
	if got := g.cellBackground(chess.A2, board.Piece(chess.A2), nil, chess.NoColor, false); got != ThemeBasic.SquareLight {
		t.Errorf("a2 background = %v, want light", got)
	}

	// Selection and targets.
	s.Select(chess.E2)
	if got := g.cellBackground(chess.E2, board.Piece(chess.E2), nil, chess.NoColor, false); got != ThemeBasic.SquareSelect {
		t.Errorf("selected square = %v, want select color", got)
	}
	if got := g.cellBackground(chess.E4, chess.NoPiece, nil, chess.NoColor, false); got != ThemeBasic.SquareHint {
		t.Errorf("target square = %v, want hint color", got)
	}

	// Last move highlight.
	s.Select(chess.E4)
	last := s.LastMove()
	if got := g.cellBackground(chess.E2, chess.NoPiece, last, chess.NoColor, false); got != ThemeBasic.SquareHigh {
		t.Errorf("last move square = %v, want highlight", got)
	}

	// Checked king beats everything.
	checked := newSession(t)
	for _, san := range []string{"e4", "f5", "Qh5+"} {
		if err := checked.MoveSAN(san); err != nil {
			t.Fatal(err)
		}
	}
	g = &GUI{session: checked, theme: ThemeBasic}
	color, inCheck := checked.InCheck()
	king := checked.Position().Board().Piece(chess.E8)
	if got := g.cellBackground(chess.E8, king, checked.LastMove(), color, inCheck); got != ThemeBasic.SquareCheck {
		t.Errorf("checked king square = %v, want check color", got)
	}
}

func TestMovesText(t *testing.T) {
	g := chess.NewGame()
	for _, san := range []string{"e4", "e5", "Nf3"} {
		if err := g.MoveStr(san); err != nil {
			t.Fatal(err)
		}
	}
	got := movesText(g)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("movesText lines = %d, want 2:\n%s", len(lines), got)
	}
	if lines[0] != "1. e4 e5" {
		t.Errorf("first pair = %q, want '1. e4 e5'", lines[0])
	}
	if lines[1] != "2. Nf3" {
		t.Errorf("second pair = %q, want '2. Nf3'", lines[1])
	}
}

func TestMovesTextWindows(t *testing.T) {
	g := chess.NewGame()
	// Breyer mainline, 14 full moves, enough to overflow the window.
	line := []string{
		"e4", "e5", "Nf3", "Nc6", "Bb5", "a6", "Ba4", "Nf6",
		"O-O", "Be7", "Re1", "b5", "Bb3", "d6", "c3", "O-O",
		"h3", "Nb8", "d4", "Nbd7", "Nbd2", "Bb7", "Bc2", "Re8",
		"Nf1", "Bf8", "Ng3", "g6",
	}
	for i, san := range line {
		if err := g.MoveStr(san); err != nil {
			t.Fatalf("move %d (%s): %v", i, san, err)
		}
	}
	lines := strings.Split(movesText(g), "\n")
	if len(lines) != movePairs {
		t.Errorf("windowed lines = %d, want %d", len(lines), movePairs)
	}
}

func TestThemeByName(t *testing.T) {
	th, err := ThemeByName("midnight")
	if err != nil {
		t.Fatalf("ThemeByName(midnight): %v", err)
	}
	if th.Name != "midnight" {
		t.Errorf("Name = %q", th.Name)
	}
	if _, err := ThemeByName("neon"); err == nil {
		t.Error("unknown theme did not error")
	}
}
