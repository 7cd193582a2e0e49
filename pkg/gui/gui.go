// Package gui renders the board with tview and dispatches square
// selections to the rules session and the engine adapter. It owns no
// chess logic; every highlight and status line is derived from what the
// rules library reports.
package gui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/notnil/chess"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/earther/termchess/pkg/engine"
	"github.com/earther/termchess/pkg/game"
	"github.com/earther/termchess/pkg/store"
)

const (
	boardRows = 8
	boardCols = 8
	movePairs = 12
)

// scorer is implemented by movers that report a centipawn evaluation.
type scorer interface {
	Score() int
}

// restarter is implemented by movers that hold per-game state.
type restarter interface {
	NewGame() error
}

// GUI wires the board table, the side panel and the input handlers.
type GUI struct {
	app     *tview.Application
	board   *tview.Table
	status  *tview.TextView
	message *tview.TextView
	eval    *tview.TextView
	clocks  *tview.TextView
	moves   *tview.TextView
	layout  *tview.Grid

	session     *game.Session
	mover       engine.Mover
	engineColor chess.Color
	theme       Theme
	flipped     bool
	store       *store.Store
	log         *zap.Logger

	whiteClock *game.Clock
	blackClock *game.Clock

	thinking bool
	done     chan struct{}
}

// Option configures the GUI.
type Option func(*GUI)

// WithMover plays the given color's moves through m.
func WithMover(m engine.Mover, color chess.Color) Option {
	return func(g *GUI) {
		g.mover = m
		g.engineColor = color
	}
}

// WithTheme sets the color theme.
func WithTheme(t Theme) Option {
	return func(g *GUI) { g.theme = t }
}

// WithFlipped shows the board from Black's side.
func WithFlipped(flipped bool) Option {
	return func(g *GUI) { g.flipped = flipped }
}

// WithStore enables the Save button.
func WithStore(s *store.Store) Option {
	return func(g *GUI) { g.store = s }
}

// WithLogger sets the logger; the default is a nop.
func WithLogger(log *zap.Logger) Option {
	return func(g *GUI) { g.log = log }
}

// WithClocks adds display-only game clocks.
func WithClocks(duration, increment time.Duration) Option {
	return func(g *GUI) {
		g.whiteClock = game.NewClock(duration, increment)
		g.blackClock = game.NewClock(duration, increment)
	}
}

// New builds the application layout around the session.
func New(session *game.Session, opts ...Option) *GUI {
	g := &GUI{
		app:         tview.NewApplication(),
		session:     session,
		engineColor: chess.NoColor,
		theme:       ThemeBasic,
		log:         zap.NewNop(),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}

	g.board = tview.NewTable()
	g.status = tview.NewTextView().SetTextColor(g.theme.Status)
	g.message = tview.NewTextView().SetTextColor(g.theme.Msg)
	g.eval = tview.NewTextView().SetTextColor(g.theme.Score)
	g.clocks = tview.NewTextView().SetTextColor(g.theme.Clock)
	g.moves = tview.NewTextView().SetTextColor(g.theme.MoveBox)

	g.initBoard()
	g.initLayout()
	g.initKeys()
	return g
}

func (g *GUI) initBoard() {
	g.board.SetSelectable(true, true)
	g.board.Select(0, 1)
	g.board.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			g.session.ClearSelection()
			g.render()
		}
	})
	// Enter on the keyboard selection.
	g.board.SetSelectedFunc(func(row, col int) {
		if sq, ok := squareAt(row, col, g.flipped); ok {
			g.onSquare(sq)
		}
	})
}

func (g *GUI) initLayout() {
	buttons := tview.NewFlex().
		AddItem(g.button("New", g.newGame), 0, 1, false).
		AddItem(g.button("Undo", g.undo), 0, 1, false).
		AddItem(g.button("Flip", g.flip), 0, 1, false).
		AddItem(g.button("Save", g.save), 0, 1, false).
		AddItem(g.button("Quit", g.Stop), 0, 1, false)

	side := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(g.status, 1, 0, false).
		AddItem(g.message, 1, 0, false).
		AddItem(g.eval, 1, 0, false).
		AddItem(g.clocks, 2, 0, false).
		AddItem(g.moves, 0, 1, false).
		AddItem(buttons, 1, 0, false)

	g.layout = tview.NewGrid().
		SetRows(-1, boardRows+1, -1).
		SetColumns(-1, (boardCols+1)*3, 34, -1).
		AddItem(g.board, 1, 1, 1, 1, 0, 0, true).
		AddItem(side, 1, 2, 1, 1, 0, 0, false)
}

func (g *GUI) initKeys() {
	g.app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		switch ev.Rune() {
		case 'n':
			g.newGame()
			return nil
		case 'u':
			g.undo()
			return nil
		case 'f':
			g.flip()
			return nil
		case 's':
			g.save()
			return nil
		case 'q':
			g.Stop()
			return nil
		}
		return ev
	})
}

func (g *GUI) button(label string, f func()) *tview.Button {
	return tview.NewButton(label).SetSelectedFunc(f)
}

// Run renders the first frame and hands control to tview. It blocks
// until the application stops.
func (g *GUI) Run() error {
	g.render()
	g.startClockRefresh()
	g.maybeEngineMove()
	defer g.closeClocks()
	return g.app.SetRoot(g.layout, true).EnableMouse(true).Run()
}

// Stop tears the application down.
func (g *GUI) Stop() {
	select {
	case <-g.done:
	default:
		close(g.done)
	}
	g.app.Stop()
}

// engineTurn reports whether the engine owns the side to move.
func (g *GUI) engineTurn() bool {
	return g.mover != nil && !g.session.GameOver() && g.session.Turn() == g.engineColor
}

// onSquare is the dispatcher: one square selection in, a session update
// and redraw out, then the engine's turn if the move handed it one.
func (g *GUI) onSquare(sq chess.Square) {
	if g.thinking || g.engineTurn() {
		return
	}
	res := g.session.Select(sq)
	g.log.Debug("square selected", zap.String("square", sq.String()), zap.Int("result", int(res)))
	if res == game.SelectMoved {
		g.setMessage("")
		g.punchClocks()
	}
	g.render()
	if res == game.SelectMoved {
		g.maybeEngineMove()
	}
}

// maybeEngineMove runs one engine request off the UI goroutine and
// applies the reply back on it. Input is ignored while it thinks.
func (g *GUI) maybeEngineMove() {
	if g.thinking || !g.engineTurn() {
		return
	}
	g.thinking = true
	g.setMessage("engine is thinking...")
	go func() {
		mv, err := engine.Play(g.mover, g.session)
		g.app.QueueUpdateDraw(func() {
			g.thinking = false
			if err != nil {
				g.log.Warn("engine move failed", zap.Error(err))
				g.setMessage("engine: no move")
			} else {
				g.log.Info("engine moved", zap.String("move", mv.String()))
				g.setMessage("")
				g.punchClocks()
			}
			g.render()
		})
	}()
}

func (g *GUI) newGame() {
	if g.thinking {
		return
	}
	g.session.Reset()
	if r, ok := g.mover.(restarter); ok {
		if err := r.NewGame(); err != nil {
			g.log.Warn("engine new game failed", zap.Error(err))
		}
	}
	g.resetClocks()
	g.setMessage("")
	g.render()
	g.maybeEngineMove()
}

func (g *GUI) undo() {
	if g.thinking {
		return
	}
	if err := g.session.Undo(); err != nil {
		g.log.Warn("undo failed", zap.Error(err))
		return
	}
	// Against the engine, rewind its reply too so the player is back on
	// the move they want to retract.
	if g.mover != nil && g.session.Turn() == g.engineColor {
		if err := g.session.Undo(); err != nil {
			g.log.Warn("undo failed", zap.Error(err))
		}
	}
	g.setMessage("")
	g.render()
}

func (g *GUI) flip() {
	g.flipped = !g.flipped
	g.render()
}

func (g *GUI) save() {
	if g.store == nil {
		g.setMessage("no store configured")
		return
	}
	name, err := g.store.Save(store.Record{
		FEN: g.session.FEN(),
		PGN: g.session.PGN(),
	})
	if err != nil {
		g.log.Error("save failed", zap.Error(err))
		g.setMessage("save failed")
		return
	}
	g.setMessage(fmt.Sprintf("saved as %s", name))
}

func (g *GUI) setMessage(msg string) {
	g.message.SetText(msg)
}

// render redraws everything from the session. Called on the UI
// goroutine only.
func (g *GUI) render() {
	g.renderBoard()
	g.status.SetText(g.session.StatusText())
	g.eval.SetText(g.evalText())
	g.renderClocks()
	g.moves.SetText(movesText(g.session.Game()))
	if g.session.GameOver() {
		g.pauseClocks()
	}
}

// renderBoard fills the 9x9 table: rank labels in column 0, file labels
// in the last row, pieces everywhere else.
func (g *GUI) renderBoard() {
	board := g.session.Position().Board()
	checked, inCheck := g.session.InCheck()
	last := g.session.LastMove()

	for r := 0; r <= boardRows; r++ {
		for f := 0; f <= boardCols; f++ {
			switch {
			case r == boardRows && f == 0:
				// Bottom-left corner is unused.
				g.board.SetCell(r, f, tview.NewTableCell(" ").SetSelectable(false))
			case f == 0:
				g.board.SetCell(r, f, tview.NewTableCell(rankLabel(r, g.flipped)).
					SetTextColor(g.theme.Rank).
					SetAlign(tview.AlignCenter).
					SetSelectable(false))
			case r == boardRows:
				g.board.SetCell(r, f, tview.NewTableCell(fileLabel(f, g.flipped)).
					SetTextColor(g.theme.File).
					SetAlign(tview.AlignCenter).
					SetSelectable(false))
			default:
				sq, _ := squareAt(r, f, g.flipped)
				p := board.Piece(sq)
				text := "  "
				if p != chess.NoPiece {
					text = fmt.Sprintf(" %s", p.String())
				}
				cell := tview.NewTableCell(text).
					SetAlign(tview.AlignCenter).
					SetTextColor(g.pieceColor(p)).
					SetBackgroundColor(g.cellBackground(sq, p, last, checked, inCheck))
				cell.SetClickedFunc(func() bool {
					g.onSquare(sq)
					return false
				})
				g.board.SetCell(r, f, cell)
			}
		}
	}
}

func (g *GUI) pieceColor(p chess.Piece) tcell.Color {
	if p.Color() == chess.Black {
		return g.theme.Black
	}
	return g.theme.White
}

// cellBackground picks the square color. Precedence: king in check,
// selection, legal target, last move, then plain parity.
func (g *GUI) cellBackground(sq chess.Square, p chess.Piece, last *chess.Move, checked chess.Color, inCheck bool) tcell.Color {
	if inCheck && p.Type() == chess.King && p.Color() == checked {
		return g.theme.SquareCheck
	}
	if sel, ok := g.session.Selected(); ok && sel == sq {
		return g.theme.SquareSelect
	}
	if g.session.IsTarget(sq) {
		return g.theme.SquareHint
	}
	if last != nil && (last.S1() == sq || last.S2() == sq) {
		return g.theme.SquareHigh
	}
	if (int(sq.File())+int(sq.Rank()))%2 == 0 {
		return g.theme.SquareDark
	}
	return g.theme.SquareLight
}

// evalText shows the engine's last centipawn score from White's side.
func (g *GUI) evalText() string {
	sc, ok := g.mover.(scorer)
	if !ok {
		return ""
	}
	cp := sc.Score()
	if g.engineColor == chess.Black {
		cp = -cp
	}
	return fmt.Sprintf("eval %+.2f", float64(cp)/100)
}

func (g *GUI) renderClocks() {
	if g.whiteClock == nil {
		return
	}
	g.clocks.SetText(fmt.Sprintf("White %s\nBlack %s", g.whiteClock, g.blackClock))
}

// punchClocks is called right after a move: the mover's clock stops with
// its increment, the other side's starts.
func (g *GUI) punchClocks() {
	if g.whiteClock == nil {
		return
	}
	if g.session.Turn() == chess.White {
		g.blackClock.Press()
		g.whiteClock.Resume()
	} else {
		g.whiteClock.Press()
		g.blackClock.Resume()
	}
}

func (g *GUI) pauseClocks() {
	if g.whiteClock == nil {
		return
	}
	g.whiteClock.Pause()
	g.blackClock.Pause()
}

func (g *GUI) resetClocks() {
	if g.whiteClock == nil {
		return
	}
	g.whiteClock.Reset()
	g.blackClock.Reset()
}

func (g *GUI) closeClocks() {
	if g.whiteClock == nil {
		return
	}
	g.whiteClock.Close()
	g.blackClock.Close()
}

// startClockRefresh repaints the clock line once a second while the
// application runs.
func (g *GUI) startClockRefresh() {
	if g.whiteClock == nil {
		return
	}
	go func() {
		tick := time.NewTicker(time.Second)
		defer tick.Stop()
		for {
			select {
			case <-tick.C:
				g.app.QueueUpdateDraw(g.renderClocks)
			case <-g.done:
				return
			}
		}
	}()
}

// squareAt maps a table cell to a board square. Column 0 and the last
// row hold labels, not squares.
func squareAt(row, col int, flipped bool) (chess.Square, bool) {
	if row < 0 || row >= boardRows || col < 1 || col > boardCols {
		return 0, false
	}
	f, r := col-1, boardRows-row-1
	if flipped {
		f, r = boardCols-col, row
	}
	return chess.Square(r*8 + f), true
}

func rankLabel(row int, flipped bool) string {
	r := chess.Rank(boardRows - row - 1)
	if flipped {
		r = chess.Rank(row)
	}
	return r.String()
}

func fileLabel(col int, flipped bool) string {
	f := chess.File(col - 1)
	if flipped {
		f = chess.File(boardCols - col)
	}
	return fmt.Sprintf(" %s", f.String())
}

// movesText renders the recent move pairs in SAN, most recent at the
// bottom, windowed to what fits in the side panel.
func movesText(g *chess.Game) string {
	moves := g.Moves()
	positions := g.Positions()
	var pairs []string
	for i, m := range moves {
		san := chess.AlgebraicNotation{}.Encode(positions[i], m)
		if i%2 == 0 {
			pairs = append(pairs, fmt.Sprintf("%d. %s", i/2+1, san))
		} else {
			pairs[len(pairs)-1] += " " + san
		}
	}
	if len(pairs) > movePairs {
		pairs = pairs[len(pairs)-movePairs:]
	}
	return strings.Join(pairs, "\n")
}
