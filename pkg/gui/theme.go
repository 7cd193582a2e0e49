package gui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Terminal safe color palette reference:
// https://upload.wikimedia.org/wikipedia/commons/1/15/Xterm_256color_chart.svg

// Theme is used for dynamically coloring the UI.
type Theme struct {
	Name         string      `json:"name"`
	SquareDark   tcell.Color `json:"squareDark"`
	SquareLight  tcell.Color `json:"squareLight"`
	SquareHigh   tcell.Color `json:"squareHigh"`
	SquareHint   tcell.Color `json:"squareHint"`
	SquareSelect tcell.Color `json:"squareSelect"`
	SquareCheck  tcell.Color `json:"squareCheck"`
	White        tcell.Color `json:"white"`
	Black        tcell.Color `json:"black"`
	Rank         tcell.Color `json:"rank"`
	File         tcell.Color `json:"file"`
	Status       tcell.Color `json:"status"`
	Msg          tcell.Color `json:"msg"`
	Score        tcell.Color `json:"score"`
	Clock        tcell.Color `json:"clock"`
	MoveBox      tcell.Color `json:"moveBox"`
}

// ThemeHex is the JSON-friendly form of a Theme.
type ThemeHex struct {
	Name         string `json:"name"`
	SquareDark   string `json:"squareDark"`
	SquareLight  string `json:"squareLight"`
	SquareHigh   string `json:"squareHigh"`
	SquareHint   string `json:"squareHint"`
	SquareSelect string `json:"squareSelect"`
	SquareCheck  string `json:"squareCheck"`
	White        string `json:"white"`
	Black        string `json:"black"`
	Rank         string `json:"rank"`
	File         string `json:"file"`
	Status       string `json:"status"`
	Msg          string `json:"msg"`
	Score        string `json:"score"`
	Clock        string `json:"clock"`
	MoveBox      string `json:"moveBox"`
}

// Hex converts a Theme to its ThemeHex form.
func (t Theme) Hex() ThemeHex {
	return ThemeHex{
		t.Name,
		fmtHex(t.SquareDark.Hex()),
		fmtHex(t.SquareLight.Hex()),
		fmtHex(t.SquareHigh.Hex()),
		fmtHex(t.SquareHint.Hex()),
		fmtHex(t.SquareSelect.Hex()),
		fmtHex(t.SquareCheck.Hex()),
		fmtHex(t.White.Hex()),
		fmtHex(t.Black.Hex()),
		fmtHex(t.Rank.Hex()),
		fmtHex(t.File.Hex()),
		fmtHex(t.Status.Hex()),
		fmtHex(t.Msg.Hex()),
		fmtHex(t.Score.Hex()),
		fmtHex(t.Clock.Hex()),
		fmtHex(t.MoveBox.Hex()),
	}
}

// Theme converts a ThemeHex back to a Theme.
func (t ThemeHex) Theme() Theme {
	return Theme{
		t.Name,
		tcell.GetColor(t.SquareDark),
		tcell.GetColor(t.SquareLight),
		tcell.GetColor(t.SquareHigh),
		tcell.GetColor(t.SquareHint),
		tcell.GetColor(t.SquareSelect),
		tcell.GetColor(t.SquareCheck),
		tcell.GetColor(t.White),
		tcell.GetColor(t.Black),
		tcell.GetColor(t.Rank),
		tcell.GetColor(t.File),
		tcell.GetColor(t.Status),
		tcell.GetColor(t.Msg),
		tcell.GetColor(t.Score),
		tcell.GetColor(t.Clock),
		tcell.GetColor(t.MoveBox),
	}
}

// fmtHex returns a one character hex for ColorDefault so it survives a
// round trip instead of being read back as black.
func fmtHex(v int32) string {
	if v == -1 {
		return "#0"
	}
	return fmt.Sprintf("#%06x", v)
}

// ThemeBasic is the default theme.
var ThemeBasic = Theme{
	Name:         "basic",
	SquareDark:   tcell.Color188,
	SquareLight:  tcell.Color230,
	SquareHigh:   tcell.Color226,
	SquareHint:   tcell.Color223,
	SquareSelect: tcell.Color216,
	SquareCheck:  tcell.Color218,
	White:        tcell.Color232,
	Black:        tcell.Color232,
	Rank:         tcell.Color247,
	File:         tcell.Color247,
	Status:       tcell.Color252,
	Msg:          tcell.Color160,
	Score:        tcell.Color247,
	Clock:        tcell.Color252,
	MoveBox:      tcell.Color247,
}

// ThemeMidnight is a darker palette for low-light terminals.
var ThemeMidnight = Theme{
	Name:         "midnight",
	SquareDark:   tcell.Color238,
	SquareLight:  tcell.Color244,
	SquareHigh:   tcell.Color58,
	SquareHint:   tcell.Color24,
	SquareSelect: tcell.Color94,
	SquareCheck:  tcell.Color88,
	White:        tcell.Color255,
	Black:        tcell.Color232,
	Rank:         tcell.Color245,
	File:         tcell.Color245,
	Status:       tcell.Color250,
	Msg:          tcell.Color167,
	Score:        tcell.Color245,
	Clock:        tcell.Color250,
	MoveBox:      tcell.Color245,
}

var builtinThemes = []Theme{ThemeBasic, ThemeMidnight}

// ThemeByName returns the built-in theme with the given name.
func ThemeByName(name string) (Theme, error) {
	for _, t := range builtinThemes {
		if t.Name == name {
			return t, nil
		}
	}
	return Theme{}, fmt.Errorf("gui: no theme named %q", name)
}
