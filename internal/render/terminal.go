// Package render draws boards for terminal play.
package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/benbeisheim/minimax-chess/internal/engine"
	"github.com/fatih/color"
)

var (
	lightSquare = color.New(color.BgHiWhite, color.FgBlack)
	darkSquare  = color.New(color.BgGreen, color.FgBlack)
	highlight   = color.New(color.BgYellow, color.FgBlack)
	lastMove    = color.New(color.BgCyan, color.FgBlack)
	label       = color.New(color.FgHiBlack)
)

// Options control what Board highlights.
type Options struct {
	Highlights []engine.Square
	LastMove   *engine.Move
}

// Board renders b with row 0 at the top, ranks on the left and files below.
func Board(b engine.Board, opts Options) string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		sb.WriteString(label.Sprintf("%d ", 8-row))
		for col := 0; col < 8; col++ {
			sq := engine.NewSquare(row, col)
			cell := fmt.Sprintf(" %s ", b.Get(sq).Glyph())
			sb.WriteString(squareColor(sq, opts).Sprint(cell))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(label.Sprint("   a  b  c  d  e  f  g  h"))
	sb.WriteByte('\n')
	return sb.String()
}

func squareColor(sq engine.Square, opts Options) *color.Color {
	switch {
	case slices.Contains(opts.Highlights, sq):
		return highlight
	case opts.LastMove != nil && (opts.LastMove.From == sq || opts.LastMove.To == sq):
		return lastMove
	case (sq.Row()+sq.Col())%2 == 0:
		return lightSquare
	default:
		return darkSquare
	}
}

// History renders the history entries one per line, numbered by full move.
func History(history []engine.HistoryEntry) string {
	var sb strings.Builder
	for i, h := range history {
		fmt.Fprintf(&sb, "%3d. %s\n", i/2+1, h)
	}
	return sb.String()
}
