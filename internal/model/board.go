package model

import "github.com/benbeisheim/minimax-chess/internal/engine"

// BoardView is the client representation of a board: rows top to bottom,
// nil for empty squares.
type BoardView [][]*engine.Piece

func newBoardView(b engine.Board) BoardView {
	view := make(BoardView, 8)
	for row := 0; row < 8; row++ {
		view[row] = make([]*engine.Piece, 8)
		for col := 0; col < 8; col++ {
			p := b.Get(engine.NewSquare(row, col))
			if p.IsEmpty() {
				continue
			}
			view[row][col] = &p
		}
	}
	return view
}

type CapturedPieces struct {
	White []engine.Piece `json:"white"`
	Black []engine.Piece `json:"black"`
}

// capturedPieces lists the pieces each side has taken.
func capturedPieces(history []engine.HistoryEntry) CapturedPieces {
	captured := CapturedPieces{
		White: make([]engine.Piece, 0),
		Black: make([]engine.Piece, 0),
	}
	for _, h := range history {
		if !h.Captured() {
			continue
		}
		if h.Piece.Color == engine.White {
			captured.White = append(captured.White, h.Capture)
		} else {
			captured.Black = append(captured.Black, h.Capture)
		}
	}
	return captured
}
