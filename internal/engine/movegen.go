package engine

import (
	"fmt"
	"strings"
)

// Move is a candidate or applied move. Promotion is NoKind unless the mover
// has already chosen the promotion piece.
type Move struct {
	From      Square `json:"from"`
	To        Square `json:"to"`
	Promotion Kind   `json:"promotion,omitempty"`
}

// String renders the move in coordinate notation, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoKind {
		s += strings.ToLower(m.Promotion.Letter())
	}
	return s
}

// ParseMove reads coordinate notation: "e2e4", "e7e8q" or "e7e8=Q".
func ParseMove(s string) (Move, error) {
	if len(s) < 4 {
		return Move{}, fmt.Errorf("move %q: %w", s, ErrIllegalMove)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, err
	}
	rest := s[4:]
	if len(rest) > 0 && rest[0] == '=' {
		rest = rest[1:]
	}
	promo, err := ParseKind(rest)
	if err != nil || (promo != NoKind && !promo.IsPromotion()) {
		return Move{}, fmt.Errorf("move %q: %w", s, ErrInvalidPromotion)
	}
	return Move{From: from, To: to, Promotion: promo}, nil
}

type offset struct {
	dRow, dCol int
}

var (
	knightDirs = []offset{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	bishopDirs = []offset{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	rookDirs   = []offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	queenDirs  = append(append([]offset{}, bishopDirs...), rookDirs...)
	kingDirs   = queenDirs
)

// pawnDir returns the row step of a pawn of color c.
func pawnDir(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

func pawnHomeRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

// promotionRow is the far rank for a pawn of color c.
func promotionRow(c Color) int {
	if c == White {
		return 0
	}
	return numRows - 1
}

// Destinations returns the pseudo-legal target squares of the piece on sq.
// An empty square yields no destinations.
func Destinations(b *Board, sq Square) []Square {
	piece := b.Get(sq)
	switch piece.Kind {
	case Pawn:
		return pawnDestinations(b, sq, piece.Color)
	case Knight:
		return stepDestinations(b, sq, piece.Color, knightDirs)
	case Bishop:
		return slideDestinations(b, sq, piece.Color, bishopDirs)
	case Rook:
		return slideDestinations(b, sq, piece.Color, rookDirs)
	case Queen:
		return slideDestinations(b, sq, piece.Color, queenDirs)
	case King:
		return stepDestinations(b, sq, piece.Color, kingDirs)
	default:
		return nil
	}
}

func pawnDestinations(b *Board, sq Square, c Color) []Square {
	var moves []Square
	dir := pawnDir(c)
	row, col := sq.Row(), sq.Col()

	// forward moves never capture
	if onBoard(row+dir, col) && b.Get(NewSquare(row+dir, col)).IsEmpty() {
		moves = append(moves, NewSquare(row+dir, col))
		if row == pawnHomeRow(c) && b.Get(NewSquare(row+2*dir, col)).IsEmpty() {
			moves = append(moves, NewSquare(row+2*dir, col))
		}
	}
	for _, dCol := range []int{-1, 1} {
		r, cc := row+dir, col+dCol
		if !onBoard(r, cc) {
			continue
		}
		target := b.Get(NewSquare(r, cc))
		if !target.IsEmpty() && target.Color != c {
			moves = append(moves, NewSquare(r, cc))
		}
	}
	return moves
}

func stepDestinations(b *Board, sq Square, c Color, dirs []offset) []Square {
	var moves []Square
	for _, d := range dirs {
		r, cc := sq.Row()+d.dRow, sq.Col()+d.dCol
		if !onBoard(r, cc) {
			continue
		}
		target := b.Get(NewSquare(r, cc))
		if target.IsEmpty() || target.Color != c {
			moves = append(moves, NewSquare(r, cc))
		}
	}
	return moves
}

func slideDestinations(b *Board, sq Square, c Color, dirs []offset) []Square {
	var moves []Square
	for _, d := range dirs {
		r, cc := sq.Row()+d.dRow, sq.Col()+d.dCol
		for onBoard(r, cc) {
			target := b.Get(NewSquare(r, cc))
			if target.IsEmpty() {
				moves = append(moves, NewSquare(r, cc))
			} else {
				if target.Color != c {
					moves = append(moves, NewSquare(r, cc))
				}
				break
			}
			r += d.dRow
			cc += d.dCol
		}
	}
	return moves
}

// Moves returns every pseudo-legal move of color, scanning squares row by row
// from row 0 and column by column from column 0. Search tie-breaking depends
// on this order.
func Moves(b *Board, c Color) []Move {
	var moves []Move
	for i := range b {
		sq := Square(i)
		p := b.Get(sq)
		if p.IsEmpty() || p.Color != c {
			continue
		}
		for _, to := range Destinations(b, sq) {
			moves = append(moves, Move{From: sq, To: to})
		}
	}
	return moves
}
