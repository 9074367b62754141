package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

const (
	numRows    = 8
	numCols    = 8
	numSquares = numRows * numCols
)

// Square indexes the board row-major: row 0 is the top of the screen
// (Black's back rank), row 7 is White's back rank.
type Square int

func NewSquare(row, col int) Square {
	return Square(row*numCols + col)
}

func (sq Square) Row() int { return int(sq) / numCols }

func (sq Square) Col() int { return int(sq) % numCols }

func (sq Square) Valid() bool {
	return sq >= 0 && sq < numSquares
}

func onBoard(row, col int) bool {
	return row >= 0 && row < numRows && col >= 0 && col < numCols
}

// String returns the algebraic name of the square, e.g. "a8" for row 0, col 0.
func (sq Square) String() string {
	if !sq.Valid() {
		return fmt.Sprintf("Square(%d)", int(sq))
	}
	return fmt.Sprintf("%c%d", 'a'+sq.Col(), numRows-sq.Row())
}

// ParseSquare reads an algebraic square name such as "e4".
func ParseSquare(s string) (Square, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return 0, fmt.Errorf("invalid square %q: %w", s, ErrOutOfBounds)
	}
	col := int(s[0] - 'a')
	row := numRows - int(s[1]-'0')
	return NewSquare(row, col), nil
}

type jsonSquare struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (sq Square) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonSquare{Row: sq.Row(), Col: sq.Col()})
}

// UnmarshalJSON accepts either {"row":r,"col":c} or an algebraic string.
func (sq *Square) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := ParseSquare(name)
		if err != nil {
			return err
		}
		*sq = parsed
		return nil
	}
	var js jsonSquare
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	if !onBoard(js.Row, js.Col) {
		return fmt.Errorf("square (%d,%d): %w", js.Row, js.Col, ErrOutOfBounds)
	}
	*sq = NewSquare(js.Row, js.Col)
	return nil
}

// Board is a flat 8x8 array of pieces. Copying the value copies the board.
type Board [numSquares]Piece

func (b *Board) Get(sq Square) Piece {
	return b[sq]
}

func (b *Board) Set(sq Square, p Piece) {
	b[sq] = p
}

func (b *Board) Clear(sq Square) {
	b[sq] = Piece{}
}

func (b *Board) Clone() Board {
	return *b
}

var backRank = [numCols]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func StandardSetup() Board {
	var b Board
	for col := 0; col < numCols; col++ {
		b[NewSquare(0, col)] = NewPiece(Black, backRank[col])
		b[NewSquare(1, col)] = NewPiece(Black, Pawn)
		b[NewSquare(6, col)] = NewPiece(White, Pawn)
		b[NewSquare(7, col)] = NewPiece(White, backRank[col])
	}
	return b
}

// String draws the board as text, row 0 on top.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < numRows; row++ {
		fmt.Fprintf(&sb, "%d ", numRows-row)
		for col := 0; col < numCols; col++ {
			p := b[NewSquare(row, col)]
			if p.IsEmpty() {
				sb.WriteString(" .")
				continue
			}
			letter := p.Kind.Letter()
			if p.Color == Black {
				letter = strings.ToLower(letter)
			}
			sb.WriteString(" " + letter)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a b c d e f g h\n")
	return sb.String()
}

var chessPieces = map[Piece]chess.Piece{
	{White, King}:   chess.WhiteKing,
	{White, Queen}:  chess.WhiteQueen,
	{White, Rook}:   chess.WhiteRook,
	{White, Bishop}: chess.WhiteBishop,
	{White, Knight}: chess.WhiteKnight,
	{White, Pawn}:   chess.WhitePawn,
	{Black, King}:   chess.BlackKing,
	{Black, Queen}:  chess.BlackQueen,
	{Black, Rook}:   chess.BlackRook,
	{Black, Bishop}: chess.BlackBishop,
	{Black, Knight}: chess.BlackKnight,
	{Black, Pawn}:   chess.BlackPawn,
}

// toChessSquare converts to notnil/chess numbering, where A1 is 0.
func toChessSquare(sq Square) chess.Square {
	return chess.Square((numRows-1-sq.Row())*numCols + sq.Col())
}

// FEN returns the piece placement field of the position in FEN notation.
func (b *Board) FEN() string {
	pieces := make(map[chess.Square]chess.Piece)
	for i, p := range b {
		if p.IsEmpty() {
			continue
		}
		pieces[toChessSquare(Square(i))] = chessPieces[p]
	}
	return chess.NewBoard(pieces).String()
}
