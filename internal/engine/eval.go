package engine

var pieceValues = [...]int{
	NoKind: 0,
	Pawn:   10,
	Knight: 30,
	Bishop: 30,
	Rook:   50,
	Queen:  90,
	King:   900,
}

// Value returns the material value of a piece kind.
func (k Kind) Value() int {
	return pieceValues[k]
}

// Score is the material balance of the board: White material minus Black material.
func Score(b *Board) int {
	score := 0
	for _, p := range b {
		if p.IsEmpty() {
			continue
		}
		if p.Color == White {
			score += p.Kind.Value()
		} else {
			score -= p.Kind.Value()
		}
	}
	return score
}
