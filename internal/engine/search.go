package engine

import "math"

const (
	negInf = math.MinInt
	posInf = math.MaxInt
)

// SearchResult is the outcome of a fixed-depth search.
type SearchResult struct {
	Move  Move
	Score int
	Found bool
	Nodes int
}

type searcher struct {
	nodes int
}

// BestMove runs a fixed-depth minimax search with alpha-beta pruning for side c.
// White maximizes Score and Black minimizes it. The first move with a strictly
// better value wins, so the result follows the order of Moves. ok is false when
// c has no moves.
func BestMove(b *Board, c Color, depth int) (move Move, score int, ok bool) {
	res := Search(b, c, depth)
	return res.Move, res.Score, res.Found
}

// Search is BestMove with node statistics. Depths below 1 are treated as 1.
func Search(b *Board, c Color, depth int) SearchResult {
	if depth < 1 {
		depth = 1
	}
	s := &searcher{}
	res := SearchResult{}
	maximizing := c == White
	alpha, beta := negInf, posInf

	for _, m := range Moves(b, c) {
		child := b.Clone()
		makeSearchMove(&child, m)
		value := s.minimax(&child, depth-1, alpha, beta, !maximizing)

		if !res.Found || (maximizing && value > res.Score) || (!maximizing && value < res.Score) {
			res.Move = m
			res.Score = value
			res.Found = true
		}
		if maximizing {
			alpha = max(alpha, value)
		} else {
			beta = min(beta, value)
		}
	}
	if res.Found && isPromotionMove(b, res.Move) {
		res.Move.Promotion = Queen
	}
	res.Nodes = s.nodes
	return res
}

func (s *searcher) minimax(b *Board, depth, alpha, beta int, maximizing bool) int {
	s.nodes++
	if depth == 0 {
		return Score(b)
	}
	side := Black
	if maximizing {
		side = White
	}
	moves := Moves(b, side)
	if len(moves) == 0 {
		// a side left without moves has lost
		if maximizing {
			return negInf
		}
		return posInf
	}

	if maximizing {
		best := negInf
		for _, m := range moves {
			child := b.Clone()
			makeSearchMove(&child, m)
			best = max(best, s.minimax(&child, depth-1, alpha, beta, false))
			alpha = max(alpha, best)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := posInf
	for _, m := range moves {
		child := b.Clone()
		makeSearchMove(&child, m)
		best = min(best, s.minimax(&child, depth-1, alpha, beta, true))
		beta = min(beta, best)
		if beta <= alpha {
			break
		}
	}
	return best
}

// makeSearchMove applies m to a scratch board. Pawns reaching the far rank
// stay pawns inside the search.
func makeSearchMove(b *Board, m Move) {
	p := b.Get(m.From)
	b.Clear(m.From)
	b.Set(m.To, p)
}

func isPromotionMove(b *Board, m Move) bool {
	p := b.Get(m.From)
	return p.Kind == Pawn && m.To.Row() == promotionRow(p.Color)
}
