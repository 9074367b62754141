package engine

import (
	"testing"
	"time"
)

func TestScore(t *testing.T) {
	b := StandardSetup()
	if got := Score(&b); got != 0 {
		t.Fatalf("Score(start) = %d, want 0", got)
	}
	if Score(&b) != Score(&b) {
		t.Fatalf("Score is not deterministic")
	}

	b.Clear(NewSquare(0, 3))
	if got := Score(&b); got != 90 {
		t.Fatalf("Score without black queen = %d, want 90", got)
	}
	b.Clear(NewSquare(7, 0))
	b.Clear(NewSquare(6, 0))
	if got := Score(&b); got != 30 {
		t.Fatalf("Score = %d, want 30", got)
	}
}

func TestBestMoveSingleMove(t *testing.T) {
	var b Board
	b.Set(sq(t, "e3"), NewPiece(White, Pawn))
	b.Set(sq(t, "h5"), NewPiece(Black, King))
	want := Move{From: sq(t, "e3"), To: sq(t, "e4")}

	for depth := 1; depth <= 3; depth++ {
		got, _, ok := BestMove(&b, White, depth)
		if !ok || got != want {
			t.Fatalf("depth %d: BestMove = (%v,%v), want %v", depth, got, ok, want)
		}
	}
}

func TestBestMoveNoMoves(t *testing.T) {
	var b Board
	b.Set(sq(t, "e4"), NewPiece(White, Pawn))
	b.Set(sq(t, "e5"), NewPiece(Black, Pawn))

	for depth := 0; depth <= 3; depth++ {
		if m, _, ok := BestMove(&b, White, depth); ok {
			t.Fatalf("depth %d: BestMove = %v, want none", depth, m)
		}
	}
	var empty Board
	if _, _, ok := BestMove(&empty, Black, 2); ok {
		t.Fatalf("empty board should have no best move")
	}
}

func TestBestMoveTakesFreeMaterial(t *testing.T) {
	var b Board
	b.Set(sq(t, "a1"), NewPiece(White, Rook))
	b.Set(sq(t, "h1"), NewPiece(White, King))
	b.Set(sq(t, "a5"), NewPiece(Black, Queen))
	b.Set(sq(t, "h8"), NewPiece(Black, King))
	want := Move{From: sq(t, "a1"), To: sq(t, "a5")}

	for depth := 1; depth <= 2; depth++ {
		got, score, ok := BestMove(&b, White, depth)
		if !ok || got != want {
			t.Fatalf("depth %d: BestMove = %v, want %v", depth, got, want)
		}
		if score != 50 {
			t.Fatalf("depth %d: score = %d, want 50", depth, score)
		}
	}
}

func TestBlackMinimizes(t *testing.T) {
	var b Board
	b.Set(sq(t, "h8"), NewPiece(Black, Rook))
	b.Set(sq(t, "a8"), NewPiece(Black, King))
	b.Set(sq(t, "h4"), NewPiece(White, Queen))
	b.Set(sq(t, "a1"), NewPiece(White, King))

	got, score, ok := BestMove(&b, Black, 1)
	want := Move{From: sq(t, "h8"), To: sq(t, "h4")}
	if !ok || got != want {
		t.Fatalf("BestMove = %v, want %v", got, want)
	}
	if score != -50 {
		t.Fatalf("score = %d, want -50", score)
	}
}

func TestBestMoveTieBreakFollowsGenerationOrder(t *testing.T) {
	b := StandardSetup()

	got, _, _ := BestMove(&b, White, 1)
	if want := (Move{From: sq(t, "a2"), To: sq(t, "a3")}); got != want {
		t.Fatalf("white depth 1 = %v, want %v", got, want)
	}
	got, _, _ = BestMove(&b, White, 2)
	if want := (Move{From: sq(t, "a2"), To: sq(t, "a3")}); got != want {
		t.Fatalf("white depth 2 = %v, want %v", got, want)
	}
	got, _, _ = BestMove(&b, Black, 1)
	if want := (Move{From: sq(t, "b8"), To: sq(t, "a6")}); got != want {
		t.Fatalf("black depth 1 = %v, want %v", got, want)
	}
}

func TestBestMovePromotesToQueen(t *testing.T) {
	var b Board
	b.Set(sq(t, "a7"), NewPiece(White, Pawn))
	b.Set(sq(t, "c1"), NewPiece(White, King))
	b.Set(sq(t, "h8"), NewPiece(Black, King))

	got, score, ok := BestMove(&b, White, 1)
	want := Move{From: sq(t, "a7"), To: sq(t, "a8"), Promotion: Queen}
	if !ok || got != want {
		t.Fatalf("BestMove = %v, want %v", got, want)
	}
	if score != 10 {
		t.Fatalf("score = %d, want 10 (pawn is not promoted inside the search)", score)
	}
}

func TestSearchDoesNotValuePromotion(t *testing.T) {
	var b Board
	b.Set(sq(t, "a7"), NewPiece(White, Pawn))
	b.Set(sq(t, "h1"), NewPiece(White, Rook))
	b.Set(sq(t, "h6"), NewPiece(Black, Knight))

	got, score, ok := BestMove(&b, White, 1)
	want := Move{From: sq(t, "h1"), To: sq(t, "h6")}
	if !ok || got != want {
		t.Fatalf("BestMove = %v, want %v", got, want)
	}
	if score != 60 {
		t.Fatalf("score = %d, want 60", score)
	}
}

func TestLeavingOpponentWithoutMovesWins(t *testing.T) {
	// Black's rook and bishop are boxed in and its pawns are blocked, so the
	// knight on h1 is its only mobile piece.
	var b Board
	b.Set(sq(t, "a8"), NewPiece(Black, Rook))
	b.Set(sq(t, "b8"), NewPiece(Black, Bishop))
	b.Set(sq(t, "a7"), NewPiece(Black, Pawn))
	b.Set(sq(t, "c7"), NewPiece(Black, Pawn))
	b.Set(sq(t, "h1"), NewPiece(Black, Knight))
	b.Set(sq(t, "a6"), NewPiece(White, Pawn))
	b.Set(sq(t, "c6"), NewPiece(White, Pawn))
	b.Set(sq(t, "b7"), NewPiece(White, King))
	b.Set(sq(t, "a1"), NewPiece(White, Rook))

	got, score, ok := BestMove(&b, White, 2)
	want := Move{From: sq(t, "a1"), To: sq(t, "h1")}
	if !ok || got != want {
		t.Fatalf("BestMove = %v (score %d), want %v over taking the rook", got, score, want)
	}
	if score != posInf {
		t.Fatalf("score = %d, want %d", score, posInf)
	}

	// the same rule from Black's side
	s := &searcher{}
	var stuck Board
	stuck.Set(sq(t, "e4"), NewPiece(White, Pawn))
	stuck.Set(sq(t, "e5"), NewPiece(Black, Pawn))
	if v := s.minimax(&stuck, 2, negInf, posInf, true); v != negInf {
		t.Fatalf("minimax(white without moves) = %d, want %d", v, negInf)
	}
	if v := s.minimax(&stuck, 2, negInf, posInf, false); v != posInf {
		t.Fatalf("minimax(black without moves) = %d, want %d", v, posInf)
	}
}

func TestSearchLeavesBoardUntouched(t *testing.T) {
	b := StandardSetup()
	before := b.Clone()

	start := time.Now()
	res := Search(&b, White, 3)
	t.Logf("depth 3: best=%s score=%d nodes=%d time=%v", res.Move, res.Score, res.Nodes, time.Since(start))

	if b != before {
		t.Fatalf("search mutated the board")
	}
	if !res.Found || res.Nodes == 0 {
		t.Fatalf("search found nothing: %+v", res)
	}
}
