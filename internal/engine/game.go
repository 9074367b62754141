package engine

import (
	"fmt"
	"slices"
)

// HistoryEntry records one applied ply for display.
type HistoryEntry struct {
	Piece     Piece  `json:"piece"`
	From      Square `json:"from"`
	To        Square `json:"to"`
	Capture   Piece  `json:"-"`
	Promotion Kind   `json:"promotion,omitempty"`
}

func (h HistoryEntry) Captured() bool {
	return !h.Capture.IsEmpty()
}

// String renders the entry as "wP: e2 → e4", with " x" appended on captures.
func (h HistoryEntry) String() string {
	s := fmt.Sprintf("%s: %s → %s", h.Piece, h.From, h.To)
	if h.Promotion != NoKind {
		s += "=" + h.Promotion.Letter()
	}
	if h.Captured() {
		s += " x"
	}
	return s
}

// MoveResult reports the effect of ApplyMove.
type MoveResult struct {
	Captured         Piece `json:"captured"`
	PromotionPending bool  `json:"promotionPending"`
}

// GameState owns the live board. It is not safe for concurrent use.
type GameState struct {
	board      Board
	sideToMove Color
	history    []HistoryEntry

	pending    bool
	pendingSq  Square
	pendingIdx int
}

// NewGame returns the standard initial position with White to move.
func NewGame() *GameState {
	return NewGameStateFrom(StandardSetup(), White)
}

// NewGameStateFrom starts a game from an arbitrary position.
func NewGameStateFrom(b Board, side Color) *GameState {
	return &GameState{
		board:      b,
		sideToMove: side,
		history:    make([]HistoryEntry, 0),
	}
}

// Board returns a copy of the current position.
func (g *GameState) Board() Board {
	return g.board.Clone()
}

func (g *GameState) SideToMove() Color {
	return g.sideToMove
}

// Pending returns the square awaiting a promotion choice, if any.
func (g *GameState) Pending() (Square, bool) {
	return g.pendingSq, g.pending
}

func (g *GameState) History() []HistoryEntry {
	return slices.Clone(g.history)
}

// Reset restores the initial position.
func (g *GameState) Reset() {
	*g = *NewGame()
}

// SelectableMoves returns the destinations the side to move may choose for the
// piece on sq. It is empty for empty squares, opponent pieces, and while a
// promotion is pending.
func (g *GameState) SelectableMoves(sq Square) []Square {
	if !sq.Valid() || g.pending {
		return nil
	}
	p := g.board.Get(sq)
	if p.IsEmpty() || p.Color != g.sideToMove {
		return nil
	}
	return Destinations(&g.board, sq)
}

// ApplyMove validates m against the generated moves of the side to move and
// applies it. A pawn reaching the far rank without a chosen promotion piece
// leaves the game in the promotion pending state: the turn does not flip and
// the pawn is not placed until CompletePromotion is called.
func (g *GameState) ApplyMove(m Move) (MoveResult, error) {
	if !m.From.Valid() || !m.To.Valid() {
		return MoveResult{}, fmt.Errorf("move %d->%d: %w", int(m.From), int(m.To), ErrOutOfBounds)
	}
	if g.pending {
		return MoveResult{}, ErrPromotionPending
	}
	piece := g.board.Get(m.From)
	if piece.IsEmpty() {
		return MoveResult{}, fmt.Errorf("no piece on %s: %w", m.From, ErrIllegalMove)
	}
	if piece.Color != g.sideToMove {
		return MoveResult{}, fmt.Errorf("%s is not %s's piece: %w", m.From, g.sideToMove, ErrIllegalMove)
	}
	if !slices.Contains(Destinations(&g.board, m.From), m.To) {
		return MoveResult{}, fmt.Errorf("%s cannot move %s: %w", piece, m, ErrIllegalMove)
	}

	promotes := piece.Kind == Pawn && m.To.Row() == promotionRow(piece.Color)
	if !promotes && m.Promotion != NoKind {
		return MoveResult{}, fmt.Errorf("%s does not promote: %w", m, ErrInvalidPromotion)
	}
	if promotes && m.Promotion != NoKind && !m.Promotion.IsPromotion() {
		return MoveResult{}, fmt.Errorf("promote to %s: %w", m.Promotion, ErrInvalidPromotion)
	}

	captured := g.board.Get(m.To)
	g.board.Clear(m.From)
	g.history = append(g.history, HistoryEntry{
		Piece:   piece,
		From:    m.From,
		To:      m.To,
		Capture: captured,
	})

	if promotes && m.Promotion == NoKind {
		g.board.Clear(m.To)
		g.pending = true
		g.pendingSq = m.To
		g.pendingIdx = len(g.history) - 1
		return MoveResult{Captured: captured, PromotionPending: true}, nil
	}

	if promotes {
		piece = NewPiece(piece.Color, m.Promotion)
		g.history[len(g.history)-1].Promotion = m.Promotion
	}
	g.board.Set(m.To, piece)
	g.sideToMove = g.sideToMove.Opponent()
	return MoveResult{Captured: captured}, nil
}

// CompletePromotion places the chosen piece on the pending square and flips
// the turn.
func (g *GameState) CompletePromotion(sq Square, kind Kind) error {
	if !g.pending {
		return fmt.Errorf("no promotion pending: %w", ErrInvalidPromotion)
	}
	if sq != g.pendingSq {
		return fmt.Errorf("promotion pending on %s, not %s: %w", g.pendingSq, sq, ErrInvalidPromotion)
	}
	if !kind.IsPromotion() {
		return fmt.Errorf("cannot promote to %q: %w", kind.String(), ErrInvalidPromotion)
	}
	g.board.Set(sq, NewPiece(g.sideToMove, kind))
	g.history[g.pendingIdx].Promotion = kind
	g.pending = false
	g.sideToMove = g.sideToMove.Opponent()
	return nil
}

// ComputerMove searches the current position for the side to move without
// modifying the game. ok is false when there is no move or a promotion is pending.
func (g *GameState) ComputerMove(depth int) (Move, bool) {
	if g.pending {
		return Move{}, false
	}
	b := g.board.Clone()
	m, _, ok := BestMove(&b, g.sideToMove, depth)
	return m, ok
}
