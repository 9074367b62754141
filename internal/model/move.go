package model

import "github.com/benbeisheim/minimax-chess/internal/engine"

// MoveRequest is a move sent by a client. Promotion may be empty, in which
// case a pawn reaching the far rank leaves the game waiting for a PromotionRequest.
type MoveRequest struct {
	From      engine.Square `json:"from"`
	To        engine.Square `json:"to"`
	Promotion engine.Kind   `json:"promotion"`
}

func (r MoveRequest) Move() engine.Move {
	return engine.Move{From: r.From, To: r.To, Promotion: r.Promotion}
}

type PromotionRequest struct {
	Square engine.Square `json:"square"`
	Piece  engine.Kind   `json:"piece"`
}

type SelectRequest struct {
	Square engine.Square `json:"square"`
}

// Ply is one history line as shown to clients.
type Ply struct {
	Piece     engine.Piece  `json:"piece"`
	From      engine.Square `json:"from"`
	To        engine.Square `json:"to"`
	Captured  bool          `json:"captured"`
	Promotion engine.Kind   `json:"promotion,omitempty"`
	Notation  string        `json:"notation"`
}

func newPly(h engine.HistoryEntry) Ply {
	return Ply{
		Piece:     h.Piece,
		From:      h.From,
		To:        h.To,
		Captured:  h.Captured(),
		Promotion: h.Promotion,
		Notation:  h.String(),
	}
}

func newPlies(history []engine.HistoryEntry) []Ply {
	plies := make([]Ply, 0, len(history))
	for _, h := range history {
		plies = append(plies, newPly(h))
	}
	return plies
}

type SimpleMove struct {
	From engine.Square `json:"from"`
	To   engine.Square `json:"to"`
}

// MoveOutcome is returned to the client that made a move.
type MoveOutcome struct {
	Captured         *engine.Piece `json:"captured"`
	PromotionPending bool          `json:"promotionPending"`
}

func newMoveOutcome(res engine.MoveResult) MoveOutcome {
	out := MoveOutcome{PromotionPending: res.PromotionPending}
	if !res.Captured.IsEmpty() {
		captured := res.Captured
		out.Captured = &captured
	}
	return out
}
