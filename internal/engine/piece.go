package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	color, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = color
	return nil
}

func ParseColor(s string) (Color, error) {
	switch strings.ToLower(s) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return White, fmt.Errorf("unknown color %q", s)
}

// Kind is the type of a piece. The zero value marks an empty square.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{
	NoKind: "",
	Pawn:   "pawn",
	Knight: "knight",
	Bishop: "bishop",
	Rook:   "rook",
	Queen:  "queen",
	King:   "king",
}

var kindLetters = [...]string{
	NoKind: "",
	Pawn:   "P",
	Knight: "N",
	Bishop: "B",
	Rook:   "R",
	Queen:  "Q",
	King:   "K",
}

func (k Kind) String() string {
	if int(k) >= len(kindNames) {
		return ""
	}
	return kindNames[k]
}

// Letter returns the upper case notation letter of the kind.
func (k Kind) Letter() string {
	if int(k) >= len(kindLetters) {
		return ""
	}
	return kindLetters[k]
}

// IsPromotion reports whether a pawn may promote to k.
func (k Kind) IsPromotion() bool {
	return k == Knight || k == Bishop || k == Rook || k == Queen
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	kind, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseKind accepts a full name ("queen") or a notation letter ("q", "Q").
// The empty string parses as NoKind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return NoKind, nil
	}
	for k := Pawn; k <= King; k++ {
		if s == kindNames[k] || s == strings.ToLower(kindLetters[k]) {
			return k, nil
		}
	}
	return NoKind, fmt.Errorf("unknown piece kind %q", s)
}

// Piece is a colored chess man. The zero value is "no piece".
type Piece struct {
	Color Color `json:"color"`
	Kind  Kind  `json:"type"`
}

func NewPiece(c Color, k Kind) Piece {
	return Piece{Color: c, Kind: k}
}

func (p Piece) IsEmpty() bool {
	return p.Kind == NoKind
}

// String renders the piece as a color prefix and a letter, e.g. "wP" or "bQ".
func (p Piece) String() string {
	if p.IsEmpty() {
		return "--"
	}
	prefix := "w"
	if p.Color == Black {
		prefix = "b"
	}
	return prefix + p.Kind.Letter()
}

var whiteGlyphs = [...]string{Pawn: "♙", Knight: "♘", Bishop: "♗", Rook: "♖", Queen: "♕", King: "♔"}
var blackGlyphs = [...]string{Pawn: "♟", Knight: "♞", Bishop: "♝", Rook: "♜", Queen: "♛", King: "♚"}

// Glyph returns the unicode chess symbol for the piece.
func (p Piece) Glyph() string {
	if p.IsEmpty() {
		return " "
	}
	if p.Color == White {
		return whiteGlyphs[p.Kind]
	}
	return blackGlyphs[p.Kind]
}
