package model

import "github.com/benbeisheim/minimax-chess/internal/engine"

type Player struct {
	ID string
}

// ClientPlayer is the seat information sent to clients.
type ClientPlayer struct {
	ID       string `json:"name"`
	Color    string `json:"color"`
	Computer bool   `json:"computer"`
	TimeUsed int    `json:"timeUsed"` // tenths of a second
}

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)

func ColorOf(c engine.Color) PlayerColor {
	if c == engine.White {
		return PlayerColorWhite
	}
	return PlayerColorBlack
}

// ComputerPlayerID occupies seats played by the engine.
const ComputerPlayerID = "computer"
