package service

import (
	"fmt"

	"github.com/benbeisheim/minimax-chess/internal/engine"
	"github.com/benbeisheim/minimax-chess/internal/model"
	"github.com/benbeisheim/minimax-chess/internal/ws"
)

// CreateRequest describes a new game.
type CreateRequest struct {
	Mode          string `json:"mode"`
	ComputerColor string `json:"computerColor"`
	Depth         int    `json:"depth"`
}

type CreatedGame struct {
	GameID string            `json:"game_id"`
	Name   string            `json:"name"`
	Color  model.PlayerColor `json:"color"`
}

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// CreateGame creates a game and seats its creator. In computer mode the
// engine plays black unless computerColor says otherwise.
func (gs *GameService) CreateGame(playerID string, req CreateRequest) (CreatedGame, error) {
	mode, err := model.ParseMode(req.Mode)
	if err != nil {
		return CreatedGame{}, err
	}
	computerColor := engine.Black
	if req.ComputerColor != "" {
		if computerColor, err = engine.ParseColor(req.ComputerColor); err != nil {
			return CreatedGame{}, err
		}
	}

	game := gs.gameManager.CreateGame(model.Options{
		Mode:          mode,
		ComputerColor: computerColor,
		Depth:         req.Depth,
	})
	created := CreatedGame{GameID: game.ID, Name: game.Name}
	if mode != model.ModeSelfPlay {
		color, err := game.AddPlayer(playerID)
		if err != nil {
			return CreatedGame{}, fmt.Errorf("failed to seat creator: %w", err)
		}
		created.Color = color
	}
	gs.gameManager.ScheduleComputer(game)
	return created, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.PlayerColor, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) MatchStatus(playerID string) (MatchResult, bool) {
	return gs.gameManager.MatchStatus(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameSnapshot, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameSnapshot{}, err
	}
	return game.GetState(), nil
}

func (gs *GameService) GetHistory(gameID string) ([]model.Ply, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.History(), nil
}

func (gs *GameService) SelectableMoves(gameID, playerID string, sq engine.Square) ([]engine.Square, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.SelectableMoves(playerID, sq)
}

func (gs *GameService) HandleMove(gameID string, playerID string, req model.MoveRequest) (model.MoveOutcome, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.MoveOutcome{}, err
	}
	out, err := game.MakeMove(playerID, req)
	if err != nil {
		return model.MoveOutcome{}, err
	}
	gs.gameManager.ScheduleComputer(game)
	return out, nil
}

func (gs *GameService) HandlePromotion(gameID string, playerID string, req model.PromotionRequest) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := game.CompletePromotion(playerID, req); err != nil {
		return err
	}
	gs.gameManager.ScheduleComputer(game)
	return nil
}

func (gs *GameService) ResetGame(gameID string, playerID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := game.Reset(playerID); err != nil {
		return err
	}
	gs.gameManager.ScheduleComputer(game)
	return nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID)
}

func (gs *GameService) SendTo(gameID, playerID string, msg ws.Message) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.SendTo(playerID, msg)
}
