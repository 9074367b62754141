package controller

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benbeisheim/minimax-chess/internal/model"
	"github.com/benbeisheim/minimax-chess/internal/service"
	"github.com/benbeisheim/minimax-chess/internal/ws"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID, _ := c.Locals("wsGameID").(string)
	playerID, _ := c.Locals("wsPlayerID").(string)
	log.Infof("websocket connected: game %s, player %s", gameID, playerID)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warnf("failed to register connection: %v", err)
		// a duplicate is already closed and must not unregister the live one
		if !errors.Is(err, model.ErrConnected) {
			c.WriteJSON(ws.NewErrorMessage(err.Error()))
			c.Close()
		}
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("websocket read error: %v", err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.reply(gameID, playerID, ws.NewErrorMessage("malformed message"))
			continue
		}
		reply, err := wsc.handleMessage(gameID, playerID, msg)
		if err != nil {
			log.Debugf("game %s: %s message from %s rejected: %v", gameID, msg.Type, playerID, err)
			errMsg := ws.NewErrorMessage(err.Error())
			reply = &errMsg
		}
		if reply != nil {
			wsc.reply(gameID, playerID, *reply)
		}
	}
}

// handleMessage dispatches one client message. State changes are announced
// by the game broadcast, so only selection returns a direct reply.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) (*ws.Message, error) {
	switch msg.Type {
	case ws.MessageTypeMove:
		var req model.MoveRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return nil, err
		}
		_, err := wsc.gameService.HandleMove(gameID, playerID, req)
		return nil, err

	case ws.MessageTypePromote:
		var req model.PromotionRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return nil, err
		}
		return nil, wsc.gameService.HandlePromotion(gameID, playerID, req)

	case ws.MessageTypeSelect:
		var req model.SelectRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return nil, err
		}
		moves, err := wsc.gameService.SelectableMoves(gameID, playerID, req.Square)
		if err != nil {
			return nil, err
		}
		reply, err := ws.NewMessage(ws.MessageTypeMoves, fiber.Map{"square": req.Square, "moves": moves})
		if err != nil {
			return nil, err
		}
		return &reply, nil

	case ws.MessageTypeReset:
		return nil, wsc.gameService.ResetGame(gameID, playerID)

	default:
		return nil, fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) reply(gameID, playerID string, msg ws.Message) {
	if err := wsc.gameService.SendTo(gameID, playerID, msg); err != nil {
		log.Debugf("game %s: reply to %s failed: %v", gameID, playerID, err)
	}
}
