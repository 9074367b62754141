package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/benbeisheim/minimax-chess/internal/engine"
	"github.com/benbeisheim/minimax-chess/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

var (
	ErrGameFull    = errors.New("game is full")
	ErrNotInGame   = errors.New("player not in game")
	ErrNotYourTurn = errors.New("not your turn")
	ErrStaleMove   = errors.New("position changed while the computer was thinking")
	ErrNotComputer = errors.New("side to move is not played by the computer")
	ErrReservedID  = errors.New("player id is reserved for the computer")
	ErrConnected   = errors.New("player already has a connection to this game")
)

type Mode string

const (
	ModeLocal    Mode = "local"    // one player moves both sides
	ModeHuman    Mode = "human"    // two players
	ModeComputer Mode = "computer" // player against the engine
	ModeSelfPlay Mode = "selfplay" // engine against itself
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeLocal:
		return ModeLocal, nil
	case ModeHuman, ModeComputer, ModeSelfPlay:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown game mode %q", s)
}

type Options struct {
	Mode          Mode
	ComputerColor engine.Color
	Depth         int
}

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

// Game wraps one engine.GameState with its seats, observers and clocks.
type Game struct {
	ID    string
	Name  string
	Mode  Mode
	Depth int

	mu          sync.Mutex
	state       *engine.GameState
	version     uint64
	seats       [2]string // indexed by engine.Color
	sound       string
	lastMove    *SimpleMove
	thinking    bool
	clocks      [2]*Clock
	connections *GameConnections
}

type Seats struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// GameSnapshot is the full client view of a game.
type GameSnapshot struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Mode             Mode           `json:"mode"`
	Depth            int            `json:"depth"`
	Sound            string         `json:"sound"`
	Board            BoardView      `json:"board"`
	FEN              string         `json:"fen"`
	ToMove           PlayerColor    `json:"toMove"`
	Score            int            `json:"score"`
	MoveHistory      []Ply          `json:"moveHistory"`
	CapturedPieces   CapturedPieces `json:"capturedPieces"`
	PromotionPending bool           `json:"promotionPending"`
	PromotionSquare  *engine.Square `json:"promotionSquare"`
	LastMove         *SimpleMove    `json:"lastMove"`
	Thinking         bool           `json:"thinking"`
	Players          Seats          `json:"players"`
}

// ComputerTurn is a position handed to the engine outside the game lock.
type ComputerTurn struct {
	Board   engine.Board
	Color   engine.Color
	Depth   int
	Version uint64
}

func NewGame(id, name string, opts Options) *Game {
	g := &Game{
		ID:          id,
		Name:        name,
		Mode:        opts.Mode,
		Depth:       opts.Depth,
		state:       engine.NewGame(),
		clocks:      [2]*Clock{NewClock(), NewClock()},
		connections: NewGameConnections(),
	}
	switch opts.Mode {
	case ModeComputer:
		g.seats[opts.ComputerColor] = ComputerPlayerID
	case ModeSelfPlay:
		g.seats[engine.White] = ComputerPlayerID
		g.seats[engine.Black] = ComputerPlayerID
	}
	g.clocks[engine.White].Start()
	return g
}

// AddPlayer seats a player and returns its color. A player already seated gets
// its existing color back. In local mode the first player takes both sides.
func (g *Game) AddPlayer(playerID string) (PlayerColor, error) {
	if playerID == ComputerPlayerID {
		return "", ErrReservedID
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for c, id := range g.seats {
		if id == playerID {
			return ColorOf(engine.Color(c)), nil
		}
	}
	if g.Mode == ModeLocal && g.seats[engine.White] == "" {
		g.seats[engine.White] = playerID
		g.seats[engine.Black] = playerID
		return PlayerColorWhite, nil
	}
	for _, c := range []engine.Color{engine.White, engine.Black} {
		if g.seats[c] == "" {
			g.seats[c] = playerID
			log.Infof("game %s: player %s seated as %s", g.ID, playerID, c)
			return ColorOf(c), nil
		}
	}
	return "", ErrGameFull
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	return playerID != "" && playerID != ComputerPlayerID && (g.seats[engine.White] == playerID || g.seats[engine.Black] == playerID)
}

func (g *Game) canSpectate() bool {
	return g.seats[engine.White] == "" || g.seats[engine.Black] == ""
}

// checkTurn verifies playerID may act for the side to move.
func (g *Game) checkTurn(playerID string) error {
	if !g.isPlayerInGame(playerID) {
		return ErrNotInGame
	}
	if g.seats[g.state.SideToMove()] != playerID {
		return ErrNotYourTurn
	}
	return nil
}

func (g *Game) GetState() GameSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) snapshot() GameSnapshot {
	board := g.state.Board()
	history := g.state.History()
	snap := GameSnapshot{
		ID:             g.ID,
		Name:           g.Name,
		Mode:           g.Mode,
		Depth:          g.Depth,
		Sound:          g.sound,
		Board:          newBoardView(board),
		FEN:            board.FEN(),
		ToMove:         ColorOf(g.state.SideToMove()),
		Score:          engine.Score(&board),
		MoveHistory:    newPlies(history),
		CapturedPieces: capturedPieces(history),
		LastMove:       g.lastMove,
		Thinking:       g.thinking,
	}
	if sq, ok := g.state.Pending(); ok {
		snap.PromotionPending = true
		snap.PromotionSquare = &sq
	}
	snap.Players.White = g.clientPlayer(engine.White)
	snap.Players.Black = g.clientPlayer(engine.Black)
	return snap
}

func (g *Game) clientPlayer(c engine.Color) ClientPlayer {
	return ClientPlayer{
		ID:       g.seats[c],
		Color:    string(ColorOf(c)),
		Computer: g.seats[c] == ComputerPlayerID,
		TimeUsed: int(g.clocks[c].TimeUsed().Milliseconds() / 100),
	}
}

// History returns the applied plies in order.
func (g *Game) History() []Ply {
	g.mu.Lock()
	defer g.mu.Unlock()

	return newPlies(g.state.History())
}

// SelectableMoves lists destinations for the piece on sq. Players who are not
// on move get an empty list.
func (g *Game) SelectableMoves(playerID string, sq engine.Square) ([]engine.Square, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.isPlayerInGame(playerID) {
		return nil, ErrNotInGame
	}
	if g.seats[g.state.SideToMove()] != playerID {
		return []engine.Square{}, nil
	}
	moves := g.state.SelectableMoves(sq)
	if moves == nil {
		moves = []engine.Square{}
	}
	return moves, nil
}

func (g *Game) MakeMove(playerID string, req MoveRequest) (MoveOutcome, error) {
	g.mu.Lock()
	if err := g.checkTurn(playerID); err != nil {
		g.mu.Unlock()
		return MoveOutcome{}, err
	}
	move := req.Move()
	res, err := g.state.ApplyMove(move)
	if err != nil {
		g.mu.Unlock()
		return MoveOutcome{}, err
	}
	g.afterMove(move, res)
	snap := g.snapshot()
	g.mu.Unlock()

	g.broadcastState(snap)
	return newMoveOutcome(res), nil
}

func (g *Game) CompletePromotion(playerID string, req PromotionRequest) error {
	g.mu.Lock()
	if err := g.checkTurn(playerID); err != nil {
		g.mu.Unlock()
		return err
	}
	if err := g.state.CompletePromotion(req.Square, req.Piece); err != nil {
		g.mu.Unlock()
		return err
	}
	g.version++
	g.switchClocks()
	snap := g.snapshot()
	g.mu.Unlock()

	g.broadcastState(snap)
	return nil
}

// Reset restores the initial position. Any computer search in flight is discarded.
func (g *Game) Reset(playerID string) error {
	g.mu.Lock()
	if !g.isPlayerInGame(playerID) {
		g.mu.Unlock()
		return ErrNotInGame
	}
	g.state.Reset()
	g.version++
	g.sound = ""
	g.lastMove = nil
	g.thinking = false
	for _, c := range g.clocks {
		c.Reset()
	}
	g.clocks[engine.White].Start()
	snap := g.snapshot()
	g.mu.Unlock()

	log.Infof("game %s reset by %s", g.ID, playerID)
	g.broadcastState(snap)
	return nil
}

// Plies is the number of plies applied so far.
func (g *Game) Plies() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.state.History())
}

// ComputerTurn claims the position for a search when the engine is on move.
// It returns false if a human is on move, a promotion is pending, or a search
// is already running.
func (g *Game) ComputerTurn() (ComputerTurn, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.thinking || g.seats[g.state.SideToMove()] != ComputerPlayerID {
		return ComputerTurn{}, false
	}
	if _, pending := g.state.Pending(); pending {
		return ComputerTurn{}, false
	}
	g.thinking = true
	return ComputerTurn{
		Board:   g.state.Board(),
		Color:   g.state.SideToMove(),
		Depth:   g.Depth,
		Version: g.version,
	}, true
}

// ApplyComputerMove finishes a turn claimed with ComputerTurn. found is false
// when the engine had no move.
func (g *Game) ApplyComputerMove(turn ComputerTurn, move engine.Move, found bool) error {
	g.mu.Lock()
	if turn.Version != g.version {
		g.mu.Unlock()
		return ErrStaleMove
	}
	g.thinking = false
	if !found {
		snap := g.snapshot()
		g.mu.Unlock()
		g.broadcastState(snap)
		return nil
	}
	if g.seats[g.state.SideToMove()] != ComputerPlayerID {
		g.mu.Unlock()
		return ErrNotComputer
	}
	res, err := g.state.ApplyMove(move)
	if err != nil {
		g.mu.Unlock()
		return fmt.Errorf("computer move %s: %w", move, err)
	}
	g.afterMove(move, res)
	snap := g.snapshot()
	g.mu.Unlock()

	g.broadcastState(snap)
	return nil
}

// afterMove updates bookkeeping for an applied move. Callers hold g.mu.
func (g *Game) afterMove(move engine.Move, res engine.MoveResult) {
	g.version++
	if res.Captured.IsEmpty() {
		g.sound = "move"
	} else {
		g.sound = "capture"
	}
	g.lastMove = &SimpleMove{From: move.From, To: move.To}
	if !res.PromotionPending {
		g.switchClocks()
	}
}

// switchClocks runs the clock of the side now on move.
func (g *Game) switchClocks() {
	side := g.state.SideToMove()
	g.clocks[side.Opponent()].Stop()
	g.clocks[side].Start()
}

// RegisterConnection adds conn for playerID and sends it the current state. A
// second connection for the same player is closed and ErrConnected returned;
// the first one stays registered.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID) || g.canSpectate()
	snap := g.snapshot()
	g.mu.Unlock()

	if !isAuthorized {
		return errors.New("not authorized to join this game")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// keep the healthy connection and reject the new one
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		conn.Close()
		return ErrConnected
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Debugf("game %s: registered connection for %s", g.ID, playerID)

	g.broadcastState(snap)
	return nil
}

func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if _, exists := g.connections.connections[playerID]; exists {
		log.Debugf("game %s: unregistered connection for %s", g.ID, playerID)
		delete(g.connections.connections, playerID)
	}
}

// SendTo writes a message to one player's connection.
func (g *Game) SendTo(playerID string, msg ws.Message) error {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	conn, ok := g.connections.connections[playerID]
	if !ok {
		return fmt.Errorf("no connection for player %s", playerID)
	}
	return conn.WriteJSON(msg)
}

// broadcastState sends snap to every connection. Writes are serialized by the
// connections lock; failed connections are dropped.
func (g *Game) broadcastState(snap GameSnapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		log.Errorf("game %s: failed to marshal state: %v", g.ID, err)
		return
	}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	for playerID, conn := range g.connections.connections {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.Warnf("game %s: failed to send state to %s: %v", g.ID, playerID, err)
			delete(g.connections.connections, playerID)
		}
	}
}
