// service/game_manager.go
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbeisheim/minimax-chess/internal/config"
	"github.com/benbeisheim/minimax-chess/internal/engine"
	"github.com/benbeisheim/minimax-chess/internal/model"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
)

// MatchResult tells a queued player which game they were placed in.
type MatchResult struct {
	GameID string            `json:"game_id"`
	Color  model.PlayerColor `json:"color"`
}

type GameManager struct {
	games   map[string]*model.Game
	queue   *model.Queue
	matches map[string]MatchResult // playerID -> match found by the matchmaker
	engine  config.EngineConfig
	mu      sync.RWMutex
	wg      sync.WaitGroup
}

func NewGameManager(cfg config.EngineConfig) *GameManager {
	return &GameManager{
		games:   make(map[string]*model.Game),
		queue:   model.NewQueue(),
		matches: make(map[string]MatchResult),
		engine:  cfg,
	}
}

// Run pairs queued players every interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.processMatchmaking()
		}
	}
}

func (gm *GameManager) processMatchmaking() {
	for {
		player1, player2, ok := gm.queue.GetNextPair()
		if !ok {
			return
		}
		game := gm.newGame(model.Options{Mode: model.ModeHuman, Depth: gm.engine.Depth})
		p1Color, err := game.AddPlayer(player1.ID)
		if err != nil {
			log.Errorf("matchmaking: adding %s: %v", player1.ID, err)
			continue
		}
		p2Color, err := game.AddPlayer(player2.ID)
		if err != nil {
			log.Errorf("matchmaking: adding %s: %v", player2.ID, err)
			continue
		}

		gm.mu.Lock()
		gm.games[game.ID] = game
		gm.matches[player1.ID] = MatchResult{GameID: game.ID, Color: p1Color}
		gm.matches[player2.ID] = MatchResult{GameID: game.ID, Color: p2Color}
		gm.mu.Unlock()
		log.Infof("matchmaking: %s vs %s in game %s", player1.ID, player2.ID, game.ID)
	}
}

func (gm *GameManager) newGame(opts model.Options) *model.Game {
	return model.NewGame(uuid.New().String(), petname.Generate(2, "-"), opts)
}

// CreateGame registers a new game and returns it. Depth is clamped to the
// configured bounds.
func (gm *GameManager) CreateGame(opts model.Options) *model.Game {
	if opts.Depth <= 0 {
		opts.Depth = gm.engine.Depth
	}
	if opts.Depth > gm.engine.MaxDepth {
		opts.Depth = gm.engine.MaxDepth
	}
	game := gm.newGame(opts)

	gm.mu.Lock()
	gm.games[game.ID] = game
	gm.mu.Unlock()
	log.Infof("created %s game %s (%s), depth %d", opts.Mode, game.ID, game.Name, opts.Depth)
	return game
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return game, nil
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	delete(gm.matches, playerID)
	gm.mu.Unlock()

	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.Remove(playerID)
}

// MatchStatus returns the match found for playerID, if any.
func (gm *GameManager) MatchStatus(playerID string) (MatchResult, bool) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	m, ok := gm.matches[playerID]
	return m, ok
}

// ScheduleComputer starts a search if the engine is on move in game. The
// search runs on its own goroutine against a copy of the board so requests and
// broadcasts are never blocked by it.
func (gm *GameManager) ScheduleComputer(game *model.Game) {
	if game.Mode == model.ModeSelfPlay && game.Plies() >= gm.engine.SelfPlayLimit {
		log.Infof("game %s: self-play stopped after %d plies", game.ID, game.Plies())
		return
	}
	turn, ok := game.ComputerTurn()
	if !ok {
		return
	}
	gm.wg.Add(1)
	go func() {
		defer gm.wg.Done()
		if gm.engine.ComputerDelay > 0 {
			time.Sleep(gm.engine.ComputerDelay)
		}

		start := time.Now()
		res := engine.Search(&turn.Board, turn.Color, turn.Depth)
		log.Debugf("game %s: %s searched depth %d, %d nodes in %v, best %s (%d)",
			game.ID, turn.Color, turn.Depth, res.Nodes, time.Since(start), res.Move, res.Score)

		if err := game.ApplyComputerMove(turn, res.Move, res.Found); err != nil {
			log.Warnf("game %s: discarding computer move: %v", game.ID, err)
			return
		}
		if !res.Found {
			log.Infof("game %s: %s has no moves", game.ID, turn.Color)
			return
		}
		gm.ScheduleComputer(game)
	}()
}

// Wait blocks until all scheduled computer moves have finished.
func (gm *GameManager) Wait() {
	gm.wg.Wait()
}
