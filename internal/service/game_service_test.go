package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbeisheim/minimax-chess/internal/config"
	"github.com/benbeisheim/minimax-chess/internal/engine"
	"github.com/benbeisheim/minimax-chess/internal/model"
)

func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{Depth: 1, MaxDepth: 2, SelfPlayLimit: 6}
}

func square(t *testing.T, name string) engine.Square {
	t.Helper()
	s, err := engine.ParseSquare(name)
	if err != nil {
		t.Fatalf("ParseSquare(%q) error = %v", name, err)
	}
	return s
}

func TestComputerReplies(t *testing.T) {
	gm := NewGameManager(testEngineConfig())
	gs := NewGameService(gm)

	created, err := gs.CreateGame("alice", CreateRequest{Mode: "computer"})
	if err != nil {
		t.Fatalf("CreateGame error = %v", err)
	}
	if created.Color != model.PlayerColorWhite || created.Name == "" {
		t.Fatalf("created = %+v", created)
	}

	if _, err := gs.HandleMove(created.GameID, "alice", model.MoveRequest{From: square(t, "e2"), To: square(t, "e4")}); err != nil {
		t.Fatalf("HandleMove error = %v", err)
	}
	gm.Wait()

	snap, err := gs.GetGameState(created.GameID)
	if err != nil {
		t.Fatalf("GetGameState error = %v", err)
	}
	if len(snap.MoveHistory) != 2 || snap.ToMove != model.PlayerColorWhite {
		t.Fatalf("computer did not reply: %+v", snap.MoveHistory)
	}
	if snap.MoveHistory[1].Piece.Color != engine.Black {
		t.Fatalf("reply made by %s", snap.MoveHistory[1].Piece.Color)
	}
}

func TestComputerOpensAsWhite(t *testing.T) {
	gm := NewGameManager(testEngineConfig())
	gs := NewGameService(gm)

	created, err := gs.CreateGame("alice", CreateRequest{Mode: "computer", ComputerColor: "white"})
	if err != nil {
		t.Fatalf("CreateGame error = %v", err)
	}
	gm.Wait()

	history, _ := gs.GetHistory(created.GameID)
	if created.Color != model.PlayerColorBlack || len(history) != 1 {
		t.Fatalf("color = %s, history = %v", created.Color, history)
	}
	if history[0].Notation != "wP: a2 → a3" {
		t.Fatalf("opening = %q, want the first generated move", history[0].Notation)
	}
}

func TestSelfPlayStopsAtLimit(t *testing.T) {
	gm := NewGameManager(testEngineConfig())
	gs := NewGameService(gm)

	created, err := gs.CreateGame("alice", CreateRequest{Mode: "selfplay", Depth: 5})
	if err != nil {
		t.Fatalf("CreateGame error = %v", err)
	}
	gm.Wait()

	snap, _ := gs.GetGameState(created.GameID)
	if len(snap.MoveHistory) != 6 {
		t.Fatalf("self-play made %d plies, want 6", len(snap.MoveHistory))
	}
	if snap.Depth != 2 {
		t.Fatalf("depth = %d, want clamp to 2", snap.Depth)
	}
}

func TestCreateGameRejectsBadInput(t *testing.T) {
	gs := NewGameService(NewGameManager(testEngineConfig()))
	if _, err := gs.CreateGame("alice", CreateRequest{Mode: "blitz"}); err == nil {
		t.Fatalf("unknown mode accepted")
	}
	if _, err := gs.CreateGame("alice", CreateRequest{Mode: "computer", ComputerColor: "green"}); err == nil {
		t.Fatalf("unknown color accepted")
	}
	if _, err := gs.GetGameState("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("missing game: err = %v", err)
	}
}

func TestMatchmaking(t *testing.T) {
	gm := NewGameManager(testEngineConfig())
	gs := NewGameService(gm)

	if err := gs.JoinMatchmaking("alice"); err != nil {
		t.Fatalf("JoinMatchmaking error = %v", err)
	}
	if err := gs.JoinMatchmaking("alice"); !errors.Is(err, model.ErrAlreadyQueued) {
		t.Fatalf("double join: err = %v", err)
	}
	if err := gs.JoinMatchmaking("bob"); err != nil {
		t.Fatalf("JoinMatchmaking error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go gm.Run(ctx, 5*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for {
		a, okA := gs.MatchStatus("alice")
		b, okB := gs.MatchStatus("bob")
		if okA && okB {
			if a.GameID != b.GameID || a.Color == b.Color {
				t.Fatalf("matches = %+v, %+v", a, b)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("players were not matched")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
