package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benbeisheim/minimax-chess/internal/config"
	"github.com/benbeisheim/minimax-chess/internal/model"
	"github.com/benbeisheim/minimax-chess/internal/service"
	"github.com/gofiber/fiber/v2"
)

type testServer struct {
	app *fiber.App
	gm  *service.GameManager
}

func newTestServer() *testServer {
	gm := service.NewGameManager(config.EngineConfig{Depth: 1, MaxDepth: 2, SelfPlayLimit: 10})
	app := fiber.New()
	SetupRoutes(app, service.NewGameService(gm), []string{"http://localhost:5173"})
	return &testServer{app: app, gm: gm}
}

func (s *testServer) do(t *testing.T, method, target, player, body string, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if player != "" {
		req.Header.Set("X-Player-ID", player)
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decoding body: %v", method, target, err)
		}
	}
	return resp.StatusCode
}

func (s *testServer) create(t *testing.T, player, body string) string {
	t.Helper()
	var created struct {
		GameID string `json:"game_id"`
		Name   string `json:"name"`
	}
	if status := s.do(t, "POST", "/api/game/create", player, body, &created); status != http.StatusOK {
		t.Fatalf("create status = %d", status)
	}
	if created.GameID == "" || created.Name == "" {
		t.Fatalf("created = %+v", created)
	}
	return created.GameID
}

func TestRequiresPlayerID(t *testing.T) {
	s := newTestServer()
	if status := s.do(t, "POST", "/api/game/create", "", "", nil); status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
}

func TestHumanGameOverHTTP(t *testing.T) {
	s := newTestServer()
	id := s.create(t, "alice", `{"mode":"human"}`)

	var joined struct {
		Color string `json:"color"`
	}
	if status := s.do(t, "POST", "/api/game/join/"+id, "bob", "", &joined); status != http.StatusOK || joined.Color != "black" {
		t.Fatalf("join = (%d,%+v)", status, joined)
	}
	if status := s.do(t, "POST", "/api/game/join/"+id, "carol", "", nil); status != http.StatusConflict {
		t.Fatalf("third join status = %d, want 409", status)
	}

	var moves struct {
		Moves []struct{ Row, Col int } `json:"moves"`
	}
	if status := s.do(t, "GET", "/api/game/"+id+"/moves?square=e2", "alice", "", &moves); status != http.StatusOK || len(moves.Moves) != 2 {
		t.Fatalf("moves = (%d,%+v)", status, moves)
	}
	if status := s.do(t, "GET", "/api/game/"+id+"/moves?square=z9", "alice", "", nil); status != http.StatusBadRequest {
		t.Fatalf("bad square status = %d, want 400", status)
	}

	if status := s.do(t, "POST", "/api/game/"+id+"/move", "bob", `{"from":"e7","to":"e5"}`, nil); status != http.StatusConflict {
		t.Fatalf("out of turn status = %d, want 409", status)
	}
	if status := s.do(t, "POST", "/api/game/"+id+"/move", "alice", `{"from":"e2","to":"e5"}`, nil); status != http.StatusBadRequest {
		t.Fatalf("illegal move status = %d, want 400", status)
	}
	var out model.MoveOutcome
	if status := s.do(t, "POST", "/api/game/"+id+"/move", "alice", `{"from":"e2","to":"e4"}`, &out); status != http.StatusOK || out.PromotionPending {
		t.Fatalf("move = (%d,%+v)", status, out)
	}

	var snap model.GameSnapshot
	if status := s.do(t, "GET", "/api/game/"+id, "alice", "", &snap); status != http.StatusOK {
		t.Fatalf("state status = %d", status)
	}
	if snap.ToMove != model.PlayerColorBlack || len(snap.MoveHistory) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}

	var history struct {
		History []model.Ply `json:"history"`
	}
	s.do(t, "GET", "/api/game/"+id+"/history", "bob", "", &history)
	if len(history.History) != 1 || history.History[0].Notation != "wP: e2 → e4" {
		t.Fatalf("history = %+v", history)
	}

	if status := s.do(t, "POST", "/api/game/"+id+"/promote", "bob", `{"square":"e1","piece":"queen"}`, nil); status != http.StatusBadRequest {
		t.Fatalf("promotion without pending status = %d, want 400", status)
	}
	if status := s.do(t, "POST", "/api/game/"+id+"/reset", "mallory", "", nil); status != http.StatusForbidden {
		t.Fatalf("stranger reset status = %d, want 403", status)
	}
	if status := s.do(t, "POST", "/api/game/"+id+"/reset", "bob", "", nil); status != http.StatusOK {
		t.Fatalf("reset status = %d", status)
	}
}

func TestComputerGameOverHTTP(t *testing.T) {
	s := newTestServer()
	id := s.create(t, "alice", `{"mode":"computer","computerColor":"black","depth":1}`)

	if status := s.do(t, "POST", "/api/game/"+id+"/move", "alice", `{"from":{"row":6,"col":3},"to":{"row":4,"col":3}}`, nil); status != http.StatusOK {
		t.Fatalf("move status = %d", status)
	}
	s.gm.Wait()

	var snap model.GameSnapshot
	s.do(t, "GET", "/api/game/"+id, "alice", "", &snap)
	if len(snap.MoveHistory) != 2 || snap.ToMove != model.PlayerColorWhite {
		t.Fatalf("computer did not answer: %+v", snap.MoveHistory)
	}
}

func TestUnknownGame(t *testing.T) {
	s := newTestServer()
	if status := s.do(t, "GET", "/api/game/nope", "alice", "", nil); status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if status := s.do(t, "POST", "/api/game/create", "alice", `{"mode":"bullet"}`, nil); status != http.StatusBadRequest {
		t.Fatalf("bad mode status = %d, want 400", status)
	}
}

func TestMatchmakingOverHTTP(t *testing.T) {
	s := newTestServer()
	var status struct {
		Status string `json:"status"`
	}
	s.do(t, "POST", "/api/game/matchmaking/join", "alice", "", &status)
	if status.Status != "queued" {
		t.Fatalf("join status = %q", status.Status)
	}
	if code := s.do(t, "POST", "/api/game/matchmaking/join", "alice", "", nil); code != http.StatusConflict {
		t.Fatalf("double join = %d, want 409", code)
	}
	s.do(t, "GET", "/api/game/matchmaking/status", "alice", "", &status)
	if status.Status != "waiting" {
		t.Fatalf("status = %q, want waiting", status.Status)
	}
	if code := s.do(t, "POST", "/api/game/matchmaking/leave", "alice", "", nil); code != http.StatusOK {
		t.Fatalf("leave = %d", code)
	}
	if code := s.do(t, "POST", "/api/game/matchmaking/leave", "alice", "", nil); code != http.StatusNotFound {
		t.Fatalf("second leave = %d, want 404", code)
	}
}
