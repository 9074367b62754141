package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/benbeisheim/minimax-chess/internal/engine"
	"github.com/benbeisheim/minimax-chess/internal/render"
	"github.com/fatih/color"
)

var (
	prompt = color.New(color.FgHiCyan, color.Bold)
	warn   = color.New(color.FgRed)
)

func initLog(dest, prefix string) {
	f, err := os.OpenFile(dest, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	log.SetOutput(f)
	log.SetPrefix(prefix)
}

func main() {
	depth := flag.Int("depth", 2, "search depth for the computer")
	colorName := flag.String("color", "white", "color you play (white or black)")
	logPath := flag.String("log", "./cli.log", "path to log file")
	flag.Parse()
	initLog(*logPath, "CLI: ")

	human, err := engine.ParseColor(*colorName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	game := engine.NewGame()
	in := bufio.NewScanner(os.Stdin)
	var last *engine.Move
	var highlights []engine.Square

	for {
		board := game.Board()
		fmt.Print(render.Board(board, render.Options{Highlights: highlights, LastMove: last}))
		highlights = nil

		if game.SideToMove() != human {
			m, ok := game.ComputerMove(*depth)
			if !ok {
				fmt.Println("computer has no moves, game over")
				return
			}
			if _, err := game.ApplyMove(m); err != nil {
				log.Printf("computer move %s rejected: %v", m, err)
				return
			}
			log.Printf("computer played %s", m)
			fmt.Printf("computer plays %s\n", m)
			last = &m
			continue
		}

		if len(engine.Moves(&board, human)) == 0 {
			fmt.Println("no moves left, game over")
			return
		}

		prompt.Printf("%s to move (e.g. e2e4, e2 to show moves, history, quit): ", human)
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return
		case "history":
			fmt.Print(render.History(game.History()))
			continue
		}

		if sq, err := engine.ParseSquare(line); err == nil {
			highlights = game.SelectableMoves(sq)
			if len(highlights) == 0 {
				warn.Printf("no moves from %s\n", sq)
			}
			continue
		}

		m, err := engine.ParseMove(line)
		if err != nil {
			warn.Println(err)
			continue
		}
		res, err := game.ApplyMove(m)
		if err != nil {
			warn.Println(err)
			continue
		}
		if res.PromotionPending {
			if !choosePromotion(in, game, m.To) {
				return
			}
		}
		log.Printf("player played %s", m)
		last = &m
	}
}

// choosePromotion asks until a valid piece is chosen. It returns false when
// input ends.
func choosePromotion(in *bufio.Scanner, game *engine.GameState, sq engine.Square) bool {
	for {
		prompt.Print("promote to (q, r, b, n): ")
		if !in.Scan() {
			return false
		}
		kind, err := engine.ParseKind(strings.TrimSpace(in.Text()))
		if err == nil {
			err = game.CompletePromotion(sq, kind)
		}
		if err == nil {
			return true
		}
		warn.Println(err)
	}
}
