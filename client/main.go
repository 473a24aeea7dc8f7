package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/tiggercwh/go-picross/gameModel"
	"github.com/tiggercwh/go-picross/termui"
)

var (
	serverURL = flag.String("server", "http://localhost:8080", "picross server base URL")
	puzzleID  = flag.String("puzzle", "", "puzzle to play (default: the server's first)")
)

func makeRequest(method, url string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

func createNewGame() (*gameModel.GameState, error) {
	var response gameModel.NewGameResponse
	err := makeRequest("POST", *serverURL+"/api/game/new", gameModel.NewGameRequest{PuzzleID: *puzzleID}, &response)
	if err != nil {
		return nil, err
	}
	if !response.Success {
		return nil, fmt.Errorf("failed to create game: %s", response.Message)
	}
	return &response.GameState, nil
}

func resetGame(gameID string) (*gameModel.GameState, error) {
	var response gameModel.GameResponse
	if err := makeRequest("POST", fmt.Sprintf("%s/api/game/%s/reset", *serverURL, gameID), nil, &response); err != nil {
		return nil, err
	}
	if !response.Success {
		return nil, fmt.Errorf("reset failed: %s", response.Message)
	}
	return response.GameState, nil
}

// stream is the game's WebSocket; every message sent is answered once.
type stream struct {
	conn *websocket.Conn
}

func dialStream(gameID string) (*stream, error) {
	url := "ws" + strings.TrimPrefix(*serverURL, "http") + "/api/game/" + gameID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return &stream{conn: conn}, nil
}

func (s *stream) send(msg gameModel.StreamMessage) (gameModel.StreamMessage, error) {
	var reply gameModel.StreamMessage
	if err := s.conn.WriteJSON(msg); err != nil {
		return reply, err
	}
	err := s.conn.ReadJSON(&reply)
	return reply, err
}

// gesture sends a down, a move per remaining point and an up, stopping at
// the first error reply.
func (s *stream) gesture(cmd termui.Command) (gameModel.StreamMessage, error) {
	msgs := []gameModel.StreamMessage{{Type: gameModel.MsgDown, Button: cmd.Button.String(), X: cmd.Path[0].X, Y: cmd.Path[0].Y}}
	for _, pt := range cmd.Path[1:] {
		msgs = append(msgs, gameModel.StreamMessage{Type: gameModel.MsgMove, X: pt.X, Y: pt.Y})
	}
	msgs = append(msgs, gameModel.StreamMessage{Type: gameModel.MsgUp})

	var reply gameModel.StreamMessage
	for i, m := range msgs {
		var err error
		if reply, err = s.send(m); err != nil {
			return reply, err
		}
		if reply.Type == gameModel.MsgError {
			if i > 0 && i < len(msgs)-1 {
				// release the half-done drag
				s.send(gameModel.StreamMessage{Type: gameModel.MsgUp})
			}
			return reply, nil
		}
	}
	return reply, nil
}

func (s *stream) close() {
	s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	s.conn.Close()
}

func main() {
	flag.Parse()
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Welcome to Picross CLI Client!")

	gameState, err := createNewGame()
	if err != nil {
		fmt.Printf("Error creating game: %v\n", err)
		fmt.Printf("Make sure the server is running at %s\n", *serverURL)
		return
	}
	st, err := dialStream(gameState.ID)
	if err != nil {
		log.Fatalf("cannot open game stream: %v", err)
	}
	defer st.close()
	fmt.Println(termui.Usage)

	for {
		if err := termui.Render(os.Stdout, *gameState); err != nil {
			log.Fatalf("render: %v", err)
		}
		if gameState.Solved {
			fmt.Println("Congratulations! You solved the puzzle.")
			return
		}

		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		cmd, err := termui.ParseCommand(scanner.Text())
		if err != nil {
			fmt.Println(err)
			continue
		}

		var reply gameModel.StreamMessage
		switch cmd.Kind {
		case termui.Gesture:
			reply, err = st.gesture(cmd)
		case termui.Select:
			var hex string
			if hex, err = cmd.Color(gameState.Palette); err == nil {
				reply, err = st.send(gameModel.StreamMessage{Type: gameModel.MsgSelect, Color: hex})
			}
		case termui.Restart:
			var fresh *gameModel.GameState
			if fresh, err = resetGame(gameState.ID); err == nil {
				gameState = fresh
			}
		case termui.Help:
			fmt.Println(termui.Usage)
		case termui.Quit:
			return
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		if reply.Type == gameModel.MsgError {
			fmt.Printf("Server: %s\n", reply.Message)
		}
		if reply.GameState != nil {
			gameState = reply.GameState
		}
	}
}
