package main

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/tiggercwh/go-picross/gameModel"
	"github.com/tiggercwh/go-picross/picross"
)

// handleStream drives a game over a WebSocket: one message per pointer
// event, each answered with the resulting state or an error.
func (gs *GameServer) handleStream(w http.ResponseWriter, r *http.Request) {
	g, exists := gs.getGame(mux.Vars(r)["gameID"])
	if !exists {
		writeJSON(w, http.StatusNotFound, gameModel.GameResponse{Message: "Game not found"})
		return
	}
	conn, err := gs.upgrader.Upgrade(w, r, nil)
	if err != nil {
		gs.logger.Warn("websocket upgrade failed", "game", g.id, "err", err)
		return
	}
	defer conn.Close()
	driver := gs.newDriver()
	gs.logger.Debug("stream opened", "game", g.id, "driver", driver)

	// A drag this stream still holds when the client goes away is released
	// so the game is not left mid-gesture.
	defer func() {
		g.mu.Lock()
		g.release(driver)
		g.mu.Unlock()
		gs.logger.Debug("stream closed", "game", g.id)
	}()

	for {
		var msg gameModel.StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				gs.logger.Warn("stream read failed", "game", g.id, "err", err)
			}
			return
		}
		if err := conn.WriteJSON(gs.handleMessage(g, driver, msg)); err != nil {
			gs.logger.Warn("stream write failed", "game", g.id, "err", err)
			return
		}
	}
}

// handleMessage applies one stream message on behalf of driver. Only the
// driver that began a drag may move or release it.
func (gs *GameServer) handleMessage(g *game, driver uint64, msg gameModel.StreamMessage) gameModel.StreamMessage {
	g.mu.Lock()
	defer g.mu.Unlock()

	var (
		d   picross.DrawType
		err error
	)
	switch msg.Type {
	case gameModel.MsgDown:
		var b picross.Button
		if b, err = picross.ParseButton(msg.Button); err == nil {
			d, err = g.begin(driver, b, msg.X, msg.Y)
		}
	case gameModel.MsgMove:
		d, err = g.move(driver, msg.X, msg.Y)
	case gameModel.MsgUp:
		var solved bool
		if solved, err = g.end(driver); err == nil && solved {
			gs.logger.Info("game solved", "game", g.id, "puzzle", g.puzzleID)
		}
	case gameModel.MsgSelect:
		err = g.selectColor(msg.Color)
	default:
		err = fmt.Errorf("%w: %q", errUnknownType, msg.Type)
	}

	st := g.state()
	if err != nil {
		return gameModel.StreamMessage{Type: gameModel.MsgError, Message: err.Error(), Solved: st.Solved, GameState: &st}
	}
	reply := gameModel.StreamMessage{Type: gameModel.MsgState, Solved: st.Solved, GameState: &st}
	if d != picross.DrawNone {
		reply.DrawType = d.String()
	}
	return reply
}
