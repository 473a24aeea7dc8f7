package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tiggercwh/go-picross/catalog"
	"github.com/tiggercwh/go-picross/gameModel"
	"github.com/tiggercwh/go-picross/picross"
)

// newTestServer serves a catalog holding one 2x1 puzzle: a red cell and
// an empty one.
func newTestServer(t *testing.T) (*GameServer, *httptest.Server) {
	t.Helper()
	p, err := catalog.FromPattern(map[rune]picross.Color{'R': picross.RGB(255, 0, 0)}, "R.")
	if err != nil {
		t.Fatal(err)
	}
	c := catalog.New()
	if err := c.Add("tiny", "Tiny", p); err != nil {
		t.Fatal(err)
	}
	gs := NewGameServer(c, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(gs.routes())
	t.Cleanup(ts.Close)
	return gs, ts
}

func postJSON(t *testing.T, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	resp, err := http.Post(url, "application/json", &buf)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func newGame(t *testing.T, ts *httptest.Server) gameModel.GameState {
	t.Helper()
	var resp gameModel.NewGameResponse
	if code := postJSON(t, ts.URL+"/api/game/new", gameModel.NewGameRequest{PuzzleID: "tiny"}, &resp); code != http.StatusOK {
		t.Fatalf("new game status = %d (%s)", code, resp.Message)
	}
	return resp.GameState
}

func TestListPuzzles(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/puzzles")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var list gameModel.PuzzleListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list.Puzzles) != 1 {
		t.Fatalf("got %d puzzles, want 1", len(list.Puzzles))
	}
	info := list.Puzzles[0]
	if info.ID != "tiny" || info.Width != 2 || info.Height != 1 || len(info.Colors) != 1 || info.Colors[0] != "#ff0000" {
		t.Errorf("puzzle info = %+v", info)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS header = %q", got)
	}
}

func TestNewGameState(t *testing.T) {
	_, ts := newTestServer(t)
	st := newGame(t, ts)
	if !strings.HasPrefix(st.ID, "game_") {
		t.Errorf("game id %q lacks prefix", st.ID)
	}
	if st.Selected != "#ff0000" {
		t.Errorf("selected = %q, want first palette color", st.Selected)
	}
	if len(st.RowClues) != 1 || len(st.RowClues[0]) != 1 || st.RowClues[0][0].Count != 1 {
		t.Errorf("row clues = %+v", st.RowClues)
	}
	if len(st.ColClues) != 2 || len(st.ColClues[1]) != 0 {
		t.Errorf("column clues = %+v", st.ColClues)
	}
	if st.Cells[0][0].State != "empty" || st.Solved {
		t.Errorf("fresh game state = %+v", st)
	}
}

func TestGestureSolvesAndLocks(t *testing.T) {
	_, ts := newTestServer(t)
	st := newGame(t, ts)
	base := ts.URL + "/api/game/" + st.ID

	// mark the empty cell first; marks never count against a solution
	var resp gameModel.GestureResponse
	code := postJSON(t, base+"/gesture", gameModel.GestureRequest{Button: "secondary", Path: []gameModel.Point{{X: 1, Y: 0}}}, &resp)
	if code != http.StatusOK || resp.DrawType != "mark" || resp.Solved {
		t.Fatalf("mark: status %d, %+v", code, resp)
	}

	resp = gameModel.GestureResponse{}
	code = postJSON(t, base+"/gesture", gameModel.GestureRequest{Button: "primary", Path: []gameModel.Point{{X: 0, Y: 0}}}, &resp)
	if code != http.StatusOK {
		t.Fatalf("fill: status %d (%s)", code, resp.Message)
	}
	if resp.DrawType != "fill" || !resp.Solved {
		t.Fatalf("fill: %+v", resp)
	}
	cells := resp.GameState.Cells[0]
	if cells[0].State != "filled" || cells[0].Color != "#ff0000" {
		t.Errorf("cell 0 = %+v", cells[0])
	}
	if cells[1].State != "empty" {
		t.Errorf("mark should be cleared on solve, cell 1 = %+v", cells[1])
	}

	resp = gameModel.GestureResponse{}
	code = postJSON(t, base+"/gesture", gameModel.GestureRequest{Path: []gameModel.Point{{X: 0, Y: 0}}}, &resp)
	if code != http.StatusConflict {
		t.Errorf("gesture after solve: status %d, want 409", code)
	}
	var gr gameModel.GameResponse
	if code := postJSON(t, base+"/reset", nil, &gr); code != http.StatusConflict {
		t.Errorf("reset after solve: status %d, want 409", code)
	}
	if code := postJSON(t, base+"/select", gameModel.SelectRequest{Color: "#ff0000"}, &gr); code != http.StatusConflict {
		t.Errorf("select after solve: status %d, want 409", code)
	}
}

func TestSelectAndReset(t *testing.T) {
	_, ts := newTestServer(t)
	st := newGame(t, ts)
	base := ts.URL + "/api/game/" + st.ID

	var gr gameModel.GameResponse
	if code := postJSON(t, base+"/select", gameModel.SelectRequest{Color: "#00ff00"}, &gr); code != http.StatusBadRequest {
		t.Errorf("foreign color: status %d, want 400", code)
	}
	if code := postJSON(t, base+"/select", gameModel.SelectRequest{Color: "zzz"}, &gr); code != http.StatusBadRequest {
		t.Errorf("bad color: status %d, want 400", code)
	}
	gr = gameModel.GameResponse{}
	if code := postJSON(t, base+"/select", gameModel.SelectRequest{Color: ""}, &gr); code != http.StatusOK || gr.GameState.Selected != "" {
		t.Fatalf("deselect: status %d, %+v", code, gr)
	}

	// with nothing selected a primary press on an empty cell does nothing
	var resp gameModel.GestureResponse
	postJSON(t, base+"/gesture", gameModel.GestureRequest{Path: []gameModel.Point{{X: 0, Y: 0}}}, &resp)
	if resp.GameState.Cells[0][0].State != "empty" || resp.Solved {
		t.Errorf("deselected fill changed the grid: %+v", resp.GameState.Cells[0])
	}

	postJSON(t, base+"/gesture", gameModel.GestureRequest{Button: "right", Path: []gameModel.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}}, &resp)
	if resp.GameState.Cells[0][1].State != "marked" {
		t.Fatalf("drag mark: %+v", resp.GameState.Cells[0])
	}

	gr = gameModel.GameResponse{}
	if code := postJSON(t, base+"/reset", nil, &gr); code != http.StatusOK {
		t.Fatalf("reset: status %d", code)
	}
	for x, c := range gr.GameState.Cells[0] {
		if c.State != "empty" {
			t.Errorf("cell %d after reset = %+v", x, c)
		}
	}
}

func TestBadRequests(t *testing.T) {
	_, ts := newTestServer(t)
	st := newGame(t, ts)
	base := ts.URL + "/api/game/" + st.ID

	var resp gameModel.GestureResponse
	cases := []struct {
		name string
		req  gameModel.GestureRequest
	}{
		{"empty path", gameModel.GestureRequest{}},
		{"off board", gameModel.GestureRequest{Path: []gameModel.Point{{X: 5, Y: 0}}}},
		{"unknown button", gameModel.GestureRequest{Button: "middle", Path: []gameModel.Point{{X: 0, Y: 0}}}},
	}
	for _, tc := range cases {
		if code := postJSON(t, base+"/gesture", tc.req, &resp); code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", tc.name, code)
		}
	}

	if code := postJSON(t, ts.URL+"/api/game/new", gameModel.NewGameRequest{PuzzleID: "nope"}, &resp); code != http.StatusNotFound {
		t.Errorf("unknown puzzle: status %d, want 404", code)
	}
	if code := postJSON(t, ts.URL+"/api/game/missing/gesture", gameModel.GestureRequest{}, &resp); code != http.StatusNotFound {
		t.Errorf("unknown game: status %d, want 404", code)
	}
	r, err := http.Get(ts.URL + "/api/game/missing")
	if err != nil {
		t.Fatal(err)
	}
	r.Body.Close()
	if r.StatusCode != http.StatusNotFound {
		t.Errorf("GET unknown game: status %d, want 404", r.StatusCode)
	}
}

func TestPreflight(t *testing.T) {
	_, ts := newTestServer(t)
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/game/new", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("OPTIONS status = %d", resp.StatusCode)
	}
}

func TestPruneIdle(t *testing.T) {
	gs, ts := newTestServer(t)
	st := newGame(t, ts)
	if n := gs.pruneIdle(time.Now(), time.Hour); n != 0 {
		t.Fatalf("pruned %d fresh games", n)
	}
	if n := gs.pruneIdle(time.Now().Add(2*time.Hour), time.Hour); n != 1 {
		t.Fatalf("pruned %d, want 1", n)
	}
	if _, ok := gs.getGame(st.ID); ok {
		t.Error("idle game still present")
	}
}

func dialStream(t *testing.T, ts *httptest.Server, gameID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/game/" + gameID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func exchange(t *testing.T, conn *websocket.Conn, msg gameModel.StreamMessage) gameModel.StreamMessage {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatal(err)
	}
	var reply gameModel.StreamMessage
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatal(err)
	}
	return reply
}

func TestStream(t *testing.T) {
	_, ts := newTestServer(t)
	st := newGame(t, ts)
	conn := dialStream(t, ts, st.ID)
	send := func(msg gameModel.StreamMessage) gameModel.StreamMessage {
		t.Helper()
		return exchange(t, conn, msg)
	}

	if r := send(gameModel.StreamMessage{Type: gameModel.MsgMove, X: 0, Y: 0}); r.Type != gameModel.MsgError {
		t.Errorf("move without down: %+v", r)
	}
	if r := send(gameModel.StreamMessage{Type: "wave"}); r.Type != gameModel.MsgError {
		t.Errorf("unknown type: %+v", r)
	}

	r := send(gameModel.StreamMessage{Type: gameModel.MsgDown, Button: "primary", X: 0, Y: 0})
	if r.Type != gameModel.MsgState || r.DrawType != "fill" || r.GameState.Cells[0][0].State != "filled" {
		t.Fatalf("down: %+v", r)
	}
	// off-board moves are skipped
	if r := send(gameModel.StreamMessage{Type: gameModel.MsgMove, X: 9, Y: 9}); r.Type != gameModel.MsgState {
		t.Errorf("off-board move: %+v", r)
	}
	if r.Solved {
		t.Error("solved before release")
	}
	r = send(gameModel.StreamMessage{Type: gameModel.MsgUp})
	if r.Type != gameModel.MsgState || !r.Solved {
		t.Fatalf("up: %+v", r)
	}
	if r := send(gameModel.StreamMessage{Type: gameModel.MsgDown, X: 1, Y: 0}); r.Type != gameModel.MsgError || !r.Solved {
		t.Errorf("down after solve: %+v", r)
	}
}

func TestStreamDragBelongsToItsConnection(t *testing.T) {
	_, ts := newTestServer(t)
	st := newGame(t, ts)
	a := dialStream(t, ts, st.ID)
	b := dialStream(t, ts, st.ID)

	if r := exchange(t, a, gameModel.StreamMessage{Type: gameModel.MsgDown, Button: "primary", X: 0, Y: 0}); r.DrawType != "fill" {
		t.Fatalf("a down: %+v", r)
	}
	if r := exchange(t, b, gameModel.StreamMessage{Type: gameModel.MsgDown, Button: "secondary", X: 1, Y: 0}); r.Type != gameModel.MsgError {
		t.Fatalf("b down during a's drag: %+v", r)
	}
	if r := exchange(t, b, gameModel.StreamMessage{Type: gameModel.MsgUp}); r.Type != gameModel.MsgError {
		t.Fatalf("b released a's drag: %+v", r)
	}

	var resp gameModel.GestureResponse
	if code := postJSON(t, ts.URL+"/api/game/"+st.ID+"/gesture", gameModel.GestureRequest{Button: "secondary", Path: []gameModel.Point{{X: 1, Y: 0}}}, &resp); code != http.StatusConflict {
		t.Errorf("HTTP gesture during a's drag: status %d, want 409", code)
	}
	var gr gameModel.GameResponse
	if code := postJSON(t, ts.URL+"/api/game/"+st.ID+"/reset", nil, &gr); code != http.StatusConflict {
		t.Errorf("reset during a's drag: status %d, want 409", code)
	}

	r := exchange(t, a, gameModel.StreamMessage{Type: gameModel.MsgMove, X: 1, Y: 0})
	if r.Type != gameModel.MsgState || r.DrawType != "fill" {
		t.Fatalf("a move: %+v", r)
	}
	if c := r.GameState.Cells[0][1]; c.State != "filled" {
		t.Errorf("cell (1,0) = %+v, want filled by a's drag", c)
	}
	if r := exchange(t, a, gameModel.StreamMessage{Type: gameModel.MsgUp}); r.Type != gameModel.MsgState {
		t.Fatalf("a up: %+v", r)
	}

	// once a lets go, b may drag
	if r := exchange(t, b, gameModel.StreamMessage{Type: gameModel.MsgDown, Button: "secondary", X: 1, Y: 0}); r.Type != gameModel.MsgState || r.DrawType != "mark" {
		t.Errorf("b down after a's release: %+v", r)
	}
}

func TestStreamCloseReleasesDrag(t *testing.T) {
	gs, ts := newTestServer(t)
	st := newGame(t, ts)
	conn := dialStream(t, ts, st.ID)
	exchange(t, conn, gameModel.StreamMessage{Type: gameModel.MsgDown, Button: "secondary", X: 1, Y: 0})
	conn.Close()

	g, _ := gs.getGame(st.ID)
	deadline := time.Now().Add(2 * time.Second)
	for {
		g.mu.Lock()
		_, active := g.session.Gesture()
		g.mu.Unlock()
		if !active {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("drag still open after the stream closed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	var resp gameModel.GestureResponse
	if code := postJSON(t, ts.URL+"/api/game/"+st.ID+"/gesture", gameModel.GestureRequest{Path: []gameModel.Point{{X: 0, Y: 0}}}, &resp); code != http.StatusOK {
		t.Errorf("gesture after stream closed: status %d (%s)", code, resp.Message)
	}
}

func TestRejectedRequestsKeepIdleClock(t *testing.T) {
	gs, ts := newTestServer(t)
	st := newGame(t, ts)
	g, _ := gs.getGame(st.ID)
	past := time.Now().Add(-time.Hour)
	g.mu.Lock()
	g.lastActivity = past
	g.mu.Unlock()

	base := ts.URL + "/api/game/" + st.ID
	var resp gameModel.GestureResponse
	postJSON(t, base+"/gesture", gameModel.GestureRequest{Path: []gameModel.Point{{X: 7, Y: 7}}}, &resp)
	var gr gameModel.GameResponse
	postJSON(t, base+"/select", gameModel.SelectRequest{Color: "#00ff00"}, &gr)

	g.mu.Lock()
	last := g.lastActivity
	g.mu.Unlock()
	if !last.Equal(past) {
		t.Errorf("rejected requests moved lastActivity to %v", last)
	}

	postJSON(t, base+"/gesture", gameModel.GestureRequest{Button: "secondary", Path: []gameModel.Point{{X: 1, Y: 0}}}, &resp)
	g.mu.Lock()
	last = g.lastActivity
	g.mu.Unlock()
	if !last.After(past) {
		t.Error("accepted gesture did not refresh lastActivity")
	}
}
