package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/tiggercwh/go-picross/catalog"
	"github.com/tiggercwh/go-picross/gameModel"
	"github.com/tiggercwh/go-picross/picross"
)

var (
	addr        = flag.String("addr", ":8080", "listen address")
	puzzleDir   = flag.String("puzzles", "", "directory of puzzle definitions and images, optionally indexed by catalog.yaml")
	levelStr    = flag.String("log-level", "info", "debug|info|warn|error")
	idleTimeout = flag.Duration("idle-timeout", 30*time.Minute, "drop games idle for longer than this")
)

var (
	errEmptyPath   = errors.New("gesture path is empty")
	errUnknownType = errors.New("unknown message type")
	errBusy        = errors.New("another gesture is in progress on this game")
)

// game is one session. Its mutex guards every call into the session; the
// owner field keeps a drag to the stream or request that began it.
type game struct {
	mu           sync.Mutex
	id           string
	puzzleID     string
	name         string
	session      *picross.Session
	owner        uint64
	createdAt    time.Time
	lastActivity time.Time
}

// state must be called with g.mu held.
func (g *game) state() gameModel.GameState {
	return gameModel.NewGameState(g.id, g.puzzleID, g.name, g.session, g.createdAt, g.lastActivity)
}

func (g *game) touch() { g.lastActivity = time.Now() }

// busyFor reports whether a drag begun by someone other than driver is
// still open.
func (g *game) busyFor(driver uint64) bool {
	_, active := g.session.Gesture()
	return active && g.owner != driver
}

// The begin/move/end helpers must be called with g.mu held.

func (g *game) begin(driver uint64, b picross.Button, x, y int) (picross.DrawType, error) {
	if g.busyFor(driver) {
		return picross.DrawNone, errBusy
	}
	d, err := g.session.Begin(b, x, y)
	if err != nil {
		return d, err
	}
	g.owner = driver
	g.touch()
	return d, nil
}

func (g *game) move(driver uint64, x, y int) (picross.DrawType, error) {
	if g.busyFor(driver) {
		return picross.DrawNone, errBusy
	}
	if err := g.session.Move(x, y); err != nil {
		return picross.DrawNone, err
	}
	g.touch()
	d, _ := g.session.Gesture()
	return d, nil
}

func (g *game) end(driver uint64) (bool, error) {
	if g.busyFor(driver) {
		return g.session.Solved(), errBusy
	}
	solved, err := g.session.End()
	if err != nil {
		return solved, err
	}
	g.owner = 0
	g.touch()
	return solved, nil
}

// release ends a drag driver left open.
func (g *game) release(driver uint64) {
	if _, active := g.session.Gesture(); active && g.owner == driver {
		_, _ = g.end(driver)
	}
}

// gesture runs one whole drag for driver. It must be called with g.mu held.
func (g *game) gesture(driver uint64, b picross.Button, path []gameModel.Point) (picross.DrawType, bool, error) {
	if len(path) == 0 {
		return picross.DrawNone, g.session.Solved(), errEmptyPath
	}
	d, err := g.begin(driver, b, path[0].X, path[0].Y)
	if err != nil {
		return d, g.session.Solved(), err
	}
	for _, pt := range path[1:] {
		if _, err := g.move(driver, pt.X, pt.Y); err != nil {
			g.release(driver)
			return d, g.session.Solved(), err
		}
	}
	solved, err := g.end(driver)
	return d, solved, err
}

// selectColor must be called with g.mu held. An empty color deselects.
func (g *game) selectColor(s string) error {
	var err error
	if strings.TrimSpace(s) == "" {
		err = g.session.Deselect()
	} else {
		var c picross.Color
		if c, err = picross.ParseColor(s); err == nil {
			err = g.session.Select(c)
		}
	}
	if err != nil {
		return err
	}
	g.touch()
	return nil
}

// restart must be called with g.mu held. It refuses while anyone is
// dragging.
func (g *game) restart() error {
	if _, active := g.session.Gesture(); active {
		return errBusy
	}
	if err := g.session.Restart(); err != nil {
		return err
	}
	g.touch()
	return nil
}

type GameServer struct {
	catalog  *catalog.Catalog
	games    map[string]*game
	mutex    sync.RWMutex
	logger   *slog.Logger
	upgrader websocket.Upgrader
	drivers  atomic.Uint64
}

// newDriver hands out the token a stream or gesture request drags under.
func (gs *GameServer) newDriver() uint64 { return gs.drivers.Add(1) }

func NewGameServer(c *catalog.Catalog, logger *slog.Logger) *GameServer {
	return &GameServer{
		catalog: c,
		games:   make(map[string]*game),
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// same policy as the CORS headers
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (gs *GameServer) createGame(puzzleID string) (*game, error) {
	var entry catalog.Entry
	if puzzleID == "" {
		first, ok := gs.catalog.First()
		if !ok {
			return nil, fmt.Errorf("%w: catalog is empty", catalog.ErrNotFound)
		}
		entry = first
	} else {
		e, err := gs.catalog.Get(puzzleID)
		if err != nil {
			return nil, err
		}
		entry = e
	}
	now := time.Now()
	g := &game{
		id:           generateGameID(),
		puzzleID:     entry.ID,
		name:         entry.Name,
		session:      picross.NewSession(entry.Puzzle),
		createdAt:    now,
		lastActivity: now,
	}
	gs.mutex.Lock()
	gs.games[g.id] = g
	gs.mutex.Unlock()
	gs.logger.Info("game created", "game", g.id, "puzzle", entry.ID)
	return g, nil
}

func (gs *GameServer) getGame(gameID string) (*game, bool) {
	gs.mutex.RLock()
	defer gs.mutex.RUnlock()
	g, exists := gs.games[gameID]
	return g, exists
}

// pruneIdle drops games without activity since now-maxIdle.
func (gs *GameServer) pruneIdle(now time.Time, maxIdle time.Duration) int {
	gs.mutex.Lock()
	defer gs.mutex.Unlock()
	n := 0
	for id, g := range gs.games {
		g.mu.Lock()
		idle := now.Sub(g.lastActivity)
		g.mu.Unlock()
		if idle > maxIdle {
			delete(gs.games, id)
			n++
		}
	}
	return n
}

func (gs *GameServer) runJanitor(every, maxIdle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for now := range ticker.C {
		if n := gs.pruneIdle(now, maxIdle); n > 0 {
			gs.logger.Info("dropped idle games", "count", n)
		}
	}
}

func generateGameID() string {
	return "game_" + uuid.NewString()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, picross.ErrSolved), errors.Is(err, errBusy):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, picross.ErrOutOfRange),
		errors.Is(err, picross.ErrUnknownColor),
		errors.Is(err, picross.ErrInvalidColor),
		errors.Is(err, picross.ErrUnknownButton),
		errors.Is(err, picross.ErrNoGesture),
		errors.Is(err, errEmptyPath):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (gs *GameServer) handleListPuzzles(w http.ResponseWriter, r *http.Request) {
	entries := gs.catalog.List()
	resp := gameModel.PuzzleListResponse{Puzzles: make([]gameModel.PuzzleInfo, 0, len(entries))}
	for _, e := range entries {
		resp.Puzzles = append(resp.Puzzles, gameModel.NewPuzzleInfo(e.ID, e.Name, e.Puzzle))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (gs *GameServer) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req gameModel.NewGameRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, gameModel.NewGameResponse{Message: "Invalid request body"})
			return
		}
	}
	g, err := gs.createGame(strings.TrimSpace(req.PuzzleID))
	if err != nil {
		writeJSON(w, statusFor(err), gameModel.NewGameResponse{Message: err.Error()})
		return
	}
	g.mu.Lock()
	st := g.state()
	g.mu.Unlock()
	writeJSON(w, http.StatusOK, gameModel.NewGameResponse{
		Success:   true,
		Message:   "New game created successfully",
		GameState: st,
	})
}

func (gs *GameServer) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, exists := gs.getGame(mux.Vars(r)["gameID"])
	if !exists {
		writeJSON(w, http.StatusNotFound, gameModel.GameResponse{Message: "Game not found"})
		return
	}
	g.mu.Lock()
	st := g.state()
	g.mu.Unlock()
	writeJSON(w, http.StatusOK, st)
}

func (gs *GameServer) handleSelect(w http.ResponseWriter, r *http.Request) {
	g, exists := gs.getGame(mux.Vars(r)["gameID"])
	if !exists {
		writeJSON(w, http.StatusNotFound, gameModel.GameResponse{Message: "Game not found"})
		return
	}
	var req gameModel.SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, gameModel.GameResponse{Message: "Invalid request body"})
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.selectColor(req.Color); err != nil {
		writeJSON(w, statusFor(err), gameModel.GameResponse{Message: err.Error()})
		return
	}
	st := g.state()
	writeJSON(w, http.StatusOK, gameModel.GameResponse{Success: true, Message: "Color selected", GameState: &st})
}

func (gs *GameServer) handleGesture(w http.ResponseWriter, r *http.Request) {
	g, exists := gs.getGame(mux.Vars(r)["gameID"])
	if !exists {
		writeJSON(w, http.StatusNotFound, gameModel.GestureResponse{Message: "Game not found"})
		return
	}
	var req gameModel.GestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, gameModel.GestureResponse{Message: "Invalid request body"})
		return
	}
	b, err := picross.ParseButton(req.Button)
	if err != nil {
		writeJSON(w, statusFor(err), gameModel.GestureResponse{Message: err.Error()})
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	d, solved, err := g.gesture(gs.newDriver(), b, req.Path)
	if err != nil {
		writeJSON(w, statusFor(err), gameModel.GestureResponse{Message: err.Error(), Solved: solved})
		return
	}
	if solved {
		gs.logger.Info("game solved", "game", g.id, "puzzle", g.puzzleID)
	}
	st := g.state()
	writeJSON(w, http.StatusOK, gameModel.GestureResponse{
		Success:   true,
		Message:   "Gesture applied",
		DrawType:  d.String(),
		Solved:    solved,
		GameState: &st,
	})
}

func (gs *GameServer) handleReset(w http.ResponseWriter, r *http.Request) {
	g, exists := gs.getGame(mux.Vars(r)["gameID"])
	if !exists {
		writeJSON(w, http.StatusNotFound, gameModel.GameResponse{Message: "Game not found"})
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.restart(); err != nil {
		writeJSON(w, statusFor(err), gameModel.GameResponse{Message: err.Error()})
		return
	}
	st := g.state()
	writeJSON(w, http.StatusOK, gameModel.GameResponse{Success: true, Message: "Game reset", GameState: &st})
}

func (gs *GameServer) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(withCORS)
	r.Use(func(next http.Handler) http.Handler { return requestLogger(gs.logger, next) })

	r.HandleFunc("/api/puzzles", gs.handleListPuzzles).Methods("GET")
	r.HandleFunc("/api/game/new", gs.handleNewGame).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/game/{gameID}", gs.handleGetGame).Methods("GET")
	r.HandleFunc("/api/game/{gameID}/select", gs.handleSelect).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/game/{gameID}/gesture", gs.handleGesture).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/game/{gameID}/reset", gs.handleReset).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/game/{gameID}/ws", gs.handleStream).Methods("GET")
	return r
}

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// loadCatalog always offers the built-in puzzles, plus those of dir.
func loadCatalog(dir string) (*catalog.Catalog, error) {
	c := catalog.Builtin()
	if dir == "" {
		return c, nil
	}
	if err := c.LoadDir(dir); err != nil {
		return nil, fmt.Errorf("failed to load puzzles: %w", err)
	}
	return c, nil
}

func main() {
	flag.Parse()

	logger := newLogger(*levelStr)
	picross.SetLogger(logger)

	cat, err := loadCatalog(*puzzleDir)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}

	gameServer := NewGameServer(cat, logger)
	go gameServer.runJanitor(time.Minute, *idleTimeout)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           gameServer.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("listening", "addr", *addr, "puzzles", cat.Len())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
