package gameModel

type Clue struct {
	Color string `json:"color"`
	Count int    `json:"count"`
}

type Cell struct {
	State string `json:"state"`
	Color string `json:"color,omitempty"`
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type PuzzleInfo struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Colors []string `json:"colors"`
}

type GameState struct {
	ID           string   `json:"id"`
	PuzzleID     string   `json:"puzzleId"`
	Name         string   `json:"name"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	RowClues     [][]Clue `json:"rowClues"`
	ColClues     [][]Clue `json:"colClues"`
	Palette      []string `json:"palette"`
	Selected     string   `json:"selected,omitempty"`
	Background   string   `json:"background"`
	Cells        [][]Cell `json:"cells"`
	Solved       bool     `json:"solved"`
	CreatedAt    string   `json:"createdAt"`
	LastActivity string   `json:"lastActivity"`
}

type PuzzleListResponse struct {
	Puzzles []PuzzleInfo `json:"puzzles"`
}

type NewGameRequest struct {
	PuzzleID string `json:"puzzleId"`
}

type NewGameResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	GameState GameState `json:"gameState"`
}

type SelectRequest struct {
	Color string `json:"color"`
}

// GameResponse answers requests that change a game without a gesture.
type GameResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	GameState *GameState `json:"gameState,omitempty"`
}

// GestureRequest is one whole drag: begin on Path[0], move through the
// rest, then release.
type GestureRequest struct {
	Button string  `json:"button"`
	Path   []Point `json:"path"`
}

type GestureResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	DrawType  string     `json:"drawType,omitempty"`
	Solved    bool       `json:"solved"`
	GameState *GameState `json:"gameState,omitempty"`
}

// Stream message types.
const (
	MsgDown   = "down"
	MsgMove   = "move"
	MsgUp     = "up"
	MsgSelect = "select"
	MsgState  = "state"
	MsgError  = "error"
)

// StreamMessage travels both ways over the game WebSocket.
type StreamMessage struct {
	Type      string     `json:"type"`
	Button    string     `json:"button,omitempty"`
	X         int        `json:"x"`
	Y         int        `json:"y"`
	Color     string     `json:"color,omitempty"`
	DrawType  string     `json:"drawType,omitempty"`
	Solved    bool       `json:"solved,omitempty"`
	Message   string     `json:"message,omitempty"`
	GameState *GameState `json:"gameState,omitempty"`
}
