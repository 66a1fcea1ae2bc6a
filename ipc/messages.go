package ipc

// These constants must stay in sync with the engine's message types.
const (
	TypeHello    = "hello"
	TypeAck      = "ack"
	TypeTurn     = "turn"
	TypeCommands = "commands"
	TypeGameOver = "game_over"
)

type HelloMessage struct {
	Team      string       `json:"team"`
	MapWidth  int          `json:"mapWidth"`
	MapHeight int          `json:"mapHeight"`
	Terrain   *TerrainData `json:"terrain,omitempty"`
}

// TerrainData carries the full tile grid, row-major.
// Optional. If absent the sidecar assumes an open map. Width and Height must
// match the hello's map size.
type TerrainData struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Grid   []int `json:"grid"`
}

// CommandsMessage is the reply to a turn: every command the bot issued, in order.
type CommandsMessage struct {
	Turn     int        `json:"turn"`
	Commands []Envelope `json:"commands"`
}

type GameOverMessage struct {
	Winner string `json:"winner"`
	Reason string `json:"reason,omitempty"`
}

type AckMessage struct {
	Status string `json:"status"`
}
