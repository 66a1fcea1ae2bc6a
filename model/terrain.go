package model

import "fmt"

// TileKind classifies a map tile. Terrain never changes during a match.
type TileKind byte

const (
	Grass    TileKind = 0 // passable, buildable
	Water    TileKind = 1 // impassable
	Mountain TileKind = 2 // impassable
	Bridge   TileKind = 3 // passable, not buildable
	Error    TileKind = 4 // out of map
)

func (k TileKind) Passable() bool  { return k == Grass || k == Bridge }
func (k TileKind) Buildable() bool { return k == Grass }

func (k TileKind) String() string {
	switch k {
	case Grass:
		return "grass"
	case Water:
		return "water"
	case Mountain:
		return "mountain"
	case Bridge:
		return "bridge"
	default:
		return "error"
	}
}

// Terrain is the full-resolution tile grid for a match.
type Terrain struct {
	Width  int
	Height int
	Tiles  []TileKind // row-major: Tiles[y*Width + x]
}

// NewTerrain builds a terrain grid from the engine's row-major integer encoding.
// Missing trailing tiles are treated as grass.
func NewTerrain(width, height int, grid []int) *Terrain {
	t := OpenTerrain(width, height)
	for i := 0; i < len(grid) && i < len(t.Tiles); i++ {
		t.Tiles[i] = TileKind(grid[i])
	}
	return t
}

// MaxTiles caps the area of any grid the bot allocates.
const MaxTiles = 1 << 20

// CheckSize rejects empty grids and grids above MaxTiles, including sizes
// whose product would overflow.
func CheckSize(width, height int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("invalid map size %dx%d", width, height)
	}
	if width > MaxTiles/height {
		return fmt.Errorf("map size %dx%d exceeds %d tiles", width, height, MaxTiles)
	}
	return nil
}

// OpenTerrain returns an all-grass grid, used when the engine sends no terrain.
// A size CheckSize rejects yields an empty grid with nothing in bounds.
func OpenTerrain(width, height int) *Terrain {
	if CheckSize(width, height) != nil {
		width, height = 0, 0
	}
	return &Terrain{Width: width, Height: height, Tiles: make([]TileKind, width*height)}
}

func (t *Terrain) InBounds(x, y int) bool {
	return x >= 0 && x < t.Width && y >= 0 && y < t.Height
}

// At returns the tile kind at (x, y). Returns Error for out-of-bounds coordinates.
func (t *Terrain) At(x, y int) TileKind {
	if t == nil || !t.InBounds(x, y) {
		return Error
	}
	return t.Tiles[y*t.Width+x]
}

// Set overwrites one tile; out-of-bounds writes are ignored.
func (t *Terrain) Set(x, y int, k TileKind) {
	if !t.InBounds(x, y) {
		return
	}
	t.Tiles[y*t.Width+x] = k
}

func (t *Terrain) Passable(x, y int) bool  { return t.At(x, y).Passable() }
func (t *Terrain) Buildable(x, y int) bool { return t.At(x, y).Buildable() }
