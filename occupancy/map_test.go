package occupancy

import (
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"

	"github.com/nstehr/rampart/model"
)

func castleAt(x, y int) []model.Building {
	return []model.Building{{ID: 1, Type: model.MainCastle, X: x, Y: y}}
}

func TestRingAroundCastle(t *testing.T) {
	m := Build(model.OpenTerrain(10, 10), castleAt(5, 5), nil, Options{})

	var want []model.Coord
	for x := 4; x <= 6; x++ {
		for y := 4; y <= 6; y++ {
			if x != 5 || y != 5 {
				want = append(want, model.Coord{X: x, Y: y})
			}
		}
	}
	if got := m.Pending(); !slices.Equal(got, want) {
		t.Errorf("Pending() = %v, want %v", got, want)
	}
	if m.Total() != 8 {
		t.Errorf("Total() = %d, want 8", m.Total())
	}
	if got := m.At(5, 5); got != Blocked {
		t.Errorf("At(5,5) = %s, want blocked", got)
	}
	if got := m.At(3, 3); got != Free {
		t.Errorf("At(3,3) = %s, want free", got)
	}
}

func TestUnitsCoverRingTiles(t *testing.T) {
	units := []model.Unit{
		{ID: 1, Type: model.Warrior, X: 4, Y: 4},
		{ID: 2, Type: model.Warrior, X: 6, Y: 5},
		{ID: 3, Type: model.Warrior, X: 0, Y: 0},
	}
	m := Build(model.OpenTerrain(10, 10), castleAt(5, 5), units, Options{})

	if m.PendingCount() != 6 {
		t.Errorf("PendingCount() = %d, want 6", m.PendingCount())
	}
	if m.Total() != 8 {
		t.Errorf("Total() = %d, want 8", m.Total())
	}
	// Covered tiles stay on the ring in the grid.
	if got := m.At(4, 4); got != MustOccupy {
		t.Errorf("At(4,4) = %s, want must_occupy", got)
	}
	if m.IsPending(model.Coord{X: 4, Y: 4}) || m.IsPending(model.Coord{X: 6, Y: 5}) {
		t.Error("covered tiles still pending")
	}
}

func TestAdjacentStructuresShareRing(t *testing.T) {
	buildings := []model.Building{
		{ID: 1, Type: model.MainCastle, X: 5, Y: 5},
		{ID: 2, Type: model.Farm1, X: 6, Y: 5},
	}
	m := Build(model.OpenTerrain(10, 10), buildings, nil, Options{})

	// Two adjacent tiles form a 4x3 box with the pair in the middle row.
	if m.Total() != 10 {
		t.Errorf("Total() = %d, want 10", m.Total())
	}
	if m.IsPending(model.Coord{X: 6, Y: 5}) {
		t.Error("structure tile joined the ring")
	}
}

func TestMapCorner(t *testing.T) {
	m := Build(model.OpenTerrain(5, 5), castleAt(0, 0), nil, Options{})
	want := []model.Coord{{X: 0, Y: 1}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	if got := m.Pending(); !slices.Equal(got, want) {
		t.Errorf("Pending() = %v, want %v", got, want)
	}
}

func TestSingleTileMap(t *testing.T) {
	m := Build(model.OpenTerrain(1, 1), castleAt(0, 0), nil, Options{})
	if m.Total() != 0 || m.PendingCount() != 0 {
		t.Errorf("1x1 map ring = %v, want empty", m.Pending())
	}

	empty := Build(model.OpenTerrain(1, 1), nil, nil, Options{})
	if got := empty.At(0, 0); got != Free {
		t.Errorf("At(0,0) = %s, want free", got)
	}
}

func TestOutOfRange(t *testing.T) {
	m := Build(model.OpenTerrain(3, 3), nil, nil, Options{})
	for _, c := range []model.Coord{{X: -1, Y: 0}, {X: 3, Y: 0}, {X: 0, Y: 3}, {X: 0, Y: -1}} {
		if got := m.At(c.X, c.Y); got != OutOfRange {
			t.Errorf("At%s = %s, want out_of_range", c, got)
		}
	}
}

func TestTerrainInducesRing(t *testing.T) {
	terrain := model.OpenTerrain(6, 6)
	terrain.Set(0, 3, model.Water)

	m := Build(terrain, nil, nil, Options{})
	if got := m.At(0, 3); got != Impassable {
		t.Errorf("At(0,3) = %s, want impassable", got)
	}
	want := []model.Coord{{X: 0, Y: 2}, {X: 0, Y: 4}, {X: 1, Y: 2}, {X: 1, Y: 3}, {X: 1, Y: 4}}
	if got := m.Pending(); !slices.Equal(got, want) {
		t.Errorf("Pending() = %v, want %v", got, want)
	}

	only := Build(terrain, nil, nil, Options{StructuresOnly: true})
	if only.Total() != 0 {
		t.Errorf("StructuresOnly ring = %v, want empty", only.Pending())
	}
}

func TestImpassableOverridesStructure(t *testing.T) {
	terrain := model.OpenTerrain(5, 5)
	terrain.Set(2, 2, model.Mountain)
	m := Build(terrain, castleAt(2, 2), nil, Options{StructuresOnly: true})
	if got := m.At(2, 2); got != Impassable {
		t.Errorf("At(2,2) = %s, want impassable", got)
	}
}

func TestClaimNearest(t *testing.T) {
	m := Build(model.OpenTerrain(10, 10), castleAt(5, 5), nil, Options{})

	got, ok := m.ClaimNearest(model.Coord{X: 0, Y: 0})
	if !ok || got != (model.Coord{X: 4, Y: 4}) {
		t.Errorf("ClaimNearest((0,0)) = %s, %v, want (4,4)", got, ok)
	}
	// From (9,5) the three x=6 tiles tie at distance 3; lowest y wins.
	got, _ = m.ClaimNearest(model.Coord{X: 9, Y: 5})
	if got != (model.Coord{X: 6, Y: 4}) {
		t.Errorf("ClaimNearest((9,5)) = %s, want (6,4)", got)
	}
	if m.PendingCount() != 6 {
		t.Errorf("PendingCount() = %d, want 6", m.PendingCount())
	}
	if m.Claim(model.Coord{X: 4, Y: 4}) {
		t.Error("Claim of an already claimed tile succeeded")
	}
	for m.PendingCount() > 0 {
		m.ClaimNearest(model.Coord{})
	}
	if _, ok := m.ClaimNearest(model.Coord{}); ok {
		t.Error("ClaimNearest on empty set reported a tile")
	}
}

func randomSnapshot(r *rand.Rand) (*model.Terrain, []model.Building, []model.Unit) {
	w, h := 1+r.IntN(12), 1+r.IntN(12)
	terrain := model.OpenTerrain(w, h)
	for i := range terrain.Tiles {
		if r.IntN(6) == 0 {
			terrain.Tiles[i] = model.TileKind(r.IntN(4))
		}
	}
	var buildings []model.Building
	for i := range r.IntN(4) {
		buildings = append(buildings, model.Building{ID: i + 1, Type: model.Farm1, X: r.IntN(w), Y: r.IntN(h)})
	}
	var units []model.Unit
	for i := range r.IntN(5) {
		units = append(units, model.Unit{ID: 100 + i, Type: model.Warrior, X: r.IntN(w), Y: r.IntN(h)})
	}
	return terrain, buildings, units
}

func TestRingInvariant(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for iter := 0; iter < 300; iter++ {
		terrain, buildings, units := randomSnapshot(r)
		m := Build(terrain, buildings, units, Options{})

		for _, c := range m.Ring() {
			if c.X < 0 || c.X >= terrain.Width || c.Y < 0 || c.Y >= terrain.Height {
				t.Fatalf("iter %d: ring tile %s out of bounds", iter, c)
			}
			near := false
			for _, d := range model.Directions {
				nx, ny := model.NewLocation(c.X, c.Y, d)
				if m.At(nx, ny).IsBlocked() {
					near = true
				}
			}
			if !near {
				t.Fatalf("iter %d: ring tile %s has no blocked neighbour", iter, c)
			}
			for _, b := range buildings {
				if b.Pos() == c {
					t.Fatalf("iter %d: ring tile %s is a structure", iter, c)
				}
			}
		}

		// Every free tile next to a blocked one must be on the ring.
		for y := 0; y < terrain.Height; y++ {
			for x := 0; x < terrain.Width; x++ {
				if m.At(x, y) != Free {
					continue
				}
				for _, d := range model.Directions {
					nx, ny := model.NewLocation(x, y, d)
					if m.At(nx, ny).IsBlocked() {
						t.Fatalf("iter %d: free tile (%d,%d) touches blocked (%d,%d)", iter, x, y, nx, ny)
					}
				}
			}
		}

		if m.Total() != len(m.Ring()) || m.PendingCount() > m.Total() {
			t.Fatalf("iter %d: total %d, ring %d, pending %d", iter, m.Total(), len(m.Ring()), m.PendingCount())
		}
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 7))
	for iter := 0; iter < 50; iter++ {
		terrain, buildings, units := randomSnapshot(r)
		a := Build(terrain, buildings, units, Options{})
		b := Build(terrain, buildings, units, Options{})
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("iter %d: two builds of the same snapshot differ", iter)
		}
	}
}
