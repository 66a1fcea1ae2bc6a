package ipc

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func compileSchema(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	s, err := jsonschema.Compile(filepath.Join("schemas", name))
	if err != nil {
		t.Fatalf("compile %s: %v", name, err)
	}
	return s
}

// asDocument marshals v and decodes it back into the generic form the validator expects.
func asDocument(t *testing.T, v any) any {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return doc
}

func TestHelloMatchesSchema(t *testing.T) {
	s := compileSchema(t, "hello.schema.json")
	env, _ := NewEnvelope(TypeHello, HelloMessage{
		Team:      "blue",
		MapWidth:  2,
		MapHeight: 2,
		Terrain:   &TerrainData{Width: 2, Height: 2, Grid: []int{0, 1, 2, 3}},
	})
	if err := s.Validate(asDocument(t, env)); err != nil {
		t.Errorf("hello does not validate: %v", err)
	}

	bad, _ := NewEnvelope(TypeHello, HelloMessage{Team: "blue", MapWidth: 0, MapHeight: 2})
	if err := s.Validate(asDocument(t, bad)); err == nil {
		t.Error("hello with zero width should not validate")
	}
}

func TestTurnMatchesSchema(t *testing.T) {
	s := compileSchema(t, "turn.schema.json")
	doc := map[string]any{
		"type": TypeTurn,
		"data": map[string]any{
			"turn":      4,
			"team":      "red",
			"balance":   55,
			"mapWidth":  10,
			"mapHeight": 10,
			"buildings": []any{map[string]any{"id": 1, "type": "main_castle", "x": 5, "y": 5, "hp": 100}},
			"units":     []any{map[string]any{"id": 2, "type": "warrior", "x": 4, "y": 4}},
		},
	}
	if err := s.Validate(asDocument(t, doc)); err != nil {
		t.Errorf("turn does not validate: %v", err)
	}
}

func TestCommandsMatchSchema(t *testing.T) {
	s := compileSchema(t, "commands.schema.json")

	var cmds []Envelope
	for _, c := range []struct {
		typ  string
		data any
	}{
		{TypeBuild, BuildCommand{Building: "farm_1", X: 3, Y: 4}},
		{TypeSpawn, SpawnCommand{Unit: "warrior", BuildingID: 1}},
		{TypeMove, MoveCommand{UnitID: 2, Direction: "down_right"}},
		{TypeAttackUnit, AttackUnitCommand{UnitID: 2, TargetID: 9}},
		{TypeAttackBuilding, AttackBuildingCommand{UnitID: 2, BuildingID: 8}},
	} {
		env, err := NewEnvelope(c.typ, c.data)
		if err != nil {
			t.Fatalf("NewEnvelope(%s): %v", c.typ, err)
		}
		cmds = append(cmds, env)
	}
	msg, _ := NewEnvelope(TypeCommands, CommandsMessage{Turn: 1, Commands: cmds})
	if err := s.Validate(asDocument(t, msg)); err != nil {
		t.Errorf("commands do not validate: %v", err)
	}

	stay, _ := NewEnvelope(TypeMove, MoveCommand{UnitID: 2, Direction: "stay"})
	bad, _ := NewEnvelope(TypeCommands, CommandsMessage{Turn: 1, Commands: []Envelope{stay}})
	if err := s.Validate(asDocument(t, bad)); err == nil {
		t.Error("stay move should not validate")
	}
}
