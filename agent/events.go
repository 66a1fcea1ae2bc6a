package agent

import (
	"fmt"

	"github.com/nstehr/rampart/model"
	"github.com/nstehr/rampart/rules"
)

// EventKind identifies a notable change between two consecutive turns.
type EventKind string

const (
	EventCastleLost         EventKind = "castle_lost"
	EventFarmLost           EventKind = "farm_lost"
	EventGarrisonDepleted   EventKind = "garrison_depleted"
	EventEnemyCastleSpotted EventKind = "enemy_castle_spotted"
	EventFirstContact       EventKind = "first_contact"
	EventModeChanged        EventKind = "mode_changed"
	EventRingBreached       EventKind = "ring_breached"
)

// Event is detected by diffing consecutive turn snapshots. Events are logged
// and written to the turn log next to the decision they preceded.
type Event struct {
	Kind   EventKind
	Turn   int
	Detail string
}

func (e Event) String() string { return fmt.Sprintf("%s: %s", e.Kind, e.Detail) }

// garrisonLossFloor is the minimum number of units lost in one turn before a
// depletion event fires; smaller losses are routine skirmishing.
const garrisonLossFloor = 3

// stateSnapshot captures the diffable fields of one turn.
type stateSnapshot struct {
	buildings       map[int]model.BuildingType
	units           int
	enemyCastleSeen bool
	enemiesSeen     bool
	mode            rules.Mode
	pending         int
}

func takeSnapshot(gs model.GameState, mode rules.Mode, pending int) stateSnapshot {
	snap := stateSnapshot{
		buildings:   make(map[int]model.BuildingType, len(gs.Buildings)),
		units:       len(gs.Units),
		enemiesSeen: len(gs.EnemyUnits) > 0,
		mode:        mode,
		pending:     pending,
	}
	for _, b := range gs.Buildings {
		snap.buildings[b.ID] = b.Type
	}
	for _, b := range gs.EnemyBuildings {
		if b.Type == model.MainCastle {
			snap.enemyCastleSeen = true
			break
		}
	}
	return snap
}

// detectEvents compares the current turn against the previous snapshot.
// Returns nil if prev is nil (first turn).
func detectEvents(gs model.GameState, mode rules.Mode, pending int, prev *stateSnapshot) []Event {
	if prev == nil {
		return nil
	}
	cur := takeSnapshot(gs, mode, pending)
	var events []Event

	for id, typ := range prev.buildings {
		if _, ok := cur.buildings[id]; ok {
			continue
		}
		switch {
		case typ == model.MainCastle:
			events = append(events, Event{Kind: EventCastleLost, Turn: gs.Turn, Detail: fmt.Sprintf("castle %d destroyed", id)})
		case typ.IsFarm():
			events = append(events, Event{Kind: EventFarmLost, Turn: gs.Turn, Detail: fmt.Sprintf("%s %d destroyed", typ, id)})
		}
	}

	if lost := prev.units - cur.units; lost >= garrisonLossFloor && lost*2 >= prev.units {
		events = append(events, Event{
			Kind:   EventGarrisonDepleted,
			Turn:   gs.Turn,
			Detail: fmt.Sprintf("lost %d of %d units", lost, prev.units),
		})
	}

	if cur.enemyCastleSeen && !prev.enemyCastleSeen {
		events = append(events, Event{Kind: EventEnemyCastleSpotted, Turn: gs.Turn, Detail: "enemy castle visible"})
	}
	if cur.enemiesSeen && !prev.enemiesSeen {
		events = append(events, Event{
			Kind:   EventFirstContact,
			Turn:   gs.Turn,
			Detail: fmt.Sprintf("%d enemy units visible", len(gs.EnemyUnits)),
		})
	}

	if prev.mode != cur.mode && prev.mode != "" {
		events = append(events, Event{Kind: EventModeChanged, Turn: gs.Turn, Detail: fmt.Sprintf("%s -> %s", prev.mode, cur.mode)})
	}

	if prev.pending == 0 && cur.pending > 0 {
		events = append(events, Event{Kind: EventRingBreached, Turn: gs.Turn, Detail: fmt.Sprintf("%d ring tiles uncovered", cur.pending)})
	}

	return events
}
