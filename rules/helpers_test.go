package rules

import (
	"github.com/nstehr/rampart/control"
	"github.com/nstehr/rampart/ipc"
	"github.com/nstehr/rampart/model"
	"github.com/nstehr/rampart/occupancy"
)

func newEnv(gs model.GameState, p Profile, s *Session) (TurnEnv, *control.Turn) {
	p.Validate()
	turn := control.NewTurn(gs, nil, model.DefaultCatalog())
	if s == nil {
		s = NewSession(gs.Team)
	}
	s.Reconcile(turn.Buildings(model.Ally), p.RushFarms)
	return TurnEnv{
		Ctl:     turn,
		Occ:     occupancy.FromController(turn, occupancy.Options{StructuresOnly: p.StructuresOnly}),
		Session: s,
		Profile: p,
	}, turn
}

func baseState() model.GameState {
	return model.GameState{
		Turn:      10,
		Team:      model.TeamBlue,
		Balance:   100,
		MapWidth:  20,
		MapHeight: 20,
		Buildings: []model.Building{{ID: 1, Type: model.MainCastle, X: 3, Y: 3}},
		EnemyBuildings: []model.Building{
			{ID: 50, Type: model.MainCastle, X: 15, Y: 15},
		},
	}
}

func withFarms(gs model.GameState, coords ...model.Coord) model.GameState {
	for i, c := range coords {
		gs.Buildings = append(gs.Buildings, model.Building{ID: 10 + i, Type: model.Farm1, X: c.X, Y: c.Y})
	}
	return gs
}

func issued(turn *control.Turn, msgType string) []ipc.Envelope {
	var out []ipc.Envelope
	for _, env := range turn.Issued() {
		if env.Type == msgType {
			out = append(out, env)
		}
	}
	return out
}
