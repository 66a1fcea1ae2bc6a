package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nstehr/rampart/control"
	"github.com/nstehr/rampart/ipc"
	"github.com/nstehr/rampart/model"
	"github.com/nstehr/rampart/occupancy"
	"github.com/nstehr/rampart/rules"
	"github.com/nstehr/rampart/store"
	"github.com/nstehr/rampart/turnlog"
)

const recordTimeout = 2 * time.Second

// Recorder persists match and turn summaries. *store.Store satisfies it.
type Recorder interface {
	StartMatch(ctx context.Context, m store.Match) error
	RecordTurn(ctx context.Context, r store.TurnRecord) error
	EndMatch(ctx context.Context, id, winner, reason string, at time.Time) error
}

// TurnLogger writes the full command list of every turn. *turnlog.Writer satisfies it.
type TurnLogger interface {
	Write(e turnlog.Entry) error
	CloseMatch(matchID string) error
}

type Options struct {
	Profile  rules.Profile
	Catalog  model.Catalog
	Recorder Recorder   // optional
	TurnLog  TurnLogger // optional
}

// Agent owns the decision-making for a single match.
type Agent struct {
	Conn   *ipc.Connection
	Engine *rules.Engine
	opts   Options

	mu      sync.Mutex
	session *rules.Session
	terrain *model.Terrain
	prev    *stateSnapshot
	summary Summary
}

// Outcome is everything one turn produced.
type Outcome struct {
	Turn      int
	Decision  rules.Decision
	RingTotal int
	Pending   int
	Events    []Event
	Commands  []ipc.Envelope
}

// Summary is the agent's public view for the status surface.
type Summary struct {
	MatchID     string `json:"matchId"`
	Team        string `json:"team"`
	Profile     string `json:"profile"`
	Mode        string `json:"mode"`
	Rule        string `json:"rule,omitempty"`
	Turn        int    `json:"turn"`
	Balance     int    `json:"balance"`
	RingTotal   int    `json:"ringTotal"`
	Pending     int    `json:"pending"`
	KnownFarms  int    `json:"knownFarms"`
	RushStarted bool   `json:"rushStarted"`
	Finished    bool   `json:"finished"`
	Winner      string `json:"winner,omitempty"`
}

func New(conn *ipc.Connection, engine *rules.Engine, opts Options) *Agent {
	opts.Profile.Validate()
	if opts.Catalog.Units == nil && opts.Catalog.Buildings == nil {
		opts.Catalog = model.DefaultCatalog()
	}
	return &Agent{Conn: conn, Engine: engine, opts: opts}
}

// HandleHello starts a match session so the engine knows the sidecar is ready.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := env.Decode(&hello); err != nil {
		return nil, err
	}
	if err := model.CheckSize(hello.MapWidth, hello.MapHeight); err != nil {
		return nil, fmt.Errorf("hello: %w", err)
	}
	if t := hello.Terrain; t != nil && (t.Width != hello.MapWidth || t.Height != hello.MapHeight) {
		return nil, fmt.Errorf("hello: terrain is %dx%d but map is %dx%d", t.Width, t.Height, hello.MapWidth, hello.MapHeight)
	}

	a.mu.Lock()
	a.session = rules.NewSession(model.Team(hello.Team))
	if hello.Terrain != nil {
		a.terrain = model.NewTerrain(hello.MapWidth, hello.MapHeight, hello.Terrain.Grid)
	} else {
		a.terrain = model.OpenTerrain(hello.MapWidth, hello.MapHeight)
	}
	a.prev = nil
	a.summary = Summary{
		MatchID: a.session.MatchID.String(),
		Team:    hello.Team,
		Profile: a.opts.Profile.Name,
		Mode:    string(a.session.Mode),
	}
	matchID := a.summary.MatchID
	a.mu.Unlock()

	if a.Conn != nil {
		a.Conn.Team = hello.Team
	}
	slog.Info("match started",
		"match", matchID,
		"team", hello.Team,
		"map", fmt.Sprintf("%dx%d", hello.MapWidth, hello.MapHeight),
		"terrain", hello.Terrain != nil,
		"profile", a.opts.Profile.Name,
	)

	if a.opts.Recorder != nil {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		err := a.opts.Recorder.StartMatch(ctx, store.Match{
			ID:        matchID,
			Team:      hello.Team,
			Profile:   a.opts.Profile.Name,
			MapWidth:  hello.MapWidth,
			MapHeight: hello.MapHeight,
			StartedAt: time.Now().UTC(),
		})
		if err != nil {
			slog.Error("failed to record match start", "match", matchID, "error", err)
		}
	}

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok"})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// HandleTurn decides one turn and replies with the issued commands.
func (a *Agent) HandleTurn(env ipc.Envelope) (*ipc.Envelope, error) {
	var gs model.GameState
	if err := env.Decode(&gs); err != nil {
		return nil, err
	}

	out, err := a.Decide(gs)
	if err != nil {
		return nil, err
	}
	cmds := out.Commands
	if cmds == nil {
		cmds = []ipc.Envelope{}
	}
	reply, err := ipc.NewEnvelope(ipc.TypeCommands, ipc.CommandsMessage{Turn: out.Turn, Commands: cmds})
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// HandleGameOver closes the match records. The engine expects no reply.
func (a *Agent) HandleGameOver(env ipc.Envelope) (*ipc.Envelope, error) {
	var over ipc.GameOverMessage
	if err := env.Decode(&over); err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.summary.Finished = true
	a.summary.Winner = over.Winner
	matchID := a.summary.MatchID
	a.mu.Unlock()

	slog.Info("match over", "match", matchID, "winner", over.Winner, "reason", over.Reason)
	if matchID == "" {
		return nil, nil
	}

	if a.opts.Recorder != nil {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := a.opts.Recorder.EndMatch(ctx, matchID, over.Winner, over.Reason, time.Now().UTC()); err != nil {
			slog.Error("failed to record match end", "match", matchID, "error", err)
		}
	}
	if a.opts.TurnLog != nil {
		if err := a.opts.TurnLog.CloseMatch(matchID); err != nil {
			slog.Error("failed to close turn log", "match", matchID, "error", err)
		}
	}
	return nil, nil
}

// Decide runs one turn: mirror the state, rebuild the ring, fire the rules.
// A turn that arrives before hello gets an implicit session on an open map.
func (a *Agent) Decide(gs model.GameState) (Outcome, error) {
	if err := model.CheckSize(gs.MapWidth, gs.MapHeight); err != nil {
		return Outcome{}, fmt.Errorf("turn %d: %w", gs.Turn, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session == nil {
		a.session = rules.NewSession(gs.Team)
		a.summary = Summary{
			MatchID: a.session.MatchID.String(),
			Team:    string(gs.Team),
			Profile: a.opts.Profile.Name,
		}
		slog.Warn("turn before hello, starting implicit session", "match", a.summary.MatchID, "turn", gs.Turn)
	}
	if a.terrain == nil || a.terrain.Width != gs.MapWidth || a.terrain.Height != gs.MapHeight {
		a.terrain = model.OpenTerrain(gs.MapWidth, gs.MapHeight)
	}

	p := a.opts.Profile
	ctl := control.NewTurn(gs, a.terrain, a.opts.Catalog)
	a.session.Reconcile(ctl.Buildings(model.Ally), p.RushFarms)
	occ := occupancy.FromController(ctl, occupancy.Options{StructuresOnly: p.StructuresOnly})
	total, pending := occ.Total(), occ.PendingCount()

	decision := a.Engine.Evaluate(rules.TurnEnv{Ctl: ctl, Occ: occ, Session: a.session, Profile: p})

	events := detectEvents(gs, a.session.Mode, pending, a.prev)
	snap := takeSnapshot(gs, a.session.Mode, pending)
	a.prev = &snap
	for _, e := range events {
		slog.Info("event", "match", a.summary.MatchID, "kind", e.Kind, "turn", e.Turn, "detail", e.Detail)
	}

	out := Outcome{
		Turn:      gs.Turn,
		Decision:  decision,
		RingTotal: total,
		Pending:   pending,
		Events:    events,
		Commands:  ctl.Issued(),
	}

	slog.Info("turn decided",
		"match", a.summary.MatchID,
		"turn", gs.Turn,
		"balance", gs.Balance,
		"mode", decision.Mode,
		"rule", decision.Rule,
		"ring", total,
		"pending", pending,
		"units", len(gs.Units),
		"enemies", len(gs.EnemyUnits),
		"commands", len(out.Commands),
	)

	a.summary.Mode = string(a.session.Mode)
	a.summary.Rule = decision.Rule
	a.summary.Turn = gs.Turn
	a.summary.Balance = gs.Balance
	a.summary.RingTotal = total
	a.summary.Pending = pending
	a.summary.KnownFarms = len(a.session.KnownFarms)
	a.summary.RushStarted = a.session.RushStarted

	a.record(gs, out)
	return out, nil
}

func (a *Agent) record(gs model.GameState, out Outcome) {
	matchID := a.summary.MatchID
	if a.opts.Recorder != nil {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		err := a.opts.Recorder.RecordTurn(ctx, store.TurnRecord{
			MatchID:   matchID,
			Turn:      out.Turn,
			Mode:      string(out.Decision.Mode),
			Rule:      out.Decision.Rule,
			Balance:   gs.Balance,
			RingTotal: out.RingTotal,
			Pending:   out.Pending,
			Commands:  len(out.Commands),
		})
		if err != nil {
			slog.Error("failed to record turn", "match", matchID, "turn", out.Turn, "error", err)
		}
	}
	if a.opts.TurnLog != nil {
		var events []string
		for _, e := range out.Events {
			events = append(events, e.String())
		}
		err := a.opts.TurnLog.Write(turnlog.Entry{
			MatchID:   matchID,
			Team:      string(gs.Team),
			Turn:      out.Turn,
			Mode:      string(out.Decision.Mode),
			Rule:      out.Decision.Rule,
			Balance:   gs.Balance,
			RingTotal: out.RingTotal,
			Pending:   out.Pending,
			Events:    events,
			Commands:  out.Commands,
		})
		if err != nil {
			slog.Error("failed to write turn log", "match", matchID, "turn", out.Turn, "error", err)
		}
	}
}

// Summary returns a copy of the agent's current match view.
func (a *Agent) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.summary
}
