package rules

import (
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/nstehr/rampart/model"
)

// Mode is the bot's current posture. It lives on the Session, never on the
// engine, so a fresh match always starts from ModeInit.
type Mode string

const (
	ModeInit  Mode = "INIT"
	ModeFarm  Mode = "FARM"
	ModeAccum Mode = "ACCUM"
	ModeRush  Mode = "RUSH"
)

func ParseMode(s string) (Mode, bool) {
	switch m := Mode(s); m {
	case ModeFarm, ModeAccum, ModeRush:
		return m, true
	}
	return "", false
}

// Session is the per-match decision state carried between turns.
// KnownFarms is a hint: the engine's building list is the source of truth
// and Reconcile prunes it every turn.
type Session struct {
	MatchID     uuid.UUID
	Team        model.Team
	Mode        Mode
	RushStarted bool
	KnownFarms  []model.Coord
}

func NewSession(team model.Team) *Session {
	return &Session{
		MatchID: uuid.New(),
		Team:    team,
		Mode:    ModeInit,
	}
}

// RecordFarm remembers a farm the bot asked for.
func (s *Session) RecordFarm(c model.Coord) {
	if !s.IsKnownFarm(c) {
		s.KnownFarms = append(s.KnownFarms, c)
	}
}

func (s *Session) IsKnownFarm(c model.Coord) bool {
	return slices.Contains(s.KnownFarms, c)
}

// Reconcile drops known farms with no live building on their tile. If the
// surviving count is not rushFarms the rush is called off.
func (s *Session) Reconcile(buildings []model.Building, rushFarms int) {
	live := make(map[model.Coord]bool, len(buildings))
	for _, b := range buildings {
		live[b.Pos()] = true
	}

	kept := s.KnownFarms[:0]
	for _, c := range s.KnownFarms {
		if live[c] {
			kept = append(kept, c)
		} else {
			slog.Info("known farm lost", "match", s.MatchID, "at", c)
		}
	}
	s.KnownFarms = kept

	if len(s.KnownFarms) != rushFarms && s.RushStarted {
		slog.Info("rush called off", "match", s.MatchID, "farms", len(s.KnownFarms), "want", rushFarms)
		s.RushStarted = false
	}
}

// setMode records m and reports whether it changed.
func (s *Session) setMode(m Mode) bool {
	if s.Mode == m {
		return false
	}
	slog.Info("mode changed", "match", s.MatchID, "from", s.Mode, "to", m)
	s.Mode = m
	return true
}
