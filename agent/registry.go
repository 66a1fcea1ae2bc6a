package agent

import (
	"slices"
	"strings"
	"sync"
)

// Registry tracks the agents of live connections for the status surface.
type Registry struct {
	mu     sync.RWMutex
	agents map[*Agent]struct{}
}

func NewRegistry() *Registry {
	return &Registry{agents: make(map[*Agent]struct{})}
}

func (r *Registry) Add(a *Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[a] = struct{}{}
}

func (r *Registry) Remove(a *Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.agents, a)
}

// Sessions returns a summary per live agent, ordered by match ID.
func (r *Registry) Sessions() []Summary {
	r.mu.RLock()
	out := make([]Summary, 0, len(r.agents))
	for a := range r.agents {
		out = append(out, a.Summary())
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(x, y Summary) int { return strings.Compare(x.MatchID, y.MatchID) })
	return out
}
