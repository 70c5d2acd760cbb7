package fix

import (
	"sort"

	"github.com/rs/zerolog/log"
)

// Engine is the fix view of one session. The active set is computed once from
// the negotiated version and never re-evaluated.
type Engine struct {
	version string
	active  map[Domain]Unit
}

// NewEngine resolves the active units for ver, minus domains switched off by toggles.
func NewEngine(reg *Registry, ver string, toggles Toggles) (*Engine, error) {
	units, err := reg.ActiveFixes(ver)
	if err != nil {
		return nil, err
	}
	e := &Engine{version: ver, active: make(map[Domain]Unit, len(units))}
	for _, u := range units {
		if !toggles.Enabled(u.Domain) {
			log.Debug().Str("domain", string(u.Domain)).Str("unit", u.Name).Msg("fix.NewEngine toggled off")
			continue
		}
		e.active[u.Domain] = u
	}
	log.Debug().Str("version", ver).Int("active", len(e.active)).Msg("fix.NewEngine")
	return e, nil
}

func (e *Engine) Version() string {
	return e.version
}

// IsActive reports whether a fix of domain applies to this session.
func (e *Engine) IsActive(domain Domain) bool {
	_, ok := e.active[domain.Normalize()]
	return ok
}

// ValueFor returns the active unit of domain.
func (e *Engine) ValueFor(domain Domain) (Unit, bool) {
	u, ok := e.active[domain.Normalize()]
	return u, ok
}

// Active lists the active units sorted by domain.
func (e *Engine) Active() []Unit {
	out := make([]Unit, 0, len(e.active))
	for _, d := range sortedDomains(e.active) {
		out = append(out, e.active[d])
	}
	return out
}

func sortedDomains(m map[Domain]Unit) []Domain {
	out := make([]Domain, 0, len(m))
	for d := range m {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
