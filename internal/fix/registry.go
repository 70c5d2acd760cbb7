package fix

import (
	"fmt"
	"sort"
	"strings"

	"github.com/danmuck/verbridge/internal/version"
	"github.com/rs/zerolog/log"
)

type entry struct {
	unit Unit
	low  int
	high int
}

// Registry holds fix units per domain. Populated at startup, read-only once frozen.
type Registry struct {
	version.Gate
	versions *version.Registry
	byDomain map[Domain][]entry
	count    int
}

func NewRegistry(versions *version.Registry) *Registry {
	return &Registry{
		Gate:     version.Gate{Name: "fix"},
		versions: versions,
		byDomain: make(map[Domain][]entry),
	}
}

// Register adds u to domain for the inclusive range rng. Ranges within one
// domain may not overlap.
func (r *Registry) Register(domain Domain, rng Range, u Unit) error {
	domain = domain.Normalize()
	name := strings.TrimSpace(u.Name)
	if err := r.Check(string(domain) + "/" + name); err != nil {
		return err
	}
	if domain == "" || name == "" {
		return fmt.Errorf("%w: domain and name are required", ErrInvalidUnit)
	}
	span, err := r.versions.Range(rng.Low, rng.High)
	if err != nil {
		return fmt.Errorf("fix %q: %w", name, err)
	}
	lo, hi := span[0].Ordinal, span[len(span)-1].Ordinal
	for _, held := range r.byDomain[domain] {
		if lo <= held.high && held.low <= hi {
			return OverlappingFixRangeError{
				Domain:   domain,
				Unit:     name,
				Range:    rng,
				Existing: held.unit.Name,
				Held:     held.unit.Range,
			}
		}
	}
	u.Name, u.Domain, u.Range = name, domain, rng
	r.byDomain[domain] = append(r.byDomain[domain], entry{unit: u, low: lo, high: hi})
	r.count++
	log.Debug().Str("domain", string(domain)).Str("unit", name).Stringer("range", rng).Msg("fix.Registry.Register")
	return nil
}

// ActiveFixes returns every unit whose range contains ver, sorted by domain.
// At most one unit per domain can match.
func (r *Registry) ActiveFixes(ver string) ([]Unit, error) {
	v, err := r.versions.Resolve(ver)
	if err != nil {
		return nil, err
	}
	out := make([]Unit, 0, len(r.byDomain))
	for _, entries := range r.byDomain {
		for _, e := range entries {
			if e.low <= v.Ordinal && v.Ordinal <= e.high {
				out = append(out, e.unit)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Domain < out[j].Domain
	})
	return out, nil
}

// Domains lists every domain with at least one unit, sorted.
func (r *Registry) Domains() []Domain {
	out := make([]Domain, 0, len(r.byDomain))
	for d := range r.byDomain {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Units lists every unit of domain in registration order.
func (r *Registry) Units(domain Domain) []Unit {
	entries := r.byDomain[domain.Normalize()]
	out := make([]Unit, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.unit)
	}
	return out
}

func (r *Registry) Len() int {
	return r.count
}
