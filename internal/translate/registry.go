package translate

import (
	"fmt"

	"github.com/danmuck/verbridge/internal/version"
	"github.com/rs/zerolog/log"
)

// Registry holds every registered hop, keyed by its adjacent version pair.
type Registry struct {
	version.Gate
	versions *version.Registry
	steps    map[stepKey]Step
}

func NewRegistry(versions *version.Registry) *Registry {
	return &Registry{
		Gate:     version.Gate{Name: "translate"},
		versions: versions,
		steps:    make(map[stepKey]Step),
	}
}

// RegisterStep adds a hop between two adjacent registered versions.
func (r *Registry) RegisterStep(s Step) error {
	k := s.key()
	if err := r.Check(k.lower + "->" + k.upper); err != nil {
		return err
	}
	lower, err := r.versions.Resolve(k.lower)
	if err != nil {
		return err
	}
	upper, err := r.versions.Resolve(k.upper)
	if err != nil {
		return err
	}
	if upper.Ordinal-lower.Ordinal != 1 {
		return fmt.Errorf("%w: %s(%d) -> %s(%d)", ErrNotAdjacent, lower.ID, lower.Ordinal, upper.ID, upper.Ordinal)
	}
	if _, ok := r.steps[k]; ok {
		return fmt.Errorf("%w: %s -> %s", ErrDuplicateStep, lower.ID, upper.ID)
	}
	if err := s.Up.validate(); err != nil {
		return fmt.Errorf("step %s -> %s up: %w", lower.ID, upper.ID, err)
	}
	if err := s.Down.validate(); err != nil {
		return fmt.Errorf("step %s -> %s down: %w", lower.ID, upper.ID, err)
	}
	s.Lower, s.Upper = k.lower, k.upper
	r.steps[k] = s
	log.Debug().Str("lower", k.lower).Str("upper", k.upper).Msg("translate.Registry.RegisterStep")
	return nil
}

// Step returns the hop joining two adjacent versions, in either order.
func (r *Registry) Step(a, b string) (Step, bool) {
	if s, ok := r.steps[stepKey{lower: a, upper: b}]; ok {
		return s, true
	}
	s, ok := r.steps[stepKey{lower: b, upper: a}]
	return s, ok
}

// Build composes the chain translating native packets into target packets.
func (r *Registry) Build(native, target string) (*Chain, error) {
	path, err := r.versions.Walk(native, target)
	if err != nil {
		return nil, err
	}
	chain := &Chain{
		native: path[0],
		target: path[len(path)-1],
		links:  make([]Link, 0, len(path)-1),
	}
	for i := 0; i+1 < len(path); i++ {
		from, to := path[i], path[i+1]
		if from.Distance(to) != 1 {
			return nil, NoTransformPathError{
				Native: native,
				Target: target,
				From:   from.ID,
				To:     to.ID,
				Reason: "ordinal gap",
			}
		}
		var step Step
		var ok bool
		if from.OlderThan(to) {
			step, ok = r.steps[stepKey{lower: from.ID, upper: to.ID}]
		} else {
			step, ok = r.steps[stepKey{lower: to.ID, upper: from.ID}]
		}
		if !ok {
			return nil, NoTransformPathError{
				Native: native,
				Target: target,
				From:   from.ID,
				To:     to.ID,
				Reason: "no step registered",
			}
		}
		link := Link{From: from, To: to, forward: step.Up, reverse: step.Down}
		if from.NewerThan(to) {
			link.forward, link.reverse = step.Down, step.Up
		}
		chain.links = append(chain.links, link)
	}
	log.Debug().
		Str("native", native).
		Str("target", target).
		Int("links", len(chain.links)).
		Msg("translate.Registry.Build")
	return chain, nil
}
