package version

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Registry stores versions by id and ordinal. Append-only.
type Registry struct {
	Gate
	byID      map[string]Version
	byOrdinal map[int]Version
	ordered   []Version
}

func NewRegistry() *Registry {
	return &Registry{
		Gate:      Gate{Name: "version"},
		byID:      make(map[string]Version),
		byOrdinal: make(map[int]Version),
	}
}

// Register adds v. Ordinals and ids are unique.
func (r *Registry) Register(v Version) error {
	v.ID = strings.TrimSpace(v.ID)
	if err := r.Check(v.ID); err != nil {
		return err
	}
	if v.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidVersion)
	}
	if v.Ordinal < 0 {
		return fmt.Errorf("%w: negative ordinal %d for %q", ErrInvalidVersion, v.Ordinal, v.ID)
	}
	if held, ok := r.byOrdinal[v.Ordinal]; ok {
		return DuplicateVersionError{ID: v.ID, Ordinal: v.Ordinal, Existing: held.ID}
	}
	if held, ok := r.byID[v.ID]; ok {
		return DuplicateVersionError{ID: v.ID, Ordinal: v.Ordinal, Existing: held.ID}
	}
	r.byID[v.ID] = v
	r.byOrdinal[v.Ordinal] = v
	r.ordered = append(r.ordered, v)
	sort.Slice(r.ordered, func(i, j int) bool {
		return r.ordered[i].Ordinal < r.ordered[j].Ordinal
	})
	log.Debug().Str("id", v.ID).Int("ordinal", v.Ordinal).Msg("version.Registry.Register")
	return nil
}

// Lookup returns the version registered under id.
func (r *Registry) Lookup(id string) (Version, bool) {
	v, ok := r.byID[strings.TrimSpace(id)]
	return v, ok
}

// Resolve is Lookup that reports an unknown id as an error.
func (r *Registry) Resolve(id string) (Version, error) {
	v, ok := r.Lookup(id)
	if !ok {
		return Version{}, fmt.Errorf("%w: %q", ErrUnknownVersion, id)
	}
	return v, nil
}

func (r *Registry) OrdinalOf(id string) (int, error) {
	v, err := r.Resolve(id)
	if err != nil {
		return 0, err
	}
	return v.Ordinal, nil
}

// All returns every version in ordinal order.
func (r *Registry) All() []Version {
	out := make([]Version, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Range returns the registered versions between low and high inclusive, oldest first.
func (r *Registry) Range(low, high string) ([]Version, error) {
	lo, err := r.Resolve(low)
	if err != nil {
		return nil, err
	}
	hi, err := r.Resolve(high)
	if err != nil {
		return nil, err
	}
	if lo.Ordinal > hi.Ordinal {
		return nil, InvalidRangeError{Low: lo.ID, High: hi.ID}
	}
	out := make([]Version, 0, hi.Ordinal-lo.Ordinal+1)
	for _, v := range r.ordered {
		if v.Ordinal >= lo.Ordinal && v.Ordinal <= hi.Ordinal {
			out = append(out, v)
		}
	}
	return out, nil
}

// Walk returns the versions visited going from -> to, both endpoints included,
// in travel order.
func (r *Registry) Walk(from, to string) ([]Version, error) {
	a, err := r.Resolve(from)
	if err != nil {
		return nil, err
	}
	b, err := r.Resolve(to)
	if err != nil {
		return nil, err
	}
	if a.Ordinal <= b.Ordinal {
		return r.Range(a.ID, b.ID)
	}
	path, err := r.Range(b.ID, a.ID)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// Adjacent reports whether a and b are exactly one ordinal apart.
func (r *Registry) Adjacent(a, b string) bool {
	va, okA := r.Lookup(a)
	vb, okB := r.Lookup(b)
	return okA && okB && va.Distance(vb) == 1
}
