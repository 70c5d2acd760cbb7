package translate

import (
	"errors"
	"fmt"

	"github.com/danmuck/verbridge/internal/protocol/codec"
	"github.com/rs/zerolog/log"
)

type pendingKey struct {
	link      int
	direction Direction
}

type pendingGroup struct {
	merge   int
	members []codec.Packet
}

// Translator applies one chain for one session. It owns the fan-in buffers and
// must not be shared between sessions or used from concurrent goroutines for
// the same direction.
type Translator struct {
	chain   *Chain
	pending map[pendingKey]pendingGroup
	discard func(error)
}

// Option configures a Translator.
type Option func(*Translator)

// WithDiscardHook receives interrupted fan-in members that could not be
// translated on their own.
func WithDiscardHook(fn func(error)) Option {
	return func(t *Translator) {
		t.discard = fn
	}
}

func NewTranslator(chain *Chain, opts ...Option) *Translator {
	t := &Translator{
		chain:   chain,
		pending: make(map[pendingKey]pendingGroup),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Translator) Chain() *Chain {
	return t.chain
}

// Pending reports how many packets are buffered for fan-in.
func (t *Translator) Pending() int {
	n := 0
	for _, g := range t.pending {
		n += len(g.members)
	}
	return n
}

// Apply threads p through every link in direction d. It is atomic per input
// packet: on error nothing is emitted and the fan-in buffers are left as they
// were before p arrived.
func (t *Translator) Apply(p codec.Packet, d Direction) ([]codec.Packet, error) {
	return t.ApplyAndCommit(p, d, nil)
}

// ApplyAndCommit is Apply with a commit step run on the output before it is
// accepted. A commit error rolls the fan-in buffers back and discards nothing,
// so buffered members released by p stay buffered.
func (t *Translator) ApplyAndCommit(p codec.Packet, d Direction, commit func([]codec.Packet) error) ([]codec.Packet, error) {
	if origin := t.chain.origin(d); p.Version != origin {
		return nil, fmt.Errorf("%w: packet %q is %s, %s chain starts at %s", ErrVersionMismatch, p.Type, p.Version, d, origin)
	}
	snapshot := t.snapshot()
	var discarded []error
	current := []codec.Packet{p}
	for _, hop := range t.chain.route(d) {
		next := make([]codec.Packet, 0, len(current))
		for _, pkt := range current {
			out, dropped, err := t.cross(hop, d, pkt)
			if err != nil {
				t.pending = snapshot
				log.Debug().Err(err).Str("type", p.Type).Stringer("direction", d).Msg("translate.Translator.Apply")
				return nil, err
			}
			discarded = append(discarded, dropped...)
			next = append(next, out...)
		}
		current = next
	}
	if commit != nil {
		if err := commit(current); err != nil {
			t.pending = snapshot
			log.Debug().Err(err).Str("type", p.Type).Stringer("direction", d).Msg("translate.Translator.Apply commit")
			return nil, err
		}
	}
	t.report(discarded)
	return current, nil
}

// Flush drains every buffered fan-in group in direction d and carries the
// results through the rest of the chain. Members that cannot be translated on
// their own are reported in the returned error.
func (t *Translator) Flush(d Direction) ([]codec.Packet, error) {
	var discarded []error
	var carry []codec.Packet
	for _, hop := range t.chain.route(d) {
		next := make([]codec.Packet, 0, len(carry))
		for _, pkt := range carry {
			out, dropped, err := t.cross(hop, d, pkt)
			if err != nil {
				discarded = append(discarded, err)
				continue
			}
			discarded = append(discarded, dropped...)
			next = append(next, out...)
		}
		out, dropped := t.flushGroup(hop, d)
		discarded = append(discarded, dropped...)
		carry = append(next, out...)
	}
	return carry, errors.Join(discarded...)
}

func (t *Translator) report(discarded []error) {
	if t.discard == nil {
		return
	}
	for _, err := range discarded {
		t.discard(err)
	}
}

// cross moves one packet over one hop.
func (t *Translator) cross(hop travel, d Direction, p codec.Packet) ([]codec.Packet, []error, error) {
	k := Key{Direction: p.Direction, Type: p.Type}
	pk := pendingKey{link: hop.index, direction: d}

	if group, ok := t.pending[pk]; ok {
		m := hop.rules.Merges[group.merge]
		if m.Direction == k.Direction && m.Types[len(group.members)] == k.Type {
			members := append(append([]codec.Packet(nil), group.members...), p)
			if len(members) < len(m.Types) {
				t.pending[pk] = pendingGroup{merge: group.merge, members: members}
				return nil, nil, nil
			}
			delete(t.pending, pk)
			out, err := t.merge(hop, m, members)
			return out, nil, err
		}
		// The group was interrupted: emit what was buffered first so wire order holds.
		flushed, dropped := t.flushGroup(hop, d)
		out, moreDropped, err := t.cross(hop, d, p)
		if err != nil {
			return nil, nil, err
		}
		return append(flushed, out...), append(dropped, moreDropped...), nil
	}

	if mi, ok := hop.rules.mergeStartingWith(k); ok {
		m := hop.rules.Merges[mi]
		if len(m.Types) == 1 {
			out, err := t.merge(hop, m, []codec.Packet{p})
			return out, nil, err
		}
		t.pending[pk] = pendingGroup{merge: mi, members: []codec.Packet{p}}
		return nil, nil, nil
	}

	out, err := t.single(hop, p)
	return out, nil, err
}

func (t *Translator) single(hop travel, p codec.Packet) ([]codec.Packet, error) {
	k := Key{Direction: p.Direction, Type: p.Type}
	if rw, ok := hop.rules.Rewrites[k]; ok {
		out, err := rw(p.Clone())
		if err != nil {
			return nil, UntranslatablePacketError{Type: p.Type, Direction: p.Direction, From: hop.from, To: hop.to, Err: err}
		}
		return retag(out, hop.to), nil
	}
	if hop.rules.PassThrough {
		return []codec.Packet{p.Retag(hop.to)}, nil
	}
	return nil, UntranslatablePacketError{Type: p.Type, Direction: p.Direction, From: hop.from, To: hop.to}
}

func (t *Translator) merge(hop travel, m Merge, members []codec.Packet) ([]codec.Packet, error) {
	group := make([]codec.Packet, len(members))
	for i, p := range members {
		group[i] = p.Clone()
	}
	out, err := m.Into(group)
	if err != nil {
		return nil, UntranslatablePacketError{
			Type:      members[len(members)-1].Type,
			Direction: m.Direction,
			From:      hop.from,
			To:        hop.to,
			Err:       err,
		}
	}
	return retag(out, hop.to), nil
}

// flushGroup empties the buffered group of one hop, translating each member on
// its own. Members without a usable rule are dropped and reported.
func (t *Translator) flushGroup(hop travel, d Direction) ([]codec.Packet, []error) {
	pk := pendingKey{link: hop.index, direction: d}
	group, ok := t.pending[pk]
	if !ok {
		return nil, nil
	}
	delete(t.pending, pk)
	var out []codec.Packet
	var lost []string
	var cause error
	for _, p := range group.members {
		translated, err := t.single(hop, p)
		if err != nil {
			lost = append(lost, p.Type)
			if cause == nil {
				cause = err
			}
			continue
		}
		out = append(out, translated...)
	}
	if len(lost) == 0 {
		return out, nil
	}
	return out, []error{IncompleteMergeError{Types: lost, From: hop.from, To: hop.to, Cause: cause}}
}

func (t *Translator) snapshot() map[pendingKey]pendingGroup {
	out := make(map[pendingKey]pendingGroup, len(t.pending))
	for k, g := range t.pending {
		out[k] = pendingGroup{merge: g.merge, members: append([]codec.Packet(nil), g.members...)}
	}
	return out
}

func retag(out []codec.Packet, ver string) []codec.Packet {
	for i := range out {
		out[i].Version = ver
	}
	return out
}
