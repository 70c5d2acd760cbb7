package session

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/danmuck/verbridge/internal/fix"
	"github.com/danmuck/verbridge/internal/observability"
	"github.com/danmuck/verbridge/internal/protocol/codec"
	"github.com/danmuck/verbridge/internal/protocol/schema"
	"github.com/danmuck/verbridge/internal/translate"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Direction is a session-level travel direction.
type Direction string

const (
	// Inbound packets come from the server (target) and go to the client (native).
	Inbound Direction = "inbound"
	// Outbound packets come from the client (native) and go to the server (target).
	Outbound Direction = "outbound"
)

// Options configures a new Context.
type Options struct {
	ID       string
	Notifier Notifier
	Now      func() time.Time
}

// Context is the translation state of one connection.
type Context struct {
	id       string
	native   string
	target   string
	openedAt time.Time

	codec    *codec.Codec
	chain    *translate.Chain
	outbound *translate.Translator
	inbound  *translate.Translator
	fixes    *fix.Engine

	notifier Notifier
	now      func() time.Time
	logger   zerolog.Logger

	closed     atomic.Bool
	inPackets  atomic.Uint64
	outPackets atomic.Uint64
	dropped    atomic.Uint64
}

// New binds a built chain, the codec and the resolved fix engine into a session.
func New(chain *translate.Chain, c *codec.Codec, fixes *fix.Engine, opts Options) (*Context, error) {
	if chain == nil || c == nil || fixes == nil {
		return nil, ErrMissingResource
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Notifier == nil {
		opts.Notifier = discardNotifier{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Context{
		id:       opts.ID,
		native:   chain.Native().ID,
		target:   chain.Target().ID,
		codec:    c,
		chain:    chain,
		fixes:    fixes,
		notifier: opts.Notifier,
		now:      opts.Now,
	}
	s.openedAt = s.now()
	s.logger = observability.SessionLogger(s.id, s.native, s.target)
	s.outbound = translate.NewTranslator(chain, translate.WithDiscardHook(func(err error) {
		s.report(Outbound, discardedType(err), s.native, s.target, err)
	}))
	s.inbound = translate.NewTranslator(chain, translate.WithDiscardHook(func(err error) {
		s.report(Inbound, discardedType(err), s.target, s.native, err)
	}))
	observability.SessionOpened()
	s.logger.Info().Strs("hops", chain.Hops()).Msg("session.New")
	return s, nil
}

func (s *Context) ID() string { return s.id }

func (s *Context) Native() string { return s.native }

func (s *Context) Target() string { return s.target }

func (s *Context) Chain() *translate.Chain { return s.chain }

func (s *Context) Fixes() *fix.Engine { return s.fixes }

// IsFixActive is the gameplay-facing fix query.
func (s *Context) IsFixActive(domain fix.Domain) bool {
	return s.fixes.IsActive(domain)
}

// TranslateOutbound rewrites one client packet into zero or more server packets.
func (s *Context) TranslateOutbound(raw []byte) ([][]byte, error) {
	return s.translate(Outbound, raw)
}

// TranslateInbound rewrites one server packet into zero or more client packets.
func (s *Context) TranslateInbound(raw []byte) ([][]byte, error) {
	return s.translate(Inbound, raw)
}

func (s *Context) leg(d Direction) (from, to string, dir schema.Direction, td translate.Direction, tr *translate.Translator) {
	if d == Inbound {
		return s.target, s.native, schema.Clientbound, translate.Reverse, s.inbound
	}
	return s.native, s.target, schema.Serverbound, translate.Forward, s.outbound
}

func (s *Context) translate(d Direction, raw []byte) ([][]byte, error) {
	from, to, wireDir, td, tr := s.leg(d)
	if s.closed.Load() {
		return nil, PacketError{Direction: d, Type: "?", Source: from, Target: to, Err: ErrSessionClosed}
	}
	start := s.now()

	pkt, err := s.codec.Decode(from, wireDir, raw)
	if err != nil {
		return nil, s.report(d, packetLabel(raw, err), from, to, err)
	}
	var out [][]byte
	_, err = tr.ApplyAndCommit(pkt, td, func(translated []codec.Packet) error {
		var encErr error
		out, encErr = s.encodeAll(translated, to)
		return encErr
	})
	if err != nil {
		return nil, s.report(d, pkt.Type, from, to, err)
	}

	if d == Inbound {
		s.inPackets.Add(1)
	} else {
		s.outPackets.Add(1)
	}
	observability.RecordPacket(string(d), s.target, len(out), s.now().Sub(start))
	return out, nil
}

func (s *Context) encodeAll(pkts []codec.Packet, ver string) ([][]byte, error) {
	out := make([][]byte, 0, len(pkts))
	for _, p := range pkts {
		b, err := s.codec.Encode(p, ver)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// Flush drains buffered fan-in groups of direction d, returning encoded packets
// that are still deliverable. Undeliverable members are reported.
func (s *Context) Flush(d Direction) ([][]byte, error) {
	from, to, _, td, tr := s.leg(d)
	pkts, err := tr.Flush(td)
	var errs []error
	for _, discarded := range unjoin(err) {
		errs = append(errs, s.report(d, discardedType(discarded), from, to, discarded))
	}
	out := make([][]byte, 0, len(pkts))
	for _, p := range pkts {
		b, encErr := s.codec.Encode(p, to)
		if encErr != nil {
			errs = append(errs, s.report(d, p.Type, from, to, encErr))
			continue
		}
		out = append(out, b)
	}
	return out, errors.Join(errs...)
}

// discardedType names the packets a translator dropped outside Apply.
func discardedType(err error) string {
	var incomplete translate.IncompleteMergeError
	if errors.As(err, &incomplete) {
		return strings.Join(incomplete.Types, ",")
	}
	var untranslatable translate.UntranslatablePacketError
	if errors.As(err, &untranslatable) {
		return untranslatable.Type
	}
	return ""
}

func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// Close ends the session. Packets still buffered for fan-in are reported as
// discarded; call Flush first to deliver them.
func (s *Context) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	observability.SessionClosed()
	var errs []error
	for _, d := range []Direction{Outbound, Inbound} {
		from, to, _, _, tr := s.leg(d)
		if n := tr.Pending(); n > 0 {
			errs = append(errs, s.report(d, "", from, to, fmt.Errorf("%w: %d", ErrPendingOnClose, n)))
		}
	}
	s.logger.Info().
		Uint64("inbound", s.inPackets.Load()).
		Uint64("outbound", s.outPackets.Load()).
		Uint64("dropped", s.dropped.Load()).
		Msg("session.Close")
	return errors.Join(errs...)
}

func (s *Context) Closed() bool {
	return s.closed.Load()
}

// report wraps err as a PacketError, counts it and notifies the owner.
func (s *Context) report(d Direction, typ, from, to string, err error) error {
	var pe PacketError
	if !errors.As(err, &pe) {
		pe = PacketError{Direction: d, Type: typ, Source: from, Target: to, Err: err}
	}
	if pe.Type == "" {
		pe.Type = "?"
	}
	kind := Kind(err)
	s.dropped.Add(1)
	observability.RecordDrop(string(d), s.target, kind)
	s.logger.Warn().Err(err).Str("direction", string(d)).Str("kind", kind).Str("type", pe.Type).Msg("session.report")
	s.notifier.Notify(Notice{
		SessionID: s.id,
		Direction: string(d),
		Kind:      kind,
		Type:      pe.Type,
		Source:    pe.Source,
		Target:    pe.Target,
		Message:   pe.Error(),
		At:        s.now(),
	})
	return pe
}

func packetLabel(raw []byte, err error) string {
	var unknown codec.UnknownPacketTypeError
	if errors.As(err, &unknown) {
		return fmt.Sprintf("0x%02x", unknown.PacketID)
	}
	var malformed codec.MalformedPacketError
	if errors.As(err, &malformed) && malformed.Type != "" {
		return malformed.Type
	}
	if id, idErr := codec.PeekID(raw); idErr == nil {
		return fmt.Sprintf("0x%02x", id)
	}
	return "?"
}

// Info is a point-in-time view of a session for operators.
type Info struct {
	ID       string    `json:"id"`
	Native   string    `json:"native"`
	Target   string    `json:"target"`
	Hops     []string  `json:"hops"`
	Fixes    []string  `json:"fixes"`
	OpenedAt time.Time `json:"opened_at"`
	Inbound  uint64    `json:"inbound"`
	Outbound uint64    `json:"outbound"`
	Dropped  uint64    `json:"dropped"`
	Closed   bool      `json:"closed"`
}

func (s *Context) Info() Info {
	active := s.fixes.Active()
	fixes := make([]string, 0, len(active))
	for _, u := range active {
		fixes = append(fixes, string(u.Domain)+":"+u.Name)
	}
	return Info{
		ID:       s.id,
		Native:   s.native,
		Target:   s.target,
		Hops:     s.chain.Hops(),
		Fixes:    fixes,
		OpenedAt: s.openedAt,
		Inbound:  s.inPackets.Load(),
		Outbound: s.outPackets.Load(),
		Dropped:  s.dropped.Load(),
		Closed:   s.closed.Load(),
	}
}
