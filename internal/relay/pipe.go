package relay

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/danmuck/verbridge/internal/protocol/frame"
	"github.com/danmuck/verbridge/internal/session"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var errPeerClosed = errors.New("relay: peer closed")

// translateFunc is one direction of a session.
type translateFunc func(raw []byte) ([][]byte, error)

// Pipe relays frames between client and server through s until either side
// closes or ctx ends. Per-packet failures are dropped; the session reports them.
func Pipe(ctx context.Context, s *session.Context, client, server net.Conn, cfg Config) error {
	g, gctx := errgroup.WithContext(ctx)
	stop := context.AfterFunc(gctx, func() {
		_ = client.Close()
		_ = server.Close()
	})
	defer stop()

	g.Go(func() error {
		return pump(s, session.Outbound, client, server, s.TranslateOutbound, cfg)
	})
	g.Go(func() error {
		return pump(s, session.Inbound, server, client, s.TranslateInbound, cfg)
	})

	err := g.Wait()
	if errors.Is(err, errPeerClosed) || ctx.Err() != nil {
		return nil
	}
	return err
}

func pump(s *session.Context, d session.Direction, src, dst net.Conn, translate translateFunc, cfg Config) error {
	r := bufio.NewReader(src)
	w := bufio.NewWriter(dst)
	for {
		if cfg.ReadTimeout > 0 {
			_ = src.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
		}
		raw, err := frame.ReadFrame(r, cfg.Limits)
		if errors.Is(err, io.EOF) {
			if flushed, _ := s.Flush(d); len(flushed) > 0 {
				_ = write(w, dst, flushed, cfg)
			}
			log.Debug().Str("session", s.ID()).Str("direction", string(d)).Msg("relay.pump peer closed")
			return errPeerClosed
		}
		if err != nil {
			return err
		}

		out, err := translate(raw)
		if err != nil {
			if errors.Is(err, session.ErrSessionClosed) {
				return errPeerClosed
			}
			continue
		}
		if err := write(w, dst, out, cfg); err != nil {
			return err
		}
	}
}

func write(w *bufio.Writer, dst net.Conn, packets [][]byte, cfg Config) error {
	if len(packets) == 0 {
		return nil
	}
	if cfg.WriteTimeout > 0 {
		_ = dst.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
	}
	for _, p := range packets {
		if err := frame.WriteFrame(w, p, cfg.Limits); err != nil {
			return err
		}
	}
	return w.Flush()
}
