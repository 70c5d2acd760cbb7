package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/danmuck/verbridge/internal/session"
	"github.com/rs/zerolog/log"
)

// Sessions opens and closes translation sessions.
type Sessions interface {
	OpenSessionForServer(native, address string) (*session.Context, error)
	CloseSession(s *session.Context) error
}

// Server accepts native clients and relays each to Upstream.
type Server struct {
	Native   string
	Upstream string
	Sessions Sessions
	Config   Config
	// Dial defaults to net.Dialer.DialContext.
	Dial func(ctx context.Context, network, addr string) (net.Conn, error)

	wg sync.WaitGroup
}

// Serve accepts until ctx ends, then waits for open connections.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()
	defer s.wg.Wait()

	log.Info().Str("addr", ln.Addr().String()).Str("upstream", s.Upstream).Str("native", s.Native).Msg("relay.Serve")
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("relay: accept: %w", err)
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(ctx, conn)
		}()
	}
}

func (s *Server) handle(ctx context.Context, client net.Conn) {
	defer client.Close()
	logger := log.With().Str("client", client.RemoteAddr().String()).Logger()

	sess, err := s.Sessions.OpenSessionForServer(s.Native, s.Upstream)
	if err != nil {
		logger.Warn().Err(err).Msg("relay.handle open session")
		return
	}
	defer func() {
		if err := s.Sessions.CloseSession(sess); err != nil {
			logger.Debug().Err(err).Str("session", sess.ID()).Msg("relay.handle close session")
		}
	}()

	upstream, err := s.dialUpstream(ctx)
	if err != nil {
		logger.Warn().Err(err).Str("session", sess.ID()).Msg("relay.handle dial upstream")
		return
	}
	defer upstream.Close()

	logger.Info().Str("session", sess.ID()).Str("target", sess.Target()).Msg("relay.handle piping")
	if err := Pipe(ctx, sess, client, upstream, s.Config); err != nil {
		logger.Warn().Err(err).Str("session", sess.ID()).Msg("relay.handle pipe")
	}
}

func (s *Server) dialUpstream(ctx context.Context) (net.Conn, error) {
	dial := s.Dial
	if dial == nil {
		d := &net.Dialer{Timeout: s.Config.DialTimeout}
		dial = d.DialContext
	}
	retry := NewRetry(s.Config)
	for attempt := 1; ; attempt++ {
		conn, err := dial(ctx, "tcp", s.Upstream)
		if err == nil {
			return conn, nil
		}
		waitErr := retry.Wait(ctx, attempt)
		if errors.Is(waitErr, errAttemptsExhausted) {
			return nil, fmt.Errorf("relay: dial %s after %d attempts: %w", s.Upstream, attempt, err)
		}
		if waitErr != nil {
			return nil, waitErr
		}
		log.Debug().Err(err).Int("attempt", attempt).Msg("relay.dialUpstream retry")
	}
}
