package admin

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/danmuck/verbridge/internal/session"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 5 * time.Second
	subscriberSend = 64
	// DefaultRecent is how many notices the hub keeps for late readers.
	DefaultRecent = 256
)

type subscriber struct {
	id   uint64
	conn *websocket.Conn
	send chan []byte
}

// NoticeHub fans session notices out to websocket subscribers and keeps the
// most recent ones. Notify never blocks on a slow subscriber.
type NoticeHub struct {
	mu          sync.Mutex
	recent      []session.Notice
	limit       int
	nextID      uint64
	subscribers map[uint64]*subscriber
}

var _ session.Notifier = (*NoticeHub)(nil)

func NewNoticeHub(limit int) *NoticeHub {
	if limit <= 0 {
		limit = DefaultRecent
	}
	return &NoticeHub{limit: limit, subscribers: make(map[uint64]*subscriber)}
}

// Notify records n and queues it for every subscriber. Subscribers whose
// queue is full miss the notice.
func (h *NoticeHub) Notify(n session.Notice) {
	data, err := json.Marshal(n)
	if err != nil {
		log.Error().Err(err).Msg("admin.NoticeHub marshal")
		return
	}
	h.mu.Lock()
	h.recent = append(h.recent, n)
	if over := len(h.recent) - h.limit; over > 0 {
		h.recent = append(h.recent[:0:0], h.recent[over:]...)
	}
	for _, sub := range h.subscribers {
		select {
		case sub.send <- data:
		default:
			log.Debug().Uint64("subscriber", sub.id).Msg("admin.NoticeHub subscriber lagging")
		}
	}
	h.mu.Unlock()
}

// Recent returns kept notices, oldest first. An empty sessionID returns all.
func (h *NoticeHub) Recent(sessionID string) []session.Notice {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]session.Notice, 0, len(h.recent))
	for _, n := range h.recent {
		if sessionID == "" || n.SessionID == sessionID {
			out = append(out, n)
		}
	}
	return out
}

// Subscribers is the number of connected websocket readers.
func (h *NoticeHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Serve streams notices to conn until it closes.
func (h *NoticeHub) Serve(conn *websocket.Conn) {
	h.mu.Lock()
	h.nextID++
	sub := &subscriber{id: h.nextID, conn: conn, send: make(chan []byte, subscriberSend)}
	h.subscribers[sub.id] = sub
	h.mu.Unlock()

	closed := make(chan struct{})
	go func() {
		// Drain reads so close frames are processed.
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		h.mu.Lock()
		delete(h.subscribers, sub.id)
		h.mu.Unlock()
		_ = conn.Close()
	}()

	for {
		select {
		case <-closed:
			return
		case data := <-sub.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug().Err(err).Uint64("subscriber", sub.id).Msg("admin.NoticeHub write")
				return
			}
		}
	}
}
