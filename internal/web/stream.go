package web

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"nmea2geojson/internal/track"
)

// FixStream fans fixes out to websocket listeners. It keeps the most recent
// fix so new subscribers get an immediate sample.
type FixStream struct {
	mu       sync.RWMutex
	subs     map[int]chan track.Fix
	nextID   int
	last     track.Fix
	haveLast bool

	upgrader websocket.Upgrader
}

func NewFixStream() *FixStream {
	return &FixStream{
		subs: make(map[int]chan track.Fix),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Read-only feed; any origin may watch.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *FixStream) Subscribe(buffer int) (int, <-chan track.Fix) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan track.Fix, buffer)
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	last, have := s.last, s.haveLast
	s.mu.Unlock()
	if have {
		select {
		case ch <- last:
		default:
		}
	}
	return id, ch
}

func (s *FixStream) Unsubscribe(id int) {
	s.mu.Lock()
	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()
}

// Publish never blocks; slow subscribers miss fixes.
func (s *FixStream) Publish(fix track.Fix) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = fix
	s.haveLast = true
	for _, ch := range s.subs {
		select {
		case ch <- fix:
		default:
		}
	}
}

// ServeHTTP upgrades to a websocket and writes each fix as a JSON text frame.
func (s *FixStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	id, fixes := s.Subscribe(0)
	defer s.Unsubscribe(id)

	// Drain client frames so close messages are processed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case fix, ok := <-fixes:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteJSON(fix); err != nil {
				return
			}
		}
	}
}
