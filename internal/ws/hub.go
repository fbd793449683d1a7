// README: Websocket hub streaming ride events to clients watching a ride.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"ridehail/internal/events"
	"ridehail/internal/types"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 16
)

type watcher struct {
	send chan events.Event
}

type Hub struct {
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	watchers map[types.ID]map[*watcher]struct{}
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		watchers: make(map[types.ID]map[*watcher]struct{}),
	}
}

// Publish delivers e to every watcher of its ride. Slow watchers drop events.
func (h *Hub) Publish(_ context.Context, e events.Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for w := range h.watchers[e.RideID] {
		select {
		case w.send <- e:
		default:
			h.log.Warn("dropping ride event for slow watcher", "ride_id", e.RideID, "type", e.Type)
		}
	}
	return nil
}

// Watchers returns the number of open connections for a ride.
func (h *Hub) Watchers(rideID types.ID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers[rideID])
}

// Serve upgrades the request and streams events for rideID until the client
// disconnects or the ride completes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, rideID types.ID) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	wt := &watcher{send: make(chan events.Event, sendBuffer)}
	h.add(rideID, wt)
	defer h.remove(rideID, wt)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return nil
		case e := <-wt.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(e); err != nil {
				return err
			}
			if e.Type == events.RideCompleted {
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "ride completed")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
				return nil
			}
		}
	}
}

func (h *Hub) add(rideID types.ID, w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.watchers[rideID]
	if !ok {
		set = make(map[*watcher]struct{})
		h.watchers[rideID] = set
	}
	set[w] = struct{}{}
}

func (h *Hub) remove(rideID types.ID, w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.watchers[rideID]
	delete(set, w)
	if len(set) == 0 {
		delete(h.watchers, rideID)
	}
}
