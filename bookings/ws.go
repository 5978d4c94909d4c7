package bookings

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans booking status updates out to websocket subscribers, keyed by
// booking id.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]map[*websocket.Conn]bool)}
}

func (h *Hub) add(bookingID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[bookingID] == nil {
		h.conns[bookingID] = make(map[*websocket.Conn]bool)
	}
	h.conns[bookingID][conn] = true
}

func (h *Hub) remove(bookingID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.conns[bookingID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.conns, bookingID)
		}
	}
}

// Broadcast writes payload as JSON to every subscriber of the booking.
// Dead connections are dropped. The exclusive lock also serializes
// concurrent broadcasts: a websocket conn allows only one writer at a
// time.
func (h *Hub) Broadcast(bookingID string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns[bookingID] {
		if err := conn.WriteJSON(payload); err != nil {
			conn.Close()
			delete(h.conns[bookingID], conn)
		}
	}
	if len(h.conns[bookingID]) == 0 {
		delete(h.conns, bookingID)
	}
}

// Subscribers reports how many connections watch the booking.
func (h *Hub) Subscribers(bookingID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[bookingID])
}

// GET /api/bookings/:bookingId/updates
func (h *Handlers) SubscribeUpdates(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("bookingId")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[bookings] ws upgrade failed: %v", err)
		return
	}
	h.hub.add(bookingID, conn)

	go func() {
		defer func() {
			h.hub.remove(bookingID, conn)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
