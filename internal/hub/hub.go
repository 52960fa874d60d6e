// Package hub fans analysis progress events out to websocket observers.
// Many clients may watch one job; the hub owns connection lifecycle and
// per-job broadcast, nothing more; the engine only ever sees a plain
// callback.
package hub

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"webready/internal/engine"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub tracks websocket connections per job id.
type Hub struct {
	mu    sync.Mutex
	conns map[string]map[*websocket.Conn]bool
}

// New creates an empty Hub.
func New() *Hub {
	return &Hub{conns: make(map[string]map[*websocket.Conn]bool)}
}

// Serve upgrades the request and registers the connection as an
// observer of the given job. It blocks until the client disconnects;
// inbound messages are discarded.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, jobID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("hub: websocket upgrade: %v", err)
		return
	}

	h.register(jobID, conn)
	defer h.unregister(jobID, conn)
	defer conn.Close()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("hub: websocket read: %v", err)
			}
			return
		}
	}
}

// Broadcast sends one progress event to every observer of the job.
// Connections that fail to write are dropped.
func (h *Hub) Broadcast(jobID string, ev engine.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns[jobID] {
		if err := conn.WriteJSON(ev); err != nil {
			log.Printf("hub: broadcast to job %s: %v", jobID, err)
			conn.Close()
			delete(h.conns[jobID], conn)
		}
	}
	if len(h.conns[jobID]) == 0 {
		delete(h.conns, jobID)
	}
}

// Observers returns how many connections are watching a job.
func (h *Hub) Observers(jobID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[jobID])
}

func (h *Hub) register(jobID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[jobID] == nil {
		h.conns[jobID] = make(map[*websocket.Conn]bool)
	}
	h.conns[jobID][conn] = true
}

func (h *Hub) unregister(jobID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[jobID], conn)
	if len(h.conns[jobID]) == 0 {
		delete(h.conns, jobID)
	}
}
