package stream

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const snapshotInterval = 33 * time.Millisecond

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The widget page is served from this same origin; embedding elsewhere
	// is fine too, the socket carries no credentials.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler is the widget's main transport: pointer events and replay
// requests come in, state snapshots go out at roughly animation rate.
type WSHandler struct {
	controls Controls
}

// NewWSHandler creates a websocket handler driving the given session.
func NewWSHandler(ctrl Controls) *WSHandler {
	return &WSHandler{controls: ctrl}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Widget socket: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("Widget connected: %s", r.RemoteAddr)
	defer log.Printf("Widget disconnected: %s", r.RemoteAddr)

	done := make(chan struct{})
	go h.readPump(conn, done)
	h.writePump(conn, done)
}

// readPump applies incoming widget messages until the socket closes.
func (h *WSHandler) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if err := dispatchClientMsg(h.controls, data); err != nil {
			log.Printf("Widget socket: %v", err)
		}
	}
}

// writePump pushes state snapshots at animation rate. The snapshot is tiny;
// sending it unconditionally is cheaper than diffing.
func (h *WSHandler) writePump(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(snapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteJSON(h.controls.Snapshot()); err != nil {
				return
			}
		}
	}
}
