package telemetry

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"go.uber.org/zap"
)

type Subscriber struct {
	io   sync.Mutex
	conn net.Conn

	id  uint
	hub *Hub
}

func (s *Subscriber) write(payload []byte) error {
	s.io.Lock()
	defer s.io.Unlock()
	return wsutil.WriteServerMessage(s.conn, ws.OpText, payload)
}

// readLoop drains client frames so control frames (ping, close) are answered. It returns when the
// connection is closed.
func (s *Subscriber) readLoop() {
	defer s.hub.Remove(s)
	for {
		if _, _, err := wsutil.ReadClientData(s.conn); err != nil {
			return
		}
	}
}

// Hub. keeps the websocket subscribers of the telemetry stream.
type Hub struct {
	log *zap.Logger

	mu   sync.RWMutex
	seq  uint
	subs map[uint]*Subscriber
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:  log,
		subs: make(map[uint]*Subscriber),
	}
}

func (h *Hub) Register(conn net.Conn) *Subscriber {
	sub := &Subscriber{
		hub:  h,
		conn: conn,
	}

	h.mu.Lock()
	sub.id = h.seq
	h.subs[sub.id] = sub
	h.seq++
	h.mu.Unlock()

	return sub
}

// Remove closes the subscriber connection. Removing twice is a no-op.
func (h *Hub) Remove(sub *Subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[sub.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.subs, sub.id)
	h.mu.Unlock()

	sub.conn.Close()
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) subscribers() []*Subscriber {
	h.mu.RLock()
	defer h.mu.RUnlock()
	subs := make([]*Subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	return subs
}

// Broadcast sends msg as a JSON text frame to every subscriber. Subscribers that fail to receive
// it are dropped.
func (h *Hub) Broadcast(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	for _, sub := range h.subscribers() {
		if err := sub.write(payload); err != nil {
			h.log.Debug("dropping telemetry subscriber", zap.Uint("subscriber", sub.id), zap.Error(err))
			h.Remove(sub)
		}
	}
	return nil
}

func (h *Hub) RemoveAll() {
	for _, sub := range h.subscribers() {
		h.Remove(sub)
	}
}

// ServeHTTP upgrades the request to a websocket connection and subscribes it.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		h.log.Info("upgrade error", zap.Error(err), zap.String("remote", r.RemoteAddr))
		return
	}
	// drop the deadlines the http server set on the connection before hijacking
	if err := conn.SetDeadline(time.Time{}); err != nil {
		h.log.Info("clear connection deadline", zap.Error(err))
		conn.Close()
		return
	}
	sub := h.Register(conn)
	h.log.Info("established websocket connection", zap.Uint("subscriber", sub.id),
		zap.String("connection", nameConn(conn)))
	go sub.readLoop()
}

func nameConn(conn net.Conn) string {
	return conn.LocalAddr().String() + " > " + conn.RemoteAddr().String()
}
