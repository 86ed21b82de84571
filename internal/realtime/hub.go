package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/alexanderramin/punchclock/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/net/websocket"
)

// writeTimeout bounds a single frame write. A client that stops reading
// gets its frame dropped instead of stalling the fan-out loop.
const writeTimeout = 10 * time.Second

// peer wraps a connection's encoder so concurrent fan-outs do not
// interleave frames.
type peer struct {
	mu         sync.Mutex
	conn       *websocket.Conn
	encoder    *json.Encoder
	employeeID string
	admin      bool
}

func (p *peer) write(env Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return p.encoder.Encode(env)
}

// Hub fans out sync events to connected clients. Delivery is at most once
// per connection: there is no redelivery queue, and a client that is
// offline when an event fires reconciles by re-fetching the record.
type Hub struct {
	mu    sync.Mutex
	peers map[*peer]struct{}

	notifications repository.NotificationRepo
	now           func() time.Time
}

// NewHub creates a hub. notifications may be nil; manual pushes are then
// fan-out only, without the stored copy.
func NewHub(notifications repository.NotificationRepo) *Hub {
	return &Hub{
		peers:         make(map[*peer]struct{}),
		notifications: notifications,
		now:           time.Now,
	}
}

// Publish implements the engine's event sink: the accepted transition is
// broadcast to the employee's own connections and to admin watchers.
func (h *Hub) Publish(ev domain.SyncEvent) {
	payload := AttendancePayload{
		EmployeeID:    ev.EmployeeID,
		Status:        ev.Record.Status(),
		Record:        snapshotRecord(ev.Record),
		WorkedMinutes: ev.Record.WorkedMinutes(ev.ServerTime),
		BreakMinutes:  ev.Record.BreakMinutes(ev.ServerTime),
	}
	env, err := NewEnvelope(ev.Type, payload, ev.ServerTime)
	if err != nil {
		log.Printf("realtime: failed to build attendance envelope: %v", err)
		return
	}
	for _, p := range h.audience(ev.EmployeeID) {
		if err := p.write(env); err != nil {
			log.Printf("realtime: dropping frame for %s: %v", p.employeeID, err)
		}
	}
}

// PushNotification stores a notification and fans it out to the target
// employee's connections. The stored copy survives a missed delivery.
func (h *Hub) PushNotification(ctx context.Context, employeeID, title, message string) error {
	if h.notifications != nil {
		n := &domain.Notification{
			ID:         uuid.New().String(),
			EmployeeID: employeeID,
			Title:      title,
			Message:    message,
			CreatedAt:  h.now().UTC(),
		}
		if err := h.notifications.Create(ctx, n); err != nil {
			return err
		}
	}
	env, err := NewEnvelope(TypeNotification, NotificationPayload{
		EmployeeID: employeeID,
		Title:      title,
		Message:    message,
	}, h.now())
	if err != nil {
		return err
	}
	for _, p := range h.audience(employeeID) {
		if err := p.write(env); err != nil {
			log.Printf("realtime: dropping notification for %s: %v", p.employeeID, err)
		}
	}
	return nil
}

// audience returns the employee's own peers plus admin watchers.
func (h *Hub) audience(employeeID string) []*peer {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*peer
	for p := range h.peers {
		if p.employeeID == employeeID || p.admin {
			out = append(out, p)
		}
	}
	return out
}

// ConnectedEmployees lists employees with at least one open connection.
func (h *Hub) ConnectedEmployees() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for p := range h.peers {
		if !seen[p.employeeID] {
			seen[p.employeeID] = true
			out = append(out, p.employeeID)
		}
	}
	return out
}

// Handler returns the websocket endpoint handler.
func (h *Hub) Handler() http.Handler {
	return websocket.Handler(h.handleConn)
}

func (h *Hub) handleConn(conn *websocket.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	decoder := json.NewDecoder(conn)

	// The first frame must authenticate the connection; everything after
	// rides on that identity.
	var first Envelope
	if err := decoder.Decode(&first); err != nil {
		return
	}
	if first.Type != TypeAuth {
		log.Printf("realtime: closing connection, first frame was %q not auth", first.Type)
		return
	}
	var auth AuthPayload
	if err := json.Unmarshal(first.Data, &auth); err != nil || strings.TrimSpace(auth.EmployeeID) == "" {
		log.Printf("realtime: closing connection, invalid auth payload")
		return
	}

	p := &peer{
		conn:       conn,
		encoder:    json.NewEncoder(conn),
		employeeID: strings.TrimSpace(auth.EmployeeID),
		admin:      auth.Admin,
	}
	h.register(p)
	defer h.unregister(p)

	ctx := context.Background()
	if req := conn.Request(); req != nil {
		ctx = req.Context()
	}

	for {
		var env Envelope
		if err := decoder.Decode(&env); err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("realtime: read failed for %s: %v", p.employeeID, err)
			}
			return
		}
		switch env.Type {
		case TypeNotification:
			// Manual push: only admin connections may target others.
			var payload NotificationPayload
			if err := json.Unmarshal(env.Data, &payload); err != nil {
				continue
			}
			if !p.admin && payload.EmployeeID != p.employeeID {
				continue
			}
			if err := h.PushNotification(ctx, payload.EmployeeID, payload.Title, payload.Message); err != nil {
				log.Printf("realtime: notification push failed: %v", err)
			}
		default:
			// Unknown message types are ignored, not errors.
		}
	}
}

func (h *Hub) register(p *peer) {
	h.mu.Lock()
	h.peers[p] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(p *peer) {
	h.mu.Lock()
	delete(h.peers, p)
	h.mu.Unlock()
}
