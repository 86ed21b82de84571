package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"golang.org/x/net/websocket"
)

// ConnState is the client's connection lifecycle state.
type ConnState string

const (
	StateConnecting   ConnState = "connecting"
	StateConnected    ConnState = "connected"
	StateDisconnected ConnState = "disconnected"
)

// ClientConfig configures a realtime client.
type ClientConfig struct {
	// URL is the websocket endpoint, e.g. ws://localhost:8080/ws.
	URL string
	// Origin is the HTTP origin sent on the handshake.
	Origin string
	// EmployeeID identifies this connection in the auth frame.
	EmployeeID string
	// Admin marks the connection as an admin watcher.
	Admin bool

	// ReconnectAttempts caps consecutive failed reconnects before the
	// client gives up and reports ErrChannelDisconnected.
	ReconnectAttempts int
	// ReconnectInterval is the fixed delay between attempts.
	ReconnectInterval time.Duration

	// OnMessage receives every decoded envelope. May be nil.
	OnMessage func(Envelope)
	// OnStateChange observes lifecycle transitions. May be nil.
	OnStateChange func(ConnState)
}

const (
	defaultReconnectAttempts = 5
	defaultReconnectInterval = 3 * time.Second
)

// Client maintains a live connection to the hub, reconnecting on abnormal
// closure with a bounded number of attempts at a fixed interval. A
// successful reconnect resets the attempt counter; exhausting the ceiling
// is terminal until the caller explicitly runs the client again.
type Client struct {
	cfg  ClientConfig
	stop chan struct{}

	mu    sync.Mutex
	conn  *websocket.Conn
	state ConnState

	// dial is swappable in tests.
	dial func() (*websocket.Conn, error)
}

// NewClient creates a client; Run starts it.
func NewClient(cfg ClientConfig) *Client {
	if cfg.ReconnectAttempts == 0 {
		cfg.ReconnectAttempts = defaultReconnectAttempts
	}
	if cfg.ReconnectInterval == 0 {
		cfg.ReconnectInterval = defaultReconnectInterval
	}
	c := &Client{
		cfg:   cfg,
		stop:  make(chan struct{}),
		state: StateDisconnected,
	}
	c.dial = func() (*websocket.Conn, error) {
		return websocket.Dial(cfg.URL, "", cfg.Origin)
	}
	return c
}

// State returns the current connection state.
func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(s ConnState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	if c.cfg.OnStateChange != nil {
		c.cfg.OnStateChange(s)
	}
}

// Run connects and serves the read loop until Stop, context cancellation,
// or reconnect exhaustion. It returns nil on intentional shutdown and
// ErrChannelDisconnected when the attempt ceiling is reached.
func (c *Client) Run(ctx context.Context) error {
	attempt := 0
	for {
		c.setState(StateConnecting)
		conn, err := c.dial()
		if err == nil {
			attempt = 0
			if authErr := c.authenticate(conn); authErr != nil {
				log.Printf("realtime: auth frame failed: %v", authErr)
				_ = conn.Close()
			} else {
				c.setConn(conn)
				c.setState(StateConnected)
				c.readLoop(conn)
				c.setConn(nil)
			}
		}

		if c.stopped() || ctx.Err() != nil {
			c.setState(StateDisconnected)
			return nil
		}

		attempt++
		if attempt > c.cfg.ReconnectAttempts {
			c.setState(StateDisconnected)
			return ErrChannelDisconnected
		}
		log.Printf("realtime: reconnecting, attempt %d/%d", attempt, c.cfg.ReconnectAttempts)

		select {
		case <-time.After(c.cfg.ReconnectInterval):
		case <-c.stop:
			c.setState(StateDisconnected)
			return nil
		case <-ctx.Done():
			c.setState(StateDisconnected)
			return nil
		}
	}
}

// Stop closes the connection intentionally; Run returns nil.
func (c *Client) Stop() {
	c.mu.Lock()
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

// Send writes an envelope stamped with the current time.
func (c *Client) Send(typ string, data any) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	env, err := NewEnvelope(typ, data, time.Now())
	if err != nil {
		return err
	}
	return json.NewEncoder(conn).Encode(env)
}

func (c *Client) authenticate(conn *websocket.Conn) error {
	env, err := NewEnvelope(TypeAuth, AuthPayload{
		EmployeeID: c.cfg.EmployeeID,
		Admin:      c.cfg.Admin,
	}, time.Now())
	if err != nil {
		return err
	}
	return json.NewEncoder(conn).Encode(env)
}

func (c *Client) readLoop(conn *websocket.Conn) {
	decoder := json.NewDecoder(conn)
	for {
		var env Envelope
		if err := decoder.Decode(&env); err != nil {
			if !errors.Is(err, io.EOF) && !c.stopped() {
				log.Printf("realtime: connection lost: %v", err)
			}
			return
		}
		if c.cfg.OnMessage != nil {
			c.cfg.OnMessage(env)
		}
	}
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

func (c *Client) stopped() bool {
	select {
	case <-c.stop:
		return true
	default:
		return false
	}
}
