package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func TestClient_Defaults(t *testing.T) {
	c := NewClient(ClientConfig{EmployeeID: "emp-1"})
	assert.Equal(t, defaultReconnectAttempts, c.cfg.ReconnectAttempts)
	assert.Equal(t, defaultReconnectInterval, c.cfg.ReconnectInterval)
	assert.Equal(t, StateDisconnected, c.State())
}

func TestClient_ReconnectExhaustion(t *testing.T) {
	var dials atomic.Int32
	c := NewClient(ClientConfig{
		EmployeeID:        "emp-1",
		ReconnectAttempts: 5,
		ReconnectInterval: time.Millisecond,
	})
	c.dial = func() (*websocket.Conn, error) {
		dials.Add(1)
		return nil, errors.New("connection refused")
	}

	err := c.Run(context.Background())
	require.ErrorIs(t, err, ErrChannelDisconnected)
	assert.Equal(t, StateDisconnected, c.State())
	// The initial attempt plus five reconnects.
	assert.Equal(t, int32(6), dials.Load())
}

func TestClient_AttemptCounterResetsOnSuccess(t *testing.T) {
	// The server reads the auth frame and hangs up, forcing a fresh
	// round of reconnects after the one successful connection.
	srv := httptest.NewServer(websocket.Handler(func(ws *websocket.Conn) {
		var env Envelope
		_ = json.NewDecoder(ws).Decode(&env)
	}))
	t.Cleanup(srv.Close)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	var dials atomic.Int32
	c := NewClient(ClientConfig{
		EmployeeID:        "emp-1",
		ReconnectAttempts: 5,
		ReconnectInterval: time.Millisecond,
	})
	c.dial = func() (*websocket.Conn, error) {
		n := dials.Add(1)
		if n == 4 {
			return websocket.Dial(wsURL, "", srv.URL)
		}
		return nil, errors.New("connection refused")
	}

	err := c.Run(context.Background())
	require.ErrorIs(t, err, ErrChannelDisconnected)
	// Three failures, then a success that resets the counter. The hangup
	// consumes the first attempt, leaving five more dials before giving up.
	assert.Equal(t, int32(9), dials.Load())
}

func TestClient_StopReturnsNil(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(srv.Close)

	states := make(chan ConnState, 16)
	c := NewClient(ClientConfig{
		URL:        "ws" + strings.TrimPrefix(srv.URL, "http"),
		Origin:     srv.URL,
		EmployeeID: "emp-1",
		OnStateChange: func(s ConnState) {
			states <- s
		},
	})

	done := make(chan error, 1)
	go func() {
		done <- c.Run(context.Background())
	}()

	waitForState(t, states, StateConnected)
	waitForEmployee(t, hub, "emp-1")

	c.Stop()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
	assert.Equal(t, StateDisconnected, c.State())
}

func TestClient_ReceivesPublishedEvents(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(srv.Close)

	received := make(chan Envelope, 1)
	c := NewClient(ClientConfig{
		URL:        "ws" + strings.TrimPrefix(srv.URL, "http"),
		Origin:     srv.URL,
		EmployeeID: "emp-1",
		OnMessage: func(env Envelope) {
			received <- env
		},
	})

	done := make(chan error, 1)
	go func() {
		done <- c.Run(context.Background())
	}()
	t.Cleanup(func() {
		c.Stop()
		<-done
	})

	waitForEmployee(t, hub, "emp-1")
	hub.Publish(testSyncEvent("emp-1"))

	select {
	case env := <-received:
		assert.Equal(t, TypeAttendance, env.Type)
		var payload AttendancePayload
		require.NoError(t, json.Unmarshal(env.Data, &payload))
		assert.Equal(t, "emp-1", payload.EmployeeID)
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered to client")
	}
}

func TestClient_SendBeforeConnect(t *testing.T) {
	c := NewClient(ClientConfig{EmployeeID: "emp-1"})
	err := c.Send(TypeNotification, NotificationPayload{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestClient_ContextCancelReturnsNil(t *testing.T) {
	c := NewClient(ClientConfig{
		EmployeeID:        "emp-1",
		ReconnectAttempts: 100,
		ReconnectInterval: 50 * time.Millisecond,
	})
	c.dial = func() (*websocket.Conn, error) {
		return nil, errors.New("connection refused")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func waitForState(t *testing.T, states <-chan ConnState, want ConnState) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-states:
			if s == want {
				return
			}
		case <-deadline:
			t.Fatalf("state %s never reached", want)
		}
	}
}
