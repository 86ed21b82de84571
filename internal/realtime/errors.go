package realtime

import "errors"

var (
	// ErrChannelDisconnected indicates the channel exhausted its
	// reconnect attempts and stopped retrying. Non-fatal: projections
	// remain available from the store; only realtime push is lost until
	// an explicit user-triggered restart.
	ErrChannelDisconnected = errors.New("realtime channel disconnected")

	// ErrNotConnected indicates a send was attempted without an open
	// connection.
	ErrNotConnected = errors.New("websocket not connected")
)
