package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(buffer int) *Client {
	return &Client{
		send:        make(chan []byte, buffer),
		id:          "test-client",
		connectedAt: time.Now(),
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestHub_RegisterSendsConnectionMessage(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	defer hub.Stop()

	client := testClient(4)
	hub.register <- client

	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	select {
	case msg := <-client.send:
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(msg, &decoded))
		assert.Equal(t, TypeConnection, decoded["type"])
	case <-time.After(2 * time.Second):
		t.Fatal("no connection message received")
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	defer hub.Stop()

	a, b := testClient(4), testClient(4)
	hub.register <- a
	hub.register <- b
	waitFor(t, func() bool { return hub.ClientCount() == 2 })

	// Drain connection messages first.
	<-a.send
	<-b.send

	hub.BroadcastDataUpdate(map[string]any{"total": 42})

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			var decoded map[string]any
			require.NoError(t, json.Unmarshal(msg, &decoded))
			assert.Equal(t, TypeDataUpdate, decoded["type"])
		case <-time.After(2 * time.Second):
			t.Fatal("broadcast not delivered")
		}
	}
}

func TestHub_SlowClientDisconnected(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	defer hub.Stop()

	// Zero-buffer client with nobody reading: the connection greeting is
	// already undeliverable, and the first broadcast drops it.
	slow := testClient(0)
	hub.register <- slow
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.BroadcastAnalysisUpdate("general", nil)

	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func TestHub_UnregisterRemovesClient(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	defer hub.Stop()

	client := testClient(4)
	hub.register <- client
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.unregister <- client
	waitFor(t, func() bool { return hub.ClientCount() == 0 })

	// The hub closes the send channel on unregister.
	waitFor(t, func() bool {
		select {
		case _, ok := <-client.send:
			return !ok
		default:
			return false
		}
	})
}

func TestHub_StartIdempotent(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	hub.Start()
	hub.Stop()
}
