package socket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"contentlib/internal/content/service"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to read messages from a WebSocket connection with a timeout.
func readMessage(t *testing.T, conn *websocket.Conn) WSMessage {
	var msg WSMessage
	conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	_, p, err := conn.ReadMessage()
	require.NoError(t, err, "Failed to read message from WebSocket")
	require.NoError(t, json.Unmarshal(p, &msg), "Failed to unmarshal WSMessage JSON")
	return msg
}

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)
	t.Cleanup(cancel)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	}))
	t.Cleanup(server.Close)
	return hub, "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func TestHubBroadcastsChanges(t *testing.T) {
	hub, wsURL := startHub(t)

	conn1, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "Client 1 failed to connect")
	defer conn1.Close()
	conn2, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "Client 2 failed to connect")
	defer conn2.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.Notify(service.UpdatedEvent, 7, map[string]interface{}{"id": 7, "title": "Edited"})

	for _, conn := range []*websocket.Conn{conn1, conn2} {
		msg := readMessage(t, conn)
		assert.Equal(t, service.UpdatedEvent, msg.Type)
		assert.Equal(t, 7, msg.ContentID)
		assert.JSONEq(t, `{"id":7,"title":"Edited"}`, string(msg.Payload))
	}
}

func TestHubUnregistersClosedClients(t *testing.T) {
	hub, wsURL := startHub(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubDropsLaggingClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	slow := &Client{Hub: hub, Send: make(chan []byte)}
	require.True(t, hub.register(slow))
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Notify(service.DeletedEvent, 1, map[string]int{"id": 1})

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-slow.Send
	assert.False(t, open)
}

func TestNotifyAfterStopDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBufferSize+5; i++ {
			hub.Notify(service.CreatedEvent, i, nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked after the hub stopped")
	}
}
