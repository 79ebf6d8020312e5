package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, 1)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.Clients() > 0 }, time.Second, 10*time.Millisecond)
	return conn
}

func TestHub_Publish(t *testing.T) {
	hub := NewHub()
	conn := dial(t, hub)

	hub.Publish("POST_CREATED", map[string]any{"post_id": "abc"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "POST_CREATED", msg.Type)
	assert.Equal(t, "abc", msg.Payload["post_id"])
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub := NewHub()
	conn := dial(t, hub)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_SlowClientDropped(t *testing.T) {
	hub := NewHub()
	c := &client{send: make(chan []byte, 1)}
	hub.clients[c] = struct{}{}

	hub.Publish("A", nil)
	hub.Publish("B", nil)

	assert.Zero(t, hub.Clients())
	_, open := <-c.send
	assert.True(t, open, "buffered event is still delivered")
	_, open = <-c.send
	assert.False(t, open)
}
