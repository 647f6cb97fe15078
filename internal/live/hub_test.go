// ABOUTME: Tests for the live feed: snapshot on connect, broadcast on habit change.
// ABOUTME: Dials an httptest server with the gorilla websocket client.
package live

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/harperreed/habits/internal/app"
	"github.com/harperreed/habits/internal/config"
	"github.com/harperreed/habits/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestSnapshotOnConnect(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(hub.Handler(func() interface{} { return map[string]int{"habits": 5} }))
	defer srv.Close()

	msg := readMessage(t, dial(t, srv))

	assert.Equal(t, MessageTypeSnapshot, msg.Type)
	assert.Len(t, msg.ID, 26, "ulid")
	assert.NotZero(t, msg.Time)
}

func TestBroadcastDuringSnapshotReachesNewClient(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	// A change published while the snapshot is being built must still be
	// delivered to the client being registered.
	srv := httptest.NewServer(hub.Handler(func() interface{} {
		hub.Publish(MessageTypeHabits, "changed")
		return "state"
	}))
	defer srv.Close()
	conn := dial(t, srv)

	assert.Equal(t, MessageTypeSnapshot, readMessage(t, conn).Type)
	assert.Equal(t, MessageTypeHabits, readMessage(t, conn).Type)
}

func TestBroadcastOnHabitUpdate(t *testing.T) {
	repo, err := storage.Open(filepath.Join(t.TempDir(), storage.DBFileName))
	require.NoError(t, err)
	a, err := app.New(config.Default(), repo)
	require.NoError(t, err)
	defer a.Close()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)
	detach := hub.Attach(a)
	defer detach()

	srv := httptest.NewServer(hub.Handler(func() interface{} { return a.Dashboard() }))
	defer srv.Close()
	conn := dial(t, srv)
	require.Equal(t, MessageTypeSnapshot, readMessage(t, conn).Type)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	a.Habits.UpdateHabit("1", 2300)

	// Notifications are re-derived inside the habit change, so both
	// messages arrive; their relative order follows subscription order.
	first := readMessage(t, conn)
	second := readMessage(t, conn)
	assert.ElementsMatch(t, []string{MessageTypeHabits, MessageTypeNotifications}, []string{first.Type, second.Type})
	assert.Less(t, first.ID, second.ID, "ulids sort in publish order")
}

func TestPingPong(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(hub.Handler(func() interface{} { return nil }))
	defer srv.Close()
	conn := dial(t, srv)
	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "ping"}))
	assert.Equal(t, MessageTypePong, readMessage(t, conn).Type)
}
