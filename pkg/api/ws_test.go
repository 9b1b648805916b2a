package api

import (
	"context"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rubiojr/seekr/pkg/core"
	"github.com/rubiojr/seekr/pkg/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsDial(t *testing.T, ts *httptest.Server) (*websocket.Conn, ServerMessage) {
	t.Helper()
	u, _ := url.Parse(ts.URL)
	u.Scheme = "ws"
	u.Path = "/ws/search"

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err, "dial ws")
	t.Cleanup(func() { _ = conn.Close() })

	init := readMessage(t, conn)
	require.Equal(t, MsgInit, init.Type)
	return conn, init
}

func readMessage(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// readView skips non-view messages until a view matching pred arrives.
func readView(t *testing.T, conn *websocket.Conn, pred func(ServerMessage) bool) ServerMessage {
	t.Helper()
	for range 10 {
		msg := readMessage(t, conn)
		if msg.Type == MsgView && pred(msg) {
			return msg
		}
	}
	t.Fatal("no matching view received")
	return ServerMessage{}
}

func send(t *testing.T, conn *websocket.Conn, msg ClientMessage) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

func TestSearchSocketFlow(t *testing.T) {
	ts, _, _ := newTestServer(t)
	conn, init := wsDial(t, ts)
	assert.NotEmpty(t, init.Session)

	// The session opens on the recent view.
	msg := readView(t, conn, func(m ServerMessage) bool { return true })
	require.NotNil(t, msg.View)
	assert.Equal(t, "recent", string(msg.View.View))
	assert.Len(t, msg.View.Results.Results, 5)

	send(t, conn, ClientMessage{Type: MsgQuery, Query: "planning"})
	msg = readView(t, conn, func(m ServerMessage) bool { return m.View.Query == "planning" })
	assert.Equal(t, []int64{3}, resultIDs(msg.View.Results.Results))

	send(t, conn, ClientMessage{Type: MsgQuery, Query: "work"})
	msg = readView(t, conn, func(m ServerMessage) bool { return m.View.Query == "work" })
	assert.Len(t, msg.View.Results.Results, 5)
	assert.Equal(t, "work", msg.View.Facets[0].Name)

	send(t, conn, ClientMessage{Type: MsgTags, Tags: []string{"home"}})
	msg = readView(t, conn, func(m ServerMessage) bool { return len(m.View.Filters.Tags) == 1 })
	assert.Equal(t, []int64{5, 4}, resultIDs(msg.View.Results.Results))

	disabled := false
	send(t, conn, ClientMessage{Type: MsgTags})
	send(t, conn, ClientMessage{Type: MsgEntity, Entity: "projects", Enabled: &disabled})
	msg = readView(t, conn, func(m ServerMessage) bool {
		return len(m.View.Filters.Tags) == 0 && len(m.View.Filters.Excluded) == 1
	})
	assert.Equal(t, []int64{5, 4, 2, 1}, resultIDs(msg.View.Results.Results))

	send(t, conn, ClientMessage{Type: MsgHistory})
	for {
		msg = readMessage(t, conn)
		if msg.Type == MsgHistory {
			break
		}
	}
	assert.Equal(t, []string{"work", "planning"}, msg.History)
}

func TestSearchSocketErrors(t *testing.T) {
	ts, _, _ := newTestServer(t)
	conn, _ := wsDial(t, ts)

	send(t, conn, ClientMessage{Type: "explode"})
	for {
		msg := readMessage(t, conn)
		if msg.Type == MsgError {
			assert.Contains(t, msg.Error, "explode")
			break
		}
	}

	send(t, conn, ClientMessage{Type: MsgSeed, View: "popular"})
	for {
		msg := readMessage(t, conn)
		if msg.Type == MsgError {
			assert.Contains(t, msg.Error, "popular")
			break
		}
	}
}

func TestSearchSocketRefreshesOnInvalidation(t *testing.T) {
	ts, store, hub := newTestServer(t)
	conn, _ := wsDial(t, ts)

	readView(t, conn, func(m ServerMessage) bool { return true })
	require.Eventually(t, func() bool { return hub.Size() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, store.Upsert(context.Background(), core.SearchResult{ID: 6, Name: "fresh", Content: "new item"}))
	hub.Broadcast(realtime.NewEvent(realtime.KindDataChanged, store.Path()))

	msg := readView(t, conn, func(m ServerMessage) bool { return len(m.View.Results.Results) == 6 })
	assert.Equal(t, "recent", string(msg.View.View))
}

func TestSearchSocketUnregistersOnClose(t *testing.T) {
	ts, _, hub := newTestServer(t)
	conn, _ := wsDial(t, ts)
	require.Eventually(t, func() bool { return hub.Size() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return hub.Size() == 0 }, 2*time.Second, 10*time.Millisecond)
}
