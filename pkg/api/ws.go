package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rubiojr/seekr/pkg/facets"
	"github.com/rubiojr/seekr/pkg/realtime"
	"github.com/rubiojr/seekr/pkg/search"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// HandleSearchSocket runs one search.Session per WebSocket connection.
// Client messages drive the session; every rendered view is pushed back.
// The connection has a single writer goroutine fed by the out channel.
func (s *Server) HandleSearchSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("websocket upgrade failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess := search.NewSession(ctx, s.store, s.opts)
	defer sess.Close()

	var invalidations <-chan realtime.Event
	if s.hub != nil {
		id, ch := s.hub.Register()
		defer s.hub.Unregister(id)
		invalidations = ch
	}

	logger.Debugf("search socket %s connected from %s", sess.ID(), r.RemoteAddr)

	out := make(chan ServerMessage, 8)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		defer cancel()
		// Unblocks the reader when the writer gives up first.
		defer func() { _ = conn.Close() }()
		s.writeLoop(ctx, conn, sess, out, invalidations)
	}()

	send := func(msg ServerMessage) {
		select {
		case out <- msg:
		case <-ctx.Done():
		}
	}

	send(ServerMessage{Type: MsgInit, Session: sess.ID()})
	sess.Refresh()

	conn.SetReadLimit(64 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warnf("search socket %s: %v", sess.ID(), err)
			}
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		if reply, err := dispatch(sess, msg); err != nil {
			send(ServerMessage{Type: MsgError, Error: err.Error()})
		} else if reply != nil {
			send(*reply)
		}
	}

	cancel()
	<-writerDone
	logger.Debugf("search socket %s disconnected", sess.ID())
}

// dispatch applies one client message to the session. Only history
// requests produce a direct reply; everything else surfaces as a view.
func dispatch(sess *search.Session, msg ClientMessage) (*ServerMessage, error) {
	switch msg.Type {
	case MsgQuery:
		sess.SetQuery(msg.Query)
	case MsgRefresh:
		sess.Refresh()
	case MsgSeed:
		kind, err := search.ParseSeedKind(msg.View)
		if err != nil {
			return nil, err
		}
		sess.ShowSeed(kind)
	case MsgEntity:
		entity, err := facets.ParseEntity(msg.Entity)
		if err != nil {
			return nil, err
		}
		enabled := true
		if msg.Enabled != nil {
			enabled = *msg.Enabled
		}
		sess.SetEntityFilter(entity, enabled)
	case MsgTags:
		if len(msg.Tags) == 0 {
			sess.ClearTagFilters()
		} else {
			sess.SetTagFilter(msg.Tags)
		}
	case MsgNext:
		sess.NextPage()
	case MsgPrev:
		sess.PrevPage()
	case MsgHistory:
		return &ServerMessage{Type: MsgHistory, History: historyOrEmpty(sess.History())}, nil
	case MsgClearHistory:
		sess.ClearHistory()
		return &ServerMessage{Type: MsgHistory, History: []string{}}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil, nil
}

func historyOrEmpty(h []string) []string {
	if h == nil {
		return []string{}
	}
	return h
}

func (s *Server) writeLoop(ctx context.Context, conn *websocket.Conn, sess *search.Session, out <-chan ServerMessage, invalidations <-chan realtime.Event) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	write := func(msg ServerMessage) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			logger.Debugf("search socket %s: write failed: %v", sess.ID(), err)
			return false
		}
		return true
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case msg := <-out:
			if !write(msg) {
				return
			}
		case view, ok := <-sess.Updates():
			if !ok {
				return
			}
			if !write(ServerMessage{Type: MsgView, View: &view}) {
				return
			}
		case ev, ok := <-invalidations:
			if !ok {
				invalidations = nil
				continue
			}
			logger.Debugf("search socket %s: %s, refreshing", sess.ID(), ev.Kind)
			sess.Refresh()
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
