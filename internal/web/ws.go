package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/idilsaglam/todowidget/internal/app"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingEvery  = (wsPongWait * 9) / 10
	wsQueueDepth = 16
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

type wsInbound struct {
	Type string `json:"type"`
	Todo string `json:"todo,omitempty"`
}

type wsOutbound struct {
	Type     string `json:"type"`
	Revision uint64 `json:"revision"`
	HTML     string `json:"html,omitempty"`
	Todos    int    `json:"todos"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message,omitempty"`
}

// handleWS streams a render frame on connect and after every render.
// Clients may also submit todos over the socket.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		select {
		case <-s.done:
			cancel()
			_ = conn.Close()
		case <-ctx.Done():
		}
	}()

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		s.logger.Warn("ws set read deadline", "err", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	writeCh := make(chan wsOutbound, wsQueueDepth)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	stop := s.app.Watch(func(f app.Frame) {
		pushWS(writeCh, wsOutbound{
			Type:     "render",
			Revision: f.Revision,
			HTML:     f.HTML,
			Todos:    len(f.State.Todos),
		})
	})
	defer stop()
	s.logger.Debug("ws connected", "remote", r.RemoteAddr)

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			s.logger.Debug("ws disconnected", "remote", r.RemoteAddr)
			return
		}
		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case "ping":
			pushWS(writeCh, wsOutbound{Type: "pong"})
		case "submit":
			if err := s.submit(r, in.Todo); err != nil {
				pushWS(writeCh, wsOutbound{Type: "error", Code: "internal", Message: err.Error()})
			}
		case "":
			pushWS(writeCh, wsOutbound{Type: "error", Code: "invalid_argument", Message: "type is required"})
		default:
			pushWS(writeCh, wsOutbound{Type: "error", Code: "invalid_argument", Message: "unsupported type: " + in.Type})
		}
	}
}

// pushWS never blocks: when the queue is full the oldest frame is dropped,
// since a newer render supersedes it.
func pushWS(writeCh chan wsOutbound, out wsOutbound) {
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
