package handlers

import (
	"log"
	"net/http"
	"net/url"
	"roadtrip-planner-web/internal/adapters/progress"
	"roadtrip-planner-web/internal/platform/obs"
	"time"

	"github.com/gorilla/websocket"
)

const (
	progressWriteWait  = 10 * time.Second
	progressPingPeriod = 30 * time.Second
)

// ProgressHandler streams the generation progress of the caller's session
// over a websocket.
type ProgressHandler struct {
	broker   *progress.Broker
	upgrader websocket.Upgrader
}

// NewProgressHandler accepts same-host origins plus any listed in
// allowedOrigins ("*" allows all).
func NewProgressHandler(broker *progress.Broker, allowedOrigins []string) *ProgressHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &ProgressHandler{
		broker: broker,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || allowed["*"] || allowed[origin] {
					return true
				}
				u, err := url.Parse(origin)
				return err == nil && u.Host == r.Host
			},
		},
	}
}

// Stream handles GET /ws/progress.
func (h *ProgressHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := obs.SessionID(ctx)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client.
		log.Printf("req_id=%s websocket upgrade failed: %v", obs.RequestID(ctx), err)
		return
	}
	defer conn.Close()

	events := h.broker.Subscribe(sid)
	defer h.broker.Unsubscribe(sid, events)

	// The client never sends anything; reading only surfaces the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(progressPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(progressWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(progressWriteWait)); err != nil {
				return
			}
		}
	}
}
