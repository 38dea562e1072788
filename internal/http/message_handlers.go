package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/service"
)

// MessagesHandler covers the per-lease message thread, read markers and
// the live websocket feed.
type MessagesHandler struct {
	messages service.MessageService
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewMessagesHandler(messages service.MessageService, logger *zap.Logger) *MessagesHandler {
	return &MessagesHandler{
		messages: messages,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Token auth happens before the upgrade; origin is not the gate.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

func (h *MessagesHandler) Send(w http.ResponseWriter, r *http.Request, leaseID string) {
	principal, _ := PrincipalFrom(r.Context())
	var body struct {
		Body string `json:"body"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	m, err := h.messages.Send(r.Context(), principal, leaseID, body.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(m))
}

func (h *MessagesHandler) Fetch(w http.ResponseWriter, r *http.Request, leaseID string) {
	principal, _ := PrincipalFrom(r.Context())
	afterSeq := parseInt64(r.URL.Query().Get("afterSeq"), 0)
	items, err := h.messages.Fetch(r.Context(), principal, leaseID, afterSeq)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": len(items)}))
}

func (h *MessagesHandler) MarkRead(w http.ResponseWriter, r *http.Request, leaseID string) {
	principal, _ := PrincipalFrom(r.Context())
	if err := h.messages.MarkRead(r.Context(), principal, leaseID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]bool{"read": true}))
}

func (h *MessagesHandler) UnreadCount(w http.ResponseWriter, r *http.Request, leaseID string) {
	principal, _ := PrincipalFrom(r.Context())
	count, err := h.messages.UnreadCount(r.Context(), principal, leaseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]int{"unread": count}))
}

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// Live upgrades to a websocket and streams thread events until the client
// disconnects. Clients merge by seq; a dropped event is recovered by the
// next afterSeq fetch.
func (h *MessagesHandler) Live(w http.ResponseWriter, r *http.Request, leaseID string) {
	principal, _ := PrincipalFrom(r.Context())
	events, cancel, err := h.messages.Subscribe(r.Context(), principal, leaseID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.String("lease_id", leaseID), zap.Error(err))
		return
	}
	defer conn.Close()

	// Reader only consumes control frames; any read error means the peer
	// is gone.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
