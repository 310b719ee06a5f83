package notification

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zhouzirui/tradewise/backend/internal/middleware"
	notificationModel "github.com/zhouzirui/tradewise/backend/internal/model/notification"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 54 * time.Second
	writeWait    = 10 * time.Second
)

// Frame is what the socket sends: a snapshot on connect, then one frame
// per pushed notification.
type Frame struct {
	Type         string                          `json:"type"`
	Notification *notificationModel.Notification `json:"notification,omitempty"`
	UnreadCount  int                             `json:"unreadCount"`
	Timestamp    int64                           `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	device := middleware.DeviceID(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "device", device, "error", err)
		return
	}
	defer conn.Close()

	// the request context ends with the handler, so the socket gets its own
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pushes, unsubscribe := h.notifications.Subscribe(device)
	defer unsubscribe()

	slog.Info("notification socket opened", "device", device)
	defer slog.Info("notification socket closed", "device", device)

	go readLoop(conn, cancel)

	if err := writeFrame(conn, Frame{
		Type:        "snapshot",
		UnreadCount: h.notifications.UnreadCount(ctx, device),
	}); err != nil {
		return
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-pushes:
			if !ok {
				return
			}
			if err := writeFrame(conn, Frame{
				Type:         "notification",
				Notification: &item,
				UnreadCount:  h.notifications.UnreadCount(ctx, device),
			}); err != nil {
				slog.Debug("notification push failed", "device", device, "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop drains client frames so pongs and close frames are processed.
// Clients have nothing to say on this socket.
func readLoop(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("notification socket read error", "error", err)
			}
			return
		}
	}
}

func writeFrame(conn *websocket.Conn, f Frame) error {
	f.Timestamp = time.Now().UnixMilli()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(f)
}
