package notification

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/tradewise/backend/internal/middleware"
	notificationModel "github.com/zhouzirui/tradewise/backend/internal/model/notification"
	notificationService "github.com/zhouzirui/tradewise/backend/internal/service/notification"
	"github.com/zhouzirui/tradewise/backend/pkg/utils"
)

// Handler serves the notification center.
type Handler struct {
	notifications *notificationService.Service
	upgrader      websocket.Upgrader
}

// New creates the notification handler. Browser upgrades must come from one
// of allowedOrigins; clients that send no Origin header are accepted.
func New(notifications *notificationService.Service, allowedOrigins []string) *Handler {
	match := middleware.OriginMatcher(allowedOrigins)
	return &Handler{
		notifications: notifications,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || match(origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the notification routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/notifications", h.handleList)
	r.Post("/notifications/read", h.handleMarkAllRead)
	r.Get("/ws/notifications", h.handleWebSocket)
}

// ListResponse is one tab of the feed plus the badge count.
type ListResponse struct {
	Notifications []notificationModel.Notification `json:"notifications"`
	UnreadCount   int                              `json:"unreadCount"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	device := middleware.DeviceID(ctx)

	items, err := h.notifications.List(ctx, device, r.URL.Query().Get("tab"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, notificationService.ErrUnknownTab) {
			status = http.StatusBadRequest
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, ListResponse{
		Notifications: items,
		UnreadCount:   h.notifications.UnreadCount(ctx, device),
	})
}

func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	changed := h.notifications.MarkAllRead(ctx, middleware.DeviceID(ctx))
	utils.RespondJSON(w, http.StatusOK, map[string]int{
		"marked":      changed,
		"unreadCount": 0,
	})
}
