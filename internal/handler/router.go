package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/tradewise/backend/internal/handler/auth"
	"github.com/zhouzirui/tradewise/backend/internal/handler/chat"
	"github.com/zhouzirui/tradewise/backend/internal/handler/history"
	"github.com/zhouzirui/tradewise/backend/internal/handler/market"
	"github.com/zhouzirui/tradewise/backend/internal/handler/notification"
	"github.com/zhouzirui/tradewise/backend/internal/handler/stream"
	"github.com/zhouzirui/tradewise/backend/internal/handler/trading"
	"github.com/zhouzirui/tradewise/backend/internal/middleware"
	aiService "github.com/zhouzirui/tradewise/backend/internal/service/ai"
	authService "github.com/zhouzirui/tradewise/backend/internal/service/auth"
	chatService "github.com/zhouzirui/tradewise/backend/internal/service/chat"
	historyService "github.com/zhouzirui/tradewise/backend/internal/service/history"
	marketService "github.com/zhouzirui/tradewise/backend/internal/service/market"
	notificationService "github.com/zhouzirui/tradewise/backend/internal/service/notification"
	tradingService "github.com/zhouzirui/tradewise/backend/internal/service/trading"
	"github.com/zhouzirui/tradewise/backend/pkg/utils"
)

// Services bundles what the router needs.
type Services struct {
	Auth          *authService.Registry
	Market        *marketService.Service
	Trading       *tradingService.Service
	History       *historyService.Service
	Notifications *notificationService.Service
	Chat          *chatService.Service
	AI            *aiService.Service
}

// Options tune the router.
type Options struct {
	AllowedOrigins []string
	AuthLimiter    *middleware.DeviceLimiter
	Chat           chat.Options
}

// NewRouter wires HTTP routes to core services.
func NewRouter(svc Services, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Device)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(opts.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		auth.New(svc.Auth, opts.AuthLimiter).RegisterRoutes(api)
		market.New(svc.Market).RegisterRoutes(api)
		trading.New(svc.Trading).RegisterRoutes(api)
		history.New(svc.History).RegisterRoutes(api)
		notification.New(svc.Notifications, opts.AllowedOrigins).RegisterRoutes(api)

		if svc.AI == nil {
			api.HandleFunc("/chat/*", unavailable)
			api.HandleFunc("/stream/*", unavailable)
			return
		}
		chat.New(svc.Chat, svc.AI, svc.Auth, opts.Chat).RegisterRoutes(api)
		stream.New(svc.AI, svc.Chat, svc.Auth, opts.Chat.ReplyDelay).RegisterRoutes(api)
	})

	return r
}

func unavailable(w http.ResponseWriter, r *http.Request) {
	utils.RespondError(w, http.StatusServiceUnavailable, "assistant unavailable")
}
