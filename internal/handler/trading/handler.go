package trading

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/tradewise/backend/internal/middleware"
	"github.com/zhouzirui/tradewise/backend/internal/model/trade"
	authService "github.com/zhouzirui/tradewise/backend/internal/service/auth"
	tradingService "github.com/zhouzirui/tradewise/backend/internal/service/trading"
	"github.com/zhouzirui/tradewise/backend/pkg/utils"
)

// Handler accepts order tickets.
type Handler struct {
	trading *tradingService.Service
}

// New creates the trading handler.
func New(trading *tradingService.Service) *Handler {
	return &Handler{trading: trading}
}

// RegisterRoutes mounts the /trading routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/trading", func(r chi.Router) {
		r.Post("/preview", h.handlePreview)
		r.Post("/orders", h.handlePlaceOrder)
	})
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	var order tradingService.Order
	if err := utils.DecodeJSON(r, &order); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ticket, err := h.trading.Preview(order)
	if err != nil {
		respondTradingError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, ticket)
}

func (h *Handler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var order tradingService.Order
	if err := utils.DecodeJSON(r, &order); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := h.trading.PlaceOrder(r.Context(), middleware.DeviceID(r.Context()), order)
	if err != nil {
		respondTradingError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, tx)
}

func respondTradingError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, trade.ErrInvalidQuantity),
		errors.Is(err, trade.ErrInvalidSide),
		errors.Is(err, trade.ErrInvalidOrderType),
		errors.Is(err, tradingService.ErrUnknownSymbol),
		errors.Is(err, authService.ErrDeviceRequired):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, authService.ErrNotAuthenticated):
		utils.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, tradingService.ErrOrderPending):
		utils.RespondError(w, http.StatusConflict, err.Error())
	case utils.IsCanceled(err):
		slog.Info("order abandoned", "device", middleware.DeviceID(r.Context()), "error", err)
		utils.RespondError(w, utils.StatusClientClosedRequest, "request cancelled")
	default:
		slog.Error("order failed", "device", middleware.DeviceID(r.Context()), "error", err)
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}
