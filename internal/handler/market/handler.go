package market

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	marketService "github.com/zhouzirui/tradewise/backend/internal/service/market"
	"github.com/zhouzirui/tradewise/backend/pkg/utils"
)

// Handler serves dashboard and trading page market data.
type Handler struct {
	market *marketService.Service
}

// New creates the market handler.
func New(market *marketService.Service) *Handler {
	return &Handler{market: market}
}

// RegisterRoutes mounts the /market routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/market", func(r chi.Router) {
		r.Get("/quotes/{symbol}", h.handleQuote)
		r.Get("/recommendations", h.handleRecommendations)
		r.Get("/news", h.handleNews)
		r.Get("/portfolio", h.handlePortfolio)
		r.Get("/insights", h.handleInsights)
		r.Get("/chart/{symbol}", h.handleChart)
	})
}

func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.market.Quote(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		utils.RespondError(w, utils.StatusClientClosedRequest, "request cancelled")
		return
	}
	utils.RespondJSON(w, http.StatusOK, quote)
}

func (h *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.market.Recommendations())
}

func (h *Handler) handleNews(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.market.News(r.URL.Query().Get("category")))
}

func (h *Handler) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.market.Portfolio())
}

func (h *Handler) handleInsights(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.market.Insights())
}

// handleChart returns the series as JSON, or as a PNG when the symbol ends
// in ".png".
func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	symbol, asPNG := strings.CutSuffix(symbol, ".png")

	tf, err := marketService.ParseTimeframe(r.URL.Query().Get("timeframe"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var seed *uint64
	if raw := r.URL.Query().Get("seed"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "seed must be an unsigned integer")
			return
		}
		seed = &v
	}

	series, err := h.market.Chart(symbol, tf, seed)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, marketService.ErrSymbolRequired) || errors.Is(err, marketService.ErrInvalidSymbol) ||
			errors.Is(err, marketService.ErrUnknownTimeframe) {
			status = http.StatusBadRequest
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	if !asPNG {
		utils.RespondJSON(w, http.StatusOK, series)
		return
	}

	png, err := marketService.RenderSeries(series)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
