package history

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/tradewise/backend/internal/middleware"
	historyService "github.com/zhouzirui/tradewise/backend/internal/service/history"
	marketService "github.com/zhouzirui/tradewise/backend/internal/service/market"
	"github.com/zhouzirui/tradewise/backend/pkg/utils"
)

// Handler serves the trading history page.
type Handler struct {
	history *historyService.Service
}

// New creates the history handler.
func New(history *historyService.Service) *Handler {
	return &Handler{history: history}
}

// RegisterRoutes mounts the /history routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/history", func(r chi.Router) {
		r.Get("/transactions", h.handleList)
		r.Get("/export", h.handleExport)
		r.Get("/performance", h.handlePerformance)
		r.Get("/performance.png", h.handlePerformanceChart)
		r.Get("/summary", h.handleSummary)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter, err := historyService.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.history.List(r.Context(), middleware.DeviceID(r.Context()), filter))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := historyService.ParseFilter(q.Get("filter"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	format, err := historyService.ParseFormat(q.Get("format"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs := h.history.List(r.Context(), middleware.DeviceID(r.Context()), filter)

	// buffer so an encoding error can still become a JSON error
	var buf bytes.Buffer
	if err := historyService.Export(&buf, format, txs); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, historyService.ErrUnknownFormat) {
			status = http.StatusBadRequest
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) handlePerformance(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.history.Performance())
}

func (h *Handler) handlePerformanceChart(w http.ResponseWriter, r *http.Request) {
	points := h.history.Performance()
	labels := make([]string, len(points))
	values := make([]float64, len(points))
	for i, p := range points {
		labels[i] = p.Date
		values[i] = p.Value
	}

	png, err := marketService.RenderLineChart("Portfolio Performance", labels, values)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.history.Summary(r.Context(), middleware.DeviceID(r.Context())))
}
