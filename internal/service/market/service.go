// Package market serves quotes, portfolio and chart data for the dashboard.
package market

import (
	"context"
	"log/slog"
	"strings"
	"time"

	marketModel "github.com/zhouzirui/tradewise/backend/internal/model/market"
	"github.com/zhouzirui/tradewise/backend/pkg/utils"
)

// DefaultQuoteDelay is the simulated latency of a quote lookup.
const DefaultQuoteDelay = 500 * time.Millisecond

// Options tune a Service.
type Options struct {
	QuoteDelay time.Duration
	Source     Source
	Now        func() time.Time
}

// QuoteResult wraps a quote with how it was resolved.
type QuoteResult struct {
	marketModel.Quote
	Requested string `json:"requested"`
	Fallback  bool   `json:"fallback"`
}

// Service reads market data from a store and fabricates charts.
type Service struct {
	store      marketModel.Store
	charts     *ChartGenerator
	now        func() time.Time
	quoteDelay time.Duration
}

// NewService builds a market service.
func NewService(store marketModel.Store, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		store:      store,
		charts:     NewChartGenerator(opts.Source, opts.Now),
		now:        opts.Now,
		quoteDelay: opts.QuoteDelay,
	}
}

// Quote returns the quote for symbol after the simulated latency. Unknown
// symbols resolve to the default symbol with Fallback set.
func (s *Service) Quote(ctx context.Context, symbol string) (QuoteResult, error) {
	requested := strings.ToUpper(strings.TrimSpace(symbol))
	if requested == "" {
		requested = marketModel.DefaultSymbol
	}

	if err := utils.Sleep(ctx, s.quoteDelay); err != nil {
		return QuoteResult{}, err
	}

	if q, ok := s.store.FindQuote(requested); ok {
		return QuoteResult{Quote: q, Requested: requested}, nil
	}

	q, _ := s.store.FindQuote(marketModel.DefaultSymbol)
	slog.Debug("quote fallback", "requested", requested, "served", q.Symbol)
	return QuoteResult{Quote: q, Requested: requested, Fallback: true}, nil
}

// Symbols lists the symbols with a quote.
func (s *Service) Symbols() []string {
	quotes := s.store.Quotes()
	out := make([]string, len(quotes))
	for i, q := range quotes {
		out[i] = q.Symbol
	}
	return out
}

func (s *Service) Recommendations() []marketModel.RecommendedStock {
	return s.store.Recommendations()
}

func (s *Service) Portfolio() marketModel.PortfolioSummary {
	return s.store.Portfolio()
}

func (s *Service) Insights() []marketModel.Insight {
	return s.store.Insights()
}

// News returns headlines, optionally restricted to one category. An empty
// category or "all" returns everything.
func (s *Service) News(category string) []marketModel.NewsItem {
	items := s.store.News()
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, "all") {
		return items
	}

	filtered := items[:0]
	for _, item := range items {
		if strings.EqualFold(item.Category, category) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// Chart generates a series. When seed is non-nil the series is reproducible.
func (s *Service) Chart(symbol string, tf Timeframe, seed *uint64) (Series, error) {
	gen := s.charts
	if seed != nil {
		gen = NewChartGenerator(NewSource(*seed), s.now)
	}
	return gen.Generate(strings.ToUpper(symbol), tf)
}
