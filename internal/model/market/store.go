package market

import "strings"

// Store exposes the static market data the dashboard reads.
type Store interface {
	Quotes() []Quote
	FindQuote(symbol string) (Quote, bool)
	Recommendations() []RecommendedStock
	Portfolio() PortfolioSummary
	News() []NewsItem
	Insights() []Insight
}

// MemoryStore implements Store over fixed slices.
type MemoryStore struct {
	quotes          []Quote
	recommendations []RecommendedStock
	portfolio       PortfolioSummary
	news            []NewsItem
	insights        []Insight
}

// NewMemoryStore returns a MemoryStore preloaded with the seed data.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		quotes:          SeedQuotes(),
		recommendations: SeedRecommendations(),
		portfolio:       SeedPortfolio(),
		news:            SeedNews(),
		insights:        SeedInsights(),
	}
}

func (s *MemoryStore) Quotes() []Quote {
	return append([]Quote(nil), s.quotes...)
}

// FindQuote looks up a quote by symbol, ignoring case.
func (s *MemoryStore) FindQuote(symbol string) (Quote, bool) {
	for _, q := range s.quotes {
		if strings.EqualFold(q.Symbol, symbol) {
			return q, true
		}
	}
	return Quote{}, false
}

func (s *MemoryStore) Recommendations() []RecommendedStock {
	return append([]RecommendedStock(nil), s.recommendations...)
}

func (s *MemoryStore) Portfolio() PortfolioSummary {
	p := s.portfolio
	p.Stocks = append([]Holding(nil), s.portfolio.Stocks...)
	return p
}

func (s *MemoryStore) News() []NewsItem {
	return append([]NewsItem(nil), s.news...)
}

func (s *MemoryStore) Insights() []Insight {
	return append([]Insight(nil), s.insights...)
}
