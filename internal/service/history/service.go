// Package history keeps each device's trading ledger.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/zhouzirui/tradewise/backend/internal/model/trade"
)

var ErrUnknownFilter = errors.New("filter must be all, buy or sell")

// Filter restricts a transaction listing.
type Filter string

const (
	FilterAll  Filter = "all"
	FilterBuy  Filter = "buy"
	FilterSell Filter = "sell"
)

// ParseFilter accepts all, buy or sell; empty means all.
func ParseFilter(raw string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(raw)))
	switch f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterBuy, FilterSell:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, raw)
}

func (f Filter) match(tx trade.Transaction) bool {
	return f == FilterAll || string(tx.Type) == string(f)
}

// Mock figures shown on the summary card. They do not follow from the ledger.
var (
	ProfitLoss   = decimal.RequireFromString("3421.76")
	EstimatedTax = decimal.RequireFromString("854.44")
)

// Summary is the trading activity card.
type Summary struct {
	TotalTrades  int             `json:"totalTrades"`
	BuyOrders    int             `json:"buyOrders"`
	SellOrders   int             `json:"sellOrders"`
	ProfitLoss   decimal.Decimal `json:"profitLoss"`
	EstimatedTax decimal.Decimal `json:"estimatedTax"`
}

type ledger struct {
	mu   sync.Mutex
	txs  []trade.Transaction // newest first
	next int64
}

// Service stores ledgers keyed by device.
type Service struct {
	mu      sync.RWMutex
	ledgers map[string]*ledger
}

// NewService returns an empty service. Ledgers are seeded on first access.
func NewService() *Service {
	return &Service{ledgers: make(map[string]*ledger)}
}

func (s *Service) ledger(deviceID string) *ledger {
	s.mu.RLock()
	l, ok := s.ledgers[deviceID]
	s.mu.RUnlock()
	if ok {
		return l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok = s.ledgers[deviceID]; ok {
		return l
	}
	l = &ledger{txs: trade.Seed(), next: trade.FirstSeedSequence + 1}
	s.ledgers[deviceID] = l
	return l
}

// List returns the device's transactions, newest first.
func (s *Service) List(_ context.Context, deviceID string, filter Filter) []trade.Transaction {
	l := s.ledger(deviceID)
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]trade.Transaction, 0, len(l.txs))
	for _, tx := range l.txs {
		if filter.match(tx) {
			out = append(out, tx)
		}
	}
	return out
}

// Append validates tx and puts it at the head of the ledger.
func (s *Service) Append(_ context.Context, deviceID string, tx trade.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	l := s.ledger(deviceID)
	l.mu.Lock()
	l.txs = append([]trade.Transaction{tx}, l.txs...)
	l.mu.Unlock()
	return nil
}

// Record allocates the next TR id, builds a completed transaction and
// appends it.
func (s *Service) Record(ctx context.Context, deviceID, date, symbol string, side trade.Side, price decimal.Decimal, quantity int64) (trade.Transaction, error) {
	l := s.ledger(deviceID)

	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := trade.NewTransaction(fmt.Sprintf("TR-%d", l.next), date, symbol, side, price, quantity)
	if err != nil {
		return trade.Transaction{}, err
	}
	l.next++
	l.txs = append([]trade.Transaction{tx}, l.txs...)

	slog.InfoContext(ctx, "transaction recorded", "device", deviceID, "id", tx.ID, "symbol", tx.Symbol, "side", tx.Type, "total", tx.Total.String())
	return tx, nil
}

// Summary counts the device's trades.
func (s *Service) Summary(ctx context.Context, deviceID string) Summary {
	txs := s.List(ctx, deviceID, FilterAll)
	sum := Summary{
		TotalTrades:  len(txs),
		ProfitLoss:   ProfitLoss,
		EstimatedTax: EstimatedTax,
	}
	for _, tx := range txs {
		switch tx.Type {
		case trade.Buy:
			sum.BuyOrders++
		case trade.Sell:
			sum.SellOrders++
		}
	}
	return sum
}

// Performance returns the monthly portfolio value series.
func (s *Service) Performance() []trade.PerformancePoint {
	return trade.SeedPerformance()
}

// Forget drops a device's ledger; the next access reseeds it.
func (s *Service) Forget(deviceID string) {
	s.mu.Lock()
	delete(s.ledgers, deviceID)
	s.mu.Unlock()
}
