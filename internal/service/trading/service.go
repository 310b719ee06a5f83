// Package trading fills mock orders at the quoted price.
package trading

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	marketModel "github.com/zhouzirui/tradewise/backend/internal/model/market"
	notificationModel "github.com/zhouzirui/tradewise/backend/internal/model/notification"
	"github.com/zhouzirui/tradewise/backend/internal/model/trade"
	"github.com/zhouzirui/tradewise/backend/internal/service/auth"
	"github.com/zhouzirui/tradewise/backend/pkg/utils"
)

var (
	ErrUnknownSymbol = errors.New("unknown symbol")
	ErrOrderPending  = errors.New("an order is already being processed")
)

// DefaultOrderDelay is the simulated broker round trip.
const DefaultOrderDelay = 1500 * time.Millisecond

// Quotes resolves the fill price of a symbol.
type Quotes interface {
	FindQuote(symbol string) (marketModel.Quote, bool)
}

// Ledger records filled orders.
type Ledger interface {
	Record(ctx context.Context, deviceID, date, symbol string, side trade.Side, price decimal.Decimal, quantity int64) (trade.Transaction, error)
}

// Sessions resolves the signed-in state of a device.
type Sessions interface {
	Facade(ctx context.Context, deviceID string) (*auth.Facade, error)
}

// Order is a ticket submitted from the trading page.
type Order struct {
	Side      trade.Side      `json:"side"`
	Symbol    string          `json:"symbol"`
	Quantity  int64           `json:"quantity"`
	OrderType trade.OrderType `json:"orderType"`
}

// Normalize validates o and fills defaults.
func (o Order) Normalize() (Order, error) {
	side, err := trade.ParseSide(string(o.Side))
	if err != nil {
		return Order{}, err
	}
	ot, err := trade.ParseOrderType(string(o.OrderType))
	if err != nil {
		return Order{}, err
	}
	if o.Quantity < 1 {
		return Order{}, trade.ErrInvalidQuantity
	}
	symbol := strings.ToUpper(strings.TrimSpace(o.Symbol))
	if symbol == "" {
		return Order{}, fmt.Errorf("%w: empty", ErrUnknownSymbol)
	}
	return Order{Side: side, Symbol: symbol, Quantity: o.Quantity, OrderType: ot}, nil
}

// Ticket is the priced order before it is placed.
type Ticket struct {
	Order
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Total decimal.Decimal `json:"total"`
}

// Options tune a Service.
type Options struct {
	Delay time.Duration
	Now   func() time.Time
}

// Service prices and places orders.
type Service struct {
	quotes   Quotes
	ledger   Ledger
	sessions Sessions
	notifier auth.NotifierResolver
	delay    time.Duration
	now      func() time.Time

	inflight *keyedGate
}

// NewService wires the trading service. notifier may be nil.
func NewService(quotes Quotes, ledger Ledger, sessions Sessions, notifier auth.NotifierResolver, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		quotes:   quotes,
		ledger:   ledger,
		sessions: sessions,
		notifier: notifier,
		delay:    opts.Delay,
		now:      opts.Now,
		inflight: newKeyedGate(),
	}
}

// Preview prices an order without placing it.
func (s *Service) Preview(o Order) (Ticket, error) {
	o, err := o.Normalize()
	if err != nil {
		return Ticket{}, err
	}

	q, ok := s.quotes.FindQuote(o.Symbol)
	if !ok {
		return Ticket{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, o.Symbol)
	}

	price := decimal.NewFromFloat(q.Price).Round(2)
	return Ticket{
		Order: o,
		Name:  q.Name,
		Price: price,
		Total: trade.Total(price, o.Quantity),
	}, nil
}

// PlaceOrder fills o for an authenticated device after the simulated delay
// and records it in the device's ledger. One order per device may be in
// flight at a time.
func (s *Service) PlaceOrder(ctx context.Context, deviceID string, o Order) (trade.Transaction, error) {
	facade, err := s.sessions.Facade(ctx, deviceID)
	if err != nil {
		return trade.Transaction{}, err
	}
	if !facade.IsAuthenticated() {
		return trade.Transaction{}, auth.ErrNotAuthenticated
	}

	ticket, err := s.Preview(o)
	if err != nil {
		return trade.Transaction{}, err
	}

	if !s.inflight.acquire(deviceID) {
		return trade.Transaction{}, ErrOrderPending
	}
	defer s.inflight.release(deviceID)

	if err := utils.Sleep(ctx, s.delay); err != nil {
		return trade.Transaction{}, err
	}

	tx, err := s.ledger.Record(ctx, deviceID, s.now().Format(trade.DateLayout), ticket.Symbol, ticket.Side, ticket.Price, ticket.Quantity)
	if err != nil {
		return trade.Transaction{}, fmt.Errorf("record order: %w", err)
	}

	verb := "purchased"
	if ticket.Side == trade.Sell {
		verb = "sold"
	}
	s.notify(ctx, deviceID, notificationModel.Notice{
		Title:       "Order Successful",
		Description: fmt.Sprintf("You have successfully %s %d shares of %s at $%s.", verb, ticket.Quantity, ticket.Symbol, ticket.Price.StringFixed(2)),
	})

	slog.InfoContext(ctx, "order filled", "device", deviceID, "id", tx.ID, "type", ticket.OrderType)
	return tx, nil
}

func (s *Service) notify(ctx context.Context, deviceID string, n notificationModel.Notice) {
	if s.notifier == nil {
		return
	}
	if target := s.notifier(deviceID); target != nil {
		target.Notify(ctx, n)
	}
}
