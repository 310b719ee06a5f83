// Package trade holds order and transaction values shared by trading and
// history.
package trade

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidSide      = errors.New("side must be buy or sell")
	ErrInvalidOrderType = errors.New("order type must be market, limit or stop")
	ErrTotalMismatch    = errors.New("total does not equal price times quantity")
)

// Side is the direction of an order.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Valid reports whether s is buy or sell.
func (s Side) Valid() bool { return s == Buy || s == Sell }

// ParseSide normalises raw into a Side.
func ParseSide(raw string) (Side, error) {
	s := Side(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSide, raw)
	}
	return s, nil
}

// OrderType is how an order would be priced by a real broker. The mock fills
// every type at the quoted price.
type OrderType string

const (
	Market OrderType = "market"
	Limit  OrderType = "limit"
	Stop   OrderType = "stop"
)

// ParseOrderType normalises raw, defaulting to market when empty.
func ParseOrderType(raw string) (OrderType, error) {
	t := OrderType(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case "":
		return Market, nil
	case Market, Limit, Stop:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOrderType, raw)
}

// Status is the settlement state of a transaction.
type Status string

const (
	Completed Status = "completed"
	Pending   Status = "pending"
	Failed    Status = "failed"
)

// Transaction is one row in the trading history.
type Transaction struct {
	ID       string          `json:"id"`
	Date     string          `json:"date"`
	Symbol   string          `json:"symbol"`
	Type     Side            `json:"type"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
	Status   Status          `json:"status"`
}

// DateLayout formats transaction dates, e.g. "Apr 12, 2025".
const DateLayout = "Jan 02, 2006"

// Total returns price × quantity rounded to cents.
func Total(price decimal.Decimal, quantity int64) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(quantity)).Round(2)
}

// NewTransaction builds a completed transaction with its total derived from
// price and quantity.
func NewTransaction(id, date, symbol string, side Side, price decimal.Decimal, quantity int64) (Transaction, error) {
	if !side.Valid() {
		return Transaction{}, ErrInvalidSide
	}
	if quantity < 1 {
		return Transaction{}, ErrInvalidQuantity
	}
	return Transaction{
		ID:       id,
		Date:     date,
		Symbol:   strings.ToUpper(symbol),
		Type:     side,
		Price:    price,
		Quantity: quantity,
		Total:    Total(price, quantity),
		Status:   Completed,
	}, nil
}

// Validate checks the total invariant.
func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidSide
	}
	if t.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if want := Total(t.Price, t.Quantity); !t.Total.Equal(want) {
		return fmt.Errorf("%w: %s %s != %s", ErrTotalMismatch, t.ID, t.Total, want)
	}
	return nil
}
