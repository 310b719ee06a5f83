package trade

import "github.com/shopspring/decimal"

// FirstSeedSequence is the number in the newest seeded id, TR-12345.
const FirstSeedSequence = 12345

// Seed returns the mock trading history, newest first.
func Seed() []Transaction {
	rows := []struct {
		id, date, symbol string
		side             Side
		price            string
		qty              int64
	}{
		{"TR-12345", "Apr 12, 2025", "AAPL", Buy, "178.72", 10},
		{"TR-12344", "Apr 10, 2025", "MSFT", Buy, "337.91", 5},
		{"TR-12343", "Apr 05, 2025", "TSLA", Buy, "242.50", 4},
		{"TR-12342", "Mar 28, 2025", "GOOGL", Buy, "139.80", 8},
		{"TR-12341", "Mar 22, 2025", "NVDA", Sell, "436.75", 2},
		{"TR-12340", "Mar 15, 2025", "AMZN", Buy, "134.30", 7},
		{"TR-12339", "Mar 10, 2025", "META", Buy, "313.20", 6},
		{"TR-12338", "Mar 02, 2025", "NVDA", Buy, "380.90", 5},
		{"TR-12337", "Feb 24, 2025", "TSLA", Sell, "220.30", 3},
		{"TR-12336", "Feb 18, 2025", "AAPL", Buy, "150.60", 5},
	}

	out := make([]Transaction, 0, len(rows))
	for _, r := range rows {
		tx, err := NewTransaction(r.id, r.date, r.symbol, r.side, decimal.RequireFromString(r.price), r.qty)
		if err != nil {
			panic(err)
		}
		out = append(out, tx)
	}
	return out
}

// PerformancePoint is one month of portfolio value.
type PerformancePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// SeedPerformance returns sixteen monthly portfolio values ending at the
// current total.
func SeedPerformance() []PerformancePoint {
	return []PerformancePoint{
		{"Jan", 10000}, {"Feb", 10400}, {"Mar", 9800}, {"Apr", 12000},
		{"May", 12600}, {"Jun", 13100}, {"Jul", 14000}, {"Aug", 13500},
		{"Sep", 14200}, {"Oct", 15000}, {"Nov", 16200}, {"Dec", 17000},
		{"Jan", 18500}, {"Feb", 19800}, {"Mar", 20500}, {"Apr", 25789.43},
	}
}
