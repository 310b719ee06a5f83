package market

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	ErrSymbolRequired   = errors.New("symbol is required")
	ErrInvalidSymbol    = errors.New("symbol may only contain letters, digits, '.' and '-'")
	ErrUnknownTimeframe = errors.New("unknown timeframe")
)

// Timeframe is a chart window selectable on the trading page.
type Timeframe string

const (
	Timeframe1D Timeframe = "1D"
	Timeframe1W Timeframe = "1W"
	Timeframe1M Timeframe = "1M"
	Timeframe3M Timeframe = "3M"
	Timeframe1Y Timeframe = "1Y"
	Timeframe5Y Timeframe = "5Y"
)

// DefaultTimeframe is used when the caller names none.
const DefaultTimeframe = Timeframe1D

var pointCounts = map[Timeframe]int{
	Timeframe1D: 24, // hourly
	Timeframe1W: 7,  // daily
	Timeframe1M: 30, // daily
	Timeframe3M: 12, // weekly
	Timeframe1Y: 12, // monthly
	Timeframe5Y: 20, // quarterly
}

// Timeframes lists the selectable windows in display order.
func Timeframes() []Timeframe {
	return []Timeframe{Timeframe1D, Timeframe1W, Timeframe1M, Timeframe3M, Timeframe1Y, Timeframe5Y}
}

// ParseTimeframe accepts a timeframe case-insensitively; empty means 1D.
func ParseTimeframe(raw string) (Timeframe, error) {
	tf := Timeframe(strings.ToUpper(strings.TrimSpace(raw)))
	if tf == "" {
		return DefaultTimeframe, nil
	}
	if _, ok := pointCounts[tf]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTimeframe, raw)
	}
	return tf, nil
}

// Points returns how many samples a timeframe holds.
func (tf Timeframe) Points() int { return pointCounts[tf] }

// Source yields uniform values in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a seeded source so a series can be reproduced.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// ChartPoint is one labelled sample.
type ChartPoint struct {
	Time  string  `json:"time"`
	Price float64 `json:"price"`
}

// Series is a generated price history.
type Series struct {
	Symbol     string       `json:"symbol"`
	Timeframe  Timeframe    `json:"timeframe"`
	BasePrice  float64      `json:"basePrice"`
	Volatility float64      `json:"volatility"`
	Trend      int          `json:"trend"`
	Points     []ChartPoint `json:"points"`
}

// Prices returns the price column.
func (s Series) Prices() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Price
	}
	return out
}

// Labels returns the time column.
func (s Series) Labels() []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Time
	}
	return out
}

// ChartGenerator fabricates plausible price histories from a symbol's
// characters. Two calls with the same symbol share base price and volatility
// but differ in noise and trend unless the source is seeded.
type ChartGenerator struct {
	mu  sync.Mutex
	src Source
	now func() time.Time
}

// NewChartGenerator builds a generator. A nil src uses the global random
// source; a nil now uses time.Now.
func NewChartGenerator(src Source, now func() time.Time) *ChartGenerator {
	if src == nil {
		src = globalSource{}
	}
	if now == nil {
		now = time.Now
	}
	return &ChartGenerator{src: src, now: now}
}

// Generate builds the series for symbol over tf.
func (g *ChartGenerator) Generate(symbol string, tf Timeframe) (Series, error) {
	codes := []rune(strings.TrimSpace(symbol))
	if len(codes) == 0 {
		return Series{}, ErrSymbolRequired
	}
	if !validSymbol(codes) {
		return Series{}, fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	count, ok := pointCounts[tf]
	if !ok {
		return Series{}, fmt.Errorf("%w: %q", ErrUnknownTimeframe, tf)
	}

	second := codes[0]
	if len(codes) > 1 {
		second = codes[1]
	}
	base := float64(codes[0] + second)
	volatility := float64((codes[0]+codes[len(codes)-1])%10 + 1)

	g.mu.Lock()
	defer g.mu.Unlock()

	trend := -1
	if g.src.Float64() > 0.5 {
		trend = 1
	}

	floor := base * 0.5
	now := g.now()
	price := base
	points := make([]ChartPoint, count)
	for i := range points {
		change := (g.src.Float64() - 0.5) * volatility
		price += change + float64(trend)*(volatility/5)
		price = math.Max(price, floor)
		points[i] = ChartPoint{
			Time:  label(i, tf, count, now),
			Price: math.Round(price*100) / 100,
		}
	}

	return Series{
		Symbol:     string(codes),
		Timeframe:  tf,
		BasePrice:  base,
		Volatility: volatility,
		Trend:      trend,
		Points:     points,
	}, nil
}

// validSymbol keeps base prices positive: every allowed rune is at least '-'.
func validSymbol(codes []rune) bool {
	for _, c := range codes {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '.', c == '-':
		default:
			return false
		}
	}
	return true
}

var dayNames = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func label(i int, tf Timeframe, total int, now time.Time) string {
	switch tf {
	case Timeframe1D:
		return fmt.Sprintf("%d:00", i*24/total)
	case Timeframe1W:
		day := (int(now.Weekday()) - (total - i - 1)) % 7
		return dayNames[(day+7)%7]
	case Timeframe1M:
		return strconv.Itoa(i + 1)
	case Timeframe3M:
		return "W" + strconv.Itoa(i+1)
	case Timeframe1Y:
		return time.Month(i%12 + 1).String()[:3]
	case Timeframe5Y:
		return fmt.Sprintf("%d Q%d", now.Year()-5+i/4, i%4+1)
	default:
		return strconv.Itoa(i)
	}
}
