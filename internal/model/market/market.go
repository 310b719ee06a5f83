package market

// Quote is the detail card shown on the trading page.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Volume        string  `json:"volume"`
	MarketCap     string  `json:"marketCap"`
	PE            float64 `json:"pe"`
	Dividend      float64 `json:"dividend"`
	Sector        string  `json:"sector"`
	YearHigh      float64 `json:"yearHigh"`
	YearLow       float64 `json:"yearLow"`
	AnalystRating string  `json:"analystRating"`
}

// Recommendation is a buy/sell/hold call on a stock card.
type Recommendation string

const (
	RecommendBuy  Recommendation = "buy"
	RecommendSell Recommendation = "sell"
	RecommendHold Recommendation = "hold"
)

// RecommendedStock is one card in the dashboard's recommendation strip.
type RecommendedStock struct {
	Symbol         string         `json:"symbol"`
	Name           string         `json:"name"`
	Price          float64        `json:"price"`
	Change         float64        `json:"change"`
	ChangePercent  float64        `json:"changePercent"`
	Recommendation Recommendation `json:"recommendation"`
}

// Holding is a portfolio line item.
type Holding struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Shares        int     `json:"shares"`
	AvgPrice      float64 `json:"avgPrice"`
	CurrentPrice  float64 `json:"currentPrice"`
	Value         float64 `json:"value"`
	Allocation    float64 `json:"allocation"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// PortfolioSummary is the headline block of the dashboard.
type PortfolioSummary struct {
	TotalValue         float64   `json:"totalValue"`
	DailyChange        float64   `json:"dailyChange"`
	DailyChangePercent float64   `json:"dailyChangePercent"`
	TotalReturn        float64   `json:"totalReturn"`
	TotalReturnPercent float64   `json:"totalReturnPercent"`
	Stocks             []Holding `json:"stocks"`
}

// NewsItem is a market headline.
type NewsItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Source   string `json:"source"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Category string `json:"category"`
	URL      string `json:"url"`
}

// Insight is a canned assistant tip on the dashboard.
type Insight struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
