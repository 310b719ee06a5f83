package market

// DefaultSymbol is shown when a requested symbol has no quote.
const DefaultSymbol = "AAPL"

// SeedQuotes provides the quotes behind the trading page.
func SeedQuotes() []Quote {
	return []Quote{
		{
			Symbol: "AAPL", Name: "Apple Inc.", Price: 178.72, Change: 2.35, ChangePercent: 1.33,
			Open: 177.23, High: 179.82, Low: 176.45, Volume: "52.3M", MarketCap: "$2.87T",
			PE: 28.4, Dividend: 0.58, Sector: "Technology", YearHigh: 198.23, YearLow: 124.17,
			AnalystRating: "Strong Buy",
		},
		{
			Symbol: "MSFT", Name: "Microsoft Corporation", Price: 337.91, Change: 1.95, ChangePercent: 0.58,
			Open: 336.84, High: 339.27, Low: 335.62, Volume: "18.7M", MarketCap: "$2.51T",
			PE: 32.6, Dividend: 0.75, Sector: "Technology", YearHigh: 366.78, YearLow: 274.37,
			AnalystRating: "Strong Buy",
		},
		{
			Symbol: "GOOGL", Name: "Alphabet Inc.", Price: 139.80, Change: -0.83, ChangePercent: -0.59,
			Open: 140.51, High: 141.20, Low: 138.95, Volume: "23.1M", MarketCap: "$1.76T",
			PE: 24.2, Dividend: 0, Sector: "Technology", YearHigh: 153.78, YearLow: 102.63,
			AnalystRating: "Buy",
		},
		{
			Symbol: "TSLA", Name: "Tesla, Inc.", Price: 242.50, Change: 5.76, ChangePercent: 2.43,
			Open: 238.45, High: 244.32, Low: 237.24, Volume: "91.2M", MarketCap: "$775.9B",
			PE: 62.8, Dividend: 0, Sector: "Automotive", YearHigh: 299.29, YearLow: 138.80,
			AnalystRating: "Hold",
		},
		{
			Symbol: "AMZN", Name: "Amazon.com, Inc.", Price: 134.30, Change: -1.52, ChangePercent: -1.12,
			Open: 135.73, High: 136.65, Low: 133.89, Volume: "32.6M", MarketCap: "$1.38T",
			PE: 42.7, Dividend: 0, Sector: "Consumer Cyclical", YearHigh: 145.86, YearLow: 88.12,
			AnalystRating: "Buy",
		},
	}
}

// SeedRecommendations provides the dashboard's recommended stocks.
func SeedRecommendations() []RecommendedStock {
	return []RecommendedStock{
		{Symbol: "AAPL", Name: "Apple Inc", Price: 178.72, Change: 2.35, ChangePercent: 1.33, Recommendation: RecommendBuy},
		{Symbol: "MSFT", Name: "Microsoft Corporation", Price: 337.91, Change: 1.95, ChangePercent: 0.58, Recommendation: RecommendBuy},
		{Symbol: "GOOGL", Name: "Alphabet Inc", Price: 139.80, Change: -0.83, ChangePercent: -0.59, Recommendation: RecommendHold},
		{Symbol: "AMZN", Name: "Amazon.com Inc", Price: 134.30, Change: -1.52, ChangePercent: -1.12, Recommendation: RecommendBuy},
	}
}

// SeedPortfolio provides the dashboard's portfolio summary.
func SeedPortfolio() PortfolioSummary {
	return PortfolioSummary{
		TotalValue:         25789.43,
		DailyChange:        423.12,
		DailyChangePercent: 1.67,
		TotalReturn:        3421.76,
		TotalReturnPercent: 15.3,
		Stocks: []Holding{
			{Symbol: "AAPL", Name: "Apple Inc", Shares: 10, AvgPrice: 150.60, CurrentPrice: 178.72, Value: 1787.20, Allocation: 20.5, Change: 28.12, ChangePercent: 18.67},
			{Symbol: "MSFT", Name: "Microsoft Corporation", Shares: 5, AvgPrice: 320.45, CurrentPrice: 337.91, Value: 1689.55, Allocation: 18.2, Change: 17.46, ChangePercent: 5.45},
			{Symbol: "TSLA", Name: "Tesla Inc", Shares: 4, AvgPrice: 220.30, CurrentPrice: 242.50, Value: 970.00, Allocation: 14.8, Change: 22.20, ChangePercent: 10.08},
			{Symbol: "AMZN", Name: "Amazon.com Inc", Shares: 7, AvgPrice: 130.25, CurrentPrice: 134.30, Value: 940.10, Allocation: 13.5, Change: 4.05, ChangePercent: 3.11},
			{Symbol: "NVDA", Name: "NVIDIA Corporation", Shares: 3, AvgPrice: 380.90, CurrentPrice: 436.75, Value: 1310.25, Allocation: 12.2, Change: 55.85, ChangePercent: 14.66},
			{Symbol: "GOOGL", Name: "Alphabet Inc", Shares: 8, AvgPrice: 135.40, CurrentPrice: 139.80, Value: 1118.40, Allocation: 10.8, Change: 4.40, ChangePercent: 3.25},
			{Symbol: "META", Name: "Meta Platforms Inc", Shares: 6, AvgPrice: 290.75, CurrentPrice: 313.20, Value: 1879.20, Allocation: 10.0, Change: 22.45, ChangePercent: 7.72},
		},
	}
}

// SeedNews provides the market news feed.
func SeedNews() []NewsItem {
	return []NewsItem{
		{ID: "1", Title: "Federal Reserve signals potential rate cuts in the coming months", Source: "Financial Times", Date: "Apr 12, 2025", Time: "10:32 AM", Category: "Economy", URL: "#"},
		{ID: "2", Title: "Apple unveils new AI features for iPhone and Mac lineup", Source: "Tech Today", Date: "Apr 12, 2025", Time: "9:15 AM", Category: "Technology", URL: "#"},
		{ID: "3", Title: "Oil prices surge amid Middle East tensions", Source: "Market Watch", Date: "Apr 12, 2025", Time: "8:45 AM", Category: "Commodities", URL: "#"},
		{ID: "4", Title: "Bitcoin breaks $100,000 barrier for the first time", Source: "Crypto Daily", Date: "Apr 11, 2025", Time: "4:20 PM", Category: "Crypto", URL: "#"},
		{ID: "5", Title: "Tesla announces new affordable EV model starting at $25,000", Source: "Auto News", Date: "Apr 11, 2025", Time: "2:30 PM", Category: "Stocks", URL: "#"},
		{ID: "6", Title: "Amazon acquires AI startup for $2.5 billion", Source: "Business Insider", Date: "Apr 11, 2025", Time: "11:15 AM", Category: "Stocks", URL: "#"},
		{ID: "7", Title: "U.S. job growth exceeds expectations in March", Source: "Economic Times", Date: "Apr 10, 2025", Time: "9:30 AM", Category: "Economy", URL: "#"},
		{ID: "8", Title: "Microsoft launches new AI-powered productivity tools", Source: "Tech Crunch", Date: "Apr 10, 2025", Time: "8:00 AM", Category: "Technology", URL: "#"},
	}
}

// SeedInsights provides the assistant tips shown beside the portfolio.
func SeedInsights() []Insight {
	return []Insight{
		{
			Title: "Diversification",
			Body:  "Consider diversifying your portfolio by adding exposure to the energy sector as oil prices are expected to rise in the coming weeks.",
		},
		{
			Title: "Outlook",
			Body:  "Shows strong potential based on recent quarterly results and industry trends. The company's innovative product lineup and expanding market share contribute to a positive outlook. Consider adding to your portfolio as a long-term investment.",
		},
	}
}
