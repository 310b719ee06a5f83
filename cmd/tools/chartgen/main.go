package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/tradewise/backend/internal/config"
	"github.com/zhouzirui/tradewise/backend/internal/logging"
	marketModel "github.com/zhouzirui/tradewise/backend/internal/model/market"
	"github.com/zhouzirui/tradewise/backend/internal/service/history"
	"github.com/zhouzirui/tradewise/backend/internal/service/market"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "no .env loaded, using process environment: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.Logging.Level)

	mode := flag.String("mode", "chart", "chart or export")
	symbol := flag.String("symbol", marketModel.DefaultSymbol, "ticker to chart")
	timeframe := flag.String("timeframe", string(market.Timeframe1D), "one of "+timeframeList())
	seed := flag.Uint64("seed", 0, "random seed; 0 picks a fresh one")
	pngPath := flag.String("png", "", "write the chart PNG here")
	format := flag.String("format", "csv", "export format: csv or parquet")
	outPath := flag.String("out", "", "export destination (default transaction_history.<format>)")
	flag.Parse()

	switch *mode {
	case "chart":
		err = runChart(logger, *symbol, *timeframe, *seed, *pngPath)
	case "export":
		err = runExport(logger, *format, *outPath)
	default:
		flag.Usage()
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		logger.Error("chartgen failed", "mode", *mode, "error", err)
		os.Exit(1)
	}
}

func runChart(logger *slog.Logger, symbol, rawTimeframe string, seed uint64, pngPath string) error {
	tf, err := market.ParseTimeframe(rawTimeframe)
	if err != nil {
		return err
	}

	var src market.Source
	if seed != 0 {
		src = market.NewSource(seed)
	}
	series, err := market.NewChartGenerator(src, time.Now).Generate(symbol, tf)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s base=%.2f volatility=%.0f trend=%+d\n", series.Symbol, series.Timeframe, series.BasePrice, series.Volatility, series.Trend)
	for _, p := range series.Points {
		fmt.Printf("%-12s %10.2f\n", p.Time, p.Price)
	}

	if pngPath == "" {
		return nil
	}
	png, err := market.RenderSeries(series)
	if err != nil {
		return err
	}
	if err := writeFile(pngPath, png); err != nil {
		return err
	}
	logger.Info("chart written", "path", pngPath, "bytes", len(png))
	return nil
}

func runExport(logger *slog.Logger, rawFormat, outPath string) error {
	format, err := history.ParseFormat(rawFormat)
	if err != nil {
		return err
	}
	if outPath == "" {
		outPath = format.Filename()
	}

	txs := history.NewService().List(context.Background(), "chartgen", history.FilterAll)

	if err := os.MkdirAll(dirOf(outPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := history.Export(f, format, txs); err != nil {
		return err
	}
	logger.Info("history exported", "path", outPath, "rows", len(txs))
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(dirOf(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func dirOf(path string) string {
	dir := filepath.Dir(path)
	if dir == "" {
		return "."
	}
	return dir
}

func timeframeList() string {
	tfs := market.Timeframes()
	names := make([]string, len(tfs))
	for i, tf := range tfs {
		names[i] = string(tf)
	}
	return strings.Join(names, ", ")
}
