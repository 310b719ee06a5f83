package history_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/tradewise/backend/internal/model/trade"
	"github.com/zhouzirui/tradewise/backend/internal/service/history"
)

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	svc := history.NewService()

	all := svc.List(ctx, "dev", history.FilterAll)
	require.Len(t, all, 10)

	buys := svc.List(ctx, "dev", history.FilterBuy)
	sells := svc.List(ctx, "dev", history.FilterSell)
	assert.Len(t, buys, 8)
	assert.Len(t, sells, 2)
	for _, tx := range sells {
		assert.Equal(t, trade.Sell, tx.Type)
	}
}

func TestParseFilter(t *testing.T) {
	f, err := history.ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, history.FilterAll, f)

	_, err = history.ParseFilter("pending")
	assert.ErrorIs(t, err, history.ErrUnknownFilter)
}

func TestRecordContinuesSequence(t *testing.T) {
	ctx := context.Background()
	svc := history.NewService()

	tx, err := svc.Record(ctx, "dev", "Apr 16, 2025", "nvda", trade.Buy, decimal.RequireFromString("436.75"), 3)
	require.NoError(t, err)
	assert.Equal(t, "TR-12346", tx.ID)
	assert.Equal(t, "NVDA", tx.Symbol)
	assert.Equal(t, "1310.25", tx.Total.String())

	next, err := svc.Record(ctx, "dev", "Apr 16, 2025", "AAPL", trade.Sell, decimal.RequireFromString("178.72"), 1)
	require.NoError(t, err)
	assert.Equal(t, "TR-12347", next.ID)

	list := svc.List(ctx, "dev", history.FilterAll)
	require.Len(t, list, 12)
	assert.Equal(t, "TR-12347", list[0].ID)

	// other devices keep their own ledger
	assert.Len(t, svc.List(ctx, "other", history.FilterAll), 10)
}

func TestRecordConcurrentIDsUnique(t *testing.T) {
	ctx := context.Background()
	svc := history.NewService()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Record(ctx, "dev", "", "AAPL", trade.Buy, decimal.NewFromInt(1), 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, tx := range svc.List(ctx, "dev", history.FilterAll) {
		assert.False(t, seen[tx.ID], "duplicate id %s", tx.ID)
		seen[tx.ID] = true
	}
	assert.Len(t, seen, 30)
}

func TestAppendEnforcesTotal(t *testing.T) {
	ctx := context.Background()
	svc := history.NewService()

	bad := trade.Transaction{
		ID: "TR-1", Symbol: "AAPL", Type: trade.Buy,
		Price: decimal.RequireFromString("10"), Quantity: 2, Total: decimal.RequireFromString("25"),
		Status: trade.Completed,
	}
	assert.ErrorIs(t, svc.Append(ctx, "dev", bad), trade.ErrTotalMismatch)
	assert.Len(t, svc.List(ctx, "dev", history.FilterAll), 10)

	bad.Total = decimal.RequireFromString("20")
	require.NoError(t, svc.Append(ctx, "dev", bad))
	assert.Len(t, svc.List(ctx, "dev", history.FilterAll), 11)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	svc := history.NewService()

	sum := svc.Summary(ctx, "dev")
	assert.Equal(t, 10, sum.TotalTrades)
	assert.Equal(t, 8, sum.BuyOrders)
	assert.Equal(t, 2, sum.SellOrders)
	assert.Equal(t, "3421.76", sum.ProfitLoss.String())
	assert.Equal(t, "854.44", sum.EstimatedTax.String())
}

func TestPerformance(t *testing.T) {
	points := history.NewService().Performance()
	require.Len(t, points, 16)
	assert.Equal(t, 25789.43, points[15].Value)
}

func TestWriteCSV(t *testing.T) {
	svc := history.NewService()
	sells := svc.List(context.Background(), "dev", history.FilterSell)

	var buf bytes.Buffer
	require.NoError(t, history.WriteCSV(&buf, sells))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Date,Symbol,Type,Price,Quantity,Total,Status", lines[0])
	assert.Equal(t, `TR-12341,"Mar 22, 2025",NVDA,sell,436.75,2,873.5,completed`, lines[1])
	assert.Equal(t, `TR-12337,"Feb 24, 2025",TSLA,sell,220.3,3,660.9,completed`, lines[2])
}

func TestWriteParquetRoundTrip(t *testing.T) {
	svc := history.NewService()
	txs := svc.List(context.Background(), "dev", history.FilterAll)

	var buf bytes.Buffer
	require.NoError(t, history.Export(&buf, history.FormatParquet, txs))

	rows, err := parquet.Read[history.TransactionRecord](bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, rows, 10)
	assert.Equal(t, "TR-12345", rows[0].ID)
	assert.InDelta(t, 1787.2, rows[0].Total, 1e-9)
}

func TestParseFormat(t *testing.T) {
	f, err := history.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, history.FormatCSV, f)
	assert.Equal(t, "transaction_history.csv", f.Filename())

	f, err = history.ParseFormat("PARQUET")
	require.NoError(t, err)
	assert.Equal(t, history.FormatParquet, f)

	_, err = history.ParseFormat("xlsx")
	assert.ErrorIs(t, err, history.ErrUnknownFormat)
}
