package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/zhouzirui/tradewise/backend/internal/model/trade"
)

var ErrUnknownFormat = errors.New("format must be csv or parquet")

// Format is an export file type.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// ParseFormat accepts csv or parquet; empty means csv.
func ParseFormat(raw string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(raw)))
	switch f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatParquet:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatParquet {
		return "application/vnd.apache.parquet"
	}
	return "text/csv"
}

// Filename is the download name offered to the browser.
func (f Format) Filename() string {
	return "transaction_history." + string(f)
}

// CSVHeader is the first row of a CSV export.
var CSVHeader = []string{"ID", "Date", "Symbol", "Type", "Price", "Quantity", "Total", "Status"}

// WriteCSV writes txs with a header row.
func WriteCSV(w io.Writer, txs []trade.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, tx := range txs {
		row := []string{
			tx.ID,
			tx.Date,
			tx.Symbol,
			string(tx.Type),
			tx.Price.String(),
			strconv.FormatInt(tx.Quantity, 10),
			tx.Total.String(),
			string(tx.Status),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// TransactionRecord is the Parquet schema of an exported transaction.
type TransactionRecord struct {
	ID       string  `parquet:"id"`
	Date     string  `parquet:"date"`
	Symbol   string  `parquet:"symbol"`
	Type     string  `parquet:"type"`
	Price    float64 `parquet:"price"`
	Quantity int64   `parquet:"quantity"`
	Total    float64 `parquet:"total"`
	Status   string  `parquet:"status"`
}

// WriteParquet writes txs as a single Parquet file.
func WriteParquet(w io.Writer, txs []trade.Transaction) error {
	records := make([]TransactionRecord, len(txs))
	for i, tx := range txs {
		records[i] = TransactionRecord{
			ID:       tx.ID,
			Date:     tx.Date,
			Symbol:   tx.Symbol,
			Type:     string(tx.Type),
			Price:    tx.Price.InexactFloat64(),
			Quantity: tx.Quantity,
			Total:    tx.Total.InexactFloat64(),
			Status:   string(tx.Status),
		}
	}
	if err := parquet.Write(w, records); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}
	return nil
}

// Export writes txs in the given format.
func Export(w io.Writer, format Format, txs []trade.Transaction) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, txs)
	case FormatParquet:
		return WriteParquet(w, txs)
	}
	return ErrUnknownFormat
}
