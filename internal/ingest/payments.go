package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/unaascycling/settlement-recon-backend/internal/domain/recon"
)

// Column names of the terminal settlement export.
const (
	colMerchantID      = "MERCHANT ID"
	colSaleAmount      = "SALE AMOUNT"
	colTransactionDate = "TRANSACTION DATE"
	colTransactionTime = "TIME"
	colTransactionRef  = "TRANSACTION REF"
)

var paymentColumns = []string{
	colMerchantID,
	colSaleAmount,
	colTransactionDate,
	colTransactionTime,
	colTransactionRef,
}

// ReadPayments parses the settlement workbook. The settlement provider puts a
// cover sheet first; the data lives on the second sheet, starting with a
// header row containing every required column.
func ReadPayments(r io.Reader) ([]recon.RawPayment, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("payments feed: opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) < 2 {
		return nil, fmt.Errorf("payments feed: workbook has %d sheet(s), expected the data on sheet 2", len(sheets))
	}

	rows, err := f.GetRows(sheets[1])
	if err != nil {
		return nil, fmt.Errorf("payments feed: reading sheet %q: %w", sheets[1], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("payments feed: sheet %q is empty", sheets[1])
	}

	index, err := columnIndex(rows[0], paymentColumns, "payments feed")
	if err != nil {
		return nil, err
	}

	var payments []recon.RawPayment
	for _, record := range rows[1:] {
		// GetRows drops trailing empty cells; pad so a blank last column
		// reads as an empty string, not a shape error.
		field := paddedFieldReader(record, index)

		payments = append(payments, recon.RawPayment{
			MerchantID:      field(colMerchantID),
			SaleAmount:      field(colSaleAmount),
			TransactionDate: field(colTransactionDate),
			TransactionTime: field(colTransactionTime),
			TransactionRef:  field(colTransactionRef),
		})
	}

	return payments, nil
}

// paddedFieldReader reads row cells by column name, treating cells beyond the
// row's length as empty.
func paddedFieldReader(record []string, index map[string]int) func(string) string {
	return func(name string) string {
		i := index[name]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}
}
