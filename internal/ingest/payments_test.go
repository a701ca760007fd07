package ingest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook creates a settlement workbook in memory: a cover sheet
// followed by a data sheet with the given rows.
func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	// Sheet1 already exists and stays as the cover sheet.
	_, err := f.NewSheet("Transactions")
	require.NoError(t, err)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Transactions", cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

var paymentsHeader = []interface{}{"MERCHANT ID", "SALE AMOUNT", "TRANSACTION DATE", "TIME", "TRANSACTION REF"}

func TestReadPayments(t *testing.T) {
	wb := buildWorkbook(t, [][]interface{}{
		paymentsHeader,
		{"65778282", "499.00", "2025-03-14", "14:31:02", "ref-001"},
		{"65820373", "250.00", "2025-03-14", "15:02:44", "ref-002"},
	})

	payments, err := ReadPayments(wb)

	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "65778282", payments[0].MerchantID)
	assert.Equal(t, "499.00", payments[0].SaleAmount)
	assert.Equal(t, "2025-03-14", payments[0].TransactionDate)
	assert.Equal(t, "14:31:02", payments[0].TransactionTime)
	assert.Equal(t, "ref-002", payments[1].TransactionRef)
}

func TestReadPayments_MissingColumn(t *testing.T) {
	wb := buildWorkbook(t, [][]interface{}{
		{"MERCHANT ID", "SALE AMOUNT", "TRANSACTION DATE", "TIME"},
	})

	_, err := ReadPayments(wb)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing required column "TRANSACTION REF"`)
}

func TestReadPayments_BlankTrailingCell(t *testing.T) {
	wb := buildWorkbook(t, [][]interface{}{
		paymentsHeader,
		{"65778282", "499.00", "2025-03-14", "14:31:02"},
	})

	payments, err := ReadPayments(wb)

	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Empty(t, payments[0].TransactionRef)
}

func TestReadPayments_SingleSheetWorkbook(t *testing.T) {
	f := excelize.NewFile()
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	_, err := ReadPayments(bytes.NewReader(buf.Bytes()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected the data on sheet 2")
}

func TestReadPayments_NotAWorkbook(t *testing.T) {
	_, err := ReadPayments(bytes.NewReader([]byte("definitely,not,xlsx")))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening workbook")
}
