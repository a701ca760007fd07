// Package ingest parses the two feed files into raw record collections.
//
// Schema problems (a required column missing, a malformed row) fail fast with
// an error naming the column or row, since downstream comparisons are
// meaningless on malformed rows. Field-level coercion problems are not
// ingest's business: raw values pass through as strings and the recon
// normalizer absorbs anything unparseable.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/unaascycling/settlement-recon-backend/internal/domain/recon"
)

// Column names of the webshop order export.
const (
	colOrderName       = "Name"
	colOrderID         = "Id"
	colPaymentMethod   = "Payment Method"
	colFinancialStatus = "Financial Status"
	colTotal           = "Total"
	colOutstandingBal  = "Outstanding Balance"
	colOrderLocation   = "Location"
	colCreatedAt       = "Created at"
)

var orderColumns = []string{
	colOrderName,
	colOrderID,
	colPaymentMethod,
	colFinancialStatus,
	colTotal,
	colOutstandingBal,
	colOrderLocation,
	colCreatedAt,
}

// ReadOrders parses the order export CSV. The first row must be a header
// containing every required column; extra columns are ignored.
func ReadOrders(r io.Reader) ([]recon.RawOrder, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("orders feed: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("orders feed: reading header: %w", err)
	}

	index, err := columnIndex(header, orderColumns, "orders feed")
	if err != nil {
		return nil, err
	}

	var orders []recon.RawOrder
	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("orders feed: row %d: %w", row, err)
		}

		field, err := fieldReader(record, index, "orders feed", row)
		if err != nil {
			return nil, err
		}

		orders = append(orders, recon.RawOrder{
			Name:               field(colOrderName),
			ID:                 field(colOrderID),
			PaymentMethod:      field(colPaymentMethod),
			FinancialStatus:    field(colFinancialStatus),
			Total:              field(colTotal),
			OutstandingBalance: field(colOutstandingBal),
			Location:           field(colOrderLocation),
			CreatedAt:          field(colCreatedAt),
		})
	}

	return orders, nil
}

// columnIndex maps required column names to their positions in the header,
// failing with the first missing column's name. Extra columns are ignored.
func columnIndex(header, required []string, feed string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[name] = i
	}
	index := make(map[string]int, len(required))
	for _, name := range required {
		i, ok := positions[name]
		if !ok {
			return nil, fmt.Errorf("%s: missing required column %q", feed, name)
		}
		index[name] = i
	}
	return index, nil
}

// fieldReader returns an accessor over one row. Rows too short to hold a
// required column are a shape error, reported with the row number.
func fieldReader(record []string, index map[string]int, feed string, row int) (func(string) string, error) {
	for name, i := range index {
		if i >= len(record) {
			return nil, fmt.Errorf("%s: row %d: missing field %q", feed, row, name)
		}
	}
	return func(name string) string {
		return record[index[name]]
	}, nil
}
