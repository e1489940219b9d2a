package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/tally/internal/model"
)

// Header is the CSV header of the data file.
const Header = "kind,date,category,amount,method,description"

const (
	numFields   = 6
	colKind     = 0
	colDate     = 1
	colCategory = 2
	colAmount   = 3
	colMethod   = 4
	colDesc     = 5
)

// ReadTransactions reads every well-formed row from r. Rows with the wrong
// number of fields, an invalid date or a non-numeric amount are skipped and
// reported to log, as are rows the CSV reader rejects (a bare quote, for
// example). The first row is always treated as the header. A quoted field
// that is never closed runs to the end of the input, so everything after it
// is lost as one malformed row.
func ReadTransactions(r io.Reader, log logrus.FieldLogger) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var txns []model.Transaction
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			log.WithField("row", row).WithError(err).Warn("skipping malformed row")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading transactions CSV: %w", err)
		}
		if row == 1 {
			continue
		}

		txn, err := UnmarshalTransaction(rec)
		if err != nil {
			log.WithFields(logrus.Fields{
				"row":    row,
				"record": strings.Join(rec, ","),
			}).WithError(err).Warn("skipping malformed row")
			continue
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// WriteTransactions writes the header and one row per transaction.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row. Amounts are
// written with two decimal places.
func MarshalTransaction(txn model.Transaction) []string {
	row := make([]string, numFields)
	row[colKind] = string(txn.Kind)
	row[colDate] = txn.Date.Format(model.DateFormat)
	row[colCategory] = txn.Category
	row[colAmount] = txn.Amount.StringFixed(2)
	row[colMethod] = txn.Method
	row[colDesc] = txn.Description
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := model.ParseDate(record[colDate])
	if err != nil {
		return model.Transaction{}, err
	}

	amount, err := model.ParseAmount(record[colAmount])
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		Kind:        model.Kind(record[colKind]),
		Date:        date,
		Category:    record[colCategory],
		Amount:      amount,
		Method:      record[colMethod],
		Description: record[colDesc],
	}, nil
}
