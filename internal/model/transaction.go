package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags a transaction as spending or (eventually) income.
type Kind string

const (
	KindExpense Kind = "expense"
)

// DateFormat is the text form of a transaction date.
const DateFormat = "2006-01-02"

// Suggested values shown as hints in prompts. Neither set is enforced.
var (
	SuggestedCategories = []string{"health", "leisure", "food", "transport", "services", "other"}
	SuggestedMethods    = []string{"credit", "debit", "transfer", "cash"}
)

// Transaction is one recorded spending event.
type Transaction struct {
	Kind        Kind
	Date        time.Time
	Category    string
	Amount      decimal.Decimal
	Method      string
	Description string
}

// Month returns the "YYYY-MM" grouping key.
func (t Transaction) Month() string {
	return t.Date.Format("2006-01")
}

// Year returns the "YYYY" grouping key.
func (t Transaction) Year() string {
	return t.Date.Format("2006")
}

// ParseDate parses a YYYY-MM-DD calendar date. Impossible dates such as
// 2025-02-30 are rejected.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return d, nil
}

// ParseAmount parses a decimal amount. Sign is not checked.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}
