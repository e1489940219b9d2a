package ledger

import (
	"cmp"
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// MonthSummary is the total and average spend for one month.
type MonthSummary struct {
	Total   decimal.Decimal
	Average decimal.Decimal
	Count   int
}

// Entry pairs a transaction with its ledger index.
type Entry struct {
	Index       int
	Transaction model.Transaction
}

// MonthlySummary groups transactions by "YYYY-MM". Months without
// transactions are absent from the result.
func (l *Ledger) MonthlySummary() map[string]MonthSummary {
	out := make(map[string]MonthSummary)
	for _, t := range l.txns {
		key := t.Month()
		s := out[key]
		s.Total = s.Total.Add(t.Amount)
		s.Count++
		out[key] = s
	}
	for key, s := range out {
		s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count)))
		out[key] = s
	}
	return out
}

// MinMax returns the largest and smallest amounts. ok is false when the
// ledger is empty.
func (l *Ledger) MinMax() (maxAmt, minAmt decimal.Decimal, ok bool) {
	if len(l.txns) == 0 {
		return decimal.Decimal{}, decimal.Decimal{}, false
	}
	maxAmt, minAmt = l.txns[0].Amount, l.txns[0].Amount
	for _, t := range l.txns[1:] {
		if t.Amount.GreaterThan(maxAmt) {
			maxAmt = t.Amount
		}
		if t.Amount.LessThan(minAmt) {
			minAmt = t.Amount
		}
	}
	return maxAmt, minAmt, true
}

// TotalByCategory sums amounts per category.
func (l *Ledger) TotalByCategory() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, t := range l.txns {
		out[t.Category] = out[t.Category].Add(t.Amount)
	}
	return out
}

// TotalByYear sums amounts per "YYYY".
func (l *Ledger) TotalByYear() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, t := range l.txns {
		out[t.Year()] = out[t.Year()].Add(t.Amount)
	}
	return out
}

// TotalByCategoryAndYear sums amounts per category, then per year.
func (l *Ledger) TotalByCategoryAndYear() map[string]map[string]decimal.Decimal {
	out := make(map[string]map[string]decimal.Decimal)
	for _, t := range l.txns {
		byYear, ok := out[t.Category]
		if !ok {
			byYear = make(map[string]decimal.Decimal)
			out[t.Category] = byYear
		}
		byYear[t.Year()] = byYear[t.Year()].Add(t.Amount)
	}
	return out
}

// Amounts returns every amount in ledger order.
func (l *Ledger) Amounts() []decimal.Decimal {
	out := make([]decimal.Decimal, len(l.txns))
	for i, t := range l.txns {
		out[i] = t.Amount
	}
	return out
}

// Years returns the distinct years present, ascending.
func (l *Ledger) Years() []int {
	seen := make(map[int]bool)
	for _, t := range l.txns {
		seen[t.Date.Year()] = true
	}
	return SortedKeys(seen)
}

// Months returns the distinct months (1-12) present in year, ascending.
func (l *Ledger) Months(year int) []int {
	seen := make(map[int]bool)
	for _, t := range l.txns {
		if t.Date.Year() == year {
			seen[int(t.Date.Month())] = true
		}
	}
	return SortedKeys(seen)
}

// InMonth returns the transactions dated in year/month together with
// their ledger indices, in ledger order.
func (l *Ledger) InMonth(year, month int) []Entry {
	var out []Entry
	for i, t := range l.txns {
		if t.Date.Year() == year && int(t.Date.Month()) == month {
			out = append(out, Entry{Index: i, Transaction: t})
		}
	}
	return out
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}
