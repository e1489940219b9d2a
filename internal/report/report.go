// Package report renders ledger listings and summaries as text tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/activity"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

// Money formats an amount as "$1,234.50".
func Money(d decimal.Decimal) string {
	f, _ := d.Abs().Round(2).Float64()
	s := "$" + humanize.FormatFloat("#,###.##", f)
	if d.Round(2).IsNegative() {
		return "-" + s
	}
	return s
}

// MonthLabel turns "2025-01" into "January 2025". Keys that do not parse
// are returned unchanged.
func MonthLabel(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return fmt.Sprintf("%s %d", t.Month(), t.Year())
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	return table
}

// Transactions lists entries with their 1-based position.
func Transactions(w io.Writer, entries []ledger.Entry) {
	table := newTable(w, "#", "Date", "Category", "Amount", "Method", "Description")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
	})
	for _, e := range entries {
		table.Append([]string{
			strconv.Itoa(e.Index + 1),
			e.Transaction.Date.Format(model.DateFormat),
			e.Transaction.Category,
			Money(e.Transaction.Amount),
			e.Transaction.Method,
			e.Transaction.Description,
		})
	}
	table.Render()
}

// MonthlySummary renders per-month total and average, oldest first.
func MonthlySummary(w io.Writer, summary map[string]ledger.MonthSummary) {
	if len(summary) == 0 {
		fmt.Fprintln(w, "No data to show.")
		return
	}
	table := newTable(w, "Month", "Total", "Average")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	for _, key := range ledger.SortedKeys(summary) {
		s := summary[key]
		table.Append([]string{MonthLabel(key), Money(s.Total), Money(s.Average)})
	}
	table.Render()
}

// MinMax prints the largest and smallest expense.
func MinMax(w io.Writer, maxAmt, minAmt decimal.Decimal, ok bool) {
	if !ok {
		fmt.Fprintln(w, "No expenses recorded.")
		return
	}
	fmt.Fprintf(w, "Highest expense: %s\n", Money(maxAmt))
	fmt.Fprintf(w, "Lowest expense: %s\n", Money(minAmt))
}

// Totals renders a keyed total table sorted by key.
func Totals(w io.Writer, label string, totals map[string]decimal.Decimal) {
	if len(totals) == 0 {
		fmt.Fprintln(w, "No data to show.")
		return
	}
	table := newTable(w, label, "Total")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	for _, key := range ledger.SortedKeys(totals) {
		table.Append([]string{key, Money(totals[key])})
	}
	table.Render()
}

// Activity renders the activity log, oldest first.
func Activity(w io.Writer, entries []activity.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No activity recorded.")
		return
	}
	table := newTable(w, "Time", "Action", "#", "Details")
	for _, e := range entries {
		table.Append([]string{
			e.Timestamp.Format(time.RFC3339),
			string(e.Action),
			strconv.Itoa(e.Index + 1),
			e.Details,
		})
	}
	table.Render()
}
