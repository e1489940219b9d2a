// Package menu runs the interactive expense tracker session.
package menu

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/tally/internal/chart"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/prompt"
	"github.com/cleared-dev/tally/internal/report"
	"github.com/cleared-dev/tally/internal/tracker"
)

// Suggestions are shown next to the category and method prompts. They
// are hints; any value is accepted.
type Suggestions struct {
	Categories []string
	Methods    []string
}

// Menu drives a session over a tracker.Service.
type Menu struct {
	svc         *tracker.Service
	p           *prompt.Prompter
	charts      *chart.Renderer
	suggestions Suggestions
	log         logrus.FieldLogger
}

// New creates a Menu.
func New(svc *tracker.Service, p *prompt.Prompter, charts *chart.Renderer, suggestions Suggestions, log logrus.FieldLogger) *Menu {
	return &Menu{svc: svc, p: p, charts: charts, suggestions: suggestions, log: log}
}

// Run shows the main menu until the user exits or input ends.
func (m *Menu) Run() error {
	err := m.main()
	if errors.Is(err, prompt.ErrAborted) {
		return nil
	}
	return err
}

func (m *Menu) out() io.Writer {
	return m.p.Out()
}

func (m *Menu) main() error {
	for {
		fmt.Fprintln(m.out(), "\n=== Expense tracker ===")
		fmt.Fprintln(m.out(), "1. Record management")
		fmt.Fprintln(m.out(), "2. Analysis")
		fmt.Fprintln(m.out(), "3. Exit")

		choice, err := m.p.Select("Choose an option", 3)
		if err != nil {
			return err
		}
		switch choice {
		case 0:
			err = m.records()
		case 1:
			err = m.analysis()
		case 2:
			fmt.Fprintln(m.out(), "Goodbye.")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) records() error {
	for {
		fmt.Fprintln(m.out(), "\n--- Record management ---")
		fmt.Fprintln(m.out(), "1. Add expense")
		fmt.Fprintln(m.out(), "2. Edit expense")
		fmt.Fprintln(m.out(), "3. Delete expense")
		fmt.Fprintln(m.out(), "4. Monthly summary")
		fmt.Fprintln(m.out(), "5. Highest and lowest expense")
		fmt.Fprintln(m.out(), "6. Back")

		choice, err := m.p.Select("Choose an option", 6)
		if err != nil {
			return err
		}
		switch choice {
		case 0:
			err = m.add()
		case 1:
			err = m.edit()
		case 2:
			err = m.remove()
		case 3:
			report.MonthlySummary(m.out(), m.svc.Ledger().MonthlySummary())
		case 4:
			maxAmt, minAmt, ok := m.svc.Ledger().MinMax()
			report.MinMax(m.out(), maxAmt, minAmt, ok)
		case 5:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) analysis() error {
	for {
		fmt.Fprintln(m.out(), "\n--- Analysis ---")
		fmt.Fprintln(m.out(), "1. Expenses by category (pie)")
		fmt.Fprintln(m.out(), "2. Total per year (bar)")
		fmt.Fprintln(m.out(), "3. Amount distribution (histogram)")
		fmt.Fprintln(m.out(), "4. Category by year (bar)")
		fmt.Fprintln(m.out(), "5. Back")

		choice, err := m.p.Select("Choose an option", 5)
		if err != nil {
			return err
		}

		l := m.svc.Ledger()
		var path string
		switch choice {
		case 0:
			path, err = m.charts.CategoryPie(l.TotalByCategory())
		case 1:
			path, err = m.charts.YearlyBar(l.TotalByYear())
		case 2:
			path, err = m.charts.AmountHistogram(l.Amounts())
		case 3:
			path, err = m.charts.CategoryYearBar(l.TotalByCategoryAndYear())
		case 4:
			return nil
		}
		m.reportChart(path, err)
	}
}

func (m *Menu) reportChart(path string, err error) {
	switch {
	case errors.Is(err, chart.ErrNoData):
		fmt.Fprintln(m.out(), "No data to plot.")
	case err != nil:
		m.log.WithError(err).Error("chart rendering failed")
		m.p.Warn("Could not render chart: %v", err)
	default:
		fmt.Fprintf(m.out(), "Chart saved to %s\n", path)
	}
}

func (m *Menu) add() error {
	date, err := m.p.Date("Date", time.Time{})
	if err != nil {
		return err
	}
	category, err := m.p.Text(hint("Category", m.suggestions.Categories), "")
	if err != nil {
		return err
	}
	amount, err := m.p.Amount("Amount", decimal.Zero, false)
	if err != nil {
		return err
	}
	method, err := m.p.Text(hint("Payment method", m.suggestions.Methods), "")
	if err != nil {
		return err
	}
	description, err := m.p.Text("Description", "")
	if err != nil {
		return err
	}

	t := model.Transaction{
		Kind:        model.KindExpense,
		Date:        date,
		Category:    category,
		Amount:      amount,
		Method:      method,
		Description: description,
	}
	if err := m.svc.Add(t); err != nil {
		m.saveFailed(err)
		return nil
	}
	fmt.Fprintln(m.out(), "Expense added.")
	return nil
}

func (m *Menu) edit() error {
	entry, ok, err := m.pick()
	if err != nil || !ok {
		return err
	}

	cur := entry.Transaction
	fmt.Fprintln(m.out(), "Press Enter to keep the current value.")
	date, err := m.p.Date("Date", cur.Date)
	if err != nil {
		return err
	}
	category, err := m.p.Text(hint("Category", m.suggestions.Categories), cur.Category)
	if err != nil {
		return err
	}
	amount, err := m.p.Amount("Amount", cur.Amount, true)
	if err != nil {
		return err
	}
	method, err := m.p.Text(hint("Payment method", m.suggestions.Methods), cur.Method)
	if err != nil {
		return err
	}
	description, err := m.p.Text("Description", cur.Description)
	if err != nil {
		return err
	}

	updated := model.Transaction{
		Kind:        model.KindExpense,
		Date:        date,
		Category:    category,
		Amount:      amount,
		Method:      method,
		Description: description,
	}
	replaced, err := m.svc.Replace(entry.Index, updated)
	switch {
	case err != nil:
		m.saveFailed(err)
	case !replaced:
		m.p.Warn("That expense no longer exists.")
	default:
		fmt.Fprintln(m.out(), "Expense updated.")
	}
	return nil
}

func (m *Menu) remove() error {
	entry, ok, err := m.pick()
	if err != nil || !ok {
		return err
	}

	confirmed, err := m.p.Confirm("Delete " + tracker.Describe(entry.Transaction) + "?")
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Fprintln(m.out(), "Nothing deleted.")
		return nil
	}

	removed, err := m.svc.Remove(entry.Index)
	switch {
	case err != nil:
		m.saveFailed(err)
	case !removed:
		m.p.Warn("That expense no longer exists.")
	default:
		fmt.Fprintln(m.out(), "Expense deleted.")
	}
	return nil
}

// pick narrows the ledger by year, then month, then asks for one
// transaction. ok is false when the ledger is empty.
func (m *Menu) pick() (ledger.Entry, bool, error) {
	l := m.svc.Ledger()
	years := l.Years()
	if len(years) == 0 {
		fmt.Fprintln(m.out(), "No expenses recorded.")
		return ledger.Entry{}, false, nil
	}

	for i, y := range years {
		fmt.Fprintf(m.out(), "%d. %d\n", i+1, y)
	}
	yi, err := m.p.Select("Year", len(years))
	if err != nil {
		return ledger.Entry{}, false, err
	}
	year := years[yi]

	months := l.Months(year)
	for i, mo := range months {
		fmt.Fprintf(m.out(), "%d. %s\n", i+1, time.Month(mo))
	}
	mi, err := m.p.Select("Month", len(months))
	if err != nil {
		return ledger.Entry{}, false, err
	}

	entries := l.InMonth(year, months[mi])
	for i, e := range entries {
		fmt.Fprintf(m.out(), "%d. %s\n", i+1, tracker.Describe(e.Transaction))
	}
	ei, err := m.p.Select("Expense", len(entries))
	if err != nil {
		return ledger.Entry{}, false, err
	}
	return entries[ei], true, nil
}

func (m *Menu) saveFailed(err error) {
	m.log.WithError(err).Error("save failed")
	m.p.Warn("Could not save changes: %v", err)
}

func hint(label string, options []string) string {
	if len(options) == 0 {
		return label
	}
	return fmt.Sprintf("%s (%s)", label, strings.Join(options, ", "))
}
