// Package chart renders ledger aggregations as standalone HTML charts.
package chart

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/ledger"
)

// ErrNoData is returned instead of rendering an empty chart.
var ErrNoData = errors.New("no data to plot")

// DefaultBins is used when a Renderer has no positive bin count.
const DefaultBins = 10

// File names written into the chart directory.
const (
	CategoryPieFile  = "category-pie.html"
	YearlyBarFile    = "yearly-totals.html"
	HistogramFile    = "amount-histogram.html"
	CategoryYearFile = "category-year.html"
)

type renderable interface {
	Render(w io.Writer) error
}

// Renderer writes charts into Dir.
type Renderer struct {
	Dir  string
	Bins int
}

// New creates a Renderer. bins <= 0 selects DefaultBins.
func New(dir string, bins int) *Renderer {
	if bins <= 0 {
		bins = DefaultBins
	}
	return &Renderer{Dir: dir, Bins: bins}
}

// CategoryPie plots each category's share of total spend.
func (r *Renderer) CategoryPie(totals map[string]decimal.Decimal) (string, error) {
	if len(totals) == 0 {
		return "", ErrNoData
	}

	data := make([]opts.PieData, 0, len(totals))
	for _, category := range ledger.SortedKeys(totals) {
		data = append(data, opts.PieData{Name: category, Value: amount(totals[category])})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Expenses by category"}),
		charts.WithTitleOpts(opts.Title{Title: "Expenses by category"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	pie.AddSeries("Expenses", data, charts.WithLabelOpts(opts.Label{
		Show:      opts.Bool(true),
		Formatter: "{b}: {d}%",
	}))

	return r.write(CategoryPieFile, pie)
}

// YearlyBar plots total spend per year, oldest first.
func (r *Renderer) YearlyBar(totals map[string]decimal.Decimal) (string, error) {
	if len(totals) == 0 {
		return "", ErrNoData
	}

	years := ledger.SortedKeys(totals)
	data := make([]opts.BarData, 0, len(years))
	for _, year := range years {
		data = append(data, opts.BarData{Value: amount(totals[year])})
	}

	bar := newBar("Total expenses per year", "Year", "Amount")
	bar.SetXAxis(years).AddSeries("Total", data)

	return r.write(YearlyBarFile, bar)
}

// AmountHistogram plots the distribution of transaction amounts in
// r.Bins equal-width bins.
func (r *Renderer) AmountHistogram(amounts []decimal.Decimal) (string, error) {
	if len(amounts) == 0 {
		return "", ErrNoData
	}

	values := make([]float64, len(amounts))
	for i, a := range amounts {
		values[i] = a.InexactFloat64()
	}

	bins := Histogram(values, r.Bins)
	labels := make([]string, len(bins))
	data := make([]opts.BarData, len(bins))
	for i, b := range bins {
		labels[i] = b.Label()
		data[i] = opts.BarData{Value: b.Count}
	}

	bar := newBar("Distribution of expense amounts", "Amount", "Frequency")
	bar.SetXAxis(labels).AddSeries("Transactions", data)

	return r.write(HistogramFile, bar)
}

// CategoryYearBar plots one bar group per category with one bar per year.
// Years missing for a category plot as zero.
func (r *Renderer) CategoryYearBar(totals map[string]map[string]decimal.Decimal) (string, error) {
	if len(totals) == 0 {
		return "", ErrNoData
	}

	categories := ledger.SortedKeys(totals)
	yearSet := make(map[string]bool)
	for _, byYear := range totals {
		for year := range byYear {
			yearSet[year] = true
		}
	}

	bar := newBar("Expenses by category and year", "Category", "Amount")
	bar.SetGlobalOptions(charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}))
	bar.SetXAxis(categories)
	for _, year := range ledger.SortedKeys(yearSet) {
		data := make([]opts.BarData, len(categories))
		for i, category := range categories {
			data[i] = opts.BarData{Value: amount(totals[category][year])}
		}
		bar.AddSeries(year, data)
	}

	return r.write(CategoryYearFile, bar)
}

func newBar(title, xName, yName string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)
	return bar
}

func (r *Renderer) write(name string, c renderable) (string, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating chart directory: %w", err)
	}

	path := filepath.Join(r.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating chart file: %w", err)
	}
	if err := c.Render(f); err != nil {
		f.Close()
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing chart file: %w", err)
	}
	return path, nil
}

func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
