// Package importer turns bank statement exports into expenses.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

// StatementRow is one line of a bank statement. Money leaving the account
// has a negative Amount.
type StatementRow struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        string
}

// Parser converts a bank CSV file into StatementRows.
type Parser interface {
	Parse(r io.Reader) ([]StatementRow, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists the registered format names, sorted.
func (r *Registry) Formats() []string {
	return ledger.SortedKeys(r.parsers)
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	r.Register(&SimpleParser{})
	return r
}

// Expenses keeps the debits of rows and converts them into expenses with
// the given category and method. Credits are dropped.
func Expenses(rows []StatementRow, category, method string) []model.Transaction {
	var out []model.Transaction
	for _, row := range rows {
		if !row.Amount.IsNegative() {
			continue
		}
		out = append(out, model.Transaction{
			Kind:        model.KindExpense,
			Date:        row.Date,
			Category:    category,
			Amount:      row.Amount.Neg(),
			Method:      method,
			Description: row.Description,
		})
	}
	return out
}

// Reference identifies an expense by date, amount and description, the
// fields a statement line carries. Category and method are left out since
// they are often edited after import.
func Reference(t model.Transaction) string {
	return fmt.Sprintf("%s_%s_%s", t.Date.Format("20060102"), t.Amount.StringFixed(2), t.Description)
}

// Unseen drops the incoming expenses whose Reference is already present
// in existing. Matches are counted, so two identical charges on the same
// day are both imported once and both skipped on a re-import.
func Unseen(existing, incoming []model.Transaction) (fresh []model.Transaction, skipped int) {
	seen := make(map[string]int, len(existing))
	for _, t := range existing {
		seen[Reference(t)]++
	}
	for _, t := range incoming {
		ref := Reference(t)
		if seen[ref] > 0 {
			seen[ref]--
			skipped++
			continue
		}
		fresh = append(fresh, t)
	}
	return fresh, skipped
}

// ImportDir is the subdirectory scanned for statements.
const ImportDir = "import"

// processedDir is the subdirectory for processed statements.
var processedDir = filepath.Join(ImportDir, "processed")

// Scan returns CSV files in <root>/import/, sorted by name.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, ImportDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	slices.SortFunc(files, func(a, b FileInfo) int { return strings.Compare(a.Name, b.Name) })
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, ImportDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
