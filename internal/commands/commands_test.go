package commands_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/chart"
	"github.com/cleared-dev/tally/internal/commands"
	"github.com/cleared-dev/tally/internal/store"
)

func runTally(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out, _, err := runTallyStderr(t, stdin, args...)
	return out, err
}

// runTallyStderr also returns what the command wrote to stderr.
func runTallyStderr(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// project returns a directory and the --config flag pointing into it.
func project(t *testing.T) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	return dir, []string{"--config", filepath.Join(dir, "tally.yaml")}
}

func with(base []string, args ...string) []string {
	return append(args, base...)
}

func addExpense(t *testing.T, cfg []string, date, category, amount string) {
	t.Helper()
	_, err := runTally(t, "", with(cfg, "add",
		"--date", date, "--category", category, "--amount", amount,
		"--method", "cash", "--description", "test")...)
	require.NoError(t, err)
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func gitLog(t *testing.T, dir, format string) string {
	t.Helper()
	cmd := exec.Command("git", "log", "--format="+format)
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out)
}

func TestInit_WritesConfigAndDataFile(t *testing.T) {
	dir := t.TempDir()
	out, err := runTally(t, "", "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized expense tracker at "+dir)

	cfg, err := os.ReadFile(filepath.Join(dir, "tally.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "path: expenses.csv")
	assert.Contains(t, string(cfg), "histogram_bins: 10")

	data, err := os.ReadFile(filepath.Join(dir, "expenses.csv"))
	require.NoError(t, err)
	assert.Equal(t, store.Header, strings.TrimSpace(string(data)))

	_, err = os.Stat(filepath.Join(dir, ".git"))
	assert.True(t, os.IsNotExist(err), "git is opt-in")
}

func TestInit_RefusesExistingConfig(t *testing.T) {
	dir := t.TempDir()
	_, err := runTally(t, "", "init", dir)
	require.NoError(t, err)

	_, err = runTally(t, "", "init", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit_GitRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	_, err := runTally(t, "", "init", dir, "--git")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	assert.Equal(t, "init: create expense tracker\n", gitLog(t, dir, "%s"))
	assert.Contains(t, gitLog(t, dir, "%an <%ae>"), "Tally <tally@localhost>")

	cfg, err := os.ReadFile(filepath.Join(dir, "tally.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "auto_commit: true")
}

func TestAdd_AndList(t *testing.T) {
	dir, cfg := project(t)

	out, err := runTally(t, "", with(cfg, "add",
		"--date", "2025-01-03", "--category", "food", "--amount", "12.5",
		"--method", "cash", "--description", "test")...)
	require.NoError(t, err)
	assert.Equal(t, "Added expense #1: 2025-01-03 food 12.50 cash test\n", out)

	data, err := os.ReadFile(filepath.Join(dir, "expenses.csv"))
	require.NoError(t, err)
	assert.Equal(t, store.Header+"\nexpense,2025-01-03,food,12.50,cash,test\n", string(data))

	out, err = runTally(t, "", with(cfg, "list")...)
	require.NoError(t, err)
	assert.Contains(t, out, "food")
	assert.Contains(t, out, "$12.50")
}

func TestAdd_Validation(t *testing.T) {
	_, cfg := project(t)

	_, err := runTally(t, "", with(cfg, "add", "--category", "food")...)
	require.Error(t, err, "--amount is required")

	_, err = runTally(t, "", with(cfg, "add", "--amount", "ten")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --amount")

	_, err = runTally(t, "", with(cfg, "add", "--amount", "10", "--date", "2025-02-30")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --date")
}

func TestList_MonthFilter(t *testing.T) {
	_, cfg := project(t)
	addExpense(t, cfg, "2025-01-03", "food", "10")
	addExpense(t, cfg, "2025-02-03", "transport", "20")

	out, err := runTally(t, "", with(cfg, "list", "--month", "2025-02")...)
	require.NoError(t, err)
	assert.Contains(t, out, "transport")
	assert.NotContains(t, out, "food")

	_, err = runTally(t, "", with(cfg, "list", "--month", "February")...)
	require.Error(t, err)
}

func TestList_Empty(t *testing.T) {
	_, cfg := project(t)
	out, err := runTally(t, "", with(cfg, "list")...)
	require.NoError(t, err)
	assert.Equal(t, "No expenses recorded.\n", out)
}

func TestEdit_ChangesOnlyGivenFields(t *testing.T) {
	dir, cfg := project(t)
	addExpense(t, cfg, "2025-01-03", "food", "10")

	out, err := runTally(t, "", with(cfg, "edit", "1", "--amount", "20")...)
	require.NoError(t, err)
	assert.Equal(t, "Updated expense #1: 2025-01-03 food 20.00 cash test\n", out)

	data, err := os.ReadFile(filepath.Join(dir, "expenses.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "expense,2025-01-03,food,20.00,cash,test")
}

func TestEdit_OutOfRangeIsANotice(t *testing.T) {
	_, cfg := project(t)
	addExpense(t, cfg, "2025-01-03", "food", "10")

	out, err := runTally(t, "", with(cfg, "edit", "5", "--amount", "20")...)
	require.NoError(t, err)
	assert.Equal(t, "No expense #5; nothing changed.\n", out)

	_, err = runTally(t, "", with(cfg, "edit", "one")...)
	require.Error(t, err)
}

func TestDelete(t *testing.T) {
	_, cfg := project(t)
	addExpense(t, cfg, "2025-01-03", "food", "10")
	addExpense(t, cfg, "2025-01-04", "transport", "20")

	out, err := runTally(t, "", with(cfg, "delete", "1")...)
	require.NoError(t, err)
	assert.Equal(t, "Deleted expense #1: 2025-01-03 food 10.00 cash test\n", out)

	out, err = runTally(t, "", with(cfg, "delete", "2")...)
	require.NoError(t, err)
	assert.Equal(t, "No expense #2; nothing deleted.\n", out)

	out, err = runTally(t, "", with(cfg, "list")...)
	require.NoError(t, err)
	assert.Contains(t, out, "transport")
	assert.NotContains(t, out, "food")
}

func TestSummary(t *testing.T) {
	_, cfg := project(t)
	addExpense(t, cfg, "2025-01-03", "food", "100")
	addExpense(t, cfg, "2025-01-10", "food", "50")
	addExpense(t, cfg, "2024-02-01", "transport", "30")

	out, err := runTally(t, "", with(cfg, "summary", "monthly")...)
	require.NoError(t, err)
	assert.Contains(t, out, "January 2025")
	assert.Contains(t, out, "$75.00")
	assert.Less(t, strings.Index(out, "February 2024"), strings.Index(out, "January 2025"))

	out, err = runTally(t, "", with(cfg, "summary", "minmax")...)
	require.NoError(t, err)
	assert.Equal(t, "Highest expense: $100.00\nLowest expense: $30.00\n", out)

	out, err = runTally(t, "", with(cfg, "summary", "category")...)
	require.NoError(t, err)
	assert.Contains(t, out, "$150.00")

	out, err = runTally(t, "", with(cfg, "summary", "year")...)
	require.NoError(t, err)
	assert.Contains(t, out, "2024")
	assert.Contains(t, out, "$30.00")

	_, err = runTally(t, "", with(cfg, "summary", "weekly")...)
	require.Error(t, err)
}

func TestChart(t *testing.T) {
	dir, cfg := project(t)

	out, err := runTally(t, "", with(cfg, "chart", "pie")...)
	require.NoError(t, err)
	assert.Equal(t, "No data to plot.\n", out)

	addExpense(t, cfg, "2025-01-03", "food", "10")
	out, err = runTally(t, "", with(cfg, "chart", "histogram")...)
	require.NoError(t, err)
	path := filepath.Join(dir, "charts", chart.HistogramFile)
	assert.Equal(t, "Chart saved to "+path+"\n", out)
	assert.FileExists(t, path)

	_, err = runTally(t, "", with(cfg, "chart", "scatter")...)
	require.Error(t, err)
}

func TestLog(t *testing.T) {
	_, cfg := project(t)

	out, err := runTally(t, "", with(cfg, "log")...)
	require.NoError(t, err)
	assert.Equal(t, "No activity recorded.\n", out)

	addExpense(t, cfg, "2025-01-03", "food", "10")
	_, err = runTally(t, "", with(cfg, "delete", "1")...)
	require.NoError(t, err)

	out, err = runTally(t, "", with(cfg, "log")...)
	require.NoError(t, err)
	assert.Contains(t, out, "add")
	assert.Contains(t, out, "delete")
	assert.Contains(t, out, "2025-01-03 food 10.00 cash test")
}

func TestFileFlagOverridesConfig(t *testing.T) {
	dir, cfg := project(t)
	other := filepath.Join(dir, "other", "spending.csv")

	_, err := runTally(t, "", with(cfg, "--file", other, "add", "--amount", "5", "--date", "2025-01-01")...)
	require.NoError(t, err)
	assert.FileExists(t, other)
	assert.NoFileExists(t, filepath.Join(dir, "expenses.csv"))
}

func TestMenu_DefaultCommand(t *testing.T) {
	_, cfg := project(t)
	addExpense(t, cfg, "2025-01-03", "food", "10")

	out, err := runTally(t, "1\n5\n6\n3\n", cfg...)
	require.NoError(t, err)
	assert.Contains(t, out, "Highest expense: $10.00")
	assert.Contains(t, out, "Goodbye.")

	out, err = runTally(t, "", with(cfg, "menu")...)
	require.NoError(t, err, "end of input closes the menu")
	assert.Contains(t, out, "Record management")
}

func TestAutoCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	cfg := []string{"--config", filepath.Join(dir, "tally.yaml")}

	_, err := runTally(t, "", "init", dir, "--git")
	require.NoError(t, err)
	addExpense(t, cfg, "2025-01-03", "food", "12.50")

	subjects := strings.Split(strings.TrimSpace(gitLog(t, dir, "%s")), "\n")
	require.Len(t, subjects, 2)
	assert.Equal(t, "add: 2025-01-03 food 12.50 cash test", subjects[0])
}

const statement = "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n" +
	"DEBIT,01/05/2025,SUPERMARKET 42,-63.18,DEBIT_CARD,1932.82,\n" +
	"CREDIT,01/15/2025,ACME PAYROLL,3500.00,ACH_CREDIT,5432.82,\n" +
	"DEBIT,01/22/2025,CITY TRANSIT,-2.75,DEBIT_CARD,5430.07,\n"

func TestImport_File(t *testing.T) {
	dir, cfg := project(t)
	path := filepath.Join(dir, "jan.csv")
	require.NoError(t, os.WriteFile(path, []byte(statement), 0o644))

	out, err := runTally(t, "", with(cfg, "import", path, "--category", "groceries")...)
	require.NoError(t, err)
	assert.Equal(t, "Imported 2 expenses from jan.csv\n", out)

	data, err := os.ReadFile(filepath.Join(dir, "expenses.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "expense,2025-01-05,groceries,63.18,debit,SUPERMARKET 42")
	assert.NotContains(t, string(data), "PAYROLL")
	assert.FileExists(t, path, "explicit files are left in place")

	out, err = runTally(t, "", with(cfg, "import", path, "--category", "groceries")...)
	require.NoError(t, err)
	assert.Equal(t, "Imported 0 expenses from jan.csv (2 already recorded)\n", out)

	data, err = os.ReadFile(filepath.Join(dir, "expenses.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "SUPERMARKET 42"))
}

func TestImport_ScansImportDir(t *testing.T) {
	dir, cfg := project(t)

	out, err := runTally(t, "", with(cfg, "import")...)
	require.NoError(t, err)
	assert.Contains(t, out, "No statements found")

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "import"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "jan.csv"), []byte(statement), 0o644))

	out, err = runTally(t, "", with(cfg, "import")...)
	require.NoError(t, err)
	assert.Equal(t, "Imported 2 expenses from jan.csv\n", out)
	assert.FileExists(t, filepath.Join(dir, "import", "processed", "jan.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "import", "jan.csv"))
}

func TestImport_UnknownFormat(t *testing.T) {
	_, cfg := project(t)
	_, err := runTally(t, "", with(cfg, "import", "--format", "ofx")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: chase, simple")
}

func TestInit_FileFlagSetsStoragePath(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data", "spending.csv")

	_, err := runTally(t, "", "--file", data, "init", dir)
	require.NoError(t, err)

	cfg, err := os.ReadFile(filepath.Join(dir, "tally.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "path: data/spending.csv")
	assert.NoFileExists(t, filepath.Join(dir, "expenses.csv"))

	contents, err := os.ReadFile(data)
	require.NoError(t, err)
	assert.Equal(t, store.Header, strings.TrimSpace(string(contents)))

	addExpense(t, []string{"--config", filepath.Join(dir, "tally.yaml")}, "2025-01-03", "food", "10")
	contents, err = os.ReadFile(data)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "expense,2025-01-03,food,10.00,cash,test")
}

func TestAutoCommit_DataFileInSubdirectory(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()

	_, err := runTally(t, "", "--file", filepath.Join(dir, "data", "spending.csv"), "init", dir, "--git")
	require.NoError(t, err)
	addExpense(t, []string{"--config", filepath.Join(dir, "tally.yaml")}, "2025-01-03", "food", "10")

	subjects := strings.Split(strings.TrimSpace(gitLog(t, dir, "%s")), "\n")
	require.Len(t, subjects, 2)
	assert.Equal(t, "add: 2025-01-03 food 10.00 cash test", subjects[0])
}

func TestLogsGoToStderr(t *testing.T) {
	_, cfg := project(t)

	out, errOut, err := runTallyStderr(t, "", with(cfg, "--log-level", "debug", "list")...)
	require.NoError(t, err)
	assert.Equal(t, "No expenses recorded.\n", out)
	assert.Contains(t, errOut, "data file not found")
	assert.Contains(t, errOut, "level=info")
}
