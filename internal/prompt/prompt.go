// Package prompt reads validated answers from a line-oriented terminal.
//
// Date, Amount and Select keep asking until the answer parses. Every
// method returns ErrAborted once input is exhausted.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// ErrAborted is returned when input ends before an answer is given.
var ErrAborted = errors.New("input closed")

var warn = color.New(color.FgRed)

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Out returns the writer prompts are printed to.
func (p *Prompter) Out() io.Writer {
	return p.out
}

// Warn prints a highlighted notice.
func (p *Prompter) Warn(format string, args ...any) {
	warn.Fprintf(p.out, format+"\n", args...)
}

// Line prints label and returns the trimmed answer.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(p.out)
		return "", ErrAborted
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Text asks for free text. An empty answer keeps current.
func (p *Prompter) Text(label, current string) (string, error) {
	if current != "" {
		label = fmt.Sprintf("%s [current: %s]", label, current)
	}
	answer, err := p.Line(label + ": ")
	if err != nil {
		return "", err
	}
	if answer == "" {
		return current, nil
	}
	return answer, nil
}

// Date asks until the answer is a valid YYYY-MM-DD date. When current is
// non-zero, an empty answer keeps it.
func (p *Prompter) Date(label string, current time.Time) (time.Time, error) {
	full := label + " (YYYY-MM-DD)"
	if !current.IsZero() {
		full = fmt.Sprintf("%s [current: %s]", full, current.Format(model.DateFormat))
	}
	for {
		answer, err := p.Line(full + ": ")
		if err != nil {
			return time.Time{}, err
		}
		if answer == "" && !current.IsZero() {
			return current, nil
		}
		d, err := model.ParseDate(answer)
		if err == nil {
			return d, nil
		}
		p.Warn("Invalid date. Use the YYYY-MM-DD format.")
	}
}

// Amount asks until the answer is numeric. When keep is true, an empty
// answer keeps current.
func (p *Prompter) Amount(label string, current decimal.Decimal, keep bool) (decimal.Decimal, error) {
	full := label
	if keep {
		full = fmt.Sprintf("%s [current: %s]", label, current.StringFixed(2))
	}
	for {
		answer, err := p.Line(full + ": ")
		if err != nil {
			return decimal.Decimal{}, err
		}
		if answer == "" && keep {
			return current, nil
		}
		d, err := model.ParseAmount(answer)
		if err == nil {
			return d, nil
		}
		p.Warn("Invalid amount.")
	}
}

// Select asks until the answer is a number in [1, n] and returns it
// zero-based.
func (p *Prompter) Select(label string, n int) (int, error) {
	for {
		answer, err := p.Line(label + ": ")
		if err != nil {
			return 0, err
		}
		i, err := strconv.Atoi(answer)
		if err == nil && i >= 1 && i <= n {
			return i - 1, nil
		}
		p.Warn("Invalid option, enter a number between 1 and %d.", n)
	}
}

// Confirm asks a yes/no question. Anything but y or yes means no.
func (p *Prompter) Confirm(label string) (bool, error) {
	answer, err := p.Line(label + " (y/n): ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
