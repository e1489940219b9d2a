// Package ledger holds the ordered, in-memory collection of transactions
// and the aggregations computed over it.
//
// A transaction's identity is its position. Removing an entry shifts every
// later entry down by one.
package ledger

import "github.com/cleared-dev/tally/internal/model"

// Ledger is an ordered collection of transactions.
type Ledger struct {
	txns []model.Transaction
}

// New creates a Ledger holding txns in order.
func New(txns ...model.Transaction) *Ledger {
	l := &Ledger{}
	l.txns = append(l.txns, txns...)
	return l
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	return len(l.txns)
}

// At returns the transaction at index i.
func (l *Ledger) At(i int) (model.Transaction, bool) {
	if !l.inBounds(i) {
		return model.Transaction{}, false
	}
	return l.txns[i], true
}

// All returns a copy of every transaction in ledger order.
func (l *Ledger) All() []model.Transaction {
	out := make([]model.Transaction, len(l.txns))
	copy(out, l.txns)
	return out
}

// Add appends t.
func (l *Ledger) Add(t model.Transaction) {
	l.txns = append(l.txns, t)
}

// Replace overwrites the entry at index i. Out-of-range indices are
// ignored; the result reports whether anything changed.
func (l *Ledger) Replace(i int, t model.Transaction) bool {
	if !l.inBounds(i) {
		return false
	}
	l.txns[i] = t
	return true
}

// Remove deletes the entry at index i and shifts later entries down.
// Out-of-range indices are ignored; the result reports whether anything
// changed.
func (l *Ledger) Remove(i int) bool {
	if !l.inBounds(i) {
		return false
	}
	l.txns = append(l.txns[:i], l.txns[i+1:]...)
	return true
}

func (l *Ledger) inBounds(i int) bool {
	return i >= 0 && i < len(l.txns)
}
