package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formats the timestamp stored with every history entry (dd/mm/yyyy HH:MM:SS).
const DateLayout = "02/01/2006 15:04:05"

// now is replaced in tests to pin history timestamps.
var now = time.Now

// Entry is the recorded form of an applied transaction.
type Entry struct {
	Kind   Kind            `json:"tipo"`
	Amount decimal.Decimal `json:"valor"`
	Date   string          `json:"data"`
}

// History is the append-only log of an account's successful transactions.
type History struct {
	entries []Entry
}

func newHistory(entries []Entry) *History {
	h := &History{entries: make([]Entry, len(entries))}
	copy(h.entries, entries)
	return h
}

// Entries returns a copy of the recorded entries in insertion order.
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) record(tx Transaction, at time.Time) {
	h.entries = append(h.entries, Entry{
		Kind:   tx.Kind(),
		Amount: tx.Amount(),
		Date:   at.Format(DateLayout),
	})
}
