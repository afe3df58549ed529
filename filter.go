package ledger

import (
	"slices"
	"time"

	"github.com/odraude/ledger/date"
)

// Filter selects dataset records by period and category, and decides which
// accounts take part in net-worth accounting.
//
// Zero fields mean "no constraint".
type Filter struct {
	Year       int
	Month      time.Month
	From, Till date.Date
	// Categories lists categories to exclude.
	Categories []string
	// IgnoredAccounts lists accounts excluded from net-worth accounting.
	IgnoredAccounts []string
}

// Match reports whether the record passes the category and period constraints.
func (f *Filter) Match(l Line) bool {
	if slices.Contains(f.Categories, l.Category()) {
		return false
	}
	from, till := f.period()
	if !from.IsZero() && l.Date().Before(from) {
		return false
	}
	if !till.IsZero() && l.Date().After(till) {
		return false
	}
	return true
}

// Accountable reports whether the account counts toward net worth.
func (f *Filter) Accountable(account string) bool {
	return !slices.Contains(f.IgnoredAccounts, account)
}

func (f *Filter) period() (from, till date.Date) {
	if !f.From.IsZero() || !f.Till.IsZero() {
		return f.From, f.Till
	}
	if f.Year == 0 && f.Month == 0 {
		return date.Date{}, date.Date{}
	}
	year, month := f.Year, f.Month
	today := date.Today()
	if year == 0 {
		year = today.Year()
	}
	if month == 0 {
		month = today.Month()
	}
	from = date.New(year, month, 1)
	till = date.New(year, month+1, 1).Add(-1)
	return from, till
}
