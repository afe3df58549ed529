package ledger

import (
	"testing"
	"time"

	"github.com/odraude/ledger/date"
)

func testLine(day, category string) Line {
	return NewTransaction(TransactionData{
		Account:  "Bank",
		Date:     date.MustParse(day),
		Category: category,
		Amount:   NewMoney(MustParseCurrency("EUR"), -100),
	})
}

func TestFilterMatch(t *testing.T) {
	testCases := []struct {
		name   string
		filter Filter
		line   Line
		want   bool
	}{
		{name: "no constraints", filter: Filter{}, line: testLine("2025-06-01", "Food"), want: true},
		{
			name:   "excluded category",
			filter: Filter{Categories: []string{"Food"}},
			line:   testLine("2025-06-01", "Food"),
			want:   false,
		},
		{
			name:   "within range",
			filter: Filter{From: date.MustParse("2025-06-01"), Till: date.MustParse("2025-06-30")},
			line:   testLine("2025-06-15", "Food"),
			want:   true,
		},
		{
			name:   "before range",
			filter: Filter{From: date.MustParse("2025-06-01")},
			line:   testLine("2025-05-31", "Food"),
			want:   false,
		},
		{
			name:   "year and month",
			filter: Filter{Year: 2025, Month: time.February},
			line:   testLine("2025-02-28", "Food"),
			want:   true,
		},
		{
			name:   "outside month",
			filter: Filter{Year: 2025, Month: time.February},
			line:   testLine("2025-03-01", "Food"),
			want:   false,
		},
	}
	for _, tc := range testCases {
		if got := tc.filter.Match(tc.line); got != tc.want {
			t.Errorf("%s: Match = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFilterAccountable(t *testing.T) {
	f := Filter{IgnoredAccounts: []string{"Personal"}}
	if f.Accountable("Personal") {
		t.Error("ignored account reported accountable")
	}
	if !f.Accountable("Bank") {
		t.Error("regular account reported not accountable")
	}
}
