package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/odraude/ledger/date"
)

func openTestResource(t *testing.T, pass string) (*Resource, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.csv")
	r, err := Open(path, ModeLedger, pass)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { r.Close() })
	return r, path
}

func bookTestLines(t *testing.T, r *Resource, days ...string) {
	t.Helper()
	eur := MustParseCurrency("EUR")
	var lines []Line
	for _, day := range days {
		lines = append(lines, NewTransaction(TransactionData{
			Account:  "Bank",
			Date:     date.MustParse(day),
			Category: "Food",
			Amount:   NewMoney(eur, -100),
		}))
	}
	if err := r.Book(lines); err != nil {
		t.Fatal(err)
	}
}

func readTestLines(t *testing.T, r *Resource) []Line {
	t.Helper()
	var lines []Line
	if err := r.Line(func(l Line) error {
		lines = append(lines, l)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	return lines
}

func TestCreateAndBook(t *testing.T) {
	r, path := openTestResource(t, "")

	if err := r.Create(); err != nil {
		t.Fatal(err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := strings.TrimSpace(string(content)), strings.Join(ModeLedger.Headers(), ","); got != want {
		t.Errorf("created file = %q, want %q", got, want)
	}

	bookTestLines(t, r, "2025-01-02", "2025-01-03")
	lines := readTestLines(t, r)
	if len(lines) != 2 {
		t.Fatalf("read %d lines after booking, want 2", len(lines))
	}
	if !lines[0].Date().Equal(date.MustParse("2025-01-02")) {
		t.Errorf("first line date = %v", lines[0].Date())
	}
}

func TestLineDiscardsMutations(t *testing.T) {
	r, _ := openTestResource(t, "")
	if err := r.Create(); err != nil {
		t.Fatal(err)
	}
	bookTestLines(t, r, "2025-01-02")

	if err := r.Line(func(l Line) error {
		l.SetID("999")
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	lines := readTestLines(t, r)
	if lines[0].ID() != "" {
		t.Errorf("read-only pass persisted a mutation: id = %q", lines[0].ID())
	}
}

func TestRewrite(t *testing.T) {
	r, _ := openTestResource(t, "")
	if err := r.Create(); err != nil {
		t.Fatal(err)
	}
	bookTestLines(t, r, "2025-01-02", "2025-01-03", "2025-01-04")

	// Hold back the first row, emit it with the second, drop the third.
	var pending Line
	n := 0
	err := r.Rewrite(func(l Line) ([]Line, error) {
		n++
		switch n {
		case 1:
			pending = l
			return nil, nil
		case 2:
			return []Line{pending, l}, nil
		default:
			return nil, nil
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	lines := readTestLines(t, r)
	if len(lines) != 2 {
		t.Fatalf("rewrite kept %d lines, want 2", len(lines))
	}
	// Order is preserved.
	if !lines[0].Date().Equal(date.MustParse("2025-01-02")) || !lines[1].Date().Equal(date.MustParse("2025-01-03")) {
		t.Errorf("rewrite reordered: %v %v", lines[0].Date(), lines[1].Date())
	}
}

func TestRewriteWithFinishAppendsHeldRow(t *testing.T) {
	r, _ := openTestResource(t, "")
	if err := r.Create(); err != nil {
		t.Fatal(err)
	}
	bookTestLines(t, r, "2025-01-02", "2025-01-03")

	// Hold the last row back; finish gets to put it back at the end.
	var pending Line
	err := r.RewriteWith(func(l Line) ([]Line, error) {
		pending = l
		return nil, nil
	}, func() ([]Line, error) {
		return []Line{pending}, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	lines := readTestLines(t, r)
	if len(lines) != 1 {
		t.Fatalf("rewrite kept %d lines, want 1", len(lines))
	}
	if !lines[0].Date().Equal(date.MustParse("2025-01-03")) {
		t.Errorf("finish appended %v, want the last held row", lines[0].Date())
	}
}

func TestRewriteErrorLeavesOriginalUntouched(t *testing.T) {
	r, path := openTestResource(t, "")
	if err := r.Create(); err != nil {
		t.Fatal(err)
	}
	bookTestLines(t, r, "2025-01-02")
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err = r.Rewrite(func(Line) ([]Line, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("Rewrite error = %v, want boom", err)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("failed rewrite modified the original file")
	}
}

func TestEncryptedRoundTrip(t *testing.T) {
	r, path := openTestResource(t, "hunter2")
	if err := r.Create(); err != nil {
		t.Fatal(err)
	}
	bookTestLines(t, r, "2025-01-02")

	// The bytes on disk are ciphertext, not CSV.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "Account") {
		t.Error("encrypted file contains plaintext header")
	}

	lines := readTestLines(t, r)
	if len(lines) != 1 {
		t.Fatalf("read %d lines from encrypted file, want 1", len(lines))
	}
}

func TestPassphraseOnPlainFileFallsBack(t *testing.T) {
	// A passphrase is configured but the file was written unencrypted.
	path := filepath.Join(t.TempDir(), "ledger.csv")
	plain, err := Open(path, ModeLedger, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := plain.Create(); err != nil {
		t.Fatal(err)
	}
	plain.Close()

	r, err := Open(path, ModeLedger, "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if err := r.Line(func(Line) error { return nil }); err != nil {
		t.Fatalf("validation pass over a plain file: %v", err)
	}
	// The pass persisted it encrypted.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "Account") {
		t.Error("persist left the file unencrypted despite a configured passphrase")
	}
}

func TestLockContention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	first, err := Open(path, ModeLedger, "")
	if err != nil {
		t.Fatal(err)
	}
	defer first.Close()
	if err := first.Create(); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	_, err = Open(path, ModeLedger, "")
	var held *LockHeldError
	if !errors.As(err, &held) {
		t.Fatalf("second Open = %v, want LockHeldError", err)
	}
	if held.Path != path {
		t.Errorf("LockHeldError path = %q, want %q", held.Path, path)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("failed Open modified the original file")
	}
}

func TestCloseReleasesLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	first, err := Open(path, ModeLedger, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}
	second, err := Open(path, ModeLedger, "")
	if err != nil {
		t.Fatalf("Open after Close: %v", err)
	}
	second.Close()
}
