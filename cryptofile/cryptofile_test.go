package cryptofile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func roundTrip(t *testing.T, content []byte, password string) {
	t.Helper()
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.csv")
	cipher := filepath.Join(dir, "cipher")
	restored := filepath.Join(dir, "restored.csv")

	if err := os.WriteFile(plain, content, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := Encrypt(plain, cipher, password); err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if err := Decrypt(cipher, restored, password); err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	got, err := os.ReadFile(restored)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("round trip changed content: got %d bytes, want %d", len(got), len(content))
	}
}

func TestRoundTrip(t *testing.T) {
	small := []byte("Date,Invested,Investment,Amount,Currency,Id\n")
	roundTrip(t, small, "hunter2")

	// Spans several chunks, with a partial last chunk.
	large := bytes.Repeat([]byte("0123456789abcdef"), 700)
	roundTrip(t, large, "correct horse battery staple")

	// Exactly one chunk boundary.
	exact := bytes.Repeat([]byte{0xAB}, chunkSize)
	roundTrip(t, exact, "p")
}

func TestWrongPassword(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.csv")
	cipher := filepath.Join(dir, "cipher")
	restored := filepath.Join(dir, "restored.csv")

	if err := os.WriteFile(plain, []byte("secret content"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := Encrypt(plain, cipher, "right"); err != nil {
		t.Fatal(err)
	}
	err := Decrypt(cipher, restored, "wrong")
	if !errors.Is(err, ErrIncorrectPassword) {
		t.Fatalf("Decrypt with wrong password: %v, want ErrIncorrectPassword", err)
	}
	// No partial plaintext may survive a failed decryption.
	if got, err := os.ReadFile(restored); err == nil && len(got) > 0 {
		t.Errorf("failed decryption left %d plaintext bytes behind", len(got))
	}
}

func TestTruncatedStream(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.csv")
	cipher := filepath.Join(dir, "cipher")
	restored := filepath.Join(dir, "restored.csv")

	content := bytes.Repeat([]byte("x"), 3*chunkSize)
	if err := os.WriteFile(plain, content, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := Encrypt(plain, cipher, "pw"); err != nil {
		t.Fatal(err)
	}

	// Drop the last (final-tagged) chunk entirely.
	raw, err := os.ReadFile(cipher)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cipher, raw[:len(raw)-sealedSize], 0o600); err != nil {
		t.Fatal(err)
	}
	err = Decrypt(cipher, restored, "pw")
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("Decrypt of truncated stream: %v, want ErrDecryptionFailed", err)
	}
}

func TestCorruptedChunk(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.csv")
	cipher := filepath.Join(dir, "cipher")

	if err := os.WriteFile(plain, []byte("some rows"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := Encrypt(plain, cipher, "pw"); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(cipher)
	if err != nil {
		t.Fatal(err)
	}
	raw[len(raw)-1] ^= 0xFF
	if err := os.WriteFile(cipher, raw, 0o600); err != nil {
		t.Fatal(err)
	}
	err = Decrypt(cipher, filepath.Join(dir, "restored"), "pw")
	if !errors.Is(err, ErrIncorrectPassword) {
		t.Fatalf("Decrypt of corrupted chunk: %v, want ErrIncorrectPassword", err)
	}
}

func TestMissingMagicCompat(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.csv")
	cipher := filepath.Join(dir, "cipher")
	restored := filepath.Join(dir, "restored.csv")

	content := []byte("legacy file content")
	if err := os.WriteFile(plain, content, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := Encrypt(plain, cipher, "pw"); err != nil {
		t.Fatal(err)
	}

	// Files written before the magic existed start directly with the salt.
	raw, err := os.ReadFile(cipher)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cipher, raw[len(magic):], 0o600); err != nil {
		t.Fatal(err)
	}
	if err := Decrypt(cipher, restored, "pw"); err != nil {
		t.Fatalf("Decrypt of legacy layout: %v", err)
	}
	got, err := os.ReadFile(restored)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("legacy decrypt = %q, want %q", got, content)
	}
}

func TestDecryptPlainFile(t *testing.T) {
	dir := t.TempDir()
	cipher := filepath.Join(dir, "ledger.csv")

	// A real unencrypted dataset, comfortably larger than the envelope
	// prefix, so the missing-magic path reads its first bytes as salt.
	content := []byte("Account,Date,Category,Description,Quantity,Venue,Amount,Currency,Trip,Id\n" +
		"Checking,2026-01-02,Food,Groceries,,,-12.50,EUR,,\n")
	if err := os.WriteFile(cipher, content, 0o600); err != nil {
		t.Fatal(err)
	}
	err := Decrypt(cipher, filepath.Join(dir, "restored"), "pw")
	if !errors.Is(err, ErrNotEncrypted) {
		t.Fatalf("Decrypt of plain file: %v, want ErrNotEncrypted", err)
	}
}

func TestMissingMagicCorruptionStaysFatal(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.csv")
	cipher := filepath.Join(dir, "cipher")

	// Two chunks, so a failure past the first cannot mean "plain file".
	content := bytes.Repeat([]byte("y"), chunkSize+10)
	if err := os.WriteFile(plain, content, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := Encrypt(plain, cipher, "pw"); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(cipher)
	if err != nil {
		t.Fatal(err)
	}
	raw[len(raw)-1] ^= 0xFF
	if err := os.WriteFile(cipher, raw[len(magic):], 0o600); err != nil {
		t.Fatal(err)
	}
	err = Decrypt(cipher, filepath.Join(dir, "restored"), "pw")
	if !errors.Is(err, ErrIncorrectPassword) {
		t.Fatalf("Decrypt of corrupted legacy file: %v, want ErrIncorrectPassword", err)
	}
}

func TestTooSmall(t *testing.T) {
	dir := t.TempDir()
	cipher := filepath.Join(dir, "cipher")
	if err := os.WriteFile(cipher, []byte("short"), 0o600); err != nil {
		t.Fatal(err)
	}
	err := Decrypt(cipher, filepath.Join(dir, "restored"), "pw")
	if !errors.Is(err, ErrNotEncrypted) {
		t.Fatalf("Decrypt of tiny file: %v, want ErrNotEncrypted", err)
	}
}

func TestKeyDerivationIsDeterministic(t *testing.T) {
	salt := bytes.Repeat([]byte{0x42}, saltSize)
	a := deriveKey("pw", salt)
	b := deriveKey("pw", salt)
	if !bytes.Equal(a, b) {
		t.Error("same password and salt produced different keys")
	}
	if bytes.Equal(a, deriveKey("other", salt)) {
		t.Error("different passwords produced the same key")
	}
}
