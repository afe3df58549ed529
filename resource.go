package ledger

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gofrs/flock"

	"github.com/odraude/ledger/cryptofile"
)

// LockHeldError reports that another live instance holds the dataset file.
type LockHeldError struct {
	Path string
}

func (e *LockHeldError) Error() string {
	return fmt.Sprintf("another instance already loaded %q", e.Path)
}

// Resource owns a dataset file: its path, an exclusive lock and a scratch
// working copy. Between Open and Close every operation reads and writes only
// the scratch file; the original path is read once per operation (load) and
// overwritten once (persist).
//
// A failed operation never corrupts the persisted file: the original is only
// replaced after the in-scratch work completed.
type Resource struct {
	filepath string
	scratch  string
	pass     string
	mode     Mode
	lock     *flock.Flock
}

// Open prepares a Resource for the dataset file at path. When pass is not
// empty the file is decrypted on load and re-encrypted on persist.
//
// Open fails with LockHeldError when another live instance holds the lock.
func Open(path string, mode Mode, pass string) (*Resource, error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %q: %w", path, err)
	}
	if !ok {
		return nil, &LockHeldError{Path: path}
	}

	scratch, err := os.CreateTemp("", "ledger-*.csv")
	if err != nil {
		lock.Unlock()
		os.Remove(lock.Path())
		return nil, err
	}
	scratch.Close()

	return &Resource{
		filepath: path,
		scratch:  scratch.Name(),
		pass:     pass,
		mode:     mode,
		lock:     lock,
	}, nil
}

// Close releases the lock and removes the scratch and lock files. It must run
// on every exit path.
func (r *Resource) Close() error {
	err := r.lock.Unlock()
	os.Remove(r.lock.Path())
	os.Remove(r.scratch)
	return err
}

// Filepath returns the dataset file path.
func (r *Resource) Filepath() string { return r.filepath }

// Headers returns the CSV header row of the dataset.
func (r *Resource) Headers() []string { return r.mode.Headers() }

// Create writes a fresh dataset file holding only the header row.
func (r *Resource) Create() error {
	f, err := os.Create(r.scratch)
	if err != nil {
		return err
	}
	w := newLineWriter(f)
	if err := w.header(r.mode); err != nil {
		f.Close()
		return err
	}
	if err := w.flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return r.persist(r.scratch)
}

// CreateWith writes a full header-plus-rows payload, replacing the dataset
// file. Used when the whole file is rewritten in a new order.
func (r *Resource) CreateWith(lines []Line) error {
	acc, err := os.CreateTemp("", "ledger-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(acc.Name())

	w := newLineWriter(acc)
	if err := w.header(r.mode); err != nil {
		acc.Close()
		return err
	}
	for _, line := range lines {
		if err := w.line(line); err != nil {
			acc.Close()
			return err
		}
	}
	if err := w.flush(); err != nil {
		acc.Close()
		return err
	}
	if err := acc.Close(); err != nil {
		return err
	}
	return r.persist(acc.Name())
}

// Book appends the given lines to the end of the dataset file.
func (r *Resource) Book(lines []Line) error {
	return r.Apply(func(scratch string) error {
		f, err := os.OpenFile(scratch, os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return err
		}
		w := newLineWriter(f)
		for _, line := range lines {
			if err := w.line(line); err != nil {
				f.Close()
				return err
			}
		}
		if err := w.flush(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	})
}

// Apply brackets an action between load and persist: the dataset file is
// loaded into the scratch file, the action works on the scratch, and the
// scratch is persisted back, even when the action's own result was discarded
// by the caller. An action error aborts without touching the original.
func (r *Resource) Apply(action func(scratch string) error) error {
	if err := r.load(); err != nil {
		return err
	}
	if err := action(r.scratch); err != nil {
		return err
	}
	return r.persist(r.scratch)
}

// Line runs a read-only pass: every row is parsed into the mode's Line kind
// and handed to visit in file order; mutations are discarded and the
// unmodified file is persisted. Used for validation passes.
func (r *Resource) Line(visit func(Line) error) error {
	return r.Apply(func(scratch string) error {
		f, err := os.Open(scratch)
		if err != nil {
			return err
		}
		defer f.Close()
		return DecodeLines(f, r.mode, visit)
	})
}

// Rewrite replaces the dataset file row by row. For each row, in file order,
// visit returns the replacement lines (zero, one or two — a caller may hold
// back a row and emit it together with a later one). The rewritten payload
// replaces the dataset file once the pass completes.
func (r *Resource) Rewrite(visit func(Line) ([]Line, error)) error {
	return r.RewriteWith(visit, nil)
}

// RewriteWith is Rewrite with a finish hook: once every row has been visited,
// finish (when non-nil) contributes the final lines of the file. A visitor
// that held back a row gets a chance to emit it instead of losing it with the
// scratch copy.
func (r *Resource) RewriteWith(visit func(Line) ([]Line, error), finish func() ([]Line, error)) error {
	if err := r.load(); err != nil {
		return err
	}

	acc, err := os.CreateTemp("", "ledger-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(acc.Name())

	w := newLineWriter(acc)
	if err := w.header(r.mode); err != nil {
		acc.Close()
		return err
	}

	f, err := os.Open(r.scratch)
	if err != nil {
		acc.Close()
		return err
	}
	err = DecodeLines(f, r.mode, func(line Line) error {
		out, err := visit(line)
		if err != nil {
			return err
		}
		for _, l := range out {
			if err := w.line(l); err != nil {
				return err
			}
		}
		return w.flush()
	})
	f.Close()
	if err != nil {
		acc.Close()
		return err
	}
	if finish != nil {
		out, err := finish()
		if err != nil {
			acc.Close()
			return err
		}
		for _, l := range out {
			if err := w.line(l); err != nil {
				acc.Close()
				return err
			}
		}
		if err := w.flush(); err != nil {
			acc.Close()
			return err
		}
	}
	if err := acc.Close(); err != nil {
		return err
	}
	return r.persist(acc.Name())
}

// load brings the dataset file into the scratch copy, decrypting it when a
// passphrase is configured. A configured passphrase tolerates only a file
// that was never encrypted (plain copy fallback); a wrong password is fatal.
func (r *Resource) load() error {
	if r.pass == "" {
		return copyFile(r.filepath, r.scratch)
	}
	err := cryptofile.Decrypt(r.filepath, r.scratch, r.pass)
	if errors.Is(err, cryptofile.ErrNotEncrypted) {
		return copyFile(r.filepath, r.scratch)
	}
	return err
}

// persist is the only place the dataset file is overwritten.
func (r *Resource) persist(src string) error {
	if r.pass == "" {
		return copyFile(src, r.filepath)
	}
	return cryptofile.Encrypt(src, r.filepath, r.pass)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
