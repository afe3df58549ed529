package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// DecodeLines reads a dataset file, parses every row into the mode's Line
// kind and calls visit for each, strictly in file order.
//
// The header row is required and must match the mode's column set.
func DecodeLines(r io.Reader, m Mode, visit func(Line) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(m.Headers())

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%s file is missing its header row", m)
	}
	if err != nil {
		return err
	}
	for i, name := range m.Headers() {
		if header[i] != name {
			return fmt.Errorf("%s file has header %q in column %d, want %q", m, header[i], i, name)
		}
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line, err := buildLine(m, record)
		if err != nil {
			return err
		}
		if err := visit(line); err != nil {
			return err
		}
	}
}

// EncodeLines writes the mode's header row followed by the given lines.
func EncodeLines(w io.Writer, m Mode, lines []Line) error {
	lw := newLineWriter(w)
	if err := lw.header(m); err != nil {
		return err
	}
	for _, line := range lines {
		if err := lw.line(line); err != nil {
			return err
		}
	}
	return lw.flush()
}

// A lineWriter appends CSV records to a dataset file.
type lineWriter struct {
	w *csv.Writer
}

func newLineWriter(w io.Writer) *lineWriter {
	return &lineWriter{w: csv.NewWriter(w)}
}

func (lw *lineWriter) header(m Mode) error {
	return lw.w.Write(m.Headers())
}

func (lw *lineWriter) line(l Line) error {
	return lw.w.Write(l.record())
}

// flush writes any buffered records and reports the first error encountered.
func (lw *lineWriter) flush() error {
	lw.w.Flush()
	return lw.w.Error()
}
