package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var bom = []byte{0xEF, 0xBB, 0xBF}

// Store reads and writes columnar CSV snapshots. Saves are atomic: a
// temporary file in the target directory is renamed over the previous
// snapshot, so a crash mid-write never corrupts it.
type Store struct {
	logger *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger}
}

// Load reads a snapshot. A missing file yields an empty table with the
// given default columns.
func (s *Store) Load(path string, defaultColumns []string) (*Table, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewTable(defaultColumns), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, bom)))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	if len(records) == 0 {
		return NewTable(defaultColumns), nil
	}

	t := NewTable(records[0])
	for _, rec := range records[1:] {
		row := make([]string, len(t.Columns))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// LoadFirst loads the first existing snapshot among candidate paths.
func (s *Store) LoadFirst(paths []string, defaultColumns []string) (*Table, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return s.Load(p, defaultColumns)
		}
	}
	return NewTable(defaultColumns), nil
}

// Save atomically replaces the snapshot at path with t.
func (s *Store) Save(path string, t *Table) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer func() {
		// No-op after a successful rename.
		_ = os.Remove(tmp.Name())
	}()

	if err := writeCSV(tmp, t); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace snapshot %s: %w", path, err)
	}

	s.logger.Debug("dataset.snapshot.saved", "path", path, "rows", t.Len())
	return nil
}

func writeCSV(f *os.File, t *Table) error {
	if _, err := f.Write(bom); err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
