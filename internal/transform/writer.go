package transform

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmcalloway/ipmigrate/internal/schema"
)

// Writer emits normalized records as CSVs for dry-run inspection, one
// file per entity using the entity's extract file name.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// WriteClients writes the normalized clients CSV.
func (w *Writer) WriteClients(records []Client) error {
	return w.write(schema.Clients, clientColumns, len(records), func(i int) []string {
		return records[i].row()
	})
}

// WritePatents writes the normalized patents CSV.
func (w *Writer) WritePatents(records []Patent) error {
	return w.write(schema.Patents, patentColumns, len(records), func(i int) []string {
		return records[i].row()
	})
}

// WriteTrademarks writes the normalized trademarks CSV.
func (w *Writer) WriteTrademarks(records []Trademark) error {
	return w.write(schema.Trademarks, trademarkColumns, len(records), func(i int) []string {
		return records[i].row()
	})
}

// WriteDeadlines writes the normalized deadlines CSV.
func (w *Writer) WriteDeadlines(records []Deadline) error {
	return w.write(schema.Deadlines, deadlineColumns, len(records), func(i int) []string {
		return records[i].row()
	})
}

func (w *Writer) write(entity schema.Entity, columns []string, n int, row func(int) []string) error {
	path := filepath.Join(w.dir, entity.FileName())
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write %s header: %w", entity, err)
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(row(i)); err != nil {
			return fmt.Errorf("write %s row %d: %w", entity, i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", entity, err)
	}
	return f.Close()
}
