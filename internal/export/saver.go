package export

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Download describes a saved export.
type Download struct {
	Filename string `json:"filename"`
	Location string `json:"location"`
	Size     int    `json:"size"`
}

// Saver persists an export payload under a filename.
type Saver interface {
	Save(ctx context.Context, filename string, payload []byte) (*Download, error)
}

// FileSaver writes exports into a local directory.
type FileSaver struct {
	dir string
}

func NewFileSaver(dir string) *FileSaver {
	return &FileSaver{dir: dir}
}

func (s *FileSaver) Save(ctx context.Context, filename string, payload []byte) (*Download, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) {
		return nil, fmt.Errorf("invalid export filename %q", filename)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir %s: %w", s.dir, err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write export %s: %w", path, err)
	}
	return &Download{Filename: name, Location: path, Size: len(payload)}, nil
}

// Exporter renders collections and hands the bytes to its Saver.
type Exporter struct {
	saver Saver
}

func NewExporter(saver Saver) *Exporter {
	return &Exporter{saver: saver}
}

// Export saves an already rendered payload. An empty payload is refused.
func (e *Exporter) Export(ctx context.Context, filename string, payload []byte) (*Download, error) {
	if len(payload) == 0 {
		return nil, ErrNothingToExport
	}
	d, err := e.saver.Save(ctx, filename, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", filename, err)
	}
	log.Printf("Exported %s (%d bytes) to %s", d.Filename, d.Size, d.Location)
	return d, nil
}

// Collection renders rows with cols and saves the result. An empty collection
// returns ErrNothingToExport and nothing is saved.
func Collection[T any](ctx context.Context, e *Exporter, filename string, rows []T, cols []Column[T]) (*Download, error) {
	payload, err := CSV(rows, cols)
	if err != nil {
		if errors.Is(err, ErrNothingToExport) {
			log.Printf("Export %s skipped: no rows", filename)
		}
		return nil, err
	}
	return e.Export(ctx, filename, payload)
}
