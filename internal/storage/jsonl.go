package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"volMonitor/internal/model"
)

// Stdout is the path that makes JsonlStorage write to standard output.
const Stdout = "-"

// JsonlStorage writes table rows to a JSONL file, one row per line.
type JsonlStorage struct {
	path   string
	stdout io.Writer
	mu     sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path, stdout: os.Stdout}
}

// PutTable replaces the file contents with rows.
func (s *JsonlStorage) PutTable(_ context.Context, _ time.Time, rows []model.MetricRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == Stdout {
		return writeRows(s.stdout, rows)
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	if err := writeRows(file, rows); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func writeRows(w io.Writer, rows []model.MetricRow) error {
	writer := bufio.NewWriter(w)
	for _, row := range rows {
		line, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshal metric row: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write metric row: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
