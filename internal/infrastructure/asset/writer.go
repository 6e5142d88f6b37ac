// Package asset saves downloaded files (invoices, exported reports) under a
// downloads directory.
package asset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type FSWriter struct {
	Dir string
}

func NewFSWriter(dir string) *FSWriter {
	return &FSWriter{Dir: dir}
}

// Write stores data as <Dir>/<kind>/<filename> and returns the path written.
// The file appears atomically; a half-written download is never visible.
func (w *FSWriter) Write(kind, filename string, data []byte) (string, error) {
	name := cleanName(filename)
	if name == "" {
		return "", fmt.Errorf("asset: empty file name")
	}
	dir := filepath.Join(w.Dir, cleanName(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	out := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), out); err != nil {
		return "", err
	}
	return out, nil
}

func cleanName(s string) string {
	s = filepath.Base(strings.TrimSpace(s))
	if s == "." || s == ".." || s == string(filepath.Separator) {
		return ""
	}
	return s
}
