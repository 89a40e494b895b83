package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PublicPath is where the HTTP server exposes the local upload directory.
const PublicPath = "/assets/uploads"

// Local writes uploads to a directory served by the API itself.
type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir, publicBaseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir, baseURL: publicBaseURL + PublicPath}, nil
}

// Dir returns the directory uploads are written to.
func (l *Local) Dir() string { return l.dir }

func (l *Local) Put(_ context.Context, name, _ string, r io.Reader) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	f, err := os.Create(filepath.Join(l.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	return l.baseURL + "/" + name, nil
}

func (l *Local) Delete(_ context.Context, url string) error {
	name, ok := objectFromURL(url, l.baseURL)
	if !ok {
		return nil
	}
	err := os.Remove(filepath.Join(l.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
