// Package sessionstore implementa auth.SessionStorage: en memoria y en un
// archivo YAML (lo que usa babyctl entre ejecuciones).
package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"baby-care-tracker/internal/ports/auth"

	"gopkg.in/yaml.v3"
)

type Memory struct {
	mu      sync.Mutex
	session auth.Session
	ok      bool
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(context.Context) (auth.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, m.ok, nil
}

func (m *Memory) Save(_ context.Context, s auth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session, m.ok = s, true
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session, m.ok = auth.Session{}, false
	return nil
}

// File guarda la sesión en path con permisos 0600.
type File struct {
	path string
	mu   sync.Mutex
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Load(context.Context) (auth.Session, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return auth.Session{}, false, nil
	}
	if err != nil {
		return auth.Session{}, false, fmt.Errorf("sessionstore: read %s: %w", f.path, err)
	}

	var s auth.Session
	if err := yaml.Unmarshal(b, &s); err != nil {
		return auth.Session{}, false, fmt.Errorf("sessionstore: parse %s: %w", f.path, err)
	}
	if s.IsZero() {
		return auth.Session{}, false, nil
	}
	return s, true, nil
}

func (f *File) Save(_ context.Context, s auth.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("sessionstore: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("sessionstore: mkdir: %w", err)
	}

	// escritura atómica: tmp + rename
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("sessionstore: write: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("sessionstore: rename: %w", err)
	}
	return nil
}

func (f *File) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("sessionstore: remove: %w", err)
	}
	return nil
}
