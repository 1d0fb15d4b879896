package tempfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator returns a token that is unique across concurrent callers.
type IDGenerator func() string

// Option customises a Manager.
type Option func(*Manager)

// WithIDGenerator replaces the default uuid based generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(m *Manager) {
		if gen != nil {
			m.newID = gen
		}
	}
}

// WithClock overrides the time source used in artifact names.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// Manager materialises short-lived byte buffers as files inside a single
// directory. Every file is created exclusively, so two in-flight requests can
// never share a path.
type Manager struct {
	dir   string
	newID IDGenerator
	now   func() time.Time
}

// NewManager initializes a Manager rooted at dir, creating it when missing.
func NewManager(dir string, opts ...Option) (*Manager, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("tempfile: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("tempfile: ensure directory: %w", err)
	}
	m := &Manager{
		dir:   dir,
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Dir returns the temp namespace root.
func (m *Manager) Dir() string {
	if m == nil {
		return ""
	}
	return m.dir
}

// Acquire writes data to a fresh file named "<prefix>-<millis>-<id><ext>" and
// returns its path. The file is opened with O_EXCL so a generator collision
// surfaces as an error instead of silently sharing an artifact.
func (m *Manager) Acquire(prefix, ext string, data []byte) (string, error) {
	if m == nil {
		return "", errors.New("tempfile: manager not configured")
	}
	name := fmt.Sprintf("%s-%d-%s%s", sanitizePart(prefix), m.now().UnixMilli(), sanitizePart(m.newID()), ext)
	path := filepath.Join(m.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("tempfile: create %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("tempfile: write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("tempfile: close %s: %w", name, err)
	}
	return path, nil
}

// Release deletes the file at path. A file that is already gone is not an
// error.
func (m *Manager) Release(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("tempfile: remove: %w", err)
	}
	return nil
}

// Scope starts a request-scoped group of artifacts.
func (m *Manager) Scope() *Scope {
	return &Scope{manager: m}
}

// Scope tracks the artifacts acquired on behalf of a single request. Close
// releases each of them exactly once, no matter how often it is called.
type Scope struct {
	manager *Manager

	mu     sync.Mutex
	paths  []string
	closed bool
}

// Acquire materialises data through the owning manager and records the path
// for release.
func (s *Scope) Acquire(prefix, ext string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", errors.New("tempfile: scope already closed")
	}
	path, err := s.manager.Acquire(prefix, ext, data)
	if err != nil {
		return "", err
	}
	s.paths = append(s.paths, path)
	return path, nil
}

// Paths returns a copy of the paths currently owned by the scope.
func (s *Scope) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

// Close releases every owned artifact in reverse acquisition order and
// returns the joined release errors.
func (s *Scope) Close() error {
	s.mu.Lock()
	paths := s.paths
	s.paths = nil
	s.closed = true
	s.mu.Unlock()

	var errs []error
	for i := len(paths) - 1; i >= 0; i-- {
		if err := s.manager.Release(paths[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func sanitizePart(v string) string {
	v = strings.TrimSpace(v)
	v = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, v)
	if v == "" {
		return "tmp"
	}
	return v
}
