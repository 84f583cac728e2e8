package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Sink receives rendered files. Names are slash separated paths relative
// to the sink's root.
type Sink interface {
	Write(name string, content []byte) error
}

// DirSink writes files below a directory on disk
type DirSink struct {
	Root string
}

// NewDirSink creates a sink rooted at dir
func NewDirSink(dir string) *DirSink {
	return &DirSink{Root: dir}
}

// Path returns where name is written
func (s *DirSink) Path(name string) string {
	return filepath.Join(s.Root, filepath.FromSlash(name))
}

func (s *DirSink) Write(name string, content []byte) (err error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("write %s: path escapes output directory", name)
	}

	path := filepath.Join(s.Root, clean)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory for %s: %w", name, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", name, closeErr)
		}
	}()

	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// MemorySink keeps written files in memory
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemorySink creates an empty in-memory sink
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

func (s *MemorySink) Write(name string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files[name] = append([]byte(nil), content...)
	return nil
}

// File returns the content written under name
func (s *MemorySink) File(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.files[name]
	return content, ok
}

// Names lists written files in lexical order
func (s *MemorySink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
