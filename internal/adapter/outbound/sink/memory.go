package sink

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/celestialdb/codegen/internal/domain"
)

// MemorySink keeps generated files in memory. Used for dry runs and by the
// MCP tools, which return the modules instead of writing them.
// NOTE: Content is lost when the process exits.
type MemorySink struct {
	mu     sync.RWMutex
	files  map[string][]byte
	logger *slog.Logger
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink(logger *slog.Logger) *MemorySink {
	return &MemorySink{
		files:  make(map[string][]byte),
		logger: logger.With("component", "mem_sink"),
	}
}

// WriteFile stores a copy of content under path.
func (s *MemorySink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = append([]byte(nil), content...)
	s.logger.Debug("Stored file", slog.String("path", path), slog.Int("total_files", len(s.files)))
	return nil
}

// Get returns the content stored under path.
func (s *MemorySink) Get(path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.files[path]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), content...), true
}

// Files returns every stored file, sorted by path.
func (s *MemorySink) Files() []domain.GeneratedFile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := make([]domain.GeneratedFile, 0, len(paths))
	for _, p := range paths {
		out = append(out, domain.GeneratedFile{Path: p, Content: append([]byte(nil), s.files[p]...)})
	}
	return out
}

// Reset drops every stored file.
func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string][]byte)
}
