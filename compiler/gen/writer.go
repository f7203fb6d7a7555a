package gen

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/tools/imports"
)

// ManifestName is the dependency manifest kept next to generated files.
// It records, per artifact, the contributing source files and their
// content hashes, so an unchanged group can be skipped and watch mode
// knows which directories matter.
const ManifestName = ".oneshot.deps"

// Entry is one manifest record.
type Entry struct {
	Sources []string          `msgpack:"sources"`
	Sums    map[string]string `msgpack:"sums"`
	Output  string            `msgpack:"output"`
}

// Writer persists artifacts under the target directory. It is safe for
// concurrent use; groups are written in parallel.
type Writer struct {
	target string

	mu       sync.Mutex
	manifest map[string]*Entry
	metrics  WriterMetrics
}

// WriterMetrics tracks write activity for one round.
type WriterMetrics struct {
	FilesWritten int
	FilesSkipped int
	TotalBytes   int64
}

// NewWriter creates a writer rooted at target and loads the dependency
// manifest if one exists. A missing or unreadable manifest is not an
// error; it only disables skip detection for the first round.
func NewWriter(target string) *Writer {
	w := &Writer{
		target:   target,
		manifest: make(map[string]*Entry),
	}
	if buf, err := os.ReadFile(filepath.Join(target, ManifestName)); err == nil {
		var m map[string]*Entry
		if msgpack.Unmarshal(buf, &m) == nil && m != nil {
			w.manifest = m
		}
	}
	return w
}

// Metrics returns a snapshot of the write metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// Write formats and persists one artifact, overwriting any previous
// content wholesale. It reports written=false when the artifact's
// dependency hashes and output are unchanged since the last round.
func (w *Writer) Write(a *Artifact) (written bool, err error) {
	if err := os.MkdirAll(w.target, 0o755); err != nil {
		return false, NewGenerationError("", a.Name, "create target directory", err)
	}
	path := filepath.Join(w.target, a.Name)

	// goimports pass: prunes unused imports and fixes grouping.
	formatted, err := imports.Process(path, a.Content, nil)
	if err != nil {
		// Keep the unformatted output around for debugging.
		debug := path + ".error"
		_ = os.WriteFile(debug, a.Content, 0o644)
		return false, NewGenerationError("", a.Name, fmt.Sprintf("format (unformatted written to %s)", debug), err)
	}

	entry := &Entry{
		Sources: a.Deps,
		Sums:    make(map[string]string, len(a.Deps)),
		Output:  hash(formatted),
	}
	for _, dep := range a.Deps {
		sum, err := hashFile(dep)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return false, NewGenerationError("", a.Name, "hash dependency "+dep, err)
		}
		entry.Sums[dep] = sum
	}

	w.mu.Lock()
	prev, ok := w.manifest[a.Name]
	w.manifest[a.Name] = entry
	w.mu.Unlock()
	if ok && sameEntry(prev, entry) {
		if onDisk, err := os.ReadFile(path); err == nil && bytes.Equal(onDisk, formatted) {
			w.mu.Lock()
			w.metrics.FilesSkipped++
			w.mu.Unlock()
			return false, nil
		}
	}

	if err := os.WriteFile(path, formatted, 0o644); err != nil {
		return false, NewGenerationError("", a.Name, "write artifact", err)
	}
	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(formatted))
	w.mu.Unlock()
	return true, nil
}

// Flush persists the dependency manifest.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	buf, err := msgpack.Marshal(w.manifest)
	if err != nil {
		return NewGenerationError("", ManifestName, "encode manifest", err)
	}
	if err := os.WriteFile(filepath.Join(w.target, ManifestName), buf, 0o644); err != nil {
		return NewGenerationError("", ManifestName, "write manifest", err)
	}
	return nil
}

// SourceDirs returns the sorted set of directories holding recorded
// dependency sources. Watch mode watches these.
func (w *Writer) SourceDirs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	seen := make(map[string]bool)
	for _, e := range w.manifest {
		for _, src := range e.Sources {
			seen[filepath.Dir(src)] = true
		}
	}
	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

func sameEntry(a, b *Entry) bool {
	if a.Output != b.Output || len(a.Sums) != len(b.Sums) {
		return false
	}
	for dep, sum := range a.Sums {
		if b.Sums[dep] != sum {
			return false
		}
	}
	return true
}

func hashFile(path string) (string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return hash(buf), nil
}

func hash(buf []byte) string {
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}
