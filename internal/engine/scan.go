package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/retrieved/thicket/internal/config"
	"github.com/retrieved/thicket/internal/index"
)

// ScanResult summarizes one tree scan (§4.6's add/modify/remove delta).
// ScanID correlates the scan's log lines and skip reports across a run;
// it has no meaning beyond this process's lifetime.
type ScanResult struct {
	ScanID   string
	Added    int
	Modified int
	Skipped  []ParseSkip
}

// ScanTree walks t.Root, indexing every file matched by t's include/exclude
// globs and removing manifest entries for files that have disappeared. This
// is the "full-tree scan" entry point; an fsnotify-driven watch (see
// internal/watch) issues the same per-file IndexDocument/RemoveDocument
// calls incrementally instead.
func (e *Engine) ScanTree(t config.TreeConfig) (ScanResult, error) {
	result := ScanResult{ScanID: uuid.NewString()}
	current := make(map[string]bool)

	err := filepath.WalkDir(t.Root, func(abs string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(t.Root, abs)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !t.Included(rel) {
			return nil
		}

		info, err := os.Stat(abs)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(abs)
		if err != nil {
			return err
		}

		docID := t.Name + ":" + rel
		current[docID] = true

		mtime := info.ModTime().Unix()
		e.writeMu.Lock()
		prev := e.manifest.Entry(docID)
		e.writeMu.Unlock()
		class, _ := index.Classify(prev, mtime, func() string { return index.HashContent(content) })

		if err := e.IndexDocument(t.Name, rel, content, mtime, !t.Global); err != nil {
			var skip *ParseSkip
			if errors.As(err, &skip) {
				result.Skipped = append(result.Skipped, *skip)
				return nil
			}
			return fmt.Errorf("engine: scan %s: %w", rel, err)
		}
		switch class {
		case index.Added:
			result.Added++
		case index.Modified:
			result.Modified++
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	if err := e.RemoveVanishedInTree(t.Name, current); err != nil {
		return result, err
	}
	return result, nil
}
