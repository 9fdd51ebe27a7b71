package index

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// LoadManifest reads the manifest JSON at path. A missing file is not an
// error: it returns an empty manifest for configHash.
func LoadManifest(path, configHash string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewManifest(configHash), nil
	}
	if err != nil {
		return nil, fmt.Errorf("index: read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("index: parse manifest: %w", err)
	}
	return &m, nil
}

// Save persists the manifest atomically: write to a sibling temp file, fsync
// it, then rename into place, so a crash mid-write can never leave a
// truncated manifest for the next Open to trip over (§5, §9's "single
// writer" discipline extends to the manifest file itself).
func (m *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("index: marshal manifest: %w", err)
	}
	return writeFileAtomic(path, data)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".manifest-*.tmp")
	if err != nil {
		return fmt.Errorf("index: create manifest temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("index: write manifest temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("index: sync manifest temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("index: close manifest temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("index: rename manifest into place: %w", err)
	}
	return nil
}

// ConfigDigest hashes the index-affecting configuration knobs described in
// §4.6: schema version, stemmer language, fuzzy distance, size thresholds,
// and tree include/exclude patterns. A mismatch against the manifest's
// stored digest forces a full rebuild.
func ConfigDigest(stemmerLanguage string, fuzzyDistance int, maxTokenLength int, treeGlobs []string) string {
	globs := append([]string(nil), treeGlobs...)
	sort.Strings(globs)

	h := sha256.New()
	fmt.Fprintf(h, "schema:%d\n", SchemaVersion)
	fmt.Fprintf(h, "stemmer:%s\n", stemmerLanguage)
	fmt.Fprintf(h, "fuzzy:%d\n", fuzzyDistance)
	fmt.Fprintf(h, "maxtoken:%d\n", maxTokenLength)
	for _, g := range globs {
		fmt.Fprintf(h, "glob:%s\n", g)
	}
	return hex.EncodeToString(h.Sum(nil))
}
