package index

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// ManifestEntry is the persisted (mtime, content_hash) pair the incremental
// updater tracks per document (§4.6).
type ManifestEntry struct {
	Tree        string
	Path        string
	MTime       int64
	ContentHash string
}

// Classification is the result of comparing a document's current (mtime,
// hash) against its manifest entry.
type Classification int

const (
	Unchanged Classification = iota
	Added
	Modified
	Removed
)

// HashContent returns the content hash used for the "modified" signal. Per
// the design-notes resolution of the mtime-vs-hash ambiguity: mtime is the
// primary signal, and the hash is only computed (and compared) once mtime
// has already changed.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Classify compares a document's current mtime/content against prev (the
// manifest's last-recorded entry for this doc_id, or nil if none).
//
// contentHash is computed lazily by the caller only when mtime differs,
// matching §9's "mtime or hash" resolution: mtime is the required primary
// signal, and the hash lookup (computeHash) is skipped entirely when mtime
// is unchanged.
func Classify(prev *ManifestEntry, currentMTime int64, computeHash func() string) (Classification, string) {
	if prev == nil {
		return Added, computeHash()
	}
	if currentMTime == prev.MTime {
		return Unchanged, prev.ContentHash
	}
	hash := computeHash()
	if hash == prev.ContentHash {
		return Unchanged, hash
	}
	return Modified, hash
}

// Manifest tracks (tree, path) -> (mtime, content_hash) for every indexed
// document, plus the config digest that forces a full rebuild on drift
// (§4.6). It is persisted as a JSON file, written atomically via a
// temp-then-rename (see Save).
type Manifest struct {
	ConfigHash   string                   `json:"config_hash"`
	GenerationID string                   `json:"generation_id"`
	Documents    map[string]ManifestEntry `json:"documents"`
}

// NewManifest returns an empty manifest for the given config hash, stamped
// with a fresh generation id. The id changes only when a full rebuild
// starts a new manifest from scratch (config drift, or a missing/corrupt
// manifest file); ordinary incremental updates keep the loaded generation.
func NewManifest(configHash string) *Manifest {
	return &Manifest{
		ConfigHash:   configHash,
		GenerationID: uuid.NewString(),
		Documents:    make(map[string]ManifestEntry),
	}
}

// Entry returns the manifest entry for docID, or nil if not present.
func (m *Manifest) Entry(docID string) *ManifestEntry {
	if e, ok := m.Documents[docID]; ok {
		return &e
	}
	return nil
}

// Set records docID's current state.
func (m *Manifest) Set(docID string, entry ManifestEntry) {
	if m.Documents == nil {
		m.Documents = make(map[string]ManifestEntry)
	}
	m.Documents[docID] = entry
}

// Remove drops docID from the manifest.
func (m *Manifest) Remove(docID string) {
	delete(m.Documents, docID)
}

// Diff returns the doc_ids present in m but absent from current, i.e. the
// documents that have disappeared since the last scan (§4.6 "removed").
func (m *Manifest) Diff(current map[string]bool) []string {
	var removed []string
	for docID := range m.Documents {
		if !current[docID] {
			removed = append(removed, docID)
		}
	}
	return removed
}
