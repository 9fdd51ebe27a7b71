// Package index implements the chunk-granular inverted index: SQLite-backed
// storage for the stored chunk schema, a manifest for incremental updates,
// and an in-memory BM25-style snapshot used to answer compiled queries.
package index

// Field names in the chunk schema (§4.6).
const (
	FieldID             = "id"
	FieldTitle          = "title"
	FieldTags           = "tags"
	FieldPath           = "path"
	FieldPathComponents = "path_components"
	FieldTree           = "tree"
	FieldBody           = "body"
	FieldBreadcrumb     = "breadcrumb"
)

// AnalyzedFields are the fields a bare term or phrase expands across,
// ordered with their intrinsic field boost (§4.5).
var AnalyzedFields = []struct {
	Name  string
	Boost float64
}{
	{FieldTitle, 3.0},
	{FieldTags, 2.5},
	{FieldPath, 2.0},
	{FieldPathComponents, 2.0},
	{FieldBody, 1.0},
}

// FieldBoost returns the intrinsic boost for an analyzed field, or 1.0 if
// the field carries no special weight (e.g. an exact-match field).
func FieldBoost(field string) float64 {
	for _, f := range AnalyzedFields {
		if f.Name == field {
			return f.Boost
		}
	}
	return 1.0
}

// Chunk is a single record as presented to the index by the chunk tree
// builder. Title, Tags, Path and Body hold raw text; BuildSnapshot runs them
// through the text analyzer (§4.1) when it indexes them. Body is the
// reconstructed body text for this node.
type Chunk struct {
	ID           string
	DocID        string
	Tree         string
	Path         string
	ParentID     string
	Depth        int
	Position     int
	Title        string
	Tags         []string
	Breadcrumb   string
	Body         string
	SiblingCount int
	MTime        int64
	Local        bool
}

// PathComponents splits path on '/' and '.' into multi-valued tokens so
// partial segment matches work, per §4.6.
func PathComponents(path string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '/' || path[i] == '.' {
			if i > start {
				parts = append(parts, path[start:i])
			}
			start = i + 1
		}
	}
	return parts
}
