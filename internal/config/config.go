// Package config handles the on-disk tree/index configuration: which
// directories are indexed as trees, their include/exclude globs, whether
// they count as local or global, and the index-affecting knobs (stemmer
// language, fuzzy distance, size thresholds) that feed the §4.6 config
// hash.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/retrieved/thicket/internal/index"
)

// TreeConfig describes a single named tree (§3 "Tree"): a directory root
// plus include/exclude glob patterns, and whether it is declared at the
// user level (global) rather than the project level (local).
type TreeConfig struct {
	Name    string   `toml:"name"`
	Root    string   `toml:"root"`
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
	Global  bool     `toml:"global"`
}

// Config is the full on-disk configuration this module consumes. It is
// deliberately small: `.ra.toml` discovery and merging across directories
// is the out-of-scope collaborator named in §1; this struct is what that
// collaborator is expected to hand us after merging.
type Config struct {
	Trees []TreeConfig `toml:"trees"`

	// StemmerLanguage is one of the 18 Snowball languages (internal/analyzer).
	StemmerLanguage string `toml:"stemmer_language"`
	// FuzzyDistance is the Levenshtein threshold recorded in the config
	// digest (Hash). The engine does not pass it to searches; a search takes
	// its threshold from search.Params.FuzzyDistance, where 0 disables fuzzy
	// matching (§4.1).
	FuzzyDistance int `toml:"fuzzy_distance"`
	// MaxTokenLength, when non-zero, replaces analyzer.MaxTokenLength in the
	// config digest (Hash). The analyzer itself always uses
	// analyzer.MaxTokenLength.
	MaxTokenLength int `toml:"max_token_length"`
}

// Load reads and parses a TOML configuration file at path.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes cfg to path as TOML.
func (c *Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}

// Included reports whether relPath (forward-slash, tree-relative) should be
// indexed under t: it must match at least one Include pattern (or Include
// is empty, meaning "match everything") and no Exclude pattern.
func (t TreeConfig) Included(relPath string) bool {
	if len(t.Include) > 0 {
		matched := false
		for _, pat := range t.Include {
			if ok, _ := doublestar.Match(pat, relPath); ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, pat := range t.Exclude {
		if ok, _ := doublestar.Match(pat, relPath); ok {
			return false
		}
	}
	return true
}

// treeGlobs flattens every tree's include/exclude patterns into one slice,
// in tree order, for the §4.6 config digest (index.ConfigDigest sorts it),
// which must change whenever any tree's matching rules change.
func (c *Config) treeGlobs() []string {
	var globs []string
	for _, t := range c.Trees {
		globs = append(globs, t.Name+":+"+joinGlobs(t.Include))
		globs = append(globs, t.Name+":-"+joinGlobs(t.Exclude))
	}
	return globs
}

func joinGlobs(patterns []string) string {
	out := ""
	for i, p := range patterns {
		if i > 0 {
			out += "|"
		}
		out += p
	}
	return out
}

// Hash computes the §4.6 config digest over schema version, stemmer
// language, fuzzy distance, size thresholds, and tree include/exclude
// patterns. A mismatch against a manifest's stored digest forces a full
// rebuild (index.OpenWithRebuild).
func (c *Config) Hash(maxTokenLength int) string {
	if c.MaxTokenLength != 0 {
		maxTokenLength = c.MaxTokenLength
	}
	return index.ConfigDigest(c.StemmerLanguage, c.FuzzyDistance, maxTokenLength, c.treeGlobs())
}

// ByName returns the tree config named name, or false if no such tree is
// declared.
func (c *Config) ByName(name string) (TreeConfig, bool) {
	for _, t := range c.Trees {
		if t.Name == name {
			return t, true
		}
	}
	return TreeConfig{}, false
}
