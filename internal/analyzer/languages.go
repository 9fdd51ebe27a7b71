package analyzer

import (
	"github.com/blevesearch/snowballstem"
	"github.com/blevesearch/snowballstem/arabic"
	"github.com/blevesearch/snowballstem/danish"
	"github.com/blevesearch/snowballstem/dutch"
	"github.com/blevesearch/snowballstem/english"
	"github.com/blevesearch/snowballstem/finnish"
	"github.com/blevesearch/snowballstem/french"
	"github.com/blevesearch/snowballstem/german"
	"github.com/blevesearch/snowballstem/german2"
	"github.com/blevesearch/snowballstem/hungarian"
	"github.com/blevesearch/snowballstem/italian"
	"github.com/blevesearch/snowballstem/norwegian"
	"github.com/blevesearch/snowballstem/porter"
	"github.com/blevesearch/snowballstem/portuguese"
	"github.com/blevesearch/snowballstem/romanian"
	"github.com/blevesearch/snowballstem/russian"
	"github.com/blevesearch/snowballstem/spanish"
	"github.com/blevesearch/snowballstem/swedish"
	"github.com/blevesearch/snowballstem/turkish"
)

// DefaultLanguage is used whenever a document or query does not specify a
// stemmer language.
const DefaultLanguage = "english"

// stemFunc mutates a snowballstem.Env in place, the shape every snowballstem
// language package exports as its Stem function.
type stemFunc func(*snowballstem.Env) bool

// stemmers is the closed set of 18 Snowball algorithms this module supports.
// Keys are the language names accepted in tree/query configuration.
var stemmers = map[string]stemFunc{
	"arabic":     arabic.Stem,
	"danish":     danish.Stem,
	"dutch":      dutch.Stem,
	"english":    english.Stem,
	"finnish":    finnish.Stem,
	"french":     french.Stem,
	"german":     german.Stem,
	"german2":    german2.Stem,
	"hungarian":  hungarian.Stem,
	"italian":    italian.Stem,
	"norwegian":  norwegian.Stem,
	"porter":     porter.Stem,
	"portuguese": portuguese.Stem,
	"romanian":   romanian.Stem,
	"russian":    russian.Stem,
	"spanish":    spanish.Stem,
	"swedish":    swedish.Stem,
	"turkish":    turkish.Stem,
}

// SupportedLanguages returns the closed set of stemmer language names in map
// iteration order, which is unspecified; callers needing a stable list sort
// the result themselves.
func SupportedLanguages() []string {
	names := make([]string, 0, len(stemmers))
	for name := range stemmers {
		names = append(names, name)
	}
	return names
}

// IsSupportedLanguage reports whether name is one of the 18 configured
// Snowball stemmers.
func IsSupportedLanguage(name string) bool {
	_, ok := stemmers[name]
	return ok
}

// stem reduces a single lowercased token to its stem using the named
// language's Snowball algorithm, falling back to English for an unknown
// or empty language name.
func stem(word, language string) string {
	fn, ok := stemmers[language]
	if !ok {
		fn = stemmers[DefaultLanguage]
	}
	env := snowballstem.NewEnv(word)
	fn(env)
	return env.Current()
}
