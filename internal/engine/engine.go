// Package engine wires the core components spec.md describes — the
// analyzer, chunk builder, markdown event collaborator, inverted index,
// manifest, query parser/compiler, search pipeline, and context analyzer —
// into the single API surface described in §6: search, search_multi,
// context, get, and explain.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/retrieved/thicket/internal/analyzer"
	"github.com/retrieved/thicket/internal/compile"
	"github.com/retrieved/thicket/internal/config"
	"github.com/retrieved/thicket/internal/index"
	"github.com/retrieved/thicket/internal/query"
	"github.com/retrieved/thicket/internal/search"
)

// Engine is the process-wide handle onto a single index: the manifest and
// the index's reader snapshot are the only mutable process-wide state
// (§9), both owned here and serialized through writeMu.
type Engine struct {
	store    *index.Store
	analyzer *analyzer.Analyzer
	cfg      *config.Config

	manifestPath string
	writeMu      sync.Mutex
	manifest     *index.Manifest
}

// Open opens (or creates, or transparently rebuilds on config drift) the
// index at dbPath, and loads the manifest at manifestPath.
func Open(dbPath, manifestPath string, cfg *config.Config) (*Engine, error) {
	configHash := cfg.Hash(analyzer.MaxTokenLength)

	store, rebuilt, err := index.OpenWithRebuild(dbPath, configHash)
	if err != nil {
		return nil, fmt.Errorf("engine: open index: %w", err)
	}

	var manifest *index.Manifest
	if rebuilt {
		manifest = index.NewManifest(configHash)
	} else {
		manifest, err = index.LoadManifest(manifestPath, configHash)
		if err != nil {
			store.Close()
			return nil, err
		}
		if manifest.ConfigHash != configHash {
			// The manifest predates a config change the index itself didn't
			// catch (e.g. manifest file survived a deleted db); start clean
			// rather than trust stale (mtime, hash) pairs against it.
			manifest = index.NewManifest(configHash)
		}
	}

	return &Engine{
		store:        store,
		analyzer:     analyzer.New(cfg.StemmerLanguage),
		cfg:          cfg,
		manifestPath: manifestPath,
		manifest:     manifest,
	}, nil
}

// Close releases the underlying index handle.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Config returns the engine's configuration.
func (e *Engine) Config() *config.Config { return e.cfg }

// Snapshot returns the current reader snapshot (§5: many-readers, always
// reflecting either the entire pre-commit or entire post-commit state).
func (e *Engine) Snapshot() *index.Snapshot {
	return e.store.Snapshot()
}

// compileQuery parses and lowers a query string using this engine's
// analyzer, the pairing the index was built with (§4.1).
func (e *Engine) compileQuery(q string) (query.Expr, index.Op, error) {
	expr, err := query.Parse(q)
	if err != nil {
		return nil, nil, err
	}
	op, err := compile.Compile(expr, e.analyzer)
	if err != nil {
		return nil, nil, err
	}
	return expr, op, nil
}

// Search implements the §6 search(query_string, params) surface: parse,
// compile, run the §4.7 pipeline against the current snapshot.
func (e *Engine) Search(ctx context.Context, queryString string, params search.Params) ([]search.Result, error) {
	expr, op, err := e.compileQuery(queryString)
	if err != nil {
		return nil, err
	}
	snap := e.Snapshot()
	return search.Run(ctx, snap, op, query.RawTerms(expr), params)
}

// Explain implements the §6 explain mode: parse the query string and return
// its AST in a stable, serializable labelled-tree form, without executing
// a search.
func (e *Engine) Explain(queryString string) (string, error) {
	expr, err := query.Parse(queryString)
	if err != nil {
		return "", err
	}
	return query.Explain(expr), nil
}
