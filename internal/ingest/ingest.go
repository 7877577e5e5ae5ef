// Package ingest drives the end-to-end addition of one GIF: fetch the asset,
// collect metadata, validate the candidate record, and append it to the
// manifest. The manifest file is only touched in the final step, so a failed
// ingest can always be compensated by deleting the fetched asset.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bilbywilby/IASIP-gifs/pkg/fetch"
	"github.com/bilbywilby/IASIP-gifs/pkg/logger"
	"github.com/bilbywilby/IASIP-gifs/pkg/manifest"
	"github.com/bilbywilby/IASIP-gifs/pkg/schema"
)

// State names the pipeline stages. Any failure after Fetching moves to
// RolledBack after the compensating asset delete.
type State int

const (
	StateStart State = iota
	StateFetching
	StateCollectingMetadata
	StateValidating
	StatePersisting
	StateCommitted
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateFetching:
		return "fetching"
	case StateCollectingMetadata:
		return "collecting-metadata"
	case StateValidating:
		return "validating"
	case StatePersisting:
		return "persisting"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled-back"
	default:
		return "unknown"
	}
}

// BadFilenameError rejects the requested filename before any fetch happens.
type BadFilenameError struct {
	Filename string
	Reason   string
}

func (e *BadFilenameError) Error() string {
	return fmt.Sprintf("bad filename %q: %s", e.Filename, e.Reason)
}

// SchemaViolationError reports the candidate record failing schema validation.
type SchemaViolationError struct {
	Violation *schema.ValidationError
}

func (e *SchemaViolationError) Error() string {
	return "schema validation failed: " + e.Violation.Error()
}

// Metadata is the operator-supplied portion of a record.
type Metadata struct {
	Description string
	Tags        []string
}

// MetadataSource produces completed metadata for the asset being ingested.
// Interactive prompting, flag parsing, and retry loops all live behind this
// interface; the pipeline only depends on the capability.
type MetadataSource interface {
	Collect(filename string) (Metadata, error)
}

// Result describes a committed ingest.
type Result struct {
	Record       manifest.Record
	AssetPath    string
	ManifestPath string
	Size         int64
}

// Pipeline wires the fetcher, validator, and store for sequential runs.
type Pipeline struct {
	fetcher   *fetch.Fetcher
	validator *schema.Validator
	store     *manifest.Store
	gifsDir   string
}

// New assembles a pipeline.
func New(fetcher *fetch.Fetcher, validator *schema.Validator, store *manifest.Store, gifsDir string) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		validator: validator,
		store:     store,
		gifsDir:   gifsDir,
	}
}

// NormalizeFilename derives the local filename from operator input:
// lower-cased, spaces replaced with underscores.
func NormalizeFilename(raw string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), " ", "_")
}

// Run executes one ingest. On any failure after the asset has been written,
// the asset file is deleted before the error is returned; the manifest is
// persisted only as the final step and is never left inconsistent.
func (p *Pipeline) Run(ctx context.Context, url, rawFilename string, source MetadataSource) (*Result, error) {
	state := StateStart
	transition := func(next State) {
		logger.Debug("pipeline transition",
			logger.String("from", state.String()),
			logger.String("to", next.String()))
		state = next
	}

	name := NormalizeFilename(rawFilename)
	if !strings.HasSuffix(name, manifest.AssetExt) {
		return nil, &BadFilenameError{Filename: name, Reason: "must end with " + manifest.AssetExt}
	}
	if filepath.Base(name) == "" || filepath.Base(name) != name {
		return nil, &BadFilenameError{Filename: name, Reason: "must be a bare filename"}
	}

	assetPath := filepath.Join(p.gifsDir, name)
	if _, err := os.Stat(assetPath); err == nil {
		return nil, &BadFilenameError{Filename: name, Reason: "asset already exists locally"}
	}

	transition(StateFetching)
	size, err := p.fetcher.Fetch(ctx, url, assetPath)
	if err != nil {
		// Nothing was written; no compensation needed.
		return nil, err
	}
	logger.Info("downloaded asset",
		logger.String("filename", name),
		logger.Int64("bytes", size))

	rollback := func(cause error) error {
		transition(StateRolledBack)
		if rmErr := os.Remove(assetPath); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Error("rollback failed to remove asset",
				logger.String("path", assetPath),
				logger.Err(rmErr))
		} else {
			logger.Info("rolled back fetched asset", logger.String("path", assetPath))
		}
		return cause
	}

	transition(StateCollectingMetadata)
	meta, err := source.Collect(name)
	if err != nil {
		return nil, rollback(fmt.Errorf("collect metadata: %w", err))
	}
	candidate := manifest.Record{
		Filename:    name,
		Description: meta.Description,
		Tags:        meta.Tags,
	}

	transition(StateValidating)
	res, err := p.validator.ValidateRecord(candidate)
	if err != nil {
		return nil, rollback(err)
	}
	if !res.Valid {
		return nil, rollback(&SchemaViolationError{Violation: res.First()})
	}

	transition(StatePersisting)
	m, err := p.store.Load()
	if err != nil {
		return nil, rollback(err)
	}
	next, err := manifest.Append(m, candidate)
	if err != nil {
		return nil, rollback(err)
	}
	if err := p.store.Persist(next); err != nil {
		return nil, rollback(err)
	}

	transition(StateCommitted)
	return &Result{
		Record:       candidate,
		AssetPath:    assetPath,
		ManifestPath: p.store.Path(),
		Size:         size,
	}, nil
}
