// Package index builds the base-name index of a directory tree.
package index

import (
	"context"
	"fmt"

	"github.com/sdejongh/stemdiff/internal/platform"
	"github.com/sdejongh/stemdiff/pkg/logging"
	"github.com/sdejongh/stemdiff/pkg/models"
	"github.com/sdejongh/stemdiff/pkg/storage"
)

// Options controls how a tree is indexed
type Options struct {
	// Exclude holds glob patterns matched against root-relative paths
	Exclude []string
	// Logger receives collision warnings; nil disables logging
	Logger logging.Logger
}

// BuildIndex walks backend recursively and maps every regular file to its base name.
//
// Directories and non-regular entries are skipped, and excluded directories are
// not descended into. When two files share a base name, the one visited later
// in lexical walk order replaces the earlier one and the overwrite is recorded
// in the index's Collisions. Any traversal error aborts indexing: a partial
// index would yield a misleading comparison.
func BuildIndex(ctx context.Context, backend storage.Backend, opts Options) (*models.DirectoryIndex, error) {
	logger := logging.OrNull(opts.Logger).WithFields(logging.Fields{"root": backend.Root()})

	skipExcluded := func(fi storage.FileInfo) bool {
		if !shouldExclude(fi.RelativePath, opts.Exclude) {
			return false
		}
		logger.Debug(ctx, "excluded", logging.Fields{"path": fi.RelativePath})
		return true
	}

	entries, err := backend.List(ctx, "", skipExcluded)
	if err != nil {
		return nil, fmt.Errorf("failed to index %s: %w", backend.Root(), err)
	}

	idx := models.NewDirectoryIndex(backend.Root())

	for _, e := range entries {
		if !e.IsRegular() {
			continue
		}

		entry := models.FileEntry{
			BaseName:     platform.BaseName(e.RelativePath),
			RelativePath: e.RelativePath,
			AbsolutePath: e.Path,
			Size:         e.Size,
		}
		if prev, exists := idx.Get(entry.BaseName); exists {
			logger.Warn(ctx, "base name collision, keeping later file", logging.Fields{
				"base_name": entry.BaseName,
				"kept":      entry.RelativePath,
				"shadowed":  prev.RelativePath,
			})
		}
		idx.Add(entry)
	}

	logger.Info(ctx, "indexed directory", logging.Fields{
		"base_names": idx.Len(),
		"collisions": len(idx.Collisions),
	})
	return idx, nil
}

// Build indexes the directory at path on the local filesystem
func Build(ctx context.Context, path string, opts Options) (*models.DirectoryIndex, error) {
	backend, err := storage.NewLocal(path)
	if err != nil {
		return nil, fmt.Errorf("failed to index %s: %w", path, err)
	}
	defer backend.Close()
	return BuildIndex(ctx, backend, opts)
}
