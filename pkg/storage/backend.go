package storage

import (
	"context"
	"io"
	"io/fs"
)

// FileInfo represents metadata about a directory entry
type FileInfo struct {
	Path         string
	RelativePath string
	Size         int64
	Mode         fs.FileMode
	IsDir        bool
}

// IsRegular reports whether the entry is a regular file.
// Directories, symlinks, devices, sockets and pipes are not.
func (fi FileInfo) IsRegular() bool {
	return fi.Mode.IsRegular()
}

// SkipFunc reports whether a listed entry should be left out.
// A skipped directory is not descended into.
type SkipFunc func(info FileInfo) bool

// Backend defines the interface for storage operations.
// The comparison only ever reads trees and removes individual files.
type Backend interface {
	// Root returns the absolute path the backend is rooted at
	Root() string

	// List returns every entry below path recursively, in lexical walk order.
	// skip may be nil.
	List(ctx context.Context, path string, skip SkipFunc) ([]FileInfo, error)

	// Read opens a file for reading
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a single file. Directories are refused.
	Delete(ctx context.Context, path string) error

	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)

	// Stat returns file metadata
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Close releases any resources held by the backend
	Close() error
}
