package models

import (
	"sort"
)

// FileEntry represents a regular file found while indexing a directory tree
type FileEntry struct {
	// BaseName is the file name without its final extension.
	// It is the key used to match files across the two trees.
	BaseName string `json:"base_name"`

	// RelativePath is the path relative to the indexed root
	RelativePath string `json:"relative_path"`

	// AbsolutePath is the full path on the filesystem
	AbsolutePath string `json:"absolute_path"`

	// Size in bytes
	Size int64 `json:"size"`
}

// Collision records a base name that matched more than one file in the same tree.
// Kept is the entry stored in the index, Shadowed the one it replaced.
type Collision struct {
	BaseName string    `json:"base_name"`
	Kept     FileEntry `json:"kept"`
	Shadowed FileEntry `json:"shadowed"`
}

// DirectoryIndex maps base names to the file that represents them in one tree.
//
// When two files share a base name the one visited last wins. Visiting order is
// the lexical walk order of the tree, so the result is stable across runs. Every
// overwrite is recorded in Collisions.
type DirectoryIndex struct {
	Root       string
	Entries    map[string]FileEntry
	Collisions []Collision
}

// NewDirectoryIndex creates an empty index rooted at root
func NewDirectoryIndex(root string) *DirectoryIndex {
	return &DirectoryIndex{
		Root:    root,
		Entries: make(map[string]FileEntry),
	}
}

// Add stores entry under its base name, replacing any earlier entry with the same key
func (idx *DirectoryIndex) Add(entry FileEntry) {
	if prev, exists := idx.Entries[entry.BaseName]; exists {
		idx.Collisions = append(idx.Collisions, Collision{
			BaseName: entry.BaseName,
			Kept:     entry,
			Shadowed: prev,
		})
	}
	idx.Entries[entry.BaseName] = entry
}

// Get returns the entry for a base name
func (idx *DirectoryIndex) Get(baseName string) (FileEntry, bool) {
	entry, ok := idx.Entries[baseName]
	return entry, ok
}

// Has reports whether the index contains a base name
func (idx *DirectoryIndex) Has(baseName string) bool {
	_, ok := idx.Entries[baseName]
	return ok
}

// Len returns the number of distinct base names
func (idx *DirectoryIndex) Len() int {
	return len(idx.Entries)
}

// Keys returns all base names in lexical order
func (idx *DirectoryIndex) Keys() []string {
	keys := make([]string, 0, len(idx.Entries))
	for k := range idx.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
