package models

import (
	"time"
)

// MismatchPair is a base name present in both trees whose contents differ
type MismatchPair struct {
	BaseName string    `json:"base_name"`
	A        FileEntry `json:"a"`
	B        FileEntry `json:"b"`
	HashA    string    `json:"hash_a"`
	HashB    string    `json:"hash_b"`
}

// Stats holds comparison counters
type Stats struct {
	// SameNameCount is the number of base names present in both trees
	SameNameCount int `json:"same_name_count"`

	// DiffNameCount is the number of base names without a counterpart on the
	// other side, both directions summed. It does not count content mismatches.
	DiffNameCount int `json:"diff_name_count"`

	FilesA     int `json:"files_a"`
	FilesB     int `json:"files_b"`
	Mismatched int `json:"mismatched"`
}

// ComparisonResult is the outcome of comparing two directory indexes.
// OnlyA, OnlyB and Mismatches are sorted by base name.
type ComparisonResult struct {
	ID        string        `json:"id"`
	RootA     string        `json:"root_a"`
	RootB     string        `json:"root_b"`
	Algorithm HashAlgorithm `json:"algorithm"`

	OnlyA      []FileEntry    `json:"only_a"`
	OnlyB      []FileEntry    `json:"only_b"`
	Mismatches []MismatchPair `json:"mismatches"`

	CollisionsA []Collision `json:"collisions_a,omitempty"`
	CollisionsB []Collision `json:"collisions_b,omitempty"`

	Stats Stats `json:"stats"`

	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
}

// Identical reports whether no difference of any kind was found
func (r *ComparisonResult) Identical() bool {
	return len(r.OnlyA) == 0 && len(r.OnlyB) == 0 && len(r.Mismatches) == 0
}

// Paths returns the absolute paths of entries
func Paths(entries []FileEntry) []string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.AbsolutePath)
	}
	return paths
}

// RelativePaths returns the root-relative paths of entries
func RelativePaths(entries []FileEntry) []string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.RelativePath)
	}
	return paths
}
