// Package compare classifies the base names of two directory indexes.
package compare

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sdejongh/stemdiff/pkg/hash"
	"github.com/sdejongh/stemdiff/pkg/logging"
	"github.com/sdejongh/stemdiff/pkg/models"
	"github.com/sdejongh/stemdiff/pkg/storage"
)

// PairEvent is emitted after both sides of a common base name have been hashed
type PairEvent struct {
	BaseName string
	Current  int
	Total    int
	Mismatch bool
}

// Comparator compares two indexes whose files are read through backendA and backendB
type Comparator struct {
	backendA storage.Backend
	backendB storage.Backend
	hasher   *hash.Hasher
	logger   logging.Logger
	onPair   func(PairEvent)
}

// NewComparator creates a comparator. A nil logger discards log output.
func NewComparator(backendA, backendB storage.Backend, hasher *hash.Hasher, logger logging.Logger) *Comparator {
	return &Comparator{
		backendA: backendA,
		backendB: backendB,
		hasher:   hasher,
		logger:   logging.OrNull(logger),
	}
}

// SetPairCallback registers a function called after each common pair is hashed
func (c *Comparator) SetPairCallback(fn func(PairEvent)) {
	c.onPair = fn
}

// Compare splits the base names of a and b into names unique to each side and
// names present in both, then hashes both files of every common name.
//
// Pairs with equal digests are dropped; pairs with different digests become
// mismatches. Every common name is hashed. The first hashing error aborts the
// comparison and no result is returned. The indexes are only read.
func (c *Comparator) Compare(ctx context.Context, a, b *models.DirectoryIndex) (*models.ComparisonResult, error) {
	result := &models.ComparisonResult{
		ID:         uuid.New().String(),
		RootA:      a.Root,
		RootB:      b.Root,
		Algorithm:  c.hasher.Algorithm(),
		OnlyA:      []models.FileEntry{},
		OnlyB:      []models.FileEntry{},
		Mismatches: []models.MismatchPair{},
		StartTime:  time.Now(),
	}
	result.CollisionsA = a.Collisions
	result.CollisionsB = b.Collisions

	logger := c.logger.WithFields(logging.Fields{"run_id": result.ID})
	logger.Info(ctx, "comparison started", logging.Fields{
		"root_a":    a.Root,
		"root_b":    b.Root,
		"algorithm": string(result.Algorithm),
	})

	var common []string
	for _, key := range a.Keys() {
		if b.Has(key) {
			common = append(common, key)
		} else {
			entry, _ := a.Get(key)
			result.OnlyA = append(result.OnlyA, entry)
		}
	}
	for _, key := range b.Keys() {
		if !a.Has(key) {
			entry, _ := b.Get(key)
			result.OnlyB = append(result.OnlyB, entry)
		}
	}

	for i, key := range common {
		entryA, _ := a.Get(key)
		entryB, _ := b.Get(key)

		hashA, err := c.hasher.ContentHash(ctx, c.backendA, entryA.RelativePath)
		if err != nil {
			logger.Error(ctx, "hashing failed", err, logging.Fields{"path": entryA.AbsolutePath})
			return nil, fmt.Errorf("comparison aborted: %w", err)
		}
		hashB, err := c.hasher.ContentHash(ctx, c.backendB, entryB.RelativePath)
		if err != nil {
			logger.Error(ctx, "hashing failed", err, logging.Fields{"path": entryB.AbsolutePath})
			return nil, fmt.Errorf("comparison aborted: %w", err)
		}

		mismatch := hashA != hashB
		if mismatch {
			result.Mismatches = append(result.Mismatches, models.MismatchPair{
				BaseName: key,
				A:        entryA,
				B:        entryB,
				HashA:    hashA,
				HashB:    hashB,
			})
		}
		logger.Debug(ctx, "pair hashed", logging.Fields{
			"base_name": key,
			"hash_a":    hashA,
			"hash_b":    hashB,
			"mismatch":  mismatch,
		})

		if c.onPair != nil {
			c.onPair(PairEvent{BaseName: key, Current: i + 1, Total: len(common), Mismatch: mismatch})
		}
	}

	result.Stats = models.Stats{
		SameNameCount: len(common),
		DiffNameCount: len(result.OnlyA) + len(result.OnlyB),
		FilesA:        a.Len(),
		FilesB:        b.Len(),
		Mismatched:    len(result.Mismatches),
	}
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	logger.Info(ctx, "comparison finished", logging.Fields{
		"same_name":  result.Stats.SameNameCount,
		"diff_name":  result.Stats.DiffNameCount,
		"mismatched": result.Stats.Mismatched,
		"duration":   result.Duration.String(),
	})
	return result, nil
}

// CommonCount returns how many base names a and b share
func CommonCount(a, b *models.DirectoryIndex) int {
	n := 0
	for key := range a.Entries {
		if b.Has(key) {
			n++
		}
	}
	return n
}

// Compare compares two indexes of local directories using hasher
func Compare(ctx context.Context, a, b *models.DirectoryIndex, hasher *hash.Hasher) (*models.ComparisonResult, error) {
	backendA, err := storage.NewLocal(a.Root)
	if err != nil {
		return nil, err
	}
	defer backendA.Close()

	backendB, err := storage.NewLocal(b.Root)
	if err != nil {
		return nil, err
	}
	defer backendB.Close()

	return NewComparator(backendA, backendB, hasher, nil).Compare(ctx, a, b)
}
