// Package hash computes content digests used to decide whether two files
// with the same base name differ.
package hash

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	gohash "hash"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/sdejongh/stemdiff/pkg/models"
	"github.com/sdejongh/stemdiff/pkg/ratelimit"
	"github.com/sdejongh/stemdiff/pkg/storage"
)

// DefaultBufferSize is the chunk size used to feed the digest
const DefaultBufferSize = 4096

// ProgressFunc receives the number of bytes hashed so far for a file
type ProgressFunc func(path string, current, total int64)

// Hasher computes content digests of files read through a storage backend.
// Identical byte content always yields the identical hex digest.
type Hasher struct {
	algorithm      models.HashAlgorithm
	bufferSize     int
	bufferPool     *sync.Pool
	limiter        *ratelimit.Limiter
	progressReport ProgressFunc
}

// New creates a hasher for the given algorithm.
// Buffer sizes below DefaultBufferSize are raised to it.
func New(algorithm models.HashAlgorithm, bufferSize int) (*Hasher, error) {
	if _, err := newDigest(algorithm); err != nil {
		return nil, err
	}
	if bufferSize < DefaultBufferSize {
		bufferSize = DefaultBufferSize
	}
	return &Hasher{
		algorithm:  algorithm,
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}, nil
}

// Algorithm returns the digest algorithm in use
func (h *Hasher) Algorithm() models.HashAlgorithm {
	return h.algorithm
}

// SetLimiter throttles reads; nil disables throttling
func (h *Hasher) SetLimiter(limiter *ratelimit.Limiter) {
	h.limiter = limiter
}

// SetProgressCallback sets the per-file byte progress callback; nil disables it
func (h *Hasher) SetProgressCallback(callback ProgressFunc) {
	h.progressReport = callback
}

// ContentHash returns the hex digest of the file at path within backend.
// Open and read failures are returned, never mapped to a digest.
func (h *Hasher) ContentHash(ctx context.Context, backend storage.Backend, path string) (string, error) {
	var total int64
	if h.progressReport != nil {
		info, err := backend.Stat(ctx, path)
		if err != nil {
			return "", fmt.Errorf("failed to hash %s: %w", path, err)
		}
		total = info.Size
	}

	reader, err := backend.Read(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	defer reader.Close()

	sum, err := h.digest(ctx, ratelimit.NewReadCloser(ctx, reader, h.limiter), path, total)
	if err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return sum, nil
}

// digest streams r through the configured algorithm in bufferSize chunks
func (h *Hasher) digest(ctx context.Context, r io.Reader, path string, total int64) (string, error) {
	d, err := newDigest(h.algorithm)
	if err != nil {
		return "", err
	}

	bufPtr := h.bufferPool.Get().(*[]byte)
	defer h.bufferPool.Put(bufPtr)
	buf := *bufPtr

	// Progress reporting with throttling
	const (
		progressReportInterval = 50 * time.Millisecond
		progressReportBytes    = 64 * 1024
	)

	var bytesRead int64
	var lastReported int64
	var lastReportTime time.Time

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := r.Read(buf)
		if n > 0 {
			d.Write(buf[:n])
			bytesRead += int64(n)

			if h.progressReport != nil &&
				(bytesRead-lastReported >= progressReportBytes || time.Since(lastReportTime) >= progressReportInterval) {
				h.progressReport(path, bytesRead, total)
				lastReported = bytesRead
				lastReportTime = time.Now()
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	if h.progressReport != nil && bytesRead > lastReported {
		h.progressReport(path, bytesRead, total)
	}

	return hex.EncodeToString(d.Sum(nil)), nil
}

// ContentHashFile hashes a file by its filesystem path
func ContentHashFile(ctx context.Context, path string, algorithm models.HashAlgorithm) (string, error) {
	h, err := New(algorithm, DefaultBufferSize)
	if err != nil {
		return "", err
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	defer file.Close()

	sum, err := h.digest(ctx, file, path, 0)
	if err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return sum, nil
}

func newDigest(algorithm models.HashAlgorithm) (gohash.Hash, error) {
	switch algorithm {
	case models.HashMD5:
		return md5.New(), nil
	case models.HashSHA256:
		return sha256.New(), nil
	case models.HashXXHash:
		return xxhash.New(), nil
	default:
		return nil, &models.ValidationError{Field: "hash", Message: fmt.Sprintf("unsupported algorithm %q", algorithm)}
	}
}
