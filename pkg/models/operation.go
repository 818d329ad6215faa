package models

import (
	"fmt"
	"strings"
)

// HashAlgorithm selects the digest used to compare file contents
type HashAlgorithm string

const (
	// HashMD5 is the default digest
	HashMD5 HashAlgorithm = "md5"
	// HashSHA256 is slower but collision resistant
	HashSHA256 HashAlgorithm = "sha256"
	// HashXXHash is a fast 64-bit non-cryptographic digest
	HashXXHash HashAlgorithm = "xxhash"
)

// ParseHashAlgorithm validates an algorithm name
func ParseHashAlgorithm(s string) (HashAlgorithm, error) {
	switch HashAlgorithm(strings.ToLower(strings.TrimSpace(s))) {
	case HashMD5:
		return HashMD5, nil
	case HashSHA256:
		return HashSHA256, nil
	case HashXXHash:
		return HashXXHash, nil
	}
	return "", &ValidationError{Field: "hash", Message: fmt.Sprintf("unsupported algorithm %q (valid: md5, sha256, xxhash)", s)}
}

// Side identifies one of the two compared trees
type Side string

const (
	SideA Side = "a"
	SideB Side = "b"
)

// DeleteChoice is what to do with the files unique to one side
type DeleteChoice string

const (
	// DeleteAsk prompts the user
	DeleteAsk DeleteChoice = "ask"
	// DeleteOnlyA removes files found only in the first tree
	DeleteOnlyA DeleteChoice = "a"
	// DeleteOnlyB removes files found only in the second tree
	DeleteOnlyB DeleteChoice = "b"
	// DeleteNone leaves both trees untouched
	DeleteNone DeleteChoice = "none"
)

// ParseDeleteChoice validates a deletion choice name
func ParseDeleteChoice(s string) (DeleteChoice, error) {
	switch DeleteChoice(strings.ToLower(strings.TrimSpace(s))) {
	case DeleteAsk:
		return DeleteAsk, nil
	case DeleteOnlyA:
		return DeleteOnlyA, nil
	case DeleteOnlyB:
		return DeleteOnlyB, nil
	case DeleteNone:
		return DeleteNone, nil
	}
	return "", &ValidationError{Field: "delete", Message: fmt.Sprintf("unsupported choice %q (valid: ask, a, b, none)", s)}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
