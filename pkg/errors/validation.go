package errors

import (
	"strconv"
	"strings"
	"unicode"
)

// MaxWalks caps the number of pilot or sample walks a caller may request.
// Larger budgets are accepted by the library but rejected at the CLI and
// HTTP boundaries.
const MaxWalks = 10_000_000

// ValidateWalks checks a pilot or sample walk budget.
// The kind is used in the message only, e.g. "pilot" or "sample".
func ValidateWalks(kind string, n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidConfig, "%s walks must be positive, got %d", kind, n)
	}
	if n > MaxWalks {
		return New(ErrCodeInvalidConfig, "%s walks too large (max %d)", kind, MaxWalks)
	}
	return nil
}

// ParseNodeKey parses an integer node key as it appears in edge lists,
// CLI arguments and query parameters.
func ParseNodeKey(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, New(ErrCodeInvalidInput, "node key cannot be empty")
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return 0, New(ErrCodeInvalidInput, "node key contains invalid control characters")
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidInput, err, "node key %q is not an integer", s)
	}
	return v, nil
}

// ValidatePath validates a file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateRedisURL checks that a Redis connection string uses a redis scheme.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "redis URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return New(ErrCodeInvalidConfig, "redis URL must use redis or rediss scheme")
	}
	return nil
}

// ValidateMongoURI checks that a MongoDB connection string uses a mongodb scheme.
func ValidateMongoURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidConfig, "mongodb URI cannot be empty")
	}
	if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		return New(ErrCodeInvalidConfig, "mongodb URI must use mongodb or mongodb+srv scheme")
	}
	return nil
}
