// ABOUTME: Store-owned ID allocation and ID-prefix resolution.
// ABOUTME: IDs never derive from collection length, so deletes cannot cause reuse.
package tracker

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no record matches an ID or prefix.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is returned when a prefix matches more than one record.
	ErrAmbiguous = errors.New("ambiguous prefix")
)

// IDFunc allocates a new unique identifier.
type IDFunc func() string

// UUIDs allocates random UUIDv4 strings.
func UUIDs() IDFunc {
	return uuid.NewString
}

// SequentialIDs allocates "1", "2", ... starting after start.
// The counter only moves forward.
func SequentialIDs(start int64) IDFunc {
	var n atomic.Int64
	n.Store(start)
	return func() string {
		return strconv.FormatInt(n.Add(1), 10)
	}
}

// resolvePrefix finds the single id equal to, or prefixed by, idOrPrefix.
func resolvePrefix(ids []string, idOrPrefix string) (string, error) {
	if idOrPrefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}

	var matches []string
	for _, id := range ids {
		if id == idOrPrefix {
			return id, nil
		}
		if strings.HasPrefix(id, idOrPrefix) {
			matches = append(matches, id)
		}
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("%w %s: matches multiple records", ErrAmbiguous, idOrPrefix)
	}
	return matches[0], nil
}
