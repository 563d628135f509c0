// Package slug derives URL-safe unique identifiers from display names.
//
// Allocation is a pre-check, not a guarantee: the existence probe and the
// final insert are not transactional, so under concurrent creation two
// requests can both pass the probe with the same candidate. The unique index
// on the slug column is the arbiter; callers must treat a duplicate-key
// insert as retryable (see IsDuplicate) rather than fatal.
package slug

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// stripMarks decomposes to NFD, drops combining marks and recomposes,
// turning "società" into "societa".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make normalizes a display name into slug form: lower-case, diacritics
// stripped, every run of characters outside [a-z0-9] collapsed to a single
// hyphen, edge hyphens trimmed. The result can be empty for names with no
// usable characters; Allocator falls back to a timestamp token in that case.
func Make(name string) string {
	s := strings.ToLower(name)
	if stripped, _, err := transform.String(stripMarks, s); err == nil {
		s = stripped
	}
	var b strings.Builder
	b.Grow(len(s))
	hyphen := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			b.WriteRune(r)
			continue
		}
		hyphen = true
	}
	return b.String()
}

// ExistsFunc probes the store for a slug already in use by the entity type
// the allocator serves. It must consider soft-deleted rows too, since the
// unique index does.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Allocator produces store-unique slugs via a bounded collision-retry loop.
type Allocator struct {
	Exists ExistsFunc
	// MaxAttempts caps the suffix search (base, base-1, ... base-N-1).
	MaxAttempts int
	// Now is overridable for tests of the timestamp fallback.
	Now func() time.Time
}

// NewAllocator returns an Allocator with the standard 50-attempt cap.
func NewAllocator(exists ExistsFunc) *Allocator {
	return &Allocator{Exists: exists, MaxAttempts: 50, Now: time.Now}
}

// Allocate returns a slug for name that is unique at check time. The base
// candidate is tried first, then numbered suffixes; when every candidate up
// to the cap is taken the allocator appends the current epoch millis to
// guarantee termination.
func (a *Allocator) Allocate(ctx context.Context, name string) (string, error) {
	base := Make(name)
	if base == "" {
		base = strconv.FormatInt(a.Now().UnixMilli(), 10)
	}
	for attempt := 0; attempt < a.MaxAttempts; attempt++ {
		candidate := base
		if attempt > 0 {
			candidate = fmt.Sprintf("%s-%d", base, attempt)
		}
		taken, err := a.Exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("slug existence check: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return fmt.Sprintf("%s-%d", base, a.Now().UnixMilli()), nil
}

// IsDuplicate reports whether err is a unique-constraint violation from the
// store. Covers gorm's translated error plus the raw postgres and sqlite
// message shapes.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
