// Package slug derives URL-safe identifiers from display names.
package slug

import "github.com/gosimple/slug"

// Make transforms a display name into a URL-safe slug: lower-cased,
// non-alphanumeric runs collapsed to a single hyphen, hyphens trimmed
// from both ends. The transform is deterministic and locale-independent,
// so equivalent inputs always produce the same slug.
//
// Uniqueness against already-persisted slugs is not this package's
// concern; the user store resolves collisions by probing numeric
// suffixes, since that requires storage access.
func Make(name string) string {
	return slug.Make(name)
}
