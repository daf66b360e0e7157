// Package handle defines the stable integer reference type shared by the
// feature graph and the constraint AST, kept in its own leaf package so
// internal/constraint can name a feature without importing
// internal/feature (internal/constraint.Primary holds a bound handle to the
// feature it names, while internal/feature imports internal/constraint for
// the constraint expressions each Node back-references).
//
// Parent/child/constraint-owner links are all handles into an arena, never
// raw pointers: an arena can be cloned wholesale (for copy-mode
// transactions) or walked without fear of dangling references.
package handle

// Handle is a stable, arena-relative reference. Handles are never reused
// for the lifetime of an Arena and never alias a pointer.
type Handle int64

// Invalid is the zero value; it never identifies a real node or constraint.
const Invalid Handle = 0
