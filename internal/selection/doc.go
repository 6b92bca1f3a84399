// Package selection tracks the editing cursor: the focused note, the
// explicit multi-select set, the anchor of a range selection, and the
// ghost cursor previewing a not-yet-committed note at the edge of
// content.
//
// Selection state follows the same dispatch pattern as the score's
// command engine, with one stricter contract: an operation that
// produces no observable change must return the identical *Selection
// pointer, never a structurally equal copy. Consumers diff selection
// roots by identity to skip redundant re-renders.
package selection
