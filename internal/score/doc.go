// Package score defines the document model for the editing core.
//
// A Score is a tree: Score → Staff → Measure → Event → Note. The tree is
// never mutated in place by callers; the command engine produces a brand
// new root for every change, cloning only the staff/measure/event path it
// touches and sharing every untouched subtree by pointer. Readers
// therefore always observe a fully committed snapshot, and a UI layer can
// diff two snapshots by pointer comparison.
//
// The package also owns the pitch tables (per-clef chromatic ladders used
// for transposition and vertical ordering), the JSON/YAML snapshot
// serialization, and the tolerant migration of externally supplied
// documents into the model.
package score
