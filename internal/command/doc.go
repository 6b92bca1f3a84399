// Package command owns the score document and its undo/redo history.
//
// Every edit is a Command: a value executed against the current score
// root that returns the next root, capturing during Execute whatever it
// needs to undo itself. Commands never fail loudly. An unresolved
// target or a failed precondition returns the same root pointer, and
// the engine records nothing for it.
//
// The engine is the score's only writer. Listeners subscribe for the
// new root after every applied command, undo, and redo.
package command
