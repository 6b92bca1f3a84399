package command

import (
	"sync"
	"time"

	"github.com/etudehq/etude/internal/score"
)

const defaultMaxEntries = 1000

// entry wraps a recorded command with metadata.
type entry struct {
	cmd Command
	at  time.Time
}

type subscriber struct {
	fn func(*score.Score)
}

// Engine holds the current score root and its undo/redo history.
type Engine struct {
	mu sync.Mutex

	score *score.Score

	undoStack []*entry
	redoStack []*entry

	// Transaction state
	inTx     bool
	txName   string
	txBefore *score.Score
	txCmds   []Command

	maxEntries int
	subs       []*subscriber
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxHistory caps the undo stack depth. Values below 1 keep the
// default.
func WithMaxHistory(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxEntries = n
		}
	}
}

// NewEngine creates an engine owning the given score.
func NewEngine(s *score.Score, opts ...Option) *Engine {
	e := &Engine{
		score:      s,
		maxEntries: defaultMaxEntries,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score returns the current root.
func (e *Engine) Score() *score.Score {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.score
}

// SetScore replaces the document, clearing all history. Meant for
// loading a score, not for edits.
func (e *Engine) SetScore(s *score.Score) {
	e.mu.Lock()
	e.score = s
	e.undoStack = nil
	e.redoStack = nil
	e.inTx = false
	e.txCmds = nil
	e.txBefore = nil
	subs := e.snapshotSubs()
	e.mu.Unlock()

	notify(subs, s)
}

// Dispatch executes cmd against the current root. Returns false when
// the command did not apply; nothing is recorded and nobody is
// notified for a no-op.
func (e *Engine) Dispatch(cmd Command) bool {
	e.mu.Lock()
	cur := e.score
	next := cmd.Execute(cur)
	if next == cur {
		e.mu.Unlock()
		return false
	}
	e.score = next
	if e.inTx {
		e.txCmds = append(e.txCmds, cmd)
	} else {
		e.pushLocked(cmd)
	}
	subs := e.snapshotSubs()
	e.mu.Unlock()

	notify(subs, next)
	return true
}

// Undo reverses the most recent command. Returns false when there is
// nothing to undo or a transaction is open.
func (e *Engine) Undo() bool {
	e.mu.Lock()
	if e.inTx || len(e.undoStack) == 0 {
		e.mu.Unlock()
		return false
	}
	ent := e.undoStack[len(e.undoStack)-1]
	e.undoStack = e.undoStack[:len(e.undoStack)-1]
	e.score = ent.cmd.Undo(e.score)
	e.redoStack = append(e.redoStack, ent)
	next := e.score
	subs := e.snapshotSubs()
	e.mu.Unlock()

	notify(subs, next)
	return true
}

// Redo re-applies the most recently undone command. Returns false when
// there is nothing to redo or a transaction is open.
func (e *Engine) Redo() bool {
	e.mu.Lock()
	if e.inTx || len(e.redoStack) == 0 {
		e.mu.Unlock()
		return false
	}
	ent := e.redoStack[len(e.redoStack)-1]
	e.redoStack = e.redoStack[:len(e.redoStack)-1]
	e.score = ent.cmd.Execute(e.score)
	e.undoStack = append(e.undoStack, ent)
	next := e.score
	subs := e.snapshotSubs()
	e.mu.Unlock()

	notify(subs, next)
	return true
}

// CanUndo reports whether undo is available.
func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.inTx && len(e.undoStack) > 0
}

// CanRedo reports whether redo is available.
func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.inTx && len(e.redoStack) > 0
}

// UndoCount returns the number of undo entries.
func (e *Engine) UndoCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.undoStack)
}

// RedoCount returns the number of redo entries.
func (e *Engine) RedoCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.redoStack)
}

// BeginTransaction opens a transaction. Commands dispatched until
// Commit are applied and notified immediately but enter history as one
// unit. Nested calls while a transaction is open are ignored.
func (e *Engine) BeginTransaction(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inTx {
		return
	}
	e.inTx = true
	e.txName = name
	e.txBefore = e.score
	e.txCmds = nil
}

// Commit closes the transaction, recording its commands as a single
// composite whose undo restores the pre-transaction root. An empty
// transaction records nothing.
func (e *Engine) Commit() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.inTx {
		return
	}
	e.inTx = false
	if len(e.txCmds) == 0 || e.score == e.txBefore {
		e.txCmds = nil
		e.txBefore = nil
		return
	}
	e.pushLocked(&Composite{
		Name:     e.txName,
		Commands: e.txCmds,
		before:   e.txBefore,
	})
	e.txCmds = nil
	e.txBefore = nil
}

// Rollback closes the transaction and restores the pre-transaction
// root. Nothing enters history.
func (e *Engine) Rollback() {
	e.mu.Lock()
	if !e.inTx {
		e.mu.Unlock()
		return
	}
	e.inTx = false
	changed := e.score != e.txBefore
	e.score = e.txBefore
	next := e.score
	e.txCmds = nil
	e.txBefore = nil
	subs := e.snapshotSubs()
	e.mu.Unlock()

	if changed {
		notify(subs, next)
	}
}

// InTransaction reports whether a transaction is open.
func (e *Engine) InTransaction() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inTx
}

// Subscribe registers a listener called synchronously, in subscription
// order, with the new root after every applied command. The returned
// function removes the listener.
func (e *Engine) Subscribe(fn func(*score.Score)) func() {
	sub := &subscriber{fn: fn}

	e.mu.Lock()
	e.subs = append(e.subs, sub)
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, s := range e.subs {
			if s == sub {
				e.subs = append(e.subs[:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// pushLocked records a command, clearing the redo stack and enforcing
// the history cap.
func (e *Engine) pushLocked(cmd Command) {
	e.undoStack = append(e.undoStack, &entry{cmd: cmd, at: time.Now()})
	e.redoStack = nil

	if len(e.undoStack) > e.maxEntries {
		excess := len(e.undoStack) - e.maxEntries
		e.undoStack = e.undoStack[excess:]
	}
}

func (e *Engine) snapshotSubs() []*subscriber {
	subs := make([]*subscriber, len(e.subs))
	copy(subs, e.subs)
	return subs
}

func notify(subs []*subscriber, s *score.Score) {
	for _, sub := range subs {
		sub.fn(s)
	}
}
