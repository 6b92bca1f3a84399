package selection

import (
	"sync"

	"github.com/etudehq/etude/internal/score"
)

// Command is a selection mutation. Execute returns the next selection,
// or the identical pointer when nothing observable changes.
type Command interface {
	Execute(sel *Selection, s *score.Score) *Selection
}

// Hooks are the boundary hand-offs for navigation past the outermost
// staves: an external track (chord symbols above, lyrics below) can
// claim the focus. A hook returning true consumes the move.
type Hooks struct {
	UpFromTop      func(quant int) bool
	DownFromBottom func(quant int) bool
}

type subscriber struct {
	fn func(*Selection)
}

// Engine owns the selection state. It reads the current score through
// the provider the app wires in, so dispatched commands always see the
// committed root.
type Engine struct {
	mu sync.Mutex

	state   *Selection
	scoreFn func() *score.Score
	hooks   *Hooks
	subs    []*subscriber
}

// Option configures an Engine.
type Option func(*Engine)

// WithHooks installs the navigation boundary hooks.
func WithHooks(h *Hooks) Option {
	return func(e *Engine) { e.hooks = h }
}

// NewEngine creates an engine reading scores from scoreFn.
func NewEngine(scoreFn func() *score.Score, opts ...Option) *Engine {
	e := &Engine{
		state:   None(),
		scoreFn: scoreFn,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current selection.
func (e *Engine) State() *Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SetState replaces the selection outright and notifies subscribers.
// Setting the identical pointer is a no-op.
func (e *Engine) SetState(sel *Selection) {
	e.mu.Lock()
	if sel == e.state {
		e.mu.Unlock()
		return
	}
	e.state = sel
	subs := e.snapshotSubs()
	e.mu.Unlock()

	for _, sub := range subs {
		sub.fn(sel)
	}
}

// Hooks returns the installed boundary hooks, or nil.
func (e *Engine) Hooks() *Hooks {
	return e.hooks
}

// Dispatch executes cmd against the current selection and score.
// Returns false when the command changed nothing; no-ops are not
// notified.
func (e *Engine) Dispatch(cmd Command) bool {
	e.mu.Lock()
	cur := e.state
	next := cmd.Execute(cur, e.scoreFn())
	if next == cur {
		e.mu.Unlock()
		return false
	}
	e.state = next
	subs := e.snapshotSubs()
	e.mu.Unlock()

	for _, sub := range subs {
		sub.fn(next)
	}
	return true
}

// Subscribe registers a listener called synchronously, in subscription
// order, with the new selection. The returned function removes it.
func (e *Engine) Subscribe(fn func(*Selection)) func() {
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

// Resync drops selection parts that no longer resolve against the
// given score: stale multi-select refs are removed, and a stale focus
// collapses to the append position of its measure (or to no selection
// when the measure is gone too). Returns without notifying when
// everything still resolves.
func (e *Engine) Resync(s *score.Score) {
	e.mu.Lock()
	cur := e.state
	next := resync(cur, s)
	if next == cur {
		e.mu.Unlock()
		return
	}
	e.state = next
	subs := e.snapshotSubs()
	e.mu.Unlock()

	for _, sub := range subs {
		sub.fn(next)
	}
}

func resync(sel *Selection, s *score.Score) *Selection {
	if sel.MeasureIndex < 0 {
		return sel
	}
	m := s.MeasureAt(sel.StaffIndex, sel.MeasureIndex)
	if m == nil {
		return None()
	}

	focusOK := true
	if sel.EventID != "" {
		idx := m.EventIndex(sel.EventID)
		focusOK = idx >= 0 && (sel.NoteID == "" || m.Events[idx].NoteByID(sel.NoteID) >= 0)
	}

	var kept []NoteRef
	dropped := false
	for _, r := range sel.SelectedNotes {
		rm := s.MeasureAt(r.StaffIndex, r.MeasureIndex)
		if rm == nil {
			dropped = true
			continue
		}
		idx := rm.EventIndex(r.EventID)
		if idx < 0 || (r.NoteID != "" && rm.Events[idx].NoteByID(r.NoteID) < 0) {
			dropped = true
			continue
		}
		kept = append(kept, r)
	}

	if focusOK && !dropped {
		return sel
	}

	ns := *sel
	ns.SelectedNotes = kept
	if !focusOK {
		// Collapse to the measure's append position.
		ns.EventID = ""
		ns.NoteID = ""
		ns.Anchor = nil
		ns.Preview = nil
	}
	return &ns
}

func (e *Engine) snapshotSubs() []*subscriber {
	subs := make([]*subscriber, len(e.subs))
	copy(subs, e.subs)
	return subs
}
