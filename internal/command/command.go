package command

import (
	"github.com/etudehq/etude/internal/score"
)

// Command is a composable edit that can be executed and undone. Execute
// returns the next score root, or the same pointer when the command
// does not apply. Undo reverses an executed command using state the
// command captured during Execute.
type Command interface {
	// Type identifies the command kind for dispatch and scripting.
	Type() string

	// Execute applies the command and returns the resulting root.
	Execute(s *score.Score) *score.Score

	// Undo reverses the command and returns the resulting root.
	Undo(s *score.Score) *score.Score
}

// Composite groups multiple commands as one undo unit. Undo restores
// the root snapshot captured when the composite ran, so a redo replays
// every member in order.
type Composite struct {
	Name     string
	Commands []Command

	before *score.Score
}

// Type identifies the command kind.
func (c *Composite) Type() string { return "transaction" }

// Execute runs all member commands in order.
func (c *Composite) Execute(s *score.Score) *score.Score {
	c.before = s
	for _, cmd := range c.Commands {
		s = cmd.Execute(s)
	}
	return s
}

// Undo restores the root from before the composite ran.
func (c *Composite) Undo(s *score.Score) *score.Score {
	if c.before == nil {
		return s
	}
	return c.before
}
