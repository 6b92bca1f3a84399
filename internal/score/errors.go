package score

import "errors"

// Errors returned by the serialization and migration boundary. The
// editing core itself never returns errors; invalid edits are soft
// no-ops handled by the command engine.
var (
	// ErrInvalidDocument means the supplied bytes are not a document the
	// migrator can understand.
	ErrInvalidDocument = errors.New("invalid score document")

	// ErrUnknownFormat means a file extension is neither JSON nor YAML.
	ErrUnknownFormat = errors.New("unknown score file format")
)
