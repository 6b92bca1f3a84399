package score

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"
)

// Write serializes the score as pretty-printed JSON, the snapshot form
// handed to rendering, layout, and export layers.
func Write(w io.Writer, s *Score) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fault.Wrap(err, fmsg.With("could not marshal score"))
	}
	if _, err := w.Write(pretty.Pretty(raw)); err != nil {
		return fault.Wrap(err, fmsg.With("could not write score"))
	}
	return nil
}

// WriteYAML serializes the score as YAML.
func WriteYAML(w io.Writer, s *Score) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(s); err != nil {
		return fault.Wrap(err, fmsg.With("could not marshal score"))
	}
	return nil
}

// Read deserializes a score snapshot, sniffing JSON versus YAML from the
// first non-space byte. The result is normalized: ids filled in, time
// signature validated, at least one staff with one measure.
func Read(r io.Reader) (*Score, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("could not read score"))
	}
	var s Score
	if looksLikeJSON(data) {
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fault.Wrap(err, fmsg.With("could not parse score JSON"))
		}
	} else {
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fault.Wrap(err, fmsg.With("could not parse score YAML"))
		}
	}
	Normalize(&s)
	return &s, nil
}

// ReadFile loads a score snapshot from disk.
func ReadFile(path string) (*Score, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("could not open score file"))
	}
	defer f.Close()
	return Read(f)
}

// WriteFile saves a score snapshot, choosing the format from the file
// extension: .yml/.yaml for YAML, .json for JSON.
func WriteFile(path string, s *Score) error {
	f, err := os.Create(path)
	if err != nil {
		return fault.Wrap(err, fmsg.With("could not create score file"))
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return WriteYAML(f, s)
	case ".json":
		return Write(f, s)
	default:
		return fault.Wrap(ErrUnknownFormat, fmsg.With(path))
	}
}

func looksLikeJSON(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}
