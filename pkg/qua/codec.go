package qua

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Decode parses a .qua document from r. Unknown keys are ignored so maps
// written by newer editor versions still load.
func Decode(r io.Reader) (*Qua, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read map: %w", err)
	}

	var q Qua
	if err := yaml.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("failed to parse map: %w", err)
	}

	return &q, nil
}

// DecodeFile parses the .qua file at path.
func DecodeFile(path string) (*Qua, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open map: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Encode writes q to w as a YAML document in the editor's key order.
func (q *Qua) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(q); err != nil {
		return fmt.Errorf("failed to encode map: %w", err)
	}
	return enc.Close()
}

// EncodeFile writes q to a .qua file at path, replacing any existing file.
func (q *Qua) EncodeFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create map file: %w", err)
	}

	if err := q.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Validate reports the first structural problem that prevents the map from
// being playable. It checks identity metadata and the presence of a known
// mode; charts that merely play badly are the linter's concern, not this
// one's.
func (q *Qua) Validate() error {
	if q.Mode.KeyCount() == 0 {
		return fmt.Errorf("unknown mode %q", string(q.Mode))
	}
	if q.AudioFile == "" {
		return fmt.Errorf("missing audio file")
	}
	if q.Title == "" {
		return fmt.Errorf("missing title")
	}
	if q.Artist == "" {
		return fmt.Errorf("missing artist")
	}
	if q.Creator == "" {
		return fmt.Errorf("missing creator")
	}
	if q.DifficultyName == "" {
		return fmt.Errorf("missing difficulty name")
	}
	if len(q.TimingPoints) == 0 {
		return fmt.Errorf("no timing points")
	}
	return nil
}
