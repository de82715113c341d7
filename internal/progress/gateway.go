// Package progress persists exercise state to disk: one pretty-printed JSON
// file per exercise, keyed by exercise ID. Saves are best-effort (the
// answering flow never blocks on persistence); loads distinguish "no prior
// save" from "save exists but is corrupt".
package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/glossa-app/glossa/internal/exercise"
)

// ErrCorrupt marks a progress file that exists but cannot be decoded. The
// caller should warn (the state is suspect) before falling back to a fresh
// state; a plain missing file returns (nil, nil) instead.
var ErrCorrupt = errors.New("progress file corrupt")

// Gateway reads and writes progress files under a single directory.
type Gateway struct {
	dir string
}

// NewGateway creates a Gateway rooted at dir, creating it if needed.
func NewGateway(dir string) (*Gateway, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create progress dir: %w", err)
	}
	return &Gateway{dir: dir}, nil
}

// DefaultDir resolves the progress directory in priority order:
// 1. GLOSSA_DATA_DIR environment variable
// 2. $XDG_DATA_HOME/glossa/progress
// 3. ~/.local/share/glossa/progress
func DefaultDir() (string, error) {
	if p := os.Getenv("GLOSSA_DATA_DIR"); p != "" {
		return filepath.Join(p, "progress"), nil
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "glossa", "progress"), nil
}

// Load reads the state for an exercise. Returns (nil, nil) when no save
// exists, and an ErrCorrupt-wrapped error when a file exists but does not
// decode.
func (g *Gateway) Load(exerciseID string) (*exercise.State, error) {
	data, err := os.ReadFile(g.Path(exerciseID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read progress: %w", err)
	}
	state, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return state, nil
}

// Save writes the state atomically: temp file in the same directory, then
// rename. Pretty-printed so the file doubles as a manual export.
func (g *Gateway) Save(exerciseID string, state *exercise.State) error {
	data, err := Encode(state)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	return g.SaveEncoded(exerciseID, data)
}

// SaveEncoded writes pre-encoded state bytes with the same atomic
// temp-and-rename dance as Save. Callers on the UI loop encode first and
// hand only the bytes to a background write, so the goroutine never reads
// the live state.
func (g *Gateway) SaveEncoded(exerciseID string, data []byte) error {
	path := g.Path(exerciseID)
	tmp, err := os.CreateTemp(g.dir, ".save-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write progress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename progress: %w", err)
	}
	return nil
}

// Delete removes the backing file. Deleting a nonexistent save is not an
// error; that is what "reset" means on a fresh exercise.
func (g *Gateway) Delete(exerciseID string) error {
	err := os.Remove(g.Path(exerciseID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

// Exists reports whether a save file exists for the exercise.
func (g *Gateway) Exists(exerciseID string) bool {
	_, err := os.Stat(g.Path(exerciseID))
	return err == nil
}

// Path returns the backing file path for an exercise ID.
func (g *Gateway) Path(exerciseID string) string {
	return filepath.Join(g.dir, sanitize(exerciseID)+".json")
}

// Encode renders a state in the on-disk format.
func Encode(state *exercise.State) ([]byte, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Decode parses the on-disk format.
func Decode(data []byte) (*exercise.State, error) {
	var state exercise.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Export writes the state to w in the same schema as the backing files.
func Export(w io.Writer, state *exercise.State) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Import reads a state in the on-disk schema from r.
func Import(r io.Reader) (*exercise.State, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// sanitize maps an exercise ID to a safe file name component.
func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, id)
}
