// Package content locates exercise definitions: a set of built-in exercises
// embedded in the binary, optionally extended by a content directory of
// hand-authored JSON files.
package content

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/glossa-app/glossa/internal/questionbank"
)

//go:embed assets/*.json
var embedded embed.FS

// Info is the listing metadata for one exercise.
type Info struct {
	ID        string
	Title     string
	Kind      string
	Blocks    int
	Questions int
	BuiltIn   bool
}

// Library lists and loads exercises from the embedded assets and an
// optional on-disk directory. Directory exercises shadow built-in ones with
// the same ID.
type Library struct {
	dir string
}

// NewLibrary creates a Library. dir may be empty for built-ins only.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// DefaultDir returns the content directory from GLOSSA_CONTENT_DIR, or ""
// when unset.
func DefaultDir() string {
	return os.Getenv("GLOSSA_CONTENT_DIR")
}

// List returns metadata for every available exercise, sorted by title.
// Files that fail to parse are skipped with an error entry collected into
// the returned error (the rest of the library stays usable).
func (l *Library) List() ([]Info, error) {
	byID := make(map[string]Info)
	var bad []string

	collect := func(raw string, builtIn bool, name string) {
		doc, bank, err := questionbank.Load(raw)
		if err != nil {
			bad = append(bad, name)
			return
		}
		byID[doc.ID] = Info{
			ID:        doc.ID,
			Title:     doc.Title,
			Kind:      doc.Kind,
			Blocks:    bank.BlockCount(),
			Questions: bank.Len(),
			BuiltIn:   builtIn,
		}
	}

	entries, err := fs.ReadDir(embedded, "assets")
	if err != nil {
		return nil, fmt.Errorf("read embedded assets: %w", err)
	}
	for _, e := range entries {
		raw, err := fs.ReadFile(embedded, "assets/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("read embedded %s: %w", e.Name(), err)
		}
		collect(string(raw), true, e.Name())
	}

	if l.dir != "" {
		matches, err := filepath.Glob(filepath.Join(l.dir, "*.json"))
		if err == nil {
			for _, path := range matches {
				raw, err := os.ReadFile(path)
				if err != nil {
					bad = append(bad, filepath.Base(path))
					continue
				}
				collect(string(raw), false, filepath.Base(path))
			}
		}
	}

	infos := make([]Info, 0, len(byID))
	for _, info := range byID {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Title < infos[j].Title })

	if len(bad) > 0 {
		return infos, fmt.Errorf("unparseable content skipped: %s", strings.Join(bad, ", "))
	}
	return infos, nil
}

// Load parses the exercise with the given ID, preferring the content
// directory over built-ins.
func (l *Library) Load(id string) (*questionbank.Document, *questionbank.Bank, error) {
	if l.dir != "" {
		if doc, bank, err := l.loadFromDir(id); err == nil {
			return doc, bank, nil
		}
	}

	entries, err := fs.ReadDir(embedded, "assets")
	if err != nil {
		return nil, nil, fmt.Errorf("read embedded assets: %w", err)
	}
	for _, e := range entries {
		raw, err := fs.ReadFile(embedded, "assets/"+e.Name())
		if err != nil {
			continue
		}
		doc, bank, err := questionbank.Load(string(raw))
		if err != nil {
			continue
		}
		if doc.ID == id {
			return doc, bank, nil
		}
	}
	return nil, nil, fmt.Errorf("exercise %q not found", id)
}

func (l *Library) loadFromDir(id string) (*questionbank.Document, *questionbank.Bank, error) {
	matches, err := filepath.Glob(filepath.Join(l.dir, "*.json"))
	if err != nil {
		return nil, nil, err
	}
	for _, path := range matches {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		doc, bank, err := questionbank.Load(string(raw))
		if err != nil {
			continue
		}
		if doc.ID == id {
			return doc, bank, nil
		}
	}
	return nil, nil, fmt.Errorf("exercise %q not found in %s", id, l.dir)
}
