package content

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListBuiltIns(t *testing.T) {
	lib := NewLibrary("")

	infos, err := lib.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) < 3 {
		t.Fatalf("got %d built-in exercises, want at least 3", len(infos))
	}

	byID := make(map[string]Info, len(infos))
	for _, info := range infos {
		if !info.BuiltIn {
			t.Errorf("%s should be marked built-in", info.ID)
		}
		if info.Blocks < 1 || info.Questions < 1 {
			t.Errorf("%s has %d blocks / %d questions", info.ID, info.Blocks, info.Questions)
		}
		byID[info.ID] = info
	}
	for _, id := range []string{"grammar-foundations", "verb-tenses", "diagnostic-screener"} {
		if _, ok := byID[id]; !ok {
			t.Errorf("built-in %s missing from listing", id)
		}
	}

	for i := 1; i < len(infos); i++ {
		if infos[i-1].Title > infos[i].Title {
			t.Fatalf("listing not sorted by title: %q before %q", infos[i-1].Title, infos[i].Title)
		}
	}
}

func TestLoadBuiltIn(t *testing.T) {
	lib := NewLibrary("")

	doc, bank, err := lib.Load("grammar-foundations")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Kind != "grammar" {
		t.Errorf("kind = %q, want grammar", doc.Kind)
	}
	if bank.BlockCount() < 1 {
		t.Error("bank has no blocks")
	}

	if _, _, err := lib.Load("no-such-exercise"); err == nil {
		t.Error("unknown ID should fail to load")
	}
}

func TestDirectoryShadowsBuiltIn(t *testing.T) {
	dir := t.TempDir()
	custom := `{
		"id": "grammar-foundations",
		"title": "My Override",
		"kind": "grammar",
		"questions": [
			{"displayId": "1", "block": 1, "type": "multiple-choice", "prompt": "p", "answerKey": "A"}
		]
	}`
	if err := os.WriteFile(filepath.Join(dir, "override.json"), []byte(custom), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	lib := NewLibrary(dir)

	doc, bank, err := lib.Load("grammar-foundations")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Title != "My Override" || bank.Len() != 1 {
		t.Errorf("directory exercise should shadow the built-in, got %q with %d questions", doc.Title, bank.Len())
	}

	infos, err := lib.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, info := range infos {
		if info.ID == "grammar-foundations" && info.BuiltIn {
			t.Error("shadowed exercise should list as non-built-in")
		}
	}
}

func TestListSkipsUnparseableFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write broken file: %v", err)
	}

	lib := NewLibrary(dir)

	infos, err := lib.List()
	if err == nil {
		t.Error("unparseable file should surface a warning error")
	}
	if len(infos) < 3 {
		t.Errorf("built-ins should survive a broken directory file, got %d", len(infos))
	}
}
