package progress

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glossa-app/glossa/internal/exercise"
	"github.com/glossa-app/glossa/internal/grading"
	"github.com/glossa-app/glossa/internal/questionbank"
)

func gatewayBank(t *testing.T) *questionbank.Bank {
	t.Helper()
	bank, err := questionbank.NewBank([]questionbank.Question{
		{
			DisplayID: "1", Block: 1, Category: "verb-tense",
			Type:      questionbank.TypeMultipleChoice,
			AnswerKey: questionbank.AnswerKey{Text: "A"},
		},
		{
			DisplayID: "2", Block: 1, Category: "articles",
			Type:      questionbank.TypeBlankParagraph,
			AnswerKey: questionbank.AnswerKey{Blanks: map[string]string{"a": "the"}},
		},
	})
	if err != nil {
		t.Fatalf("build bank: %v", err)
	}
	return bank
}

func TestSaveLoadRoundTrip(t *testing.T) {
	gw, err := NewGateway(t.TempDir())
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}
	bank := gatewayBank(t)

	state := exercise.New(bank)
	exercise.RecordAnswer(state, 1, "1", &grading.Response{Text: "A"})
	exercise.RecordAnswer(state, 1, "2", &grading.Response{Blanks: map[string]string{"a": "the"}})
	exercise.SubmitBlock(state, bank, 1)

	if err := gw.Save("present-simple", state); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !gw.Exists("present-simple") {
		t.Error("Exists should report the save")
	}

	loaded, err := gw.Load("present-simple")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil {
		t.Fatal("Load returned nil for an existing save")
	}
	if err := exercise.Validate(loaded, bank); err != nil {
		t.Fatalf("loaded state fails validation: %v", err)
	}
	if !loaded.IsComplete {
		t.Error("completion flag lost in round trip")
	}
	rec := loaded.Record(1, "2")
	if rec.Verdict == nil || !rec.Verdict.Blanks["a"] {
		t.Errorf("blank verdict lost in round trip: %+v", rec.Verdict)
	}
}

func TestLoadMissing(t *testing.T) {
	gw, err := NewGateway(t.TempDir())
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}

	state, err := gw.Load("never-saved")
	if err != nil {
		t.Errorf("missing save should not be an error, got %v", err)
	}
	if state != nil {
		t.Error("missing save should load as nil state")
	}
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	gw, err := NewGateway(dir)
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}

	if err := os.WriteFile(gw.Path("broken"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	state, err := gw.Load("broken")
	if state != nil {
		t.Error("corrupt save should not produce a state")
	}
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("error %v should wrap ErrCorrupt", err)
	}
}

func TestDelete(t *testing.T) {
	gw, err := NewGateway(t.TempDir())
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}
	bank := gatewayBank(t)

	if err := gw.Delete("nothing-there"); err != nil {
		t.Errorf("deleting a missing save should be a no-op, got %v", err)
	}

	if err := gw.Save("x", exercise.New(bank)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := gw.Delete("x"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gw.Exists("x") {
		t.Error("save should be gone after Delete")
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	gw, err := NewGateway(dir)
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}

	if err := gw.Save("x", exercise.New(gatewayBank(t))); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".save-") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}

func TestPathSanitizesID(t *testing.T) {
	gw, err := NewGateway(t.TempDir())
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}

	if base := filepath.Base(gw.Path("weird id/../x")); base != "weird_id_.._x.json" {
		t.Errorf("Path base = %q, slashes and spaces should map to underscore", base)
	}
	if base := filepath.Base(gw.Path("a b")); base != "a_b.json" {
		t.Errorf("Path(\"a b\") base = %q, want a_b.json", base)
	}
}

func TestExportImport(t *testing.T) {
	bank := gatewayBank(t)
	state := exercise.New(bank)
	exercise.RecordAnswer(state, 1, "1", &grading.Response{Text: "C"})
	exercise.SubmitBlock(state, bank, 1)

	var buf bytes.Buffer
	if err := Export(&buf, state); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("export should end with a newline")
	}

	back, err := Import(&buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if err := exercise.Validate(back, bank); err != nil {
		t.Fatalf("imported state fails validation: %v", err)
	}
	if rec := back.Record(1, "1"); rec.UserAnswer == nil || rec.UserAnswer.Text != "C" {
		t.Error("answer lost across export/import")
	}

	if _, err := Import(strings.NewReader("not json")); err == nil {
		t.Error("importing garbage should fail")
	}
}
