package library

import (
	"os"
	"strings"
	"testing"

	"github.com/glossa-app/glossa/internal/content"
	"github.com/glossa-app/glossa/internal/exercise"
	"github.com/glossa-app/glossa/internal/progress"
	"github.com/glossa-app/glossa/internal/tabs"
)

func testGateway(t *testing.T) *progress.Gateway {
	t.Helper()
	gw, err := progress.NewGateway(t.TempDir())
	if err != nil {
		t.Fatalf("gateway: %v", err)
	}
	return gw
}

func openView(t *testing.T, l *LibraryScreen, id string) string {
	t.Helper()
	msg := l.openExercise(id)()
	open, ok := msg.(tabs.OpenTabMsg)
	if !ok {
		t.Fatalf("openExercise = %T, want tabs.OpenTabMsg", msg)
	}
	return open.Screen.View(100, 40)
}

func TestOpenExerciseWarnsOnCorruptSave(t *testing.T) {
	gw := testGateway(t)
	if err := os.WriteFile(gw.Path("grammar-foundations"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := New(content.NewLibrary(""), gw, nil, nil)

	view := openView(t, l, "grammar-foundations")
	if !strings.Contains(view, "could not be read and was ignored") {
		t.Error("a corrupt save must open with a visible warning")
	}
}

func TestOpenExerciseWarnsOnMismatchedSave(t *testing.T) {
	lib := content.NewLibrary("")
	_, otherBank, err := lib.Load("verb-tenses")
	if err != nil {
		t.Fatalf("load verb-tenses: %v", err)
	}

	gw := testGateway(t)
	if err := gw.Save("grammar-foundations", exercise.New(otherBank)); err != nil {
		t.Fatalf("seed mismatched save: %v", err)
	}
	l := New(lib, gw, nil, nil)

	view := openView(t, l, "grammar-foundations")
	if !strings.Contains(view, "does not fit this exercise") {
		t.Error("a save that fails validation must open with a visible warning")
	}
}

func TestOpenExerciseMissingSaveStartsQuietly(t *testing.T) {
	l := New(content.NewLibrary(""), testGateway(t), nil, nil)

	view := openView(t, l, "grammar-foundations")
	if strings.Contains(view, "ignored") {
		t.Error("opening without a prior save should not warn")
	}
}
