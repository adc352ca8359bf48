package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dimonss/BirthdayBackend/internal/platform/logger"
)

func newTestStore(t *testing.T) (Store, string) {
	t.Helper()
	root := t.TempDir()
	s, err := New(root, &logger.Logger{SugaredLogger: zap.NewNop().Sugar()})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s, root
}

func TestStatus_DerivedFromFilesystem(t *testing.T) {
	s, root := newTestStore(t)

	if st := s.Status("alice"); st.Image || st.Audio {
		t.Fatalf("unexpected status for absent user: %+v", st)
	}
	if s.HasAny("alice") {
		t.Fatal("HasAny true for absent user")
	}

	if err := s.SaveImage("alice", []byte("jpg")); err != nil {
		t.Fatalf("save image: %v", err)
	}
	st := s.Status("alice")
	if !st.Image || st.Audio {
		t.Fatalf("got %+v after image upload", st)
	}
	if st.Complete() {
		t.Fatal("status complete with audio missing")
	}

	if err := s.SaveAudio("alice", []byte("mp3")); err != nil {
		t.Fatalf("save audio: %v", err)
	}
	if !s.Status("alice").Complete() {
		t.Fatal("status not complete with both assets on disk")
	}

	// Out-of-band removal is observed on the next call.
	if err := os.Remove(filepath.Join(root, "alice", AudioFileName)); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if s.Status("alice").Audio {
		t.Fatal("status cached a removed file")
	}
}

func TestSave_OverwritesAndLeavesNoTempFiles(t *testing.T) {
	s, root := newTestStore(t)
	if err := s.SaveImage("alice", []byte("first")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.SaveImage("alice", []byte("second")); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "alice", ImageFileName))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("got %q", data)
	}

	entries, err := os.ReadDir(filepath.Join(root, "alice"))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestRemoveAssets_KeepsArtifactAndConfig(t *testing.T) {
	s, root := newTestStore(t)
	if err := s.SaveImage("alice", []byte("jpg")); err != nil {
		t.Fatalf("save image: %v", err)
	}
	if err := s.SaveAudio("alice", []byte("mp3")); err != nil {
		t.Fatalf("save audio: %v", err)
	}
	if err := s.WriteArtifact("alice", []byte("<html></html>")); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	if err := s.SetVisibility("alice", true); err != nil {
		t.Fatalf("set visibility: %v", err)
	}

	if err := s.RemoveAssets("alice"); err != nil {
		t.Fatalf("remove assets: %v", err)
	}

	if s.HasAny("alice") {
		t.Fatal("assets remain after removal")
	}
	if _, err := s.ReadArtifact("alice"); err != nil {
		t.Fatalf("artifact removed too: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "alice", configFileName)); err != nil {
		t.Fatalf("config removed too: %v", err)
	}

	// Removing again is a no-op.
	if err := s.RemoveAssets("alice"); err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if err := s.RemoveAssets("nobody"); err != nil {
		t.Fatalf("remove for absent user: %v", err)
	}
}

func TestVisibility(t *testing.T) {
	s, root := newTestStore(t)

	if s.Visibility("alice") {
		t.Fatal("visibility should default to hidden")
	}
	if err := s.SetVisibility("alice", true); err != nil {
		t.Fatalf("set visibility: %v", err)
	}
	if !s.Visibility("alice") {
		t.Fatal("visibility not persisted")
	}

	// Config file shape is the one the frontend reads.
	data, err := os.ReadFile(filepath.Join(root, "alice", configFileName))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), `"showOnMainPage": true`) {
		t.Fatalf("unexpected config contents: %s", data)
	}

	if err := s.SetVisibility("alice", false); err != nil {
		t.Fatalf("set visibility: %v", err)
	}
	if s.Visibility("alice") {
		t.Fatal("visibility not lowered")
	}

	// Corrupt config degrades to hidden.
	if err := os.WriteFile(filepath.Join(root, "alice", configFileName), []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if s.Visibility("alice") {
		t.Fatal("corrupt config treated as visible")
	}
}

func TestListPublished(t *testing.T) {
	s, root := newTestStore(t)

	complete := func(name string) {
		t.Helper()
		if err := s.SaveImage(name, []byte("jpg")); err != nil {
			t.Fatalf("save image: %v", err)
		}
		if err := s.SaveAudio(name, []byte("mp3")); err != nil {
			t.Fatalf("save audio: %v", err)
		}
	}

	complete("visible-old")
	complete("visible-new")
	complete("hidden")
	if err := s.SaveImage("partial", []byte("jpg")); err != nil {
		t.Fatalf("save image: %v", err)
	}
	if err := s.SetVisibility("partial", true); err != nil {
		t.Fatalf("set visibility: %v", err)
	}
	for _, name := range []string{"visible-old", "visible-new"} {
		if err := s.SetVisibility(name, true); err != nil {
			t.Fatalf("set visibility: %v", err)
		}
	}

	// A stray file in the root is skipped.
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(filepath.Join(root, "visible-old"), old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	names, err := s.ListPublished()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 || names[0] != "visible-new" || names[1] != "visible-old" {
		t.Fatalf("got %v", names)
	}
}

func TestListPublished_EmptyRoot(t *testing.T) {
	s, _ := newTestStore(t)
	names, err := s.ListPublished()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("got %v", names)
	}
}
