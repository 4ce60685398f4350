package prefs

import (
	"path/filepath"
	"testing"

	"newsdeck/internal/catalog"
)

func TestStoreLoadDefaultsWhenEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "sub", "prefs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	p, err := s.Load(testCatalog())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(p.Categories) == 0 {
		t.Error("empty store should fall back to catalog defaults")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	p := &Preferences{}
	p.AddCategory("world")
	p.SelectSource("world", "w1")
	p.AddCustomCategory("Chess")
	p.AddCustomSource("chess", catalog.Source{ID: "cd", Name: "Chess Daily", URL: "https://chess.example/rss"})

	if err := s.Save(p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.Close()

	// Reopen to prove the document survives the process boundary.
	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.Load(testCatalog())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.HasCategory("world") || !got.HasCategory("chess") {
		t.Errorf("categories = %v", got.Categories)
	}
	if len(got.Sources["world"]) != 1 || got.Sources["world"][0] != "w1" {
		t.Errorf("sources = %v", got.Sources)
	}
	cs := got.CustomSources["chess"]
	if len(cs) != 1 || cs[0].ID != "cd" || !cs[0].IsCustom {
		t.Errorf("custom sources = %+v", cs)
	}
	if len(got.CustomCategories) != 1 || got.CustomCategories[0] != "Chess" {
		t.Errorf("custom categories = %v", got.CustomCategories)
	}
}

func TestStoreSaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "prefs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	p := &Preferences{}
	p.AddCategory("world")
	if err := s.Save(p); err != nil {
		t.Fatalf("first save: %v", err)
	}

	p.RemoveCategory("world")
	p.AddCategory("technology")
	if err := s.Save(p); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := s.Load(testCatalog())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.HasCategory("world") || !got.HasCategory("technology") {
		t.Errorf("document was not replaced: %v", got.Categories)
	}
}
