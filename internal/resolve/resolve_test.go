package resolve

import (
	"testing"

	"newsdeck/internal/catalog"
	"newsdeck/internal/prefs"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Category{
		{
			Key:  "world",
			Name: "World",
			Sources: []catalog.Source{
				{ID: "w1", Name: "World One", URL: "https://w1.com/feed", Verified: true},
				{ID: "w2", Name: "World Two", URL: "https://w2.com/feed"},
				{ID: "w3", Name: "World Three", URL: "https://w3.com/feed", Verified: true},
			},
		},
		{
			Key:  "technology",
			Name: "Technology",
			Sources: []catalog.Source{
				{ID: "t1", Name: "Tech One", URL: "https://t1.com/feed", Verified: true},
				{ID: "t2", Name: "Tech Two", URL: "https://t2.com/feed"},
			},
		},
	})
}

func TestActiveSourcesOrderAndSelection(t *testing.T) {
	p := &prefs.Preferences{
		Categories: []string{"technology", "world"},
		Sources: map[string][]string{
			// selection order differs from catalog order on purpose
			"world":      {"w3", "w1"},
			"technology": {"t2"},
		},
	}

	got := ActiveSources(p, testCatalog())

	// Category-major per preference order, catalog order within a category.
	wantIDs := []string{"t2", "w1", "w3"}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d active sources, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].Source.ID != id {
			t.Errorf("active[%d] = %q, want %q", i, got[i].Source.ID, id)
		}
	}
	if got[0].Category != "technology" || got[1].Category != "world" {
		t.Errorf("unexpected category tags: %q, %q", got[0].Category, got[1].Category)
	}
}

func TestActiveSourcesCustomAppendedLast(t *testing.T) {
	p := &prefs.Preferences{
		Categories: []string{"world"},
		Sources:    map[string][]string{"world": {"w1"}},
		CustomSources: map[string][]catalog.Source{
			"world": {{ID: "my-blog", Name: "My Blog", URL: "https://blog.me/rss"}},
		},
	}

	got := ActiveSources(p, testCatalog())
	if len(got) != 2 {
		t.Fatalf("got %d active sources, want 2", len(got))
	}
	last := got[1]
	if last.Source.ID != "my-blog" {
		t.Errorf("custom source should come last in its category, got %q", last.Source.ID)
	}
	if !last.Source.IsCustom || last.Source.Verified {
		t.Errorf("custom sources are always unverified customs: %+v", last.Source)
	}
}

func TestActiveSourcesUnknownCategoryStillResolves(t *testing.T) {
	// The resolver composes, it does not validate: a category absent from
	// the catalog still contributes its custom sources.
	p := &prefs.Preferences{
		Categories: []string{"chess"},
		CustomSources: map[string][]catalog.Source{
			"chess": {{ID: "c1", Name: "Chess Daily", URL: "https://chess.example/rss"}},
		},
	}

	got := ActiveSources(p, testCatalog())
	if len(got) != 1 || got[0].Category != "chess" {
		t.Fatalf("unknown category should resolve its customs, got %+v", got)
	}
}

func TestActiveSourcesNormalizesKeys(t *testing.T) {
	p := &prefs.Preferences{
		Categories: []string{"  World  "},
		Sources:    map[string][]string{"world": {"w1"}},
	}
	got := ActiveSources(p, testCatalog())
	if len(got) != 1 || got[0].Category != "world" {
		t.Fatalf("category key should normalize before lookup, got %+v", got)
	}
}

func TestActiveSourcesEmpty(t *testing.T) {
	p := &prefs.Preferences{}
	if got := ActiveSources(p, testCatalog()); len(got) != 0 {
		t.Errorf("no selections should resolve to an empty list, got %d", len(got))
	}

	p = &prefs.Preferences{Categories: []string{"world"}}
	if got := ActiveSources(p, testCatalog()); len(got) != 0 {
		t.Errorf("a category with nothing selected contributes nothing, got %d", len(got))
	}
}
