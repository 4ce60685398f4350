package feed

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"

	"newsdeck/internal/catalog"
)

var testSource = ActiveSource{
	Source: catalog.Source{
		ID:       "bbc-world",
		Name:     "BBC World",
		URL:      "https://feeds.bbci.co.uk/news/world/rss.xml",
		Verified: true,
	},
	Category: "world",
}

func rssDoc(items ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
<channel><title>Test Feed</title><link>https://example.com</link>
` + strings.Join(items, "\n") + `
</channel></rss>`
}

func rssItem(n int) string {
	return fmt.Sprintf(`<item>
<title>Headline %d</title>
<link>https://example.com/story-%d</link>
<description>Body of story %d</description>
<pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
</item>`, n, n, n)
}

func TestParseInvalidDocument(t *testing.T) {
	p := NewParser()
	for _, raw := range []string{"", "not xml at all", "<rss><channel>"} {
		got := p.Parse(raw, testSource)
		if len(got) != 0 {
			t.Errorf("Parse(%q) = %d articles, want 0", raw, len(got))
		}
	}
}

func TestParseTwoStageCap(t *testing.T) {
	// 12 items: only the first 10 are scanned, and at most 5 survive.
	var items []string
	for i := 1; i <= 12; i++ {
		items = append(items, rssItem(i))
	}
	p := NewParser()
	got := p.Parse(rssDoc(items...), testSource)
	if len(got) != MaxPerSource {
		t.Fatalf("expected %d articles, got %d", MaxPerSource, len(got))
	}
	for i, a := range got {
		want := fmt.Sprintf("Headline %d", i+1)
		if a.Title != want {
			t.Errorf("article %d title = %q, want %q (document order)", i, a.Title, want)
		}
	}
}

func TestParseScanWindowSurvivesRejects(t *testing.T) {
	// Items 1-6 have no title and are rejected at extraction; survivors
	// come from positions 7-10 of the scan window, so rejects don't
	// starve the final slice.
	var items []string
	for i := 1; i <= 6; i++ {
		items = append(items, fmt.Sprintf(`<item><link>https://example.com/untitled-%d</link></item>`, i))
	}
	for i := 7; i <= 12; i++ {
		items = append(items, rssItem(i))
	}
	p := NewParser()
	got := p.Parse(rssDoc(items...), testSource)
	if len(got) != 4 {
		t.Fatalf("expected 4 articles (positions 7-10), got %d", len(got))
	}
	if got[0].Title != "Headline 7" || got[3].Title != "Headline 10" {
		t.Errorf("unexpected survivors: first %q, last %q", got[0].Title, got[3].Title)
	}
}

func TestParseGUIDFallback(t *testing.T) {
	doc := rssDoc(`<item>
<title>No link here</title>
<guid>https://example.com/from-guid</guid>
</item>`)
	p := NewParser()
	got := p.Parse(doc, testSource)
	if len(got) != 1 {
		t.Fatalf("expected 1 article, got %d", len(got))
	}
	if got[0].URL != "https://example.com/from-guid" {
		t.Errorf("URL = %q, want guid fallback", got[0].URL)
	}
}

func TestParseDropsUnusableLink(t *testing.T) {
	doc := rssDoc(
		`<item><title>Scripty</title><link>javascript:alert(1)</link></item>`,
		`<item><title>Fine</title><link>https://example.com/ok</link></item>`,
	)
	p := NewParser()
	got := p.Parse(doc, testSource)
	if len(got) != 1 || got[0].Title != "Fine" {
		t.Fatalf("expected only the article with a usable link, got %+v", got)
	}
}

func TestParseSummary(t *testing.T) {
	longTitle := strings.Repeat("x", 120)
	doc := rssDoc(
		`<item><title>Tagged</title><link>https://example.com/1</link><description>&lt;p&gt;A &lt;b&gt;bold&lt;/b&gt; claim&lt;/p&gt;</description></item>`,
		`<item><title>`+longTitle+`</title><link>https://example.com/2</link></item>`,
	)
	p := NewParser()
	got := p.Parse(doc, testSource)
	if len(got) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(got))
	}
	if got[0].Summary != "A bold claim" {
		t.Errorf("summary = %q, want markup stripped", got[0].Summary)
	}
	want := strings.Repeat("x", 100) + "..."
	if got[1].Summary != want {
		t.Errorf("synthesized summary = %q, want title truncated to 100 + ellipsis", got[1].Summary)
	}
}

func TestParsePublishedAt(t *testing.T) {
	doc := rssDoc(
		rssItem(1),
		`<item><title>Undated</title><link>https://example.com/undated</link></item>`,
	)
	p := NewParser()
	before := time.Now()
	got := p.Parse(doc, testSource)
	after := time.Now()
	if len(got) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(got))
	}

	want := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
	if !got[0].PublishedAt.Equal(want) {
		t.Errorf("dated item PublishedAt = %v, want %v", got[0].PublishedAt, want)
	}
	// Undated items rank as "now", not as unknown.
	if got[1].PublishedAt.Before(before) || got[1].PublishedAt.After(after) {
		t.Errorf("undated item PublishedAt = %v, want within [%v, %v]", got[1].PublishedAt, before, after)
	}
}

func TestParseImageCandidates(t *testing.T) {
	tests := []struct {
		name string
		item string
		want string
	}{
		{
			"media thumbnail",
			`<item><title>T</title><link>https://e.com/1</link><media:thumbnail url="https://img.e.com/a.jpg"/></item>`,
			"https://img.e.com/a.jpg",
		},
		{
			"image enclosure",
			`<item><title>T</title><link>https://e.com/2</link><enclosure url="https://img.e.com/b.png" type="image/png" length="1"/></item>`,
			"https://img.e.com/b.png",
		},
		{
			"img tag in description",
			`<item><title>T</title><link>https://e.com/3</link><description>&lt;img src="https://img.e.com/c.webp"&gt;</description></item>`,
			"https://img.e.com/c.webp",
		},
		{
			"insecure scheme rejected",
			`<item><title>T</title><link>https://e.com/4</link><enclosure url="http://img.e.com/d.jpg" type="image/jpeg" length="1"/></item>`,
			"",
		},
		{
			"non-image extension rejected",
			`<item><title>T</title><link>https://e.com/5</link><media:thumbnail url="https://img.e.com/e.svg"/></item>`,
			"",
		},
		{
			"audio enclosure ignored",
			`<item><title>T</title><link>https://e.com/6</link><enclosure url="https://img.e.com/f.mp3" type="audio/mpeg" length="1"/></item>`,
			"",
		},
	}
	p := NewParser()
	for _, tt := range tests {
		got := p.Parse(rssDoc(tt.item), testSource)
		if len(got) != 1 {
			t.Fatalf("%s: expected 1 article, got %d", tt.name, len(got))
		}
		if got[0].ImageURL != tt.want {
			t.Errorf("%s: ImageURL = %q, want %q", tt.name, got[0].ImageURL, tt.want)
		}
	}
}

func TestImageCandidateSourcesAreClosed(t *testing.T) {
	// Only media extension urls, image/* enclosures and <img src> in the
	// description are considered; an image the feed library attaches to the
	// item itself (e.g. from podcast metadata) is not a candidate.
	item := &gofeed.Item{
		Image: &gofeed.Image{URL: "https://img.e.com/pod.jpg"},
	}
	if got := imageCandidate(item); got != "" {
		t.Errorf("imageCandidate = %q, want empty for item-level image", got)
	}

	item.Enclosures = []*gofeed.Enclosure{
		{URL: "https://img.e.com/enc.png", Type: "image/png"},
	}
	if got := imageCandidate(item); got != "https://img.e.com/enc.png" {
		t.Errorf("imageCandidate = %q, want the enclosure url", got)
	}
}

func TestParseCopiesSourceAndCategory(t *testing.T) {
	p := NewParser()
	got := p.Parse(rssDoc(rssItem(1)), testSource)
	if len(got) != 1 {
		t.Fatalf("expected 1 article, got %d", len(got))
	}
	a := got[0]
	if a.Category != "world" {
		t.Errorf("Category = %q, want %q", a.Category, "world")
	}
	if a.Source.ID != "bbc-world" || !a.Source.Verified || a.Source.IsCustom {
		t.Errorf("unexpected source ref: %+v", a.Source)
	}
	if a.LoadedAt.IsZero() {
		t.Error("LoadedAt should be set")
	}
}
