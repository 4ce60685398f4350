// Package aggregate merges the per-source article lists of a refresh into
// one deduplicated, recency-sorted, capped result.
package aggregate

import (
	"regexp"
	"sort"
	"strings"

	"newsdeck/internal/feed"
)

// MaxArticles is the global cap on the aggregated list.
const MaxArticles = 100

// All is the pseudo-category covering the whole aggregated list.
const All = "all"

var (
	nonWordRe = regexp.MustCompile(`[^\w\s]`)
	spacesRe  = regexp.MustCompile(`\s+`)
)

// Result is one refresh cycle's output. It is recomputed wholesale every
// refresh; the previous result is discarded, never merged into.
type Result struct {
	Articles          []feed.Article
	PresentCategories []string
	TotalRaw          int
	UniqueCount       int
}

// Aggregate deduplicates raw by normalized title, sorts the survivors by
// publish time (newest first, stable), caps the list, and derives the
// categories present. Input order reflects fetch completion order, so the
// dedup winner and equal-timestamp ordering are stable with respect to a
// given completion order, not across runs.
func Aggregate(raw []feed.Article, limit int) Result {
	if limit <= 0 {
		limit = MaxArticles
	}

	seen := make(map[string]bool, len(raw))
	unique := make([]feed.Article, 0, len(raw))
	for _, a := range raw {
		key := dedupKey(a.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, a)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].PublishedAt.After(unique[j].PublishedAt)
	})

	capped := unique
	if len(capped) > limit {
		capped = capped[:limit]
	}

	categories := []string{All}
	present := map[string]bool{All: true}
	for _, a := range capped {
		if !present[a.Category] {
			present[a.Category] = true
			categories = append(categories, a.Category)
		}
	}

	return Result{
		Articles:          capped,
		PresentCategories: categories,
		TotalRaw:          len(raw),
		UniqueCount:       len(unique),
	}
}

// Filter returns the articles of one category, or the full list for All.
// The key is matched exactly; it is already normalized by the time articles
// carry it.
func Filter(r Result, category string) []feed.Article {
	if category == All {
		return r.Articles
	}
	out := make([]feed.Article, 0, len(r.Articles))
	for _, a := range r.Articles {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

// dedupKey collapses a title into a similarity key: lowercase, punctuation
// stripped, whitespace normalized, first 50 characters. Near-identical
// headlines from different sources map to the same key.
func dedupKey(title string) string {
	key := strings.ToLower(title)
	key = nonWordRe.ReplaceAllString(key, "")
	key = spacesRe.ReplaceAllString(key, " ")
	key = strings.TrimSpace(key)
	if r := []rune(key); len(r) > 50 {
		key = string(r[:50])
	}
	return key
}
