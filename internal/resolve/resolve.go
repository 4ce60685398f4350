// Package resolve composes the user's preference document with the static
// source catalog into the list of sources a refresh should fetch.
package resolve

import (
	"newsdeck/internal/catalog"
	"newsdeck/internal/feed"
	"newsdeck/internal/prefs"
)

// ActiveSources resolves which sources to fetch, in category-major order:
// for each active category, the selected built-in sources in catalog order,
// then every custom source. Custom sources are implicitly selected the
// moment they exist.
//
// Unknown category keys still resolve — this function composes, it never
// validates; validation lives at the preference mutation boundary. An empty
// result is valid and means there is nothing to fetch.
func ActiveSources(p *prefs.Preferences, cat *catalog.Catalog) []feed.ActiveSource {
	var out []feed.ActiveSource
	for _, key := range p.Categories {
		key = catalog.NormalizeKey(key)

		selected := make(map[string]bool, len(p.Sources[key]))
		for _, id := range p.Sources[key] {
			selected[id] = true
		}
		for _, s := range cat.Sources(key) {
			if selected[s.ID] {
				out = append(out, feed.ActiveSource{Source: s, Category: key})
			}
		}

		for _, s := range p.CustomSources[key] {
			s.IsCustom = true
			s.Verified = false
			out = append(out, feed.ActiveSource{Source: s, Category: key})
		}
	}
	return out
}
