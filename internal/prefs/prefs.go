package prefs

import (
	"fmt"
	"net/url"

	"newsdeck/internal/catalog"
)

// Limits enforced at the mutation boundary. Resolution never re-validates:
// a document that was mutated through this package is trusted downstream.
const (
	MaxCategories          = 15
	MaxCustomCategories    = 9
	MaxSelectedPerCategory = 5
	MaxCustomPerCategory   = 5
)

// Preferences is the user's selection document: which categories are active,
// which built-in sources are selected per category, and any user-supplied
// categories and sources. Serialized as JSON by the store.
type Preferences struct {
	Categories       []string                    `json:"categories"`
	Sources          map[string][]string         `json:"sources"`
	CustomCategories []string                    `json:"customCategories"`
	CustomSources    map[string][]catalog.Source `json:"customSources"`
}

// Default returns the preferences used when no document exists yet: the
// first two catalog categories with their first three sources selected.
func Default(cat *catalog.Catalog) *Preferences {
	p := &Preferences{
		Sources:       make(map[string][]string),
		CustomSources: make(map[string][]catalog.Source),
	}
	for i, c := range cat.Categories() {
		if i == 2 {
			break
		}
		p.Categories = append(p.Categories, c.Key)
		for j, s := range c.Sources {
			if j == 3 {
				break
			}
			p.Sources[c.Key] = append(p.Sources[c.Key], s.ID)
		}
	}
	return p
}

func (p *Preferences) init() {
	if p.Sources == nil {
		p.Sources = make(map[string][]string)
	}
	if p.CustomSources == nil {
		p.CustomSources = make(map[string][]catalog.Source)
	}
}

// HasCategory reports whether key is in the active category list.
func (p *Preferences) HasCategory(key string) bool {
	key = catalog.NormalizeKey(key)
	for _, c := range p.Categories {
		if c == key {
			return true
		}
	}
	return false
}

// AddCategory appends a category key to the active set.
func (p *Preferences) AddCategory(key string) error {
	key = catalog.NormalizeKey(key)
	if key == "" {
		return fmt.Errorf("category key is empty")
	}
	if p.HasCategory(key) {
		return nil
	}
	if len(p.Categories) >= MaxCategories {
		return fmt.Errorf("category limit reached (%d)", MaxCategories)
	}
	p.Categories = append(p.Categories, key)
	return nil
}

// RemoveCategory drops a category and its per-category selections.
func (p *Preferences) RemoveCategory(key string) {
	key = catalog.NormalizeKey(key)
	out := p.Categories[:0]
	for _, c := range p.Categories {
		if c != key {
			out = append(out, c)
		}
	}
	p.Categories = out
	delete(p.Sources, key)
	delete(p.CustomSources, key)
}

// AddCustomCategory registers a user-supplied category by display name and
// activates it.
func (p *Preferences) AddCustomCategory(name string) error {
	key := catalog.NormalizeKey(name)
	if key == "" {
		return fmt.Errorf("category name is empty")
	}
	for _, n := range p.CustomCategories {
		if catalog.NormalizeKey(n) == key {
			return p.AddCategory(key)
		}
	}
	if len(p.CustomCategories) >= MaxCustomCategories {
		return fmt.Errorf("custom category limit reached (%d)", MaxCustomCategories)
	}
	if err := p.AddCategory(key); err != nil {
		return err
	}
	p.CustomCategories = append(p.CustomCategories, name)
	return nil
}

// SelectSource marks a built-in source id as selected for a category.
func (p *Preferences) SelectSource(category, id string) error {
	p.init()
	category = catalog.NormalizeKey(category)
	for _, s := range p.Sources[category] {
		if s == id {
			return nil
		}
	}
	if len(p.Sources[category]) >= MaxSelectedPerCategory {
		return fmt.Errorf("source limit reached for %s (%d)", category, MaxSelectedPerCategory)
	}
	p.Sources[category] = append(p.Sources[category], id)
	return nil
}

// DeselectSource removes a built-in source id from a category's selection.
func (p *Preferences) DeselectSource(category, id string) {
	p.init()
	category = catalog.NormalizeKey(category)
	out := p.Sources[category][:0]
	for _, s := range p.Sources[category] {
		if s != id {
			out = append(out, s)
		}
	}
	p.Sources[category] = out
}

// AddCustomSource attaches a user-supplied source to a category. Custom
// sources are always unverified and implicitly selected.
func (p *Preferences) AddCustomSource(category string, src catalog.Source) error {
	p.init()
	category = catalog.NormalizeKey(category)
	if src.ID == "" || src.Name == "" || src.URL == "" {
		return fmt.Errorf("custom source needs id, name and url")
	}
	if u, err := url.Parse(src.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("source %q: url must be http or https", src.ID)
	}
	for _, s := range p.CustomSources[category] {
		if s.ID == src.ID {
			return fmt.Errorf("source %q already exists in %s", src.ID, category)
		}
	}
	if len(p.CustomSources[category]) >= MaxCustomPerCategory {
		return fmt.Errorf("custom source limit reached for %s (%d)", category, MaxCustomPerCategory)
	}
	src.IsCustom = true
	src.Verified = false
	p.CustomSources[category] = append(p.CustomSources[category], src)
	return nil
}

// RemoveCustomSource deletes a custom source by id. Custom sources only ever
// leave the document through this explicit call.
func (p *Preferences) RemoveCustomSource(category, id string) {
	p.init()
	category = catalog.NormalizeKey(category)
	out := p.CustomSources[category][:0]
	for _, s := range p.CustomSources[category] {
		if s.ID != id {
			out = append(out, s)
		}
	}
	p.CustomSources[category] = out
}
