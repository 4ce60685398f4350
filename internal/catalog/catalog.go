package catalog

import (
	"embed"
	"fmt"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed sources.yaml
var sourcesFS embed.FS

// Source is one feed endpoint. Built-in sources come from the embedded
// catalog; custom sources are user-supplied, always unverified. Immutable
// once created.
type Source struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	URL      string `yaml:"url" json:"url"`
	Verified bool   `yaml:"verified" json:"verified"`
	IsCustom bool   `yaml:"-" json:"isCustom"`
}

// Category groups built-in sources under a normalized key with display
// metadata.
type Category struct {
	Key     string   `yaml:"key"`
	Name    string   `yaml:"name"`
	Icon    string   `yaml:"icon"`
	Color   string   `yaml:"color"`
	Sources []Source `yaml:"sources"`
}

// Catalog is the static built-in category/source registry.
type Catalog struct {
	categories []Category
	byKey      map[string]int
}

// NormalizeKey canonicalizes a category key: lowercase, surrounding
// whitespace stripped. Keys are normalized this way everywhere.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// New builds a catalog from explicit categories, normalizing keys.
func New(categories []Category) *Catalog {
	c := &Catalog{byKey: make(map[string]int, len(categories))}
	for _, cat := range categories {
		cat.Key = NormalizeKey(cat.Key)
		c.byKey[cat.Key] = len(c.categories)
		c.categories = append(c.categories, cat)
	}
	return c
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	data, err := sourcesFS.ReadFile("sources.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded catalog: %w", err)
	}
	var doc struct {
		Categories []Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing embedded catalog: %w", err)
	}
	c := New(doc.Categories)
	if err := validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

func validate(c *Catalog) error {
	for _, cat := range c.categories {
		if cat.Key == "" {
			return fmt.Errorf("category %q: key is required", cat.Name)
		}
		seen := make(map[string]bool, len(cat.Sources))
		for _, s := range cat.Sources {
			if s.ID == "" || s.Name == "" {
				return fmt.Errorf("category %q: source id and name are required", cat.Key)
			}
			if seen[s.ID] {
				return fmt.Errorf("category %q: duplicate source id %q", cat.Key, s.ID)
			}
			seen[s.ID] = true
			u, err := url.Parse(s.URL)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
				return fmt.Errorf("source %q: url must be http or https", s.ID)
			}
		}
	}
	return nil
}

// Categories returns the catalog categories in canonical order.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// Category looks up a built-in category by normalized key.
func (c *Catalog) Category(key string) (Category, bool) {
	i, ok := c.byKey[NormalizeKey(key)]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// Sources returns the built-in sources for a category key, in catalog order.
func (c *Catalog) Sources(key string) []Source {
	cat, ok := c.Category(key)
	if !ok {
		return nil
	}
	return cat.Sources
}

// Meta resolves display metadata for any category key. Keys outside the
// catalog get synthesized metadata, so custom categories render like
// built-in ones.
func (c *Catalog) Meta(key string) Category {
	if cat, ok := c.Category(key); ok {
		return cat
	}
	return Synthesize(key)
}

// Synthesize builds metadata for a custom category from its display name.
func Synthesize(name string) Category {
	name = strings.TrimSpace(name)
	display := name
	if r := []rune(display); len(r) > 0 {
		display = strings.ToUpper(string(r[:1])) + string(r[1:])
	}
	return Category{
		Key:   NormalizeKey(name),
		Name:  display,
		Icon:  "📰",
		Color: "#626262",
	}
}
