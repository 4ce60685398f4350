package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"newsdeck/internal/catalog"
	"newsdeck/internal/config"
	"newsdeck/internal/prefs"
)

// withPrefs loads catalog + preferences, runs fn, and saves the document if
// fn reports a mutation.
func withPrefs(fn func(cat *catalog.Catalog, p *prefs.Preferences) (bool, error)) error {
	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	store, err := prefs.Open(config.PrefsPath())
	if err != nil {
		return fmt.Errorf("opening preference store: %w", err)
	}
	defer store.Close()
	p, err := store.Load(cat)
	if err != nil {
		return fmt.Errorf("loading preferences: %w", err)
	}

	changed, err := fn(cat, p)
	if err != nil {
		return err
	}
	if changed {
		if err := store.Save(p); err != nil {
			return fmt.Errorf("saving preferences: %w", err)
		}
	}
	return nil
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List and manage sources per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPrefs(func(cat *catalog.Catalog, p *prefs.Preferences) (bool, error) {
			for _, key := range p.Categories {
				meta := cat.Meta(key)
				fmt.Printf("%s %s\n", meta.Icon, meta.Name)

				selected := make(map[string]bool)
				for _, id := range p.Sources[key] {
					selected[id] = true
				}
				for _, s := range cat.Sources(key) {
					mark := " "
					if selected[s.ID] {
						mark = "x"
					}
					badge := ""
					if s.Verified {
						badge = " ✓"
					}
					fmt.Printf("  [%s] %-20s %s%s\n", mark, s.ID, s.Name, badge)
				}
				for _, s := range p.CustomSources[key] {
					fmt.Printf("  [x] %-20s %s (custom)\n", s.ID, s.Name)
				}
			}
			return false, nil
		})
	},
}

var sourcesSelectCmd = &cobra.Command{
	Use:   "select <category> <source-id>",
	Short: "Select a built-in source for a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPrefs(func(cat *catalog.Catalog, p *prefs.Preferences) (bool, error) {
			key := catalog.NormalizeKey(args[0])
			found := false
			for _, s := range cat.Sources(key) {
				if s.ID == args[1] {
					found = true
					break
				}
			}
			if !found {
				return false, fmt.Errorf("no built-in source %q in category %q", args[1], key)
			}
			if err := p.SelectSource(key, args[1]); err != nil {
				return false, err
			}
			return true, nil
		})
	},
}

var sourcesDeselectCmd = &cobra.Command{
	Use:   "deselect <category> <source-id>",
	Short: "Deselect a built-in source",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPrefs(func(cat *catalog.Catalog, p *prefs.Preferences) (bool, error) {
			p.DeselectSource(args[0], args[1])
			return true, nil
		})
	},
}

var sourcesAddCmd = &cobra.Command{
	Use:   "add <category> <id> <name> <feed-url>",
	Short: "Add a custom source to a category",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPrefs(func(cat *catalog.Catalog, p *prefs.Preferences) (bool, error) {
			key := catalog.NormalizeKey(args[0])
			if !p.HasCategory(key) {
				if err := p.AddCategory(key); err != nil {
					return false, err
				}
			}
			err := p.AddCustomSource(key, catalog.Source{
				ID:   args[1],
				Name: args[2],
				URL:  args[3],
			})
			if err != nil {
				return false, err
			}
			return true, nil
		})
	},
}

var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove <category> <source-id>",
	Short: "Remove a custom source",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPrefs(func(cat *catalog.Catalog, p *prefs.Preferences) (bool, error) {
			p.RemoveCustomSource(args[0], args[1])
			return true, nil
		})
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesSelectCmd)
	sourcesCmd.AddCommand(sourcesDeselectCmd)
	sourcesCmd.AddCommand(sourcesAddCmd)
	sourcesCmd.AddCommand(sourcesRemoveCmd)
}
