package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"newsdeck/internal/catalog"
	"newsdeck/internal/prefs"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List and manage active categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPrefs(func(cat *catalog.Catalog, p *prefs.Preferences) (bool, error) {
			for _, c := range cat.Categories() {
				mark := " "
				if p.HasCategory(c.Key) {
					mark = "x"
				}
				fmt.Printf("  [%s] %-15s %s %s\n", mark, c.Key, c.Icon, c.Name)
			}
			for _, name := range p.CustomCategories {
				fmt.Printf("  [x] %-15s %s (custom)\n", catalog.NormalizeKey(name), name)
			}
			return false, nil
		})
	},
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add <key>",
	Short: "Activate a built-in category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPrefs(func(cat *catalog.Catalog, p *prefs.Preferences) (bool, error) {
			key := catalog.NormalizeKey(args[0])
			if _, ok := cat.Category(key); !ok {
				return false, fmt.Errorf("no built-in category %q (use add-custom for your own)", key)
			}
			if err := p.AddCategory(key); err != nil {
				return false, err
			}
			return true, nil
		})
	},
}

var categoriesAddCustomCmd = &cobra.Command{
	Use:   "add-custom <display-name>",
	Short: "Create and activate a custom category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPrefs(func(cat *catalog.Catalog, p *prefs.Preferences) (bool, error) {
			if err := p.AddCustomCategory(args[0]); err != nil {
				return false, err
			}
			return true, nil
		})
	},
}

var categoriesRemoveCmd = &cobra.Command{
	Use:   "remove <key>",
	Short: "Deactivate a category and drop its selections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPrefs(func(cat *catalog.Catalog, p *prefs.Preferences) (bool, error) {
			p.RemoveCategory(args[0])
			return true, nil
		})
	},
}

func init() {
	categoriesCmd.AddCommand(categoriesAddCmd)
	categoriesCmd.AddCommand(categoriesAddCustomCmd)
	categoriesCmd.AddCommand(categoriesRemoveCmd)
}
