package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"newsdeck/internal/aggregate"
	"newsdeck/internal/catalog"
	"newsdeck/internal/config"
	"newsdeck/internal/feed"
	"newsdeck/internal/prefs"
	"newsdeck/internal/resolve"
)

var flagRefreshCategory string

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch all active sources once and print the aggregated headlines",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
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

		active := resolve.ActiveSources(p, cat)
		if len(active) == 0 {
			fmt.Println("No active sources. Select some with `newsdeck sources select`.")
			return nil
		}

		sched := feed.NewScheduler(feed.NewClient(cfg.Relay), cfg.RefreshIntervalDuration())
		articles, err := sched.Refresh(context.Background(), active)
		if err != nil {
			return fmt.Errorf("refreshing: %w", err)
		}

		for _, o := range sched.Outcomes() {
			switch {
			case o.Err != nil:
				fmt.Fprintf(os.Stderr, "[warn] %v\n", o.Err)
			case o.OverBudget:
				fmt.Fprintf(os.Stderr, "[slow] %s took %s\n", o.Source, o.Elapsed.Round(time.Millisecond))
			}
		}

		result := aggregate.Aggregate(articles, cfg.ArticleCap())
		view := aggregate.Filter(result, category(flagRefreshCategory))
		for _, a := range view {
			fmt.Printf("%-14s %s\n", "["+a.Source.Name+"]", a.Title)
		}
		fmt.Printf("\n%d unique of %d fetched across %d categories\n",
			result.UniqueCount, result.TotalRaw, len(result.PresentCategories)-1)
		return nil
	},
}

func category(flag string) string {
	if flag == "" {
		return aggregate.All
	}
	return catalog.NormalizeKey(flag)
}

func init() {
	refreshCmd.Flags().StringVar(&flagRefreshCategory, "category", "", "only print one category")
}
