package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"newsdeck/internal/catalog"
	"newsdeck/internal/config"
	"newsdeck/internal/feed"
	"newsdeck/internal/prefs"
	"newsdeck/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
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

	sched := feed.NewScheduler(feed.NewClient(cfg.Relay), cfg.RefreshIntervalDuration())

	return tui.Run(tui.RunOpts{
		Cfg:       cfg,
		Catalog:   cat,
		Prefs:     p,
		Scheduler: sched,
	})
}
