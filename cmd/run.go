package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deimos993/qprep/internal/app"
	"github.com/deimos993/qprep/internal/bank"
	"github.com/deimos993/qprep/internal/store"
)

// runApp loads the banks, opens the store, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	lib, err := bank.LoadDir(cfg.BanksDir)
	if err != nil && !errors.Is(err, bank.ErrNoBanks) {
		return fmt.Errorf("load banks: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	return app.Run(app.Options{
		Library: lib,
		Store:   st,
		Config:  cfg,
	})
}
