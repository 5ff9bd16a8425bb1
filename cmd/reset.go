package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deimos993/qprep/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard all saved attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		n, err := st.Snapshots().ClearAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("clear snapshots: %w", err)
		}
		fmt.Printf("Removed %d saved attempt(s).\n", n)
		return nil
	},
}
