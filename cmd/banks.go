package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deimos993/qprep/internal/bank"
)

var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "List the loaded question banks",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		lib, err := bank.LoadDir(cfg.BanksDir)
		if err != nil {
			if errors.Is(err, bank.ErrNoBanks) {
				fmt.Printf("No question banks found in %s\n", cfg.BanksDir)
				return nil
			}
			return fmt.Errorf("load banks: %w", err)
		}

		for _, b := range lib.Banks {
			multi := 0
			for _, q := range b.Questions {
				if q.IsMultiAnswer() {
					multi++
				}
			}
			fmt.Printf("%-30s %4d questions (%d multi-answer)  [%s]\n",
				b.Name, len(b.Questions), multi, b.ID)
		}
		if n := len(lib.Diagnostics); n > 0 {
			fmt.Printf("\n%d question(s) were skipped; run `qprep validate` for details.\n", n)
		}
		return nil
	},
}
