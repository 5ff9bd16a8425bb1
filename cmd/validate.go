package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deimos993/qprep/internal/bank"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Validate question-bank files and print per-question diagnostics",
	Long: "Validate checks question-bank JSON documents and prints one line per " +
		"rejected question. With no arguments, every file in the banks directory " +
		"is checked. Exits non-zero when any question is rejected.",
	RunE: func(cmd *cobra.Command, args []string) error {
		accepted, diagnostics, err := collectDiagnostics(cmd, args)
		if err != nil {
			return err
		}

		for _, d := range diagnostics {
			fmt.Println(d)
		}
		fmt.Printf("\n%d question(s) accepted, %d diagnostic(s).\n", accepted, len(diagnostics))

		if len(diagnostics) > 0 {
			os.Exit(1)
		}
		return nil
	},
}

// collectDiagnostics validates the given files, or the whole banks directory
// when none are named. A file contributing zero valid questions yields a nil
// bank; only its diagnostics are collected.
func collectDiagnostics(cmd *cobra.Command, args []string) (int, []string, error) {
	var diagnostics []string
	var accepted int

	if len(args) > 0 {
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return 0, nil, fmt.Errorf("read %s: %w", path, err)
			}
			b, report := bank.Load(data, path)
			if b != nil {
				accepted += len(b.Questions)
			}
			diagnostics = append(diagnostics, report.Diagnostics...)
		}
		return accepted, diagnostics, nil
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return 0, nil, fmt.Errorf("load config: %w", err)
	}
	lib, err := bank.LoadDir(cfg.BanksDir)
	if err != nil && !errors.Is(err, bank.ErrNoBanks) {
		return 0, nil, fmt.Errorf("load banks: %w", err)
	}
	for _, b := range lib.Banks {
		accepted += len(b.Questions)
	}
	return accepted, lib.Diagnostics, nil
}
