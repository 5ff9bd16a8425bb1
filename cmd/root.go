package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deimos993/qprep/internal/config"
	"github.com/deimos993/qprep/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "qprep",
	Short: "Terminal exam trainer",
	Long:  "qprep — timed multiple-choice exam practice in the terminal, with saved attempts and per-objective statistics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: XDG config dir)")
	rootCmd.PersistentFlags().String("banks", "", "Directory with question-bank JSON files (overrides config)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QPREP_DB env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(banksCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfig loads the config file, honoring the --config and --banks
// flags.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if banks, _ := cmd.Flags().GetString("banks"); banks != "" {
		cfg.BanksDir = banks
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QPREP_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
