package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/deimos993/qprep/internal/bank"
	"github.com/deimos993/qprep/internal/grading"
	"github.com/deimos993/qprep/internal/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question banks over a local HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		lib, err := bank.LoadDir(cfg.BanksDir)
		if err != nil && !errors.Is(err, bank.ErrNoBanks) {
			return fmt.Errorf("load banks: %w", err)
		}

		srv := httpapi.New(lib, grading.NewEngineWithPassMark(cfg.PassMark))
		fmt.Printf("Serving %d bank(s) on %s\n", len(lib.Banks), serveAddr)
		return http.ListenAndServe(serveAddr, srv)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8391", "Listen address")
}
