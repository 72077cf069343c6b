package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/samarth-project/samarth/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "samarth",
	Short: "Natural-language queries over Indian agricultural and meteorological data",
	Long:  "Answers plain-English questions about crop production and rainfall by classifying the query, planning tabular operations over government datasets, and returning a cited answer.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
