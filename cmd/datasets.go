package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samarth-project/samarth/internal/model"
)

var datasetsSearch string

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List the registered datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initService(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		var entries []model.DatasetMetadata
		if datasetsSearch != "" {
			entries = env.Service.SearchDatasets(datasetsSearch)
		} else {
			entries = env.Service.Datasets()
		}

		for _, m := range entries {
			fmt.Printf("%s.%s\n", m.Category, m.Name)
			fmt.Printf("  %s\n", m.Description)
			fmt.Printf("  source: %s | updated: %s | quality: %s\n",
				m.Source, m.LastUpdated, m.DataQuality)
		}
		fmt.Printf("\n%d datasets\n", len(entries))
		return nil
	},
}

func init() {
	datasetsCmd.Flags().StringVar(&datasetsSearch, "search", "", "filter datasets by term")
	rootCmd.AddCommand(datasetsCmd)
}
