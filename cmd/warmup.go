package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var warmupCmd = &cobra.Command{
	Use:   "warmup",
	Short: "Preload and clean every registered dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initService(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Service.Warmup(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("datasets warmed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(warmupCmd)
}
