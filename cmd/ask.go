package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a natural-language question about the data",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initService(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		query := strings.Join(args, " ")
		resp := env.Service.ProcessQuery(cmd.Context(), query)

		if askJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}

		fmt.Println(resp.Answer)

		if len(resp.Citations) > 0 {
			fmt.Println("\nSources:")
			for _, c := range resp.Citations {
				fmt.Printf("  - %s (%s, %s records analyzed: %d)\n",
					c.DatasetName, c.SourceOrganization, c.DataFreshness, c.RecordsAnalyzed)
			}
		}

		if resp.Cached {
			fmt.Println("\n(served from cache)")
		}
		return nil
	},
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the full response as JSON")
	rootCmd.AddCommand(askCmd)
}
