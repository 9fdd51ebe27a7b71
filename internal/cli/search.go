package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/retrieved/thicket/internal/search"
)

var (
	searchLimit int
	searchTrees []string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search the index",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		q := strings.Join(args, " ")
		params := search.Params{Limit: searchLimit, Trees: searchTrees, EnableAggregation: true}

		results, err := eng.Search(context.Background(), q, params)
		if err != nil {
			return err
		}
		return printResults(results)
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum results")
	searchCmd.Flags().StringSliceVar(&searchTrees, "tree", nil, "restrict to these trees")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "emit JSON")
}

func printResults(results []search.Result) error {
	if searchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for _, r := range results {
		fmt.Printf("%-6.2f %s  %s\n", r.Score, r.ID, r.Breadcrumb)
		if r.Snippet != "" {
			fmt.Printf("       %s\n", r.Snippet)
		}
	}
	return nil
}
