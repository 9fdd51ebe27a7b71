package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/retrieved/thicket/internal/contextanalysis"
	"github.com/retrieved/thicket/internal/search"
)

var contextLimit int

var contextCmd = &cobra.Command{
	Use:   "context <file>",
	Short: "Generate and run a context-analysis query for a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		result, err := eng.Context(context.Background(), args[0], content,
			contextanalysis.Params{}, search.Params{Limit: contextLimit, EnableAggregation: true})
		if err != nil {
			return err
		}

		fmt.Println(result.Query.QueryString)
		return printResults(result.Results)
	},
}

func init() {
	contextCmd.Flags().IntVar(&contextLimit, "limit", 20, "maximum results")
}
