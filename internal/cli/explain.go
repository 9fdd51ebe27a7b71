package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain <query...>",
	Short: "Parse a query and print its AST without executing a search",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		out, err := eng.Explain(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}
