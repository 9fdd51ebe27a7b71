package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retrieved/thicket/internal/index"
)

var getFullDocument bool

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch a single chunk by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		result, err := eng.Get(args[0], getFullDocument)
		if err != nil {
			if errors.Is(err, index.ErrUnknownID) {
				return fmt.Errorf("no such chunk: %s", args[0])
			}
			return err
		}

		fmt.Printf("%s  %s\n%s\n", result.Chunk.ID, result.Chunk.Breadcrumb, result.Chunk.Body)
		return nil
	},
}

func init() {
	getCmd.Flags().BoolVar(&getFullDocument, "full-document", false, "return the containing document's own chunk instead of this chunk (its body excludes the heading sections)")
}
