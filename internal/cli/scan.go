package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retrieved/thicket/internal/config"
)

var scanCmd = &cobra.Command{
	Use:   "scan [tree]",
	Short: "Scan configured trees and apply incremental index updates",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		trees := cfg.Trees
		if len(args) == 1 {
			t, ok := cfg.ByName(args[0])
			if !ok {
				return fmt.Errorf("unknown tree %q", args[0])
			}
			trees = []config.TreeConfig{t}
		}

		for _, t := range trees {
			result, err := eng.ScanTree(t)
			if err != nil {
				return fmt.Errorf("scan %s: %w", t.Name, err)
			}
			fmt.Printf("[%s] %s: %d indexed, %d skipped\n", result.ScanID, t.Name, result.Added+result.Modified, len(result.Skipped))
			for _, skip := range result.Skipped {
				fmt.Printf("  skip %s: %v\n", skip.DocID, skip.Err)
			}
		}
		return nil
	},
}
