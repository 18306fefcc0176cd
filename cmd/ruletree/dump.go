package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dumpPretty bool

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the tree with its allocations",
	Long: `Builds the tree from the definition and prints it: every node on its
own line with the share of traffic its parent allocates to it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, root, err := buildTree()
		if err != nil {
			return err
		}
		if dumpPretty {
			fmt.Print(t.Outline(root))
			return nil
		}
		return t.DumpTree(os.Stdout, root)
	},
}

func init() {
	dumpCmd.Flags().BoolVar(&dumpPretty, "pretty", false, "Draw the tree with box characters instead of the plain format")
	rootCmd.AddCommand(dumpCmd)
}
