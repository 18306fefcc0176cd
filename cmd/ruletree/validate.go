package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DanielDubi/RuleTree/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a tree definition for broken allocations",
	Long: `Builds the tree and checks that every branch has children, that every
allocation table reaches 100%, and that node names are unique.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, root, err := buildTree()
		if err != nil {
			return err
		}
		if err := config.Validate(t, root); err != nil {
			logger.Error("tree definition is not valid", zap.Error(err))
			return err
		}
		logger.Info("tree definition is valid",
			zap.String("config", cfgPath),
			zap.Int("nodes", t.Len()),
		)
		fmt.Println("tree is valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
