package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	ruletree "github.com/DanielDubi/RuleTree"
	"github.com/DanielDubi/RuleTree/cel"
	"github.com/DanielDubi/RuleTree/config"
)

// request is what the simulated tree routes: a flat map of order fields,
// visible to CEL rules as "request".
type request = map[string]any

var (
	cfgPath  string
	logLevel string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ruletree",
	Short: "Inspect and simulate weighted rule-gated routing trees",
	Long: `ruletree loads a YAML tree definition and dumps, validates or simulates
it. Rules are CEL expressions over a request map; leaves name the venue a
request is routed to.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = initLogger(logLevel)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "tree.yaml", "Path to the tree definition")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

// buildTree loads the definition and builds the tree every command works
// on.
func buildTree() (*ruletree.Tree[request, string], ruletree.NodeID, error) {
	def, err := config.LoadFile(cfgPath)
	if err != nil {
		return nil, ruletree.None, err
	}

	comp, err := cel.New[request](func(m request) map[string]any { return m })
	if err != nil {
		return nil, ruletree.None, err
	}

	t := ruletree.New[request, string]()
	b := config.NewBuilder[request, string](comp)
	root, err := b.Build(t, def)
	if err != nil {
		return nil, ruletree.None, err
	}
	return t, root, nil
}

// initLogger initializes the logger. Logs go to stderr; stdout carries
// the dumps and tables.
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return cfg.Build()
}
