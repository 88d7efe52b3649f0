package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bloatmap/pkg/config"
	"github.com/bloatmap/pkg/utils"
)

var (
	// Global flags
	verbose    bool
	configFile string

	logger utils.Logger
	cfg    *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bloatmap",
	Short: "Attribute binary size to the dependencies that produced it",
	Long: `bloatmap converts a per-symbol binary size report into a hierarchical
size-attribution report in the bundler-analyzer metafile format.

Symbols are classified into owning packages, enriched with the dependency
chain resolved from the project's lock document, and merged into a tree
whose flattened form any esbuild-metafile visualizer can display.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded

		level := parseLogLevel(cfg.Log.Level)
		if verbose {
			level = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(level, os.Stderr)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path")

	binName := BinName()
	rootCmd.Example = `  # Convert a size report to a metafile
  bloaty --csv -d sections,symbols ./my-binary | ` + binName + ` convert -o meta.json

  # Attribute against an explicit lock document, two levels deep
  ` + binName + ` convert -i report.csv --lock ./Cargo.lock --deep 2

  # Drop everything that could not be attributed to a package
  ` + binName + ` convert -i report.csv --no-sections`
}

// GetLogger returns the configured logger
func GetLogger() utils.Logger {
	return logger
}

// BinName returns the base name of the current executable
func BinName() string {
	return filepath.Base(os.Args[0])
}

func parseLogLevel(s string) utils.LogLevel {
	switch s {
	case "debug":
		return utils.LevelDebug
	case "warn":
		return utils.LevelWarn
	case "error":
		return utils.LevelError
	default:
		return utils.LevelInfo
	}
}
