package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	filePath      string
	universeFiles []string
	configPath    string
	sourceLevel   string
	logLevel      string

	// settings is the merged view of config file, environment and flags, filled in before
	// any command runs.
	settings Config
)

var rootCmd = &cobra.Command{
	Use:   "typeguess",
	Short: "typeguess infers the type expected at a position of Java source",
	Long: `typeguess parses a Java file, binds its declarations against a type universe and
answers what type, or which kinds of type, the code around a position expects there.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		settings = cfg
		level, err := ParseLogLevel(settings.LogLevel)
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(NewPrettyHandler(os.Stderr, PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{Level: level},
		})))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&filePath, "file", "f", "", "Path to the Java source file")
	rootCmd.PersistentFlags().StringSliceVar(&universeFiles, "universe", nil, "Extra YAML type universe files (repeatable)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: TYPEGUESS_CONFIG env var or ./typeguess.toml)")
	rootCmd.PersistentFlags().StringVar(&sourceLevel, "source", "", "Java language level, e.g. 1.4 or 17")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error or off")
}

// AddCommand allows adding subcommands from other files.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}
