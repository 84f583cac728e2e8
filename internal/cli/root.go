package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/pollev/internal/logging"
)

const version = "0.3.0"

var (
	cfgFile   string
	verbose   bool
	logFormat string

	// configErr records a config file that exists but could not be read
	configErr error

	// logger is built once flags are parsed
	logger = logging.Nop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pollev",
	Short: "Pollev - compile poll history exports into exams, pages and data files",
	Long: `Pollev converts PollEverywhere poll history exports (CSV) into other
presentation formats: LaTeX exams, HTML pages and quizzes, Markdown,
JSON, YAML, TOML, CSV, spreadsheets and plain text.

Response options are split on the response delimiter, enumeration
prefixes such as "a)" are stripped, and options marked "(Correct)" are
flagged. Solutions can be hidden in every output format.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch logFormat {
		case "console":
			logger = logging.New(os.Stderr, verbose)
		case "json":
			logger = logging.NewJSON(os.Stderr, verbose)
		default:
			return fmt.Errorf("unknown log format %q (expected console or json)", logFormat)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Pollev.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pollev v%s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.pollev/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(viper.GetViper())

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(dir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match POLLEV_*, with nested keys
	// joined by underscores (POLLEV_OUTPUT_FORMAT)
	viper.SetEnvPrefix("POLLEV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in. A missing default file is fine.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			configErr = fmt.Errorf("read config file: %w", err)
		}
	} else if verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// configDir returns the directory holding the default config file
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".pollev"), nil
}

// componentLogger tags the shared logger with a command name
func componentLogger(name string) zerolog.Logger {
	return logger.With().Str("command", name).Logger()
}
