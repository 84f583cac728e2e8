package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/pollev/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Pollev configuration",
	Long: `Manage Pollev configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (POLLEV_*, e.g. POLLEV_OUTPUT_FORMAT=tex)
3. Config file (~/.pollev/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, config file, environment variables and flags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		_, err = cmd.OutOrStdout().Write(yamlData)
		return err
	},
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.pollev/config.yaml (or the --config path) with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		configPath := cfgFile
		if configPath == "" {
			dir, err := configDir()
			if err != nil {
				return fmt.Errorf("error finding home directory: %w", err)
			}
			configPath = filepath.Join(dir, "config.yaml")
		}

		// Check if config already exists
		if _, err := os.Stat(configPath); err == nil && !configInitForce {
			return fmt.Errorf("config file already exists: %s\nUse 'pollev config show' to view it, or pass --force to overwrite", configPath)
		}

		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		yamlData, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		f, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("error creating config file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close config file: %w", closeErr)
			}
		}()

		// Helper for writing with error checking
		printf := func(format string, a ...interface{}) {
			if err != nil {
				return
			}
			_, err = fmt.Fprintf(f, format, a...)
		}

		printf("# Pollev Configuration File\n")
		printf("#\n")
		printf("# Configuration hierarchy (highest to lowest priority):\n")
		printf("#   1. CLI flags\n")
		printf("#   2. Environment variables (POLLEV_<SECTION>_<KEY>)\n")
		printf("#   3. This config file\n")
		printf("#   4. Built-in defaults\n\n")
		printf("%s", yamlData)
		if err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Created default configuration: %s\n", configPath)
		fmt.Fprintf(out, "\nTo view the configuration:\n")
		fmt.Fprintf(out, "  pollev config show\n")
		fmt.Fprintf(out, "\nTo customize, edit the file with your preferred editor:\n")
		fmt.Fprintf(out, "  $EDITOR %s\n\n", configPath)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	addConversionFlags(configShowCmd.Flags())
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
}

// setDefaults registers every key of the default configuration so viper
// can resolve it from the environment
func setDefaults(v *viper.Viper) {
	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return
	}
	setDefaultTree(v, "", tree)
}

func setDefaultTree(v *viper.Viper, prefix string, tree map[string]any) {
	for key, value := range tree {
		if sub, ok := value.(map[string]any); ok {
			setDefaultTree(v, prefix+key+".", sub)
			continue
		}
		v.SetDefault(prefix+key, value)
	}
}

// flagKeys maps conversion flags to configuration keys
var flagKeys = map[string]string{
	"output":                      "output.dir",
	"format":                      "output.format",
	"encoding":                    "output.encoding",
	"presenter":                   "normalize.presenter",
	"prefix-len":                  "normalize.prefix_scan_len",
	"seed":                        "normalize.seed",
	"remove-hidden":               "normalize.remove_hidden",
	"remove-images":               "normalize.remove_images",
	"comma":                       "input.comma",
	"delimiter":                   "input.response_delimiter",
	"block-type":                  "tex.block_type",
	"resp-block-type":             "tex.resp_block_type",
	"resp-opt-block-type":         "tex.resp_opt_block_type",
	"resp-opt-correct-block-type": "tex.resp_opt_correct_block_type",
	"end-spacing":                 "tex.end_spacing",
	"end-spacing-metric":          "tex.end_spacing_metric",
	"quiz-mode":                   "html.quiz_mode",
	"heading":                     "html.heading",
	"root-name":                   "structured.root_name",
	"question-prefix":             "toml.question_prefix",
	"sheet-name":                  "tabular.sheet_name",
}

// addConversionFlags defines the flags shared by convert and batch.
// Defaults shown in help come from the built-in configuration.
func addConversionFlags(fs *pflag.FlagSet) {
	d := model.DefaultConfig()

	// Output flags
	fs.StringP("output", "o", d.Output.Dir, "output directory")
	fs.StringP("format", "f", d.Output.Format, "output format (see 'pollev formats')")
	fs.String("encoding", d.Output.Encoding, "encoding for reading and writing")
	fs.Bool("no-solutions", false, "hide which options are correct")

	// Normalization flags
	fs.String("presenter", "", "only keep questions from this presenter")
	fs.Int("prefix-len", d.Normalize.PrefixScanLen, "how far into titles and options to look for an enumeration prefix")
	fs.Bool("no-shuffle", false, "keep response options in their original order")
	fs.Int64("seed", 0, "shuffle seed (0 picks a random seed)")
	fs.Bool("remove-hidden", false, "drop questions with hidden titles")
	fs.Bool("remove-images", false, "drop questions that reference images")

	// Input flags
	fs.String("comma", d.Input.Comma, "field separator of the input file")
	fs.String("delimiter", d.Input.ResponseDelimiter, "separator between response options")

	// Per-format flags
	fs.String("block-type", d.Tex.BlockType, "tex: environment for question titles")
	fs.String("resp-block-type", d.Tex.ResponseBlockType, "tex: environment for response options")
	fs.String("resp-opt-block-type", d.Tex.ChoiceBlockType, "tex: macro for an option")
	fs.String("resp-opt-correct-block-type", d.Tex.CorrectChoiceBlockType, "tex: macro for a correct option")
	fs.Int("end-spacing", d.Tex.EndSpacing, "tex: space after each option")
	fs.String("end-spacing-metric", d.Tex.EndSpacingMetric, "tex: unit of end-spacing")
	fs.Bool("quiz-mode", false, "html: make the page an interactive quiz")
	fs.String("heading", d.HTML.Heading, "html, markdown: page heading")
	fs.String("root-name", d.Structured.RootName, "json, yaml: root key (empty for none)")
	fs.String("question-prefix", d.TOML.QuestionPrefix, "toml: table name holding the questions")
	fs.String("sheet-name", d.Tabular.SheetName, "xlsx: worksheet name")
}

// bindConversionFlags binds cmd's conversion flags to their keys. Binding
// happens per run because several commands define the same flags.
func bindConversionFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// loadConfig merges defaults, config file, environment and cmd's flags
// into a validated configuration
func loadConfig(cmd *cobra.Command) (*model.Config, error) {
	if configErr != nil {
		return nil, configErr
	}

	fs := cmd.Flags()
	if err := bindConversionFlags(fs); err != nil {
		return nil, err
	}

	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Negative switches override whatever the layers above decided
	if on, _ := fs.GetBool("no-shuffle"); on {
		cfg.Normalize.Shuffle = false
	}
	if on, _ := fs.GetBool("no-solutions"); on {
		cfg.Output.ShowSolutions = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
