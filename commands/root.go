package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/droe-core/droe-view/internal/config"
	"github.com/droe-core/droe-view/internal/util"
)

var (
	// Logging related
	debug bool

	// Configuration sources
	configFile string
	envFile    string
	baseURL    string

	// appConfig is the effective configuration, set before any RunE runs.
	appConfig *config.Config

	rootCmd = &cobra.Command{
		Use:   "droe-view",
		Short: "Terminal client for the DROE cards, timeline and interview",
		Long: `droe-view browses a DROE server from the terminal.

It lists and filters the card gallery, places timeline events on a
1900-2100 axis with zoom and event details, and walks through the
life-story interview one question at a time.

Examples:
  droe-view cards                                  # List every card
  droe-view cards --search lake --type memory      # Filter by text and type
  droe-view cards --output json                    # Print the filtered cards as JSON
  droe-view cards -i                               # Browse cards interactively
  droe-view timeline -i                            # Explore the timeline with the keyboard
  droe-view interview                              # Start the interview
  droe-view stages --stages ./stages.yaml          # Check a custom stage table
  droe-view --base-url http://droe.local:5000 cards`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
)

const (
	defaultConfigFile = "~/.droe-view/config.yaml"
	defaultEnvFile    = ".env"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after applying defaults, the config file, the
dotenv file, DROE_ environment variables and command-line flags.

Environment variables use a double underscore between section and key,
for example DROE_API__BASE_URL or DROE_CARDS__TYPES=memory,person.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := appConfig.YAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", defaultConfigFile,
		"Config file path (YAML)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", defaultEnvFile,
		"Dotenv file with DROE_ overrides")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "",
		"DROE server URL (overrides api.base_url)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

// setup loads the configuration and initializes logging for every command.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.LoadOptions{
		File:     expandPath(configFile),
		Required: cmd.Flags().Changed("config"),
		EnvFile:  envFile,
	})
	if err != nil {
		return err
	}

	if baseURL != "" {
		cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if debug {
		cfg.Log.Level = "debug"
	}

	if err := initLogging(cfg); err != nil {
		return err
	}
	util.LogDebugf("config loaded: base_url=%s locale=%s", cfg.API.BaseURL, cfg.Display.Locale)

	appConfig = cfg
	return nil
}

func initLogging(cfg *config.Config) error {
	logFile := ""
	if cfg.Log.File != "" {
		logFile = expandPath(cfg.Log.File)
		if err := ensureDir(filepath.Dir(logFile)); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	return util.InitLogger(util.LoggerConfig{
		Level:   cfg.Log.Level,
		Format:  util.LogFormat(cfg.Log.Format),
		File:    logFile,
		Console: debug,
	})
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
