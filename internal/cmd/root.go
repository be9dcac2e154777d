// Package cmd implements the tasklist command line.
package cmd

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tgienger/tasklist/internal/app"
	"github.com/tgienger/tasklist/internal/config"
	"github.com/tgienger/tasklist/internal/logging"
	"github.com/tgienger/tasklist/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// cli carries the state shared by all commands of one invocation
type cli struct {
	v         *viper.Viper
	cfgFile   string
	ephemeral bool
}

// NewRootCmd builds the command tree. Running it without a subcommand
// opens the terminal UI.
func NewRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "tasklist",
		Short: "Tasks and lists in your terminal",
		Long: `tasklist keeps tasks organized in named lists, with Today, All
and Flagged views. Run it without arguments for the terminal UI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig()
		},
		RunE: c.runUI,
	}

	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/tasklist/config.yaml)")
	root.PersistentFlags().BoolVar(&c.ephemeral, "ephemeral", false, "keep everything in memory for this run")

	root.AddCommand(
		c.newAddCmd(),
		c.newLsCmd(),
		c.newDoneCmd(),
		c.newListsCmd(),
		c.newResetCmd(),
		newVersionCmd(),
	)
	return root
}

func (c *cli) initConfig() error {
	// A missing .env is fine
	_ = godotenv.Load()

	config.SetDefaults(c.v)

	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		c.v.SetConfigName("config")
		c.v.SetConfigType("yaml")
		c.v.AddConfigPath(config.ConfigDir())
		c.v.AddConfigPath(".")
	}

	c.v.SetEnvPrefix("TASKLIST")
	// TASKLIST_STORAGE_BACKEND for storage.backend
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.v.AutomaticEnv()

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// openApp loads the configuration and assembles the application
func (c *cli) openApp() (*app.App, error) {
	cfg, err := config.Load(c.v)
	if err != nil {
		return nil, err
	}
	if c.ephemeral {
		cfg.Storage.Backend = config.BackendMemory
	}

	logger, err := logging.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	zap.ReplaceGlobals(logger)

	a, err := app.New(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	logger.Debug("application ready",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("dir", cfg.Storage.Dir),
	)
	return a, nil
}

func (c *cli) runUI(cmd *cobra.Command, args []string) error {
	a, err := c.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	model := ui.NewApp(a)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running application: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tasklist %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
