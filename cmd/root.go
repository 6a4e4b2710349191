package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/taskreview/internal/output"
	"github.com/joescharf/taskreview/internal/store"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui        *output.UI
	dataStore store.Store

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "taskreview",
	Short: "Task Review - score engineering task submissions and recommend the next task",
	Long: `taskreview evaluates engineering task submissions with a deterministic,
rule-based scorer. A submission's narrative, repository metrics and
document content are graded into a 0-100 score, classified as PASS,
BORDERLINE or FAIL, and paired with a recommended next task.

Run it as a CLI, a REST API (taskreview serve) or an MCP server
(taskreview mcp).`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/taskreview/config.yaml)")
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDirFunc()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}
		viper.AddConfigPath(dir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("TASKREVIEW")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	dir, _ := configDirFunc()
	setDefaults(dir)

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

// setDefaults registers every config key's default value.
func setDefaults(stateDir string) {
	viper.SetDefault("state_dir", stateDir)
	viper.SetDefault("db_path", filepath.Join(stateDir, "taskreview.db"))
	viper.SetDefault("port", 8000)
	viper.SetDefault("cache.capacity", store.DefaultCacheCapacity)
	viper.SetDefault("github.api_url", "https://api.github.com")
	viper.SetDefault("github.token", "")
	viper.SetDefault("github.timeout", "10s")
	viper.SetDefault("history.enabled", true)
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose

	// Component logs go to stderr so JSON output on stdout stays clean.
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// The store is opened lazily so config/version commands run without a db.
}

// commandContext returns the executing command's context, or Background
// when called outside cobra's Execute.
func commandContext() context.Context {
	if ctx := rootCmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// getStore returns the shared review history store, initializing it on
// first call. It returns nil, nil when history is disabled.
func getStore() (store.Store, error) {
	if dataStore != nil {
		return dataStore, nil
	}
	if !viper.GetBool("history.enabled") {
		return nil, nil
	}

	s, err := store.NewSQLiteStore(viper.GetString("db_path"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := s.Migrate(commandContext()); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	dataStore = s
	return dataStore, nil
}
