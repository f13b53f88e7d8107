package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lucasnoah/complyd/internal/config"
	"github.com/lucasnoah/complyd/internal/db"
	"github.com/lucasnoah/complyd/internal/docparse"
	"github.com/lucasnoah/complyd/internal/logger"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var (
	configFlag string
	verbose    bool
	logFormat  string

	// cfg and cfgPath are resolved once per invocation by setup.
	cfg     *config.Config
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "complyd",
	Short: "Scan configuration documents for compliance controls",
	Long: `complyd normalizes Markdown, JSON, PDF and plain-text configuration
documents and checks them against a compliance framework (HIPAA by default).

Configuration is read from ./complyd.yaml, ./complyd.toml or ~/.complyd/config.yaml.
Scan history is stored in SQLite at ~/.complyd/complyd.db.`,
	PersistentPreRunE: setup,
}

// Execute runs the root command, cancelling its context on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "path to config file (YAML or TOML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(kvCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(mcpCmd)
}

// setup loads .env, installs the logger and resolves the configuration.
func setup(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	logger.SetVerbose(verbose)
	logger.SetJSON(logger.ParseFormat(logFormat))
	logger.SetOutput(cmd.ErrOrStderr())
	logger.Install()

	c, path, err := loadConfig()
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(c); err != nil {
		return err
	}
	cfg, cfgPath = c, path
	slog.Debug("configuration loaded", "path", cfgPath, "framework", cfg.Scanner.Framework)
	return nil
}

func loadConfig() (*config.Config, string, error) {
	if configFlag != "" {
		c, err := config.Load(configFlag)
		return c, configFlag, err
	}
	return config.LoadDefault()
}

// newParser builds a parser from the configured limits.
func newParser() *docparse.Parser {
	return docparse.New(docparse.Options{
		MaxFileSize:     cfg.Scanner.MaxFileSize,
		MaxOutputBytes:  cfg.Scanner.MaxOutputBytes,
		MaxNestingDepth: cfg.Scanner.MaxNestingDepth,
		Logger:          slog.Default(),
	})
}

// dbPath is the configured history database or the default location.
func dbPath() (string, error) {
	if cfg.Scanner.Database != "" {
		return cfg.Scanner.Database, nil
	}
	return db.DefaultDBPath()
}

// openDB opens and migrates the DB, returning it with a cleanup func.
func openDB() (*db.DB, func(), error) {
	path, err := dbPath()
	if err != nil {
		return nil, nil, err
	}
	d, err := db.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if err := d.Migrate(); err != nil {
		d.Close()
		return nil, nil, err
	}
	return d, func() { d.Close() }, nil
}
