package cli

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lucasnoah/complyd/internal/checks"
	"github.com/lucasnoah/complyd/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Validate and inspect scanner configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the scanner configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		errs := config.Validate(cfg, checks.BuiltinNames()...)
		if len(errs) == 0 {
			if cfgPath == "" {
				cmd.Println("No config file found; built-in defaults are valid.")
			} else {
				cmd.Printf("Configuration %s is valid.\n", cfgPath)
			}
			return nil
		}

		cmd.Println("Validation errors:")
		for _, e := range errs {
			cmd.Printf("  - %s\n", e)
		}
		cmd.SilenceUsage = true
		return fmt.Errorf("config has %d validation error(s)", len(errs))
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration with defaults merged",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		var (
			data []byte
			err  error
		)
		switch format {
		case "yaml":
			data, err = yaml.Marshal(cfg)
		case "toml":
			data, err = toml.Marshal(cfg)
		case "json":
			data, err = json.MarshalIndent(cfg, "", "  ")
			data = append(data, '\n')
		default:
			return fmt.Errorf("invalid format %q: must be yaml, toml or json", format)
		}
		if err != nil {
			return fmt.Errorf("marshalling config: %w", err)
		}

		if cfgPath != "" {
			cmd.Printf("# %s\n", cfgPath)
		}
		cmd.Print(string(data))
		return nil
	},
}

var configPathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "List the locations searched for a config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, p := range config.SearchPaths() {
			marker := " "
			if p == cfgPath {
				marker = "*"
			}
			cmd.Printf("%s %s\n", marker, p)
		}
		return nil
	},
}

func init() {
	configShowCmd.Flags().String("format", "yaml", "Output format: yaml, toml or json")

	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathsCmd)
}
