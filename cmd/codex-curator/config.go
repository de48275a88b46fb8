package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/codex-curator/internal/logging"
	"github.com/pdiddy/codex-curator/pkg/types"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config prints the configuration a curation run would use, after merging
the config file, environment variables, flags and .secrets/. Credentials are
redacted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}
		return writeConfig(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// writeConfig renders cfg as YAML with secrets redacted.
func writeConfig(w io.Writer, cfg types.Config) error {
	if cfg.APIKey != "" {
		cfg.APIKey = logging.Redact(cfg.APIKey)
	}
	if cfg.Archive.SecretKey != "" {
		cfg.Archive.SecretKey = logging.Redact(cfg.Archive.SecretKey)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling configuration: %w", err)
	}
	_, err = w.Write(data)
	return err
}
