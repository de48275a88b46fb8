// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the codex-curator CLI: it downloads a
// paper, uploads it to the analysis service and prints the summary.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/codex-curator/internal/logging"
	"github.com/pdiddy/codex-curator/internal/pipeline"
	"github.com/pdiddy/codex-curator/internal/secrets"
	"github.com/pdiddy/codex-curator/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd downloads, uploads and summarizes one paper.
var rootCmd = &cobra.Command{
	Use:   "codex-curator [url]",
	Short: "Download a paper and summarize it with an OpenAI assistant",
	Long: `codex-curator downloads the PDF at the given URL into the download
directory, records the transfer in the ledger, uploads the file to OpenAI and
asks the configured assistant to summarize it. The run is polled until it
completes and the thread's messages are printed.

When no URL argument is given the URL is read from standard input.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", s.Keys())
		}
		return nil
	},
	RunE: runCurate,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./codex-curator.yaml or ~/.config/codex-curator/config.yaml)")
	flags.String("download-dir", types.DefaultDownloadDir, "directory for downloaded papers")
	flags.String("ledger", types.DefaultLedgerPath, "transfer ledger path")
	flags.String("ledger-backend", string(types.LedgerJSONL), "ledger backend: jsonl or sqlite")
	flags.String("assistant-id", types.DefaultAssistantID, "assistant used for the analysis")
	flags.Duration("poll-interval", types.DefaultPollInterval, "wait between run status checks")
	flags.Duration("poll-timeout", types.DefaultPollTimeout, "give up polling after this long (0 disables)")
	flags.String("log-level", "info", "diagnostic log level: trace, debug, info, warn, error")

	for key, flag := range map[string]string{
		"download_dir":   "download-dir",
		"ledger_path":    "ledger",
		"ledger_backend": "ledger-backend",
		"assistant_id":   "assistant-id",
		"poll_interval":  "poll-interval",
		"poll_timeout":   "poll-timeout",
		"log.level":      "log-level",
	} {
		viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("codex-curator")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "codex-curator"))
		}
	}

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("CODEX_CURATOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.BindEnv("api_key", "OPENAI_API_KEY", "CODEX_CURATOR_API_KEY")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every configuration key so that environment
// variables and Unmarshal see the full key set.
func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "")
	v.SetDefault("download_dir", types.DefaultDownloadDir)
	v.SetDefault("ledger_path", types.DefaultLedgerPath)
	v.SetDefault("ledger_backend", string(types.LedgerJSONL))
	v.SetDefault("assistant_id", types.DefaultAssistantID)
	v.SetDefault("prompt", types.DefaultPrompt)
	v.SetDefault("poll_interval", types.DefaultPollInterval)
	v.SetDefault("poll_timeout", types.DefaultPollTimeout)
	v.SetDefault("poll_max_attempts", 0)
	v.SetDefault("chunk_size", types.DefaultChunkSize)
	v.SetDefault("http.timeout", types.DefaultHTTPTimeout)
	v.SetDefault("http.user_agent", types.DefaultUserAgent)
	v.SetDefault("http.max_retries", 0)
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("archive.access_key", "")
	v.SetDefault("archive.secret_key", "")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.use_ssl", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// loadConfig builds the run configuration from viper and the secrets
// directory. Explicit settings win over secret files.
func loadConfig(v *viper.Viper, s secrets.Secrets) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("parsing configuration: %w", err)
	}
	cfg.APIKey = s.Default(secrets.OpenAIAPIKey, cfg.APIKey)
	cfg.Archive.AccessKey = s.Default(secrets.ArchiveAccessKey, cfg.Archive.AccessKey)
	cfg.Archive.SecretKey = s.Default(secrets.ArchiveSecretKey, cfg.Archive.SecretKey)
	return cfg.WithDefaults(), nil
}

func runCurate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Log, os.Stderr)
	ctx := logger.WithContext(cmd.Context())
	logger.Debug().
		Str("api_key", logging.Redact(cfg.APIKey)).
		Str("assistant_id", cfg.AssistantID).
		Str("download_dir", cfg.DownloadDir).
		Msg("configuration loaded")

	p, closeLedger, err := pipeline.New(cfg, &http.Client{Timeout: cfg.HTTP.Timeout}, nil, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		if err := closeLedger(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("closing ledger")
		}
	}()

	url, err := pipeline.ResolveURL(args, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	_, err = p.Run(ctx, url)
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
