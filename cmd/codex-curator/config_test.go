package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/codex-curator/internal/secrets"
	"github.com/pdiddy/codex-curator/pkg/types"
)

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newViper(), secrets.Secrets{})
	require.NoError(t, err)

	assert.Equal(t, "./downloaded_papers", cfg.DownloadDir)
	assert.Equal(t, "./papers.jsonl", cfg.LedgerPath)
	assert.Equal(t, types.LedgerJSONL, cfg.LedgerBackend)
	assert.Equal(t, types.DefaultAssistantID, cfg.AssistantID)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 10*time.Minute, cfg.PollTimeout)
	assert.Equal(t, 8192, cfg.ChunkSize)
	assert.Empty(t, cfg.APIKey)
	assert.False(t, cfg.Archive.Enabled())
}

func TestLoadConfig_OverridesAndSecrets(t *testing.T) {
	v := newViper()
	v.Set("assistant_id", "asst-custom")
	v.Set("poll_interval", "250ms")
	v.Set("http.max_retries", 2)
	v.Set("archive.endpoint", "localhost:9000")
	v.Set("archive.bucket", "papers")

	s := secrets.Secrets{
		secrets.OpenAIAPIKey:     "sk-from-file",
		secrets.ArchiveAccessKey: "minio",
		secrets.ArchiveSecretKey: "minio123",
	}
	cfg, err := loadConfig(v, s)
	require.NoError(t, err)

	assert.Equal(t, "asst-custom", cfg.AssistantID)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 2, cfg.HTTP.MaxRetries)
	assert.Equal(t, "sk-from-file", cfg.APIKey)
	assert.Equal(t, "minio", cfg.Archive.AccessKey)
	assert.True(t, cfg.Archive.Enabled())

	v.Set("api_key", "sk-explicit")
	cfg, err = loadConfig(v, s)
	require.NoError(t, err)
	assert.Equal(t, "sk-explicit", cfg.APIKey)
}

func TestWriteConfig_RedactsSecrets(t *testing.T) {
	cfg := types.Config{
		APIKey:  "sk-abcdefghijklmnop",
		Archive: types.ArchiveConfig{SecretKey: "supersecretvalue"},
	}.WithDefaults()

	var buf bytes.Buffer
	require.NoError(t, writeConfig(&buf, cfg))

	out := buf.String()
	assert.NotContains(t, out, "sk-abcdefghijklmnop")
	assert.NotContains(t, out, "supersecretvalue")
	assert.Contains(t, out, "poll_interval: 1s")

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "sk-a...op", back["api_key"])
	assert.Equal(t, "./downloaded_papers", back["download_dir"])
}
