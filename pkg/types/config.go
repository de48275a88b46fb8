// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Defaults applied when a setting is left empty.
const (
	DefaultDownloadDir  = "./downloaded_papers"
	DefaultLedgerPath   = "./papers.jsonl"
	DefaultAssistantID  = "asst_YNyW95TTHYeFgG6h41ArLGi7"
	DefaultPrompt       = "Please summarize this document in simple terms."
	DefaultPollInterval = 1 * time.Second
	DefaultPollTimeout  = 10 * time.Minute
	DefaultChunkSize    = 8192
	DefaultHTTPTimeout  = 60 * time.Second
	DefaultUserAgent    = "codex-curator/0.1"
)

// HTTPConfig holds settings for the download client.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with downloads.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is how many times a download answered with HTTP 429 is
	// retried. Zero disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// LedgerBackend selects where transfer records are appended.
type LedgerBackend string

const (
	LedgerJSONL  LedgerBackend = "jsonl"
	LedgerSQLite LedgerBackend = "sqlite"
)

// ArchiveConfig configures the optional S3-compatible mirror of downloaded PDFs.
// Archiving is disabled when Endpoint or Bucket is empty.
type ArchiveConfig struct {
	Endpoint  string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey string `json:"access_key,omitempty" yaml:"access_key,omitempty" mapstructure:"access_key"`
	SecretKey string `json:"secret_key,omitempty" yaml:"secret_key,omitempty" mapstructure:"secret_key"`
	Bucket    string `json:"bucket" yaml:"bucket" mapstructure:"bucket"`
	UseSSL    bool   `json:"use_ssl" yaml:"use_ssl" mapstructure:"use_ssl"`
}

// Enabled reports whether enough settings are present to archive.
func (a ArchiveConfig) Enabled() bool {
	return a.Endpoint != "" && a.Bucket != ""
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "console" or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config enumerates everything a curation run needs. It is built once at
// startup and passed into each component.
type Config struct {
	// APIKey authenticates against the analysis service.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the analysis service endpoint (empty uses the default).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// DownloadDir receives downloaded PDFs.
	DownloadDir string `json:"download_dir" yaml:"download_dir" mapstructure:"download_dir"`

	// LedgerPath is the JSON Lines file (or SQLite database) of transfer records.
	LedgerPath string `json:"ledger_path" yaml:"ledger_path" mapstructure:"ledger_path"`

	// LedgerBackend is jsonl or sqlite.
	LedgerBackend LedgerBackend `json:"ledger_backend" yaml:"ledger_backend" mapstructure:"ledger_backend"`

	// AssistantID is the analysis profile used for every run.
	AssistantID string `json:"assistant_id" yaml:"assistant_id" mapstructure:"assistant_id"`

	// Prompt is the single user instruction sent with the document.
	Prompt string `json:"prompt" yaml:"prompt" mapstructure:"prompt"`

	// PollInterval is the wait between job status checks.
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval" mapstructure:"poll_interval"`

	// PollTimeout bounds the total polling time. Zero means no deadline.
	PollTimeout time.Duration `json:"poll_timeout" yaml:"poll_timeout" mapstructure:"poll_timeout"`

	// PollMaxAttempts bounds the number of status checks. Zero means unlimited.
	PollMaxAttempts int `json:"poll_max_attempts" yaml:"poll_max_attempts" mapstructure:"poll_max_attempts"`

	// ChunkSize is the buffer size used when streaming downloads to disk.
	ChunkSize int `json:"chunk_size" yaml:"chunk_size" mapstructure:"chunk_size"`

	HTTP    HTTPConfig    `json:"http" yaml:"http" mapstructure:"http"`
	Archive ArchiveConfig `json:"archive" yaml:"archive" mapstructure:"archive"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}

// WithDefaults returns a copy of c with empty settings filled in.
func (c Config) WithDefaults() Config {
	if c.DownloadDir == "" {
		c.DownloadDir = DefaultDownloadDir
	}
	if c.LedgerPath == "" {
		c.LedgerPath = DefaultLedgerPath
	}
	if c.LedgerBackend == "" {
		c.LedgerBackend = LedgerJSONL
	}
	if c.AssistantID == "" {
		c.AssistantID = DefaultAssistantID
	}
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = DefaultHTTPTimeout
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = DefaultUserAgent
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	return c
}
