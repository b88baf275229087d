// Package config provides configuration loading and validation for errtally.
package config

import "time"

// Config is the root configuration structure loaded from YAML. Every field is
// optional.
type Config struct {
	// LogSources are paths or glob patterns scanned in addition to the ones
	// given on the command line.
	LogSources []string `yaml:"log_sources,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`
	// LogFormat is console or json.
	LogFormat string `yaml:"log_format,omitempty"`

	// MaxLineBytes bounds the memory kept for one line during a background scan.
	// Longer lines are skipped. Zero means no bound.
	MaxLineBytes int `yaml:"max_line_bytes,omitempty"`
	// MaxReadBytes bounds the whole-file read of the first-match query.
	MaxReadBytes int64 `yaml:"max_read_bytes,omitempty"`

	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnIssues fires when error markers were found or a file
	// could not be scanned (default).
	WebhookTriggerOnIssues WebhookTrigger = "on_issues"
	// WebhookTriggerAlways fires after every scan.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines an endpoint receiving the scan report.
type WebhookConfig struct {
	Name  string `yaml:"name,omitempty"`
	URL   string `yaml:"url"`
	Token string `yaml:"token,omitempty"`

	// Trigger defaults to on_issues.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`
	// Timeout defaults to DefaultWebhookTimeout.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// DisplayName returns the name used in log records.
func (w WebhookConfig) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	return w.URL
}
