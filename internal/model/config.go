package model

// CollectorConfig describes one configured acquisition stage instance.
type CollectorConfig struct {
	// Type selects the collector variant (e.g., "email").
	Type string `mapstructure:"type"`

	// Name is the user-defined label for this collector instance.
	Name string `mapstructure:"name"`

	// Options holds the variant-specific settings (server addresses,
	// credentials, mailbox names); each variant decodes them itself.
	Options map[string]any `mapstructure:",remain"`
}

// ProcessorConfig describes the configured summarization stage.
type ProcessorConfig struct {
	Type string `mapstructure:"type"`
	Name string `mapstructure:"name"`

	// Options holds variant-specific settings (API endpoints, model
	// identifiers, prompt file paths).
	Options map[string]any `mapstructure:",remain"`
}

// SenderConfig describes the configured delivery stage.
type SenderConfig struct {
	Type string `mapstructure:"type"`
	Name string `mapstructure:"name"`

	// SubjectPrefix is prepended to the current date to form the
	// report subject line.
	SubjectPrefix string `mapstructure:"subject_prefix"`

	// Enabled controls whether delivery is attempted. Unset means
	// enabled; an explicit false skips delivery for the domain.
	Enabled *bool `mapstructure:"enabled"`

	// Options holds variant-specific transport settings.
	Options map[string]any `mapstructure:",remain"`
}

// IsEnabled reports whether the sender should be invoked, treating an
// absent enabled key as true.
func (c SenderConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// DomainConfig is one independently processed acquisition → summarization
// → delivery grouping. Domains share no state within a run.
type DomainConfig struct {
	Name       string            `mapstructure:"name"`
	Collectors []CollectorConfig `mapstructure:"collectors"`
	Processor  ProcessorConfig   `mapstructure:"processor"`
	Sender     SenderConfig      `mapstructure:"sender"`
}

// Config is the top-level application configuration.
type Config struct {
	Domains []DomainConfig `mapstructure:"domains"`
}
