package config

// QualityTier controls the model selection and trade-off between speed/cost and quality.
type QualityTier string

const (
	QualityLite   QualityTier = "lite"
	QualityNormal QualityTier = "normal"
	QualityMax    QualityTier = "max"
)

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI     ProviderType = "openai"
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderOllama     ProviderType = "ollama"
)

// Config is the top-level autosite configuration, corresponding to .autosite.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	Quality           QualityTier  `yaml:"quality" koanf:"quality"`
	DataDir           string       `yaml:"data_dir" koanf:"data_dir"`
	OutputDir         string       `yaml:"output_dir" koanf:"output_dir"`
	Port              int          `yaml:"port" koanf:"port"`
	LogLevel          string       `yaml:"log_level" koanf:"log_level"`
	Lang              string       `yaml:"lang" koanf:"lang"`
	Include           []string     `yaml:"include" koanf:"include"`
	Exclude           []string     `yaml:"exclude" koanf:"exclude"`
	MaxRetries        uint         `yaml:"max_retries" koanf:"max_retries"`
	RequestsPerMinute int          `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	NotifyWebhook     string       `yaml:"notify_webhook,omitempty" koanf:"notify_webhook"`
}

// DBPath is the sqlite database file inside DataDir.
func (c *Config) DBPath() string {
	return c.DataDir + "/autosite.db"
}
