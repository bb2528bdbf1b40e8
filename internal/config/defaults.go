package config

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = ".autosite.yml"

// QualityPreset describes the model to use for a given quality tier.
type QualityPreset struct {
	Model string
	// Temperature for code generation; design analysis always runs colder.
	Temperature float64
}

// qualityPresets maps each provider+quality combination to its model choices.
var qualityPresets = map[ProviderType]map[QualityTier]QualityPreset{
	ProviderOpenAI: {
		QualityLite:   {Model: "gpt-4o-mini", Temperature: 0.4},
		QualityNormal: {Model: "gpt-4o", Temperature: 0.5},
		QualityMax:    {Model: "gpt-4.1", Temperature: 0.6},
	},
	ProviderOpenRouter: {
		QualityLite:   {Model: "openai/gpt-4o-mini", Temperature: 0.4},
		QualityNormal: {Model: "openai/gpt-4o", Temperature: 0.5},
		QualityMax:    {Model: "openai/gpt-4.1", Temperature: 0.6},
	},
	ProviderOllama: {
		QualityLite:   {Model: "llama3", Temperature: 0.4},
		QualityNormal: {Model: "llama3", Temperature: 0.5},
		QualityMax:    {Model: "llama3:70b", Temperature: 0.6},
	},
}

// DefaultExcludes are glob patterns skipped when importing a site folder.
var DefaultExcludes = []string{
	"node_modules/**",
	".git/**",
	".autosite/**",
	"dist/**",
	"*.map",
	"package-lock.json",
	"yarn.lock",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4o",
		Quality:           QualityNormal,
		DataDir:           ".autosite",
		OutputDir:         "dist",
		Port:              8080,
		LogLevel:          "info",
		Lang:              "pt-BR",
		Include:           []string{"**"},
		Exclude:           DefaultExcludes,
		MaxRetries:        3,
		RequestsPerMinute: 30,
	}
}

// GetPreset returns the quality preset for the given provider and tier.
// Returns the Normal OpenAI preset if the combination is not found.
func GetPreset(provider ProviderType, tier QualityTier) QualityPreset {
	if tiers, ok := qualityPresets[provider]; ok {
		if preset, ok := tiers[tier]; ok {
			return preset
		}
	}
	return qualityPresets[ProviderOpenAI][QualityNormal]
}
