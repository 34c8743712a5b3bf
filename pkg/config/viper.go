package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const configName = "thehook"

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads thehook.yaml from the
// given project directory (if present), and binds environment variables
// with the THEHOOK_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound by the command layer)
//  2. Environment variables (THEHOOK_TOKEN_BUDGET, THEHOOK_EMBEDDING_MODEL, ...)
//  3. thehook.yaml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(projectDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName(configName)
	v.SetConfigType("yaml")

	if projectDir != "" {
		v.AddConfigPath(projectDir)
	} else {
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("THEHOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// Load unmarshals the viper state into a fully-populated Config.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// LoadProject is the common path for commands: InitViper + Load for the
// given project directory.
func LoadProject(projectDir string) (*Config, error) {
	v, err := InitViper(projectDir)
	if err != nil {
		return nil, err
	}
	return Load(v)
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source
// of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("token_budget", d.TokenBudget)

	v.SetDefault("retrieval.n_results", d.Retrieval.NResults)
	v.SetDefault("retrieval.query", d.Retrieval.Query)
	v.SetDefault("retrieval.recency_days", d.Retrieval.RecencyDays)
	v.SetDefault("retrieval.recency_fallback_global", d.Retrieval.RecencyFallbackGlobal)

	v.SetDefault("extraction.command", d.Extraction.Command)
	v.SetDefault("extraction.args", d.Extraction.Args)
	v.SetDefault("extraction.timeout_seconds", d.Extraction.TimeoutSeconds)

	v.SetDefault("transcript.max_chars", d.Transcript.MaxChars)

	v.SetDefault("vector_store.provider", d.VectorStore.Provider)
	v.SetDefault("vector_store.target", d.VectorStore.Target)

	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.target", d.Embedding.Target)
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.dimensions", d.Embedding.Dimensions)

	v.SetDefault("serve.listen", d.Serve.Listen)
}
