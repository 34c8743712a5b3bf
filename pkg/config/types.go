package config

// Config represents the thehook configuration stored as thehook.yaml in the
// project root. The YAML layout uses sections for logical grouping; every
// field has a default so a missing or partial file always yields a
// fully-populated Config.
//
// The resolved Config is constructed once per CLI invocation and passed by
// reference into component constructors. No package below the command layer
// reads configuration ambiently.
type Config struct {
	// TokenBudget caps the size of assembled retrieval context, approximated
	// as four characters per token.
	TokenBudget int `mapstructure:"token_budget" yaml:"token_budget"`

	Retrieval   RetrievalConfig   `mapstructure:"retrieval" yaml:"retrieval"`
	Extraction  ExtractionConfig  `mapstructure:"extraction" yaml:"extraction"`
	Transcript  TranscriptConfig  `mapstructure:"transcript" yaml:"transcript"`
	VectorStore VectorStoreConfig `mapstructure:"vector_store" yaml:"vector_store"`
	Embedding   EmbeddingConfig   `mapstructure:"embedding" yaml:"embedding"`
	Serve       ServeConfig       `mapstructure:"serve" yaml:"serve"`
}

// RetrievalConfig holds settings for the retrieval hook and recall command.
type RetrievalConfig struct {
	// NResults is the number of candidate documents requested per query.
	NResults int `mapstructure:"n_results" yaml:"n_results"`

	// Query is the fixed query text used by the start-of-session hook,
	// where no user query is available.
	Query string `mapstructure:"query" yaml:"query"`

	// RecencyDays, when positive, restricts retrieval to sessions newer
	// than this many days.
	RecencyDays int `mapstructure:"recency_days" yaml:"recency_days"`

	// RecencyFallbackGlobal runs an unfiltered query when the recency
	// filter matches nothing.
	RecencyFallbackGlobal bool `mapstructure:"recency_fallback_global" yaml:"recency_fallback_global"`
}

// ExtractionConfig holds settings for the external extraction process.
type ExtractionConfig struct {
	// Command is the text-generation executable invoked with the
	// extraction prompt.
	Command string `mapstructure:"command" yaml:"command"`

	// Args are passed before the prompt argument.
	Args []string `mapstructure:"args" yaml:"args"`

	// TimeoutSeconds is the wall-clock budget for one extraction attempt.
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// TranscriptConfig holds transcript assembly settings.
type TranscriptConfig struct {
	// MaxChars bounds the assembled prompt text; oldest content is
	// dropped first when the bound is exceeded.
	MaxChars int `mapstructure:"max_chars" yaml:"max_chars"`
}

// VectorStoreConfig holds vector store settings.
type VectorStoreConfig struct {
	Provider string `mapstructure:"provider" yaml:"provider"`
	Target   string `mapstructure:"target" yaml:"target"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider" yaml:"provider"`
	Target     string `mapstructure:"target" yaml:"target"`
	Model      string `mapstructure:"model" yaml:"model"`
	Dimensions uint   `mapstructure:"dimensions" yaml:"dimensions"`
}

// ServeConfig holds MCP server settings.
type ServeConfig struct {
	Listen string `mapstructure:"listen" yaml:"listen"`
}
