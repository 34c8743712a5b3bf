package config

const (
	// DefaultRetrievalQuery is the fixed, broad query used by the
	// start-of-session retrieval path where no user query text exists.
	// It is a heuristic, not a tuned constant; override via retrieval.query.
	DefaultRetrievalQuery = "project conventions decisions gotchas architecture"

	defaultTokenBudget       = 2000
	defaultRetrievalNResults = 5

	defaultExtractionCommand = "claude"
	defaultExtractionTimeout = 85

	defaultTranscriptMaxChars = 50_000

	defaultVectorProvider = "sqlite"

	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "embeddinggemma"
	defaultEmbeddingDimensions = 768

	defaultServeListen = ":8169"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		TokenBudget: defaultTokenBudget,
		Retrieval: RetrievalConfig{
			NResults:              defaultRetrievalNResults,
			Query:                 DefaultRetrievalQuery,
			RecencyFallbackGlobal: true,
		},
		Extraction: ExtractionConfig{
			Command:        defaultExtractionCommand,
			Args:           []string{"-p"},
			TimeoutSeconds: defaultExtractionTimeout,
		},
		Transcript: TranscriptConfig{
			MaxChars: defaultTranscriptMaxChars,
		},
		VectorStore: VectorStoreConfig{
			Provider: defaultVectorProvider,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		Serve: ServeConfig{
			Listen: defaultServeListen,
		},
	}
}
