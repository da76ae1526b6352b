package questiongen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// Strict drops multiple-choice records whose answers disagree with the
	// schema. When false such records are kept and only logged.
	Strict bool

	// Workers bounds the number of concurrent requests in RunAll.
	Workers int

	// Model labels records produced by this generator, typically
	// "provider/model". Defaults to the provider's model ID.
	Model string
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		Temperature: 0.7,
		Workers:     2,
	}
}
