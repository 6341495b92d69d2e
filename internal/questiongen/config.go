package questiongen

// Config controls the generation call made by the Generator.
type Config struct {
	// MaxTokens is the token budget for the model response.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns the settings every paper is generated with.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   700,
		Temperature: 0.3,
	}
}
