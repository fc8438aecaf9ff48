package cli

// Config holds all CLI configuration, making it testable and eliminating
// globals.
type Config struct {
	ConfigFile string
	Verbosity  string
	Version    string

	// RequiredAliases is enforced at registry build; empty means any merge
	// result is acceptable.
	RequiredAliases []string
}

// NewConfig creates a new CLI configuration with defaults
func NewConfig() *Config {
	return &Config{
		Verbosity: "info",
		Version:   "dev",
	}
}
