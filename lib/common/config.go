package common

import (
	"fmt"
	"strings"
)

// DefaultMaxDepth bounds the nesting of decoded node trees
const DefaultMaxDepth = 1024

// Config holds the settings of one csav invocation.
type Config struct {
	// Logging configuration
	LogLevel string

	// Output settings
	Color  bool
	Format string // "text" or "yaml"

	// Object decoding
	BlueprintFile string // YAML file with the class blueprints
	NamesNode     string // name of the node holding the serialized name pool

	// Node tree decoding
	MaxDepth int

	// Print the process metrics after the command finished
	Metrics bool
}

// DefaultConfig returns the configuration used when no flags are given
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "warn",
		Format:    "text",
		NamesNode: "names",
		MaxDepth:  DefaultMaxDepth,
	}
}

// Validate checks the values that can not be checked by the flag parser
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Format {
	case "text", "yaml":
	default:
		return fmt.Errorf("invalid format %s (expected text or yaml)", c.Format)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("max depth must be positive, got %d", c.MaxDepth)
	}
	return nil
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	addSection("Output")
	addField("Format", c.Format)
	addField("Color", fmt.Sprintf("%t", c.Color))
	addField("Metrics", fmt.Sprintf("%t", c.Metrics))

	addSection("Decoding")
	addField("Max Depth", fmt.Sprintf("%d", c.MaxDepth))
	addField("Names Node", c.NamesNode)
	if c.BlueprintFile != "" {
		addField("Blueprints", c.BlueprintFile)
	} else {
		addField("Blueprints", "(none)")
	}

	return sb.String()
}
