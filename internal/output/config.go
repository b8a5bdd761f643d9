package output

import (
	"github.com/spf13/viper"
)

// DefaultFormat is the default output format.
const DefaultFormat = "text"

// Config holds configuration for formatting a bootstrap result.
type Config struct {
	Format  string // output format (text, json, yaml)
	Compact bool
}

// ConfigFromViper creates a Config from the common output flags.
func ConfigFromViper(v *viper.Viper) Config {
	format := v.GetString("output_format")
	if format == "" {
		format = DefaultFormat
	}

	return Config{
		Format:  format,
		Compact: v.GetBool("compact"),
	}
}
