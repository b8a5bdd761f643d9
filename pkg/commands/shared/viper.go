// Package shared provides common utilities for the bootstrap commands.
package shared

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/isometry/fwboot/internal/cliflags"
	"github.com/isometry/fwboot/pkg/config"
	"github.com/isometry/fwboot/pkg/utils"
)

// EnvPrefix prefixes every environment variable read by the commands.
const EnvPrefix = "FWBOOT"

// NewViper returns a viper reading FWBOOT_* environment variables. The
// credentials additionally fall back to the bare USERNAME and PASSWORD
// variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("username", EnvPrefix+"_USERNAME", "USERNAME")
	_ = v.BindEnv("password", EnvPrefix+"_PASSWORD", "PASSWORD")

	return v
}

// Setup binds the command flags to v and merges in the optional config
// file named by the config flags.
func Setup(cmd *cobra.Command, v *viper.Viper) error {
	cliflags.BindFlags(cmd, v)
	return ReadConfig(cmd.Context(), v)
}

// ReadConfig reads the config file if one exists. A missing file is not
// an error.
func ReadConfig(ctx context.Context, v *viper.Viper) error {
	log := utils.ContextLogger(ctx, slog.String("context", "config"))

	paths, name := cliflags.ConfigPaths(v)
	if name == "" {
		return nil
	}

	v.SetConfigName(name)
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Debug("no config file", slog.Any("paths", paths), slog.String("name", name))
			return nil
		}
		log.Error("failed to read config file", "error", err)
		return &config.ValidationError{Err: err}
	}

	log.Info("config file loaded", slog.String("file", v.ConfigFileUsed()))
	return nil
}
