package root

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/isometry/fwboot/internal/cliflags"
	"github.com/isometry/fwboot/pkg/commands/bootstrap"
	"github.com/isometry/fwboot/pkg/commands/external"
	"github.com/isometry/fwboot/pkg/commands/render"
	"github.com/isometry/fwboot/pkg/commands/shared"
	"github.com/isometry/fwboot/pkg/utils"
)

func New() *cobra.Command {
	v := shared.NewViper()

	cmd := &cobra.Command{
		Use:   "fwboot",
		Short: "Bootstrap Panorama-managed firewall pairs",
		Long: `fwboot provisions a pair of Panorama-managed firewalls: it ensures a
VM auth key exists, renders each firewall's init-cfg and uploads it with
any license bundles to the firewall's Azure file share.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cliflags.BindFlags(cmd, v)
			setupLogging(v)
		},
	}

	cmd.SetGlobalNormalizationFunc(cliflags.NormalizeUnderscore)

	// Persistent flags available to all subcommands
	pflags := cmd.PersistentFlags()
	pflags.String("log_format", "auto", "log format (auto|json|text)")
	pflags.Bool("debug", false, "debug mode")
	pflags.CountP("log_level", "v", "log level (-v=warn, -vv=info, -vvv=debug)")

	cmd.AddCommand(bootstrap.New())
	cmd.AddCommand(external.New())
	cmd.AddCommand(render.New())

	return cmd
}

func setupLogging(v *viper.Viper) {
	verbosity := v.GetInt("log_level")
	debugMode := v.GetBool("debug")
	logFormat := v.GetString("log_format")

	level := new(slog.LevelVar)
	level.Set(slog.LevelError - slog.Level(verbosity*4))
	if debugMode {
		level.Set(slog.LevelDebug)
	}

	handlerOpts := &slog.HandlerOptions{
		AddSource: debugMode,
		Level:     level,
	}

	// Resolve "auto" format based on TTY detection
	useJSON := logFormat == "json" || (logFormat == "auto" && !utils.IsTTY())

	var handler slog.Handler
	if useJSON {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}

	slog.SetDefault(slog.New(handler))
}
