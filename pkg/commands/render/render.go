package render

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/isometry/fwboot/internal/cliflags"
	"github.com/isometry/fwboot/pkg/commands/shared"
	"github.com/isometry/fwboot/pkg/config"
	"github.com/isometry/fwboot/pkg/initcfg"
	"github.com/isometry/fwboot/pkg/utils"
)

var renderFlags = cliflags.Merge(
	cliflags.ConfigFlags(),
	cliflags.RenderFlags(),
	cliflags.FlagValues{
		"role": {
			Shorthand:    "r",
			Kind:         cliflags.FlagKindString,
			DefaultValue: string(initcfg.RoleInbound),
			Usage:        "firewall role (inbound, outbound)",
		},
		"vm_auth_key": {
			Shorthand:    "k",
			Kind:         cliflags.FlagKindString,
			DefaultValue: "",
			Usage:        "VM auth key to embed (required)",
		},
		"write": {
			Shorthand:    "w",
			Kind:         cliflags.FlagKindBool,
			DefaultValue: false,
			Usage:        "write to <output_dir>/upload instead of stdout",
		},
	},
)

func New() *cobra.Command {
	v := shared.NewViper()

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one init-cfg offline",
		Long: `Render the init-cfg of one firewall for a known VM auth key without
contacting Panorama.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return shared.Setup(cmd, v)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, v)
		},
	}

	renderFlags.Register(cmd.Flags(), true)

	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper) error {
	log := utils.ContextLogger(cmd.Context(), slog.String("context", "render"))

	role, err := initcfg.ParseRole(v.GetString("role"))
	if err != nil {
		return &config.ValidationError{Invalid: []string{"role"}, Err: err}
	}

	key := v.GetString("vm_auth_key")
	if key == "" {
		return &config.ValidationError{Missing: []string{"vm_auth_key"}}
	}

	q := config.DefaultQuery()
	for _, field := range []struct {
		key string
		dst *string
	}{
		{"panorama_private_ip", &q.PanoramaPrivateIP},
		{"output_dir", &q.OutputDir},
		{"outbound_hostname", &q.OutboundHostname},
		{"outbound_device_group", &q.OutboundDeviceGroup},
		{"outbound_template_stack", &q.OutboundTemplateStack},
		{"inbound_hostname", &q.InboundHostname},
		{"inbound_device_group", &q.InboundDeviceGroup},
		{"inbound_template_stack", &q.InboundTemplateStack},
		{"dns_server", &q.DNSServer},
	} {
		if v.IsSet(field.key) {
			*field.dst = utils.Coalesce(v.GetString(field.key), *field.dst)
		}
	}
	if q.PanoramaPrivateIP == "" {
		return &config.ValidationError{Missing: []string{"panorama_private_ip"}}
	}

	doc := initcfg.NewDocument(role, q.InitCfg(role, key))

	if !v.GetBool("write") {
		_, err := fmt.Fprint(cmd.OutOrStdout(), doc.Text)
		return err
	}

	path, err := initcfg.Write(q.OutputDir, doc)
	if err != nil {
		log.Error("failed to write init-cfg", "error", err)
		return err
	}
	log.Info("rendered init-cfg", slog.String("role", string(role)), slog.String("path", path))

	_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
	return err
}
