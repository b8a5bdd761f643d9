package bootstrap

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/isometry/fwboot/internal/output"
	"github.com/isometry/fwboot/pkg/bootstrap"
	"github.com/isometry/fwboot/pkg/commands/shared"
	"github.com/isometry/fwboot/pkg/config"
	"github.com/isometry/fwboot/pkg/credentials"
	"github.com/isometry/fwboot/pkg/utils"
)

func New() *cobra.Command {
	v := shared.NewViper()

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Bootstrap a firewall pair against Panorama",
		Long: `Ensure a VM auth key exists on Panorama, render the init-cfg of both
firewalls and upload them to their Azure file shares.

When a key already exists it is reused and nothing is rendered or uploaded.
License bundles found in <output_dir>/license are uploaded on every run.

Every flag may also be set in the config file or as FWBOOT_<FLAG>.
Credentials accept secret references (env:, vault:, aws-sm:, aws-ssm:,
k8s-secret:, k8s-cm:).`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return shared.Setup(cmd, v)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, v)
		},
	}

	bootstrapFlags.Register(cmd.Flags(), true)

	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper) error {
	ctx := cmd.Context()
	log := utils.ContextLogger(ctx, slog.String("context", "bootstrap"))

	q, err := config.FromViper(ctx, v)
	if err != nil {
		return err
	}

	q, err = q.ResolveSecrets(ctx, credentials.Default())
	if err != nil {
		log.Error("failed to resolve credentials", "error", err)
		return err
	}

	result, err := bootstrap.New(q).Run(ctx, q)
	if err != nil {
		log.Error("bootstrap failed", "error", err)
		return err
	}

	return output.Print(cmd.OutOrStdout(), result, output.ConfigFromViper(v))
}
