// Package external implements the Terraform external data source protocol:
// a JSON object of strings on stdin, a JSON object of strings on stdout.
package external

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/isometry/fwboot/pkg/bootstrap"
	"github.com/isometry/fwboot/pkg/config"
	"github.com/isometry/fwboot/pkg/credentials"
	"github.com/isometry/fwboot/pkg/utils"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "external",
		Short: "Run a bootstrap as a Terraform external data source",
		Long: `Read the bootstrap parameters as a JSON object from stdin and write
{"vm-auth-key": ..., "status": "OK"} to stdout.

Errors are reported on stderr with a non-zero exit code.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	return cmd
}

// Run executes one query read from in and writes the result to out.
func Run(cmd *cobra.Command, in io.Reader, out io.Writer) error {
	ctx := cmd.Context()
	log := utils.ContextLogger(ctx, slog.String("context", "external"))

	params, err := decodeQuery(in)
	if err != nil {
		log.Error("invalid query", "error", err)
		return err
	}

	result, err := bootstrap.RunQuery(ctx, params, credentials.Default())
	if err != nil {
		log.Error("bootstrap failed", "error", err)
		return err
	}

	return json.NewEncoder(out).Encode(result)
}

func decodeQuery(in io.Reader) (map[string]any, error) {
	var params map[string]any
	if err := json.NewDecoder(in).Decode(&params); err != nil {
		return nil, &config.ValidationError{Err: errors.Wrap(err, "failed to decode query from stdin")}
	}
	return params, nil
}
