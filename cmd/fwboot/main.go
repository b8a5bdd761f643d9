package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/isometry/fwboot/pkg/commands/bootstrap"
	"github.com/isometry/fwboot/pkg/commands/root"
	"github.com/isometry/fwboot/pkg/utils"
)

var (
	version string = "snapshot"
	commit  string = "unknown"
	date    string = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer utils.CancelContext(cancel)

	cmd := root.New()
	cmd.Version = fmt.Sprintf("%s-%s (built %s)", version, commit, date)
	cmd.SetArgs(bootstrap.ExpandAliases(os.Args[1:]))

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		utils.CancelContext(cancel)
		os.Exit(root.ExitCode(err))
	}
}
