package bootstrap

import (
	"github.com/isometry/fwboot/internal/cliflags"
)

var bootstrapFlags = cliflags.Merge(
	cliflags.ConfigFlags(),
	cliflags.QueryFlags(),
	cliflags.OutputFlags(),
)

// ExpandAliases rewrites the legacy multi-letter aliases (-pp, -pip, ...)
// accepted by the bootstrap command.
func ExpandAliases(args []string) []string {
	return cliflags.ExpandAliases(args, bootstrapFlags)
}
