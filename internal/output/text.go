package output

import (
	"fmt"
	"strings"

	"github.com/isometry/fwboot/pkg/bootstrap"
)

func init() {
	RegisterFormatter("text", &TextFormatter{})
}

// TextFormatter prints the result as key=value lines.
type TextFormatter struct{}

func (f *TextFormatter) Format(result *bootstrap.Result, cfg Config) ([]byte, error) {
	lines := []string{
		"vm-auth-key=" + result.VMAuthKey,
		"status=" + result.Status,
	}
	if cfg.Compact {
		return []byte(strings.Join(lines, " ")), nil
	}

	lines = append(lines, fmt.Sprintf("created=%t", result.Created))
	for _, path := range result.Configs {
		lines = append(lines, "config="+path)
	}
	for _, license := range result.Licenses {
		line := fmt.Sprintf("license=%s ok=%t", license.Share, license.OK())
		if license.Failure != "" {
			line += fmt.Sprintf(" failure=%q", license.Failure)
		}
		lines = append(lines, line)
	}
	return []byte(strings.Join(lines, "\n")), nil
}
