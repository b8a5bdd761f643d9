package output

import (
	"encoding/json"

	"github.com/isometry/fwboot/pkg/bootstrap"
)

func init() {
	RegisterFormatter("json", &JSONFormatter{})
}

// JSONFormatter formats bootstrap results as JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(result *bootstrap.Result, cfg Config) ([]byte, error) {
	if cfg.Compact {
		return json.Marshal(result)
	}
	return json.MarshalIndent(result, "", "  ")
}
