package output

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/isometry/fwboot/pkg/bootstrap"
)

func init() {
	RegisterFormatter("yaml", &YAMLFormatter{})
}

// YAMLFormatter formats bootstrap results as YAML.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(result *bootstrap.Result, _ Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
