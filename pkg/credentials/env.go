package credentials

import (
	"context"
	"fmt"
	"os"
)

const SchemeEnv = "env"

// Env reads secrets from environment variables.
type Env struct{}

func (Env) Scheme() string {
	return SchemeEnv
}

func (Env) Fetch(_ context.Context, ref Reference) (string, error) {
	value, ok := os.LookupEnv(ref.Path)
	if !ok {
		return "", fmt.Errorf("environment variable %s is not set", ref.Path)
	}
	return value, nil
}
