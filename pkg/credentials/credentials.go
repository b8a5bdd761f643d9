// Package credentials resolves secret references given in place of
// literal values, so that passwords and storage keys need not be passed on
// the command line or in Terraform state.
//
// A reference has the form <scheme>:<path>[#<key>]. Values whose prefix is
// not a registered scheme are returned unchanged.
//
//	env:PANORAMA_PASSWORD
//	vault:secret/panorama#password
//	aws-sm:prod/panorama#password
//	aws-ssm:/prod/storage/key
//	k8s-secret:infra/panorama-admin#password
//	k8s-cm:infra/bootstrap#username
package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Reference identifies a secret held by a Source.
type Reference struct {
	Scheme string
	Path   string
	Key    string
}

func (r Reference) String() string {
	if r.Key == "" {
		return r.Scheme + ":" + r.Path
	}
	return r.Scheme + ":" + r.Path + "#" + r.Key
}

func (r Reference) LogValue() slog.Value {
	return slog.StringValue(r.String())
}

// Source fetches secrets for a single scheme.
type Source interface {
	Scheme() string
	Fetch(ctx context.Context, ref Reference) (string, error)
}

// Resolver turns a value that may be a reference into a literal.
type Resolver interface {
	Resolve(ctx context.Context, value string) (string, error)
}

// ResolveError reports which reference could not be resolved.
type ResolveError struct {
	Ref Reference
	Err error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("failed to resolve %s: %v", e.Ref, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// parseReference splits value into a Reference if its prefix is one of schemes.
func parseReference(value string, schemes func(string) bool) (Reference, bool) {
	scheme, rest, ok := strings.Cut(value, ":")
	if !ok || !schemes(scheme) || rest == "" {
		return Reference{}, false
	}
	path, key, _ := strings.Cut(rest, "#")
	return Reference{Scheme: scheme, Path: path, Key: key}, true
}

// splitNamespaced splits "namespace/name".
func splitNamespaced(path string) (namespace, name string, err error) {
	namespace, name, ok := strings.Cut(path, "/")
	if !ok || namespace == "" || name == "" {
		return "", "", fmt.Errorf("expected <namespace>/<name>, got %q", path)
	}
	return namespace, name, nil
}
