package credentials

import (
	"context"
	"log/slog"
	"sync"

	"github.com/isometry/fwboot/pkg/utils"
)

// Manager dispatches references to the Source registered for their scheme.
type Manager struct {
	mu      sync.RWMutex
	sources map[string]Source
}

func NewManager(sources ...Source) *Manager {
	m := &Manager{sources: make(map[string]Source, len(sources))}
	for _, s := range sources {
		m.Register(s)
	}
	return m
}

// Default returns a Manager with every built-in Source. Backend clients
// are created on first use, so unused backends need no configuration.
func Default() *Manager {
	return NewManager(
		Env{},
		&Vault{},
		&AWSSecretsManager{},
		&AWSParameterStore{},
		&K8sSecret{},
		&K8sConfigMap{},
	)
}

func (m *Manager) Register(s Source) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[s.Scheme()] = s
}

func (m *Manager) source(scheme string) (Source, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sources[scheme]
	return s, ok
}

func (m *Manager) isScheme(scheme string) bool {
	_, ok := m.source(scheme)
	return ok
}

// IsReference reports whether value would be resolved rather than passed through.
func (m *Manager) IsReference(value string) bool {
	_, ok := parseReference(value, m.isScheme)
	return ok
}

func (m *Manager) Resolve(ctx context.Context, value string) (string, error) {
	ref, ok := parseReference(value, m.isScheme)
	if !ok {
		return value, nil
	}

	log := utils.ContextLogger(ctx, slog.String("context", "credentials"), slog.Any("ref", ref))
	log.Debug("resolving secret reference")

	source, _ := m.source(ref.Scheme)
	secret, err := source.Fetch(ctx, ref)
	if err != nil {
		return "", &ResolveError{Ref: ref, Err: err}
	}

	log.Info("resolved secret reference")
	return secret, nil
}
