// Package authkey discovers or generates the Panorama VM auth key that
// firewalls present on first contact.
//
// Keys are reused unconditionally: if the endpoint reports any previously
// generated key, it is returned as-is without an expiry check. A new key is
// requested only when none exists, which keeps repeated bootstrap runs from
// minting redundant keys.
package authkey

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/isometry/fwboot/pkg/panorama"
	"github.com/isometry/fwboot/pkg/utils"
)

const (
	DefaultLifetime = "8759"

	showCmd     = "<request><bootstrap><vm-auth-key><show></show></vm-auth-key></bootstrap></request>"
	generateCmd = "<request><bootstrap><vm-auth-key><generate><lifetime>%s</lifetime></generate></vm-auth-key></bootstrap></request>"

	generatedLabel = "VM auth key"
)

var generatedPattern = regexp.MustCompile(generatedLabel + `\s+(\d+)\b`)

// Key is a resolved VM auth key.
type Key struct {
	Value string
	// Created is true when this run generated the key.
	Created bool
}

func (k Key) String() string {
	return k.Value
}

// FormatError is returned when a successful generate response does not
// carry a key in the expected format.
type FormatError struct {
	Raw []byte
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("generate response does not contain %q followed by a numeric key", generatedLabel)
}

type Manager struct {
	Session panorama.Session
}

func NewManager(session panorama.Session) *Manager {
	return &Manager{Session: session}
}

type showResult struct {
	Keys []string `xml:"result>bootstrap-vm-auth-keys>entry>vm-auth-key"`
}

// Show returns the most recently generated key, or "" if none exists.
func (m *Manager) Show(ctx context.Context) (string, error) {
	resp, err := m.op(ctx, "show vm-auth-key", showCmd)
	if err != nil {
		return "", err
	}

	var result showResult
	if err := xml.Unmarshal(resp.Raw, &result); err != nil {
		return "", &panorama.RemoteOperationError{Op: "show vm-auth-key", Raw: resp.Raw, Err: err}
	}
	if len(result.Keys) == 0 {
		return "", nil
	}

	return strings.TrimSpace(result.Keys[0]), nil
}

// Generate requests a new key valid for lifetime hours.
func (m *Manager) Generate(ctx context.Context, lifetime string) (string, error) {
	const name = "generate vm-auth-key"
	resp, err := m.op(ctx, name, fmt.Sprintf(generateCmd, lifetime))
	if err != nil {
		return "", err
	}
	key, err := ParseGenerated(resp.Raw)
	if err != nil {
		return "", &panorama.RemoteOperationError{Op: name, Raw: resp.Raw, Err: err}
	}
	return key, nil
}

// Ensure returns the existing key if there is one, otherwise generates a
// new key with the given lifetime.
func (m *Manager) Ensure(ctx context.Context, lifetime string) (Key, error) {
	log := utils.ContextLogger(ctx, slog.String("context", "authkey"))

	existing, err := m.Show(ctx)
	if err != nil {
		return Key{}, err
	}
	if existing != "" {
		log.Info("reusing existing vm-auth-key")
		return Key{Value: existing}, nil
	}

	log.Info("no vm-auth-key found, generating", slog.String("lifetime", lifetime))
	generated, err := m.Generate(ctx, lifetime)
	if err != nil {
		return Key{}, err
	}
	return Key{Value: generated, Created: true}, nil
}

// ParseGenerated extracts the key from a generate response body.
func ParseGenerated(raw []byte) (string, error) {
	match := generatedPattern.FindSubmatch(raw)
	if match == nil {
		return "", &FormatError{Raw: raw}
	}
	return string(match[1]), nil
}

func (m *Manager) op(ctx context.Context, name, cmd string) (*panorama.Response, error) {
	resp, err := m.Session.Op(ctx, cmd)
	if err != nil {
		return nil, &panorama.RemoteOperationError{Op: name, Err: err}
	}
	if !resp.OK() {
		return nil, &panorama.RemoteOperationError{Op: name, Raw: resp.Raw}
	}
	return resp, nil
}
