// Package initcfg renders the PAN-OS bootstrap init-cfg.txt document.
//
// Addressing fields are intentionally left blank so that the firewall
// obtains them via DHCP at first boot.
package initcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

const (
	// UploadDir is the subdirectory of the output directory holding rendered documents.
	UploadDir = "upload"

	RoleInbound  Role = "inbound"
	RoleOutbound Role = "outbound"
)

// Role identifies which firewall of the pair a document is for.
type Role string

// Roles lists the firewall roles in the order they are provisioned.
var Roles = []Role{RoleInbound, RoleOutbound}

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleInbound, RoleOutbound:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q (expected %s or %s)", s, RoleInbound, RoleOutbound)
	}
}

// FileName is the local name a role's document is written under.
func (r Role) FileName() string {
	return fmt.Sprintf("init-cfg-%s.txt", r)
}

type Params struct {
	Hostname       string
	VMAuthKey      string
	DeviceGroup    string
	TemplateStack  string
	PanoramaServer string
	DNSPrimary     string
}

var initCfg = template.Must(template.New("init-cfg").Parse(`
ip-address=
default-gateway=
netmask=
ipv6-address=
ipv6-default-gateway=
hostname={{ .Hostname }}
vm-auth-key={{ .VMAuthKey }}
panorama-server={{ .PanoramaServer }}
tplname={{ .TemplateStack }}
dgname={{ .DeviceGroup }}
dns-primary={{ .DNSPrimary }}
dhcp-send-hostname=yes
dhcp-send-client-id=yes
dhcp-accept-server-hostname=yes
dhcp-accept-server-domain=yes
`))

// Render produces the init-cfg document for p.
func Render(p Params) string {
	var b strings.Builder
	// executing a parsed template over a struct of strings cannot fail
	_ = initCfg.Execute(&b, p)
	return b.String()
}

// Document is a rendered init-cfg for one role.
type Document struct {
	Role Role
	Text string
}

func NewDocument(role Role, p Params) Document {
	return Document{Role: role, Text: Render(p)}
}

// Write stores doc under <outputDir>/upload, creating the directory if
// needed, and returns the file path.
func Write(outputDir string, doc Document) (string, error) {
	dir := filepath.Join(outputDir, UploadDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	path := filepath.Join(dir, doc.Role.FileName())
	if err := os.WriteFile(path, []byte(doc.Text), 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
