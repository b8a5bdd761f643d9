package initcfg_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isometry/fwboot/internal/testutil"
	"github.com/isometry/fwboot/pkg/initcfg"
)

var inbound = initcfg.Params{
	Hostname:       "inside-fw",
	VMAuthKey:      "012345678910",
	DeviceGroup:    "INBOUND",
	TemplateStack:  "INBOUND",
	PanoramaServer: "10.10.10.10",
	DNSPrimary:     "8.8.8.8",
}

func TestRenderGolden(t *testing.T) {
	want, err := os.ReadFile(filepath.Join(testutil.TestdataPath(t), "init-cfg-inbound.txt"))
	require.NoError(t, err)

	assert.Equal(t, string(want), initcfg.Render(inbound))
}

func TestRenderDeterministic(t *testing.T) {
	first := initcfg.Render(inbound)
	for range 10 {
		assert.Equal(t, first, initcfg.Render(inbound))
	}
}

func TestRenderFields(t *testing.T) {
	doc := initcfg.Render(initcfg.Params{
		Hostname:       "outside-fw",
		VMAuthKey:      "999",
		DeviceGroup:    "OUTBOUND-DG",
		TemplateStack:  "OUTBOUND-TS",
		PanoramaServer: "172.16.0.4",
		DNSPrimary:     "1.1.1.1",
	})

	lines := strings.Split(doc, "\n")
	assert.Contains(t, lines, "hostname=outside-fw")
	assert.Contains(t, lines, "vm-auth-key=999")
	assert.Contains(t, lines, "panorama-server=172.16.0.4")
	assert.Contains(t, lines, "tplname=OUTBOUND-TS")
	assert.Contains(t, lines, "dgname=OUTBOUND-DG")
	assert.Contains(t, lines, "dns-primary=1.1.1.1")

	// addressing left to DHCP
	assert.Contains(t, lines, "ip-address=")
	assert.Contains(t, lines, "netmask=")
	assert.NotContains(t, doc, "ipv6-type")
}

func TestRenderEmptyParams(t *testing.T) {
	doc := initcfg.Render(initcfg.Params{})
	assert.Contains(t, doc, "vm-auth-key=\n")
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()

	path, err := initcfg.Write(dir, initcfg.NewDocument(initcfg.RoleOutbound, inbound))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "upload", "init-cfg-outbound.txt"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, initcfg.Render(inbound), string(content))

	// directory already present
	_, err = initcfg.Write(dir, initcfg.NewDocument(initcfg.RoleInbound, inbound))
	require.NoError(t, err)
}

func TestParseRole(t *testing.T) {
	role, err := initcfg.ParseRole(" Inbound ")
	require.NoError(t, err)
	assert.Equal(t, initcfg.RoleInbound, role)

	_, err = initcfg.ParseRole("dmz")
	assert.Error(t, err)
}
