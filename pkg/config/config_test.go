package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isometry/fwboot/pkg/credentials"
	"github.com/isometry/fwboot/pkg/initcfg"
)

func init() {
	slog.SetLogLoggerLevel(slog.LevelError)
}

func required() map[string]any {
	return map[string]any{
		"panorama_ip":                 "203.0.113.10",
		"username":                    "admin",
		"password":                    "secret",
		"panorama_private_ip":         "10.10.10.10",
		"storage_account_name":        "acct",
		"storage_account_key":         "key==",
		"inbound_storage_share_name":  "ib-share",
		"outbound_storage_share_name": "ob-share",
	}
}

func TestFromMapDefaults(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	q, err := FromMap(context.Background(), required())
	require.NoError(t, err)

	assert.Equal(t, "8759", q.KeyLifetime)
	assert.Equal(t, cwd, q.OutputDir)
	assert.Equal(t, "outside-fw", q.OutboundHostname)
	assert.Equal(t, "OUTBOUND", q.OutboundDeviceGroup)
	assert.Equal(t, "OUTBOUND", q.OutboundTemplateStack)
	assert.Equal(t, "inside-fw", q.InboundHostname)
	assert.Equal(t, "INBOUND", q.InboundDeviceGroup)
	assert.Equal(t, "INBOUND", q.InboundTemplateStack)
	assert.Equal(t, "8.8.8.8", q.DNSServer)
	assert.Equal(t, 60, q.ConnectAttempts)
	assert.Equal(t, 30*time.Second, q.ConnectDelay)
	assert.False(t, q.VerifyTLS)
	assert.Equal(t, "az", q.AzBinary)
}

func TestFromMapOverrides(t *testing.T) {
	params := required()
	params["key_lifetime"] = "8760"
	params["output_dir"] = "/tmp/out"
	params["dns_server"] = "1.1.1.1"
	params["inbound_hostname"] = "ib-fw"
	params["connect_attempts"] = "5"
	params["connect_delay"] = "2s"
	params["verify_tls"] = "true"

	q, err := FromMap(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, "8760", q.KeyLifetime)
	assert.Equal(t, "/tmp/out", q.OutputDir)
	assert.Equal(t, "1.1.1.1", q.DNSServer)
	assert.Equal(t, "ib-fw", q.InboundHostname)
	assert.Equal(t, "outside-fw", q.OutboundHostname)
	assert.Equal(t, 5, q.ConnectAttempts)
	assert.Equal(t, 2*time.Second, q.ConnectDelay)
	assert.True(t, q.VerifyTLS)
	assert.Equal(t, filepath.Join("/tmp/out", "license"), q.LicenseDir())
}

func TestFromMapEmptyOptionalUsesDefault(t *testing.T) {
	params := required()
	params["dns_server"] = "  "

	q, err := FromMap(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, "8.8.8.8", q.DNSServer)
}

func TestFromMapExplicitZeroSurvives(t *testing.T) {
	params := required()
	params["connect_attempts"] = "0"
	params["connect_delay"] = "0s"
	params["timeout"] = "0s"

	q, err := FromMap(context.Background(), params)
	require.NoError(t, err)

	assert.Zero(t, q.ConnectAttempts)
	assert.Zero(t, q.ConnectDelay)
	assert.Zero(t, q.Timeout)
	assert.Equal(t, 0, q.RetryPolicy().MaxAttempts)

	// untouched optionals still take their defaults
	assert.Equal(t, "8759", q.KeyLifetime)
	assert.Equal(t, "az", q.AzBinary)
}

func TestFromMapMissingRequired(t *testing.T) {
	for _, key := range RequiredKeys() {
		t.Run(key, func(t *testing.T) {
			params := required()
			delete(params, key)

			_, err := FromMap(context.Background(), params)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []string{key}, verr.Missing)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestFromMapReportsAllMissing(t *testing.T) {
	_, err := FromMap(context.Background(), map[string]any{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, RequiredKeys(), verr.Missing)
}

func TestFromMapInvalid(t *testing.T) {
	params := required()
	params["key_lifetime"] = "forever"

	_, err := FromMap(context.Background(), params)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, verr.Missing)
	assert.Equal(t, []string{"key_lifetime (numeric)"}, verr.Invalid)
}

func TestFromMapUndecodable(t *testing.T) {
	params := required()
	params["connect_delay"] = "soon"

	_, err := FromMap(context.Background(), params)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRequiredKeys(t *testing.T) {
	assert.Equal(t, []string{
		"panorama_ip",
		"username",
		"password",
		"panorama_private_ip",
		"storage_account_name",
		"storage_account_key",
		"inbound_storage_share_name",
		"outbound_storage_share_name",
	}, RequiredKeys())
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, "8759", d["key_lifetime"])
	assert.Equal(t, "8.8.8.8", d["dns_server"])
	assert.Equal(t, "30s", d["connect_delay"])
	assert.NotContains(t, d, "password")
}

func TestFromViper(t *testing.T) {
	v := viper.New()
	for key, value := range required() {
		v.Set(key, value)
	}
	v.Set("outbound_device_group", "EGRESS")

	q, err := FromViper(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, "EGRESS", q.OutboundDeviceGroup)
	assert.Equal(t, "INBOUND", q.InboundDeviceGroup)
}

func TestRole(t *testing.T) {
	q, err := FromMap(context.Background(), required())
	require.NoError(t, err)

	assert.Equal(t, RoleParams{
		Role:          initcfg.RoleInbound,
		Hostname:      "inside-fw",
		DeviceGroup:   "INBOUND",
		TemplateStack: "INBOUND",
		Share:         "ib-share",
	}, q.Role(initcfg.RoleInbound))

	assert.Equal(t, initcfg.Params{
		Hostname:       "outside-fw",
		VMAuthKey:      "123",
		DeviceGroup:    "OUTBOUND",
		TemplateStack:  "OUTBOUND",
		PanoramaServer: "10.10.10.10",
		DNSPrimary:     "8.8.8.8",
	}, q.InitCfg(initcfg.RoleOutbound, "123"))

	assert.Equal(t, "ob-share", q.Role(initcfg.RoleOutbound).Share)
	assert.Panics(t, func() { q.Role(initcfg.Role("sideways")) })
}

func TestResolveSecrets(t *testing.T) {
	t.Setenv("FWBOOT_TEST_PASSWORD", "from-env")

	params := required()
	params["password"] = "env:FWBOOT_TEST_PASSWORD"
	q, err := FromMap(context.Background(), params)
	require.NoError(t, err)

	resolved, err := q.ResolveSecrets(context.Background(), credentials.NewManager(credentials.Env{}))
	require.NoError(t, err)
	assert.Equal(t, "from-env", resolved.Password)
	assert.Equal(t, "key==", resolved.StorageAccountKey)
	// input query untouched
	assert.Equal(t, "env:FWBOOT_TEST_PASSWORD", q.Password)

	params["storage_account_key"] = "env:FWBOOT_TEST_UNSET"
	q, err = FromMap(context.Background(), params)
	require.NoError(t, err)
	_, err = q.ResolveSecrets(context.Background(), credentials.NewManager(credentials.Env{}))
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestLogValueRedacts(t *testing.T) {
	q, err := FromMap(context.Background(), required())
	require.NoError(t, err)

	logged := q.LogValue().String()
	assert.NotContains(t, logged, "secret")
	assert.NotContains(t, logged, "key==")
}
