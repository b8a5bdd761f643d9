package cliflags

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	merged := Merge(ConfigFlags(), OutputFlags())
	assert.Len(t, merged, 4)
	assert.Contains(t, merged, "config_path")
	assert.Contains(t, merged, "output_format")
}

func TestExpandAliases(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "separate value",
			args: []string{"-pp", "1.2.3.4", "-pip", "10.0.0.4"},
			want: []string{"--panorama_ip", "1.2.3.4", "--panorama_private_ip", "10.0.0.4"},
		},
		{
			name: "inline value",
			args: []string{"-iss=ib", "-oss=ob"},
			want: []string{"--inbound_storage_share_name=ib", "--outbound_storage_share_name=ob"},
		},
		{
			name: "single letter untouched",
			args: []string{"-u", "admin", "-p", "secret"},
			want: []string{"-u", "admin", "-p", "secret"},
		},
		{
			name: "after terminator untouched",
			args: []string{"-sn", "acct", "--", "-sk"},
			want: []string{"--storage_account_name", "acct", "--", "-sk"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandAliases(tt.args, QueryFlags()))
		})
	}
}

func TestQueryFlagsRegister(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetNormalizeFunc(NormalizeUnderscore)
	QueryFlags().Register(fs, true)

	require.NoError(t, fs.Parse([]string{
		"--panorama-ip", "1.2.3.4",
		"-u", "admin",
		"--connect_attempts", "5",
		"--connect-delay", "2s",
		"--verify-tls",
	}))

	ip, _ := fs.GetString("panorama_ip")
	assert.Equal(t, "1.2.3.4", ip)
	user, _ := fs.GetString("username")
	assert.Equal(t, "admin", user)
	attempts, _ := fs.GetInt("connect_attempts")
	assert.Equal(t, 5, attempts)
	delay, _ := fs.GetDuration("connect_delay")
	assert.Equal(t, 2*time.Second, delay)
	verify, _ := fs.GetBool("verify_tls")
	assert.True(t, verify)

	lifetime := fs.Lookup("key_lifetime")
	require.NotNil(t, lifetime)
	assert.Equal(t, "8759", lifetime.DefValue)
}

func TestRenderFlags(t *testing.T) {
	flags := RenderFlags()
	assert.Contains(t, flags, "panorama_private_ip")
	assert.NotContains(t, flags, "password")
}

func TestBindFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	ConfigFlags().Register(cmd.Flags(), false)
	require.NoError(t, cmd.Flags().Parse([]string{"--config_name", "custom"}))

	v := viper.New()
	BindFlags(cmd, v)

	paths, name := ConfigPaths(v)
	assert.Equal(t, []string{".", "/config"}, paths)
	assert.Equal(t, "custom", name)
}
