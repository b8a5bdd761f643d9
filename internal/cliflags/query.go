package cliflags

import (
	"github.com/isometry/fwboot/pkg/config"
)

// QueryFlags returns one flag per bootstrap parameter, named as the
// parameter and showing its default.
func QueryFlags() FlagValues {
	d := config.DefaultQuery()

	return FlagValues{
		"panorama_ip": {
			Alias:        "pp",
			Kind:         FlagKindString,
			DefaultValue: "",
			Usage:        "Panorama management address (required)",
		},
		"username": {
			Shorthand:    "u",
			Kind:         FlagKindString,
			DefaultValue: "",
			Usage:        "Panorama admin username, or a secret reference (required; env USERNAME)",
		},
		"password": {
			Shorthand:    "p",
			Kind:         FlagKindString,
			DefaultValue: "",
			Usage:        "Panorama admin password, or a secret reference (required; env PASSWORD)",
		},
		"panorama_private_ip": {
			Alias:        "pip",
			Kind:         FlagKindString,
			DefaultValue: "",
			Usage:        "Panorama address written into init-cfg (required)",
		},
		"storage_account_name": {
			Alias:        "sn",
			Kind:         FlagKindString,
			DefaultValue: "",
			Usage:        "Azure storage account name (required)",
		},
		"storage_account_key": {
			Alias:        "sk",
			Kind:         FlagKindString,
			DefaultValue: "",
			Usage:        "Azure storage account key, or a secret reference (required)",
		},
		"inbound_storage_share_name": {
			Alias:        "iss",
			Kind:         FlagKindString,
			DefaultValue: "",
			Usage:        "file share of the inbound firewall (required)",
		},
		"outbound_storage_share_name": {
			Alias:        "oss",
			Kind:         FlagKindString,
			DefaultValue: "",
			Usage:        "file share of the outbound firewall (required)",
		},
		"key_lifetime": {
			Kind:         FlagKindString,
			DefaultValue: d.KeyLifetime,
			Usage:        "VM auth key lifetime in hours",
		},
		"output_dir": {
			Kind:         FlagKindString,
			DefaultValue: d.OutputDir,
			Usage:        "directory for rendered configs and license bundles",
		},
		"outbound_hostname": {
			Kind:         FlagKindString,
			DefaultValue: d.OutboundHostname,
			Usage:        "hostname of the outbound firewall",
		},
		"outbound_device_group": {
			Kind:         FlagKindString,
			DefaultValue: d.OutboundDeviceGroup,
			Usage:        "device group of the outbound firewall",
		},
		"outbound_template_stack": {
			Kind:         FlagKindString,
			DefaultValue: d.OutboundTemplateStack,
			Usage:        "template stack of the outbound firewall",
		},
		"inbound_hostname": {
			Kind:         FlagKindString,
			DefaultValue: d.InboundHostname,
			Usage:        "hostname of the inbound firewall",
		},
		"inbound_device_group": {
			Kind:         FlagKindString,
			DefaultValue: d.InboundDeviceGroup,
			Usage:        "device group of the inbound firewall",
		},
		"inbound_template_stack": {
			Kind:         FlagKindString,
			DefaultValue: d.InboundTemplateStack,
			Usage:        "template stack of the inbound firewall",
		},
		"dns_server": {
			Kind:         FlagKindString,
			DefaultValue: d.DNSServer,
			Usage:        "primary DNS server of both firewalls",
		},
		"connect_attempts": {
			Kind:         FlagKindInt,
			DefaultValue: d.ConnectAttempts,
			Usage:        "maximum Panorama connection attempts",
		},
		"connect_delay": {
			Kind:         FlagKindDuration,
			DefaultValue: d.ConnectDelay,
			Usage:        "delay between Panorama connection attempts",
		},
		"timeout": {
			Shorthand:    "t",
			Kind:         FlagKindDuration,
			DefaultValue: d.Timeout,
			Usage:        "timeout of each Panorama request (0 disables)",
		},
		"verify_tls": {
			Kind:         FlagKindBool,
			DefaultValue: false,
			Usage:        "verify the Panorama TLS certificate",
		},
		"az_binary": {
			Kind:         FlagKindString,
			DefaultValue: d.AzBinary,
			Usage:        "Azure CLI executable",
		},
	}
}

// RenderFlags returns the subset of QueryFlags used to render a single
// init-cfg offline.
func RenderFlags() FlagValues {
	all := QueryFlags()
	out := make(FlagValues)
	for _, name := range []string{
		"panorama_private_ip",
		"output_dir",
		"outbound_hostname",
		"outbound_device_group",
		"outbound_template_stack",
		"inbound_hostname",
		"inbound_device_group",
		"inbound_template_stack",
		"dns_server",
	} {
		out[name] = all[name]
	}
	return out
}
