// Package config defines the bootstrap query: the complete, validated set
// of parameters for one provisioning run.
//
// A Query is built once from a flat map (Terraform external data), from
// viper (flags, FWBOOT_* environment, config file) or both, and is not
// modified afterwards. Required fields are checked before any network or
// filesystem access; optional fields left empty take their documented
// defaults.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mcuadros/go-defaults"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/isometry/fwboot/pkg/credentials"
	"github.com/isometry/fwboot/pkg/initcfg"
	"github.com/isometry/fwboot/pkg/retry"
	"github.com/isometry/fwboot/pkg/utils"
)

// LicenseSubdir is the subdirectory of the output directory holding license bundles.
const LicenseSubdir = "license"

type Query struct {
	PanoramaIP               string `mapstructure:"panorama_ip" validate:"required"`
	Username                 string `mapstructure:"username" validate:"required"`
	Password                 string `mapstructure:"password" validate:"required"`
	PanoramaPrivateIP        string `mapstructure:"panorama_private_ip" validate:"required"`
	StorageAccountName       string `mapstructure:"storage_account_name" validate:"required"`
	StorageAccountKey        string `mapstructure:"storage_account_key" validate:"required"`
	InboundStorageShareName  string `mapstructure:"inbound_storage_share_name" validate:"required"`
	OutboundStorageShareName string `mapstructure:"outbound_storage_share_name" validate:"required"`

	KeyLifetime           string `mapstructure:"key_lifetime" default:"8759" validate:"numeric"`
	OutputDir             string `mapstructure:"output_dir"`
	OutboundHostname      string `mapstructure:"outbound_hostname" default:"outside-fw"`
	OutboundDeviceGroup   string `mapstructure:"outbound_device_group" default:"OUTBOUND"`
	OutboundTemplateStack string `mapstructure:"outbound_template_stack" default:"OUTBOUND"`
	InboundHostname       string `mapstructure:"inbound_hostname" default:"inside-fw"`
	InboundDeviceGroup    string `mapstructure:"inbound_device_group" default:"INBOUND"`
	InboundTemplateStack  string `mapstructure:"inbound_template_stack" default:"INBOUND"`
	DNSServer             string `mapstructure:"dns_server" default:"8.8.8.8"`

	ConnectAttempts int           `mapstructure:"connect_attempts" default:"60" validate:"gte=0"`
	ConnectDelay    time.Duration `mapstructure:"connect_delay" default:"30s" validate:"gte=0"`
	VerifyTLS       bool          `mapstructure:"verify_tls"`
	Timeout         time.Duration `mapstructure:"timeout" default:"30s" validate:"gte=0"`
	AzBinary        string        `mapstructure:"az_binary" default:"az"`
}

// Keys lists every recognised parameter name.
func Keys() []string {
	return utils.TagNames("mapstructure", Query{})
}

// RequiredKeys lists the parameters that have no default.
func RequiredKeys() []string {
	var keys []string
	t := reflect.TypeOf(Query{})
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if slices.Contains(strings.Split(field.Tag.Get("validate"), ","), "required") {
			keys = append(keys, utils.TagLookup("mapstructure", field))
		}
	}
	return keys
}

// Defaults returns the default value of every optional parameter, as the
// string a user would supply.
func Defaults() map[string]string {
	q := DefaultQuery()

	out := make(map[string]string)
	v := reflect.ValueOf(q).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		key := utils.TagLookup("mapstructure", field)
		if key == "" || slices.Contains(RequiredKeys(), key) {
			continue
		}
		out[key] = fmt.Sprint(v.Field(i).Interface())
	}
	return out
}

// DefaultQuery returns a Query with only the defaults applied.
func DefaultQuery() *Query {
	q := &Query{}
	defaults.SetDefaults(q)
	q.OutputDir = workingDir()
	return q
}

func workingDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}

// ValidationError is returned when parameters are missing or malformed.
type ValidationError struct {
	Missing []string
	Invalid []string
	Err     error
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing required argument(s): %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, fmt.Sprintf("invalid argument(s): %s", strings.Join(e.Invalid, ", ")))
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return utils.TagLookup("mapstructure", field)
	})
	return v
}()

// FromMap builds a Query from named parameters. Values may be strings (as
// supplied by Terraform) or native types.
func FromMap(ctx context.Context, params map[string]any) (*Query, error) {
	log := utils.ContextLogger(ctx, slog.String("context", "config"))

	q := &Query{}
	defaults.SetDefaults(q)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           q,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(params); err != nil {
		log.Error("failed to decode parameters", "error", err)
		return nil, &ValidationError{Err: err}
	}

	q.trim()
	q.fillBlank()
	q.OutputDir = utils.Coalesce(q.OutputDir, workingDir())

	if err := q.Validate(); err != nil {
		log.Error("invalid parameters", "error", err)
		return nil, err
	}

	log.Debug("parameters loaded", slog.Any("query", q))
	return q, nil
}

// FromViper builds a Query from the keys set in v, ignoring unset flag
// defaults so that the Query defaults apply.
func FromViper(ctx context.Context, v *viper.Viper) (*Query, error) {
	params := make(map[string]any)
	for _, key := range Keys() {
		if v.IsSet(key) {
			params[key] = v.Get(key)
		}
	}
	return FromMap(ctx, params)
}

func (q *Query) trim() {
	v := reflect.ValueOf(q).Elem()
	for i := 0; i < v.NumField(); i++ {
		if f := v.Field(i); f.Kind() == reflect.String {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}

// fillBlank restores the default of string fields supplied as blank.
// Non-string fields keep whatever was decoded, zero included.
func (q *Query) fillBlank() {
	v := reflect.ValueOf(q).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(t.Field(i).Tag.Get("default"))
		}
	}
}

// Validate reports every missing and malformed field at once.
func (q *Query) Validate() error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Err: err}
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			verr.Missing = append(verr.Missing, fe.Field())
		} else {
			verr.Invalid = append(verr.Invalid, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
	}
	return verr
}

// ResolveSecrets returns a copy of q with secret references in the
// credential fields replaced by their values.
func (q *Query) ResolveSecrets(ctx context.Context, resolver credentials.Resolver) (*Query, error) {
	resolved := *q
	for _, field := range []*string{&resolved.Username, &resolved.Password, &resolved.StorageAccountKey} {
		value, err := resolver.Resolve(ctx, *field)
		if err != nil {
			return nil, &ValidationError{Err: err}
		}
		*field = value
	}
	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	return &resolved, nil
}

// RetryPolicy is the connect retry policy requested by the query.
func (q *Query) RetryPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: q.ConnectAttempts, Delay: q.ConnectDelay}
}

// LicenseDir is where license bundles are picked up from.
func (q *Query) LicenseDir() string {
	return filepath.Join(q.OutputDir, LicenseSubdir)
}

// RoleParams is the per-firewall view of a Query.
type RoleParams struct {
	Role          initcfg.Role
	Hostname      string
	DeviceGroup   string
	TemplateStack string
	Share         string
}

// Role returns the view of role. It panics on a role outside
// initcfg.Roles; parse untrusted input with initcfg.ParseRole first.
func (q *Query) Role(role initcfg.Role) RoleParams {
	switch role {
	case initcfg.RoleOutbound:
		return RoleParams{
			Role:          role,
			Hostname:      q.OutboundHostname,
			DeviceGroup:   q.OutboundDeviceGroup,
			TemplateStack: q.OutboundTemplateStack,
			Share:         q.OutboundStorageShareName,
		}
	case initcfg.RoleInbound:
		return RoleParams{
			Role:          role,
			Hostname:      q.InboundHostname,
			DeviceGroup:   q.InboundDeviceGroup,
			TemplateStack: q.InboundTemplateStack,
			Share:         q.InboundStorageShareName,
		}
	default:
		panic(fmt.Sprintf("config: unknown role %q", role))
	}
}

// InitCfg returns the renderer inputs for role with the given key.
func (q *Query) InitCfg(role initcfg.Role, vmAuthKey string) initcfg.Params {
	r := q.Role(role)
	return initcfg.Params{
		Hostname:       r.Hostname,
		VMAuthKey:      vmAuthKey,
		DeviceGroup:    r.DeviceGroup,
		TemplateStack:  r.TemplateStack,
		PanoramaServer: q.PanoramaPrivateIP,
		DNSPrimary:     q.DNSServer,
	}
}

func (q *Query) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("panoramaIP", q.PanoramaIP),
		slog.String("panoramaPrivateIP", q.PanoramaPrivateIP),
		slog.String("username", q.Username),
		slog.String("password", "[redacted]"),
		slog.String("storageAccountName", q.StorageAccountName),
		slog.String("storageAccountKey", "[redacted]"),
		slog.String("inboundShare", q.InboundStorageShareName),
		slog.String("outboundShare", q.OutboundStorageShareName),
		slog.String("keyLifetime", q.KeyLifetime),
		slog.String("outputDir", q.OutputDir),
		slog.String("dnsServer", q.DNSServer),
	)
}
