// Package cliflags provides reusable flag definitions for CLI commands.
// It contains Cobra/Viper flag helpers that can be composed for different commands.
package cliflags

import (
	"maps"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/isometry/fwboot/internal/output"
)

// Flag kinds understood by BuildFlag.
const (
	FlagKindBool        = "bool"
	FlagKindCount       = "count"
	FlagKindInt         = "int"
	FlagKindString      = "string"
	FlagKindStringSlice = "stringSlice"
	FlagKindDuration    = "duration"
)

// FlagValue represents a single flag definition with metadata.
type FlagValue struct {
	Shorthand    string
	Alias        string // multi-letter single-dash form, e.g. "pp" for -pp
	Kind         string
	DefaultValue any
	NoOptDefault string
	Usage        string
}

// FlagValues is a map of flag names to their definitions.
type FlagValues map[string]FlagValue

// Register adds all flags in the set to the given pflag.FlagSet.
func (f FlagValues) Register(flagSet *pflag.FlagSet, sort bool) {
	for flagName, flag := range f {
		flag.BuildFlag(flagSet, flagName)
	}
	flagSet.SortFlags = sort
}

// BuildFlag creates a pflag from the FlagValue definition.
func (f *FlagValue) BuildFlag(flagSet *pflag.FlagSet, flagName string) {
	switch f.Kind {
	case FlagKindBool:
		flagSet.BoolP(flagName, f.Shorthand, f.DefaultValue.(bool), f.Usage)
	case FlagKindCount:
		flagSet.CountP(flagName, f.Shorthand, f.Usage)
	case FlagKindInt:
		flagSet.IntP(flagName, f.Shorthand, f.DefaultValue.(int), f.Usage)
	case FlagKindString:
		flagSet.StringP(flagName, f.Shorthand, f.DefaultValue.(string), f.Usage)
	case FlagKindStringSlice:
		flagSet.StringSliceP(flagName, f.Shorthand, f.DefaultValue.([]string), f.Usage)
	case FlagKindDuration:
		flagSet.DurationP(flagName, f.Shorthand, f.DefaultValue.(time.Duration), f.Usage)
	}

	if f.NoOptDefault != "" {
		flag := flagSet.Lookup(flagName)
		flag.NoOptDefVal = f.NoOptDefault
	}
}

// Merge combines multiple FlagValues maps into one.
func Merge(flagSets ...FlagValues) FlagValues {
	result := make(FlagValues)
	for _, fs := range flagSets {
		maps.Copy(result, fs)
	}
	return result
}

// ExpandAliases rewrites multi-letter single-dash aliases in args to their
// long flag names. Everything after "--" is left untouched.
func ExpandAliases(args []string, flagSets ...FlagValues) []string {
	aliases := make(map[string]string)
	for _, fs := range flagSets {
		for name, flag := range fs {
			if flag.Alias != "" {
				aliases["-"+flag.Alias] = "--" + name
			}
		}
	}

	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		name, value, hasValue := strings.Cut(arg, "=")
		if long, ok := aliases[name]; ok {
			if hasValue {
				out = append(out, long+"="+value)
			} else {
				out = append(out, long)
			}
			continue
		}
		out = append(out, arg)
	}
	return out
}

// NormalizeUnderscore lets hyphenated and underscored spellings of a flag
// name address the same flag.
func NormalizeUnderscore(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "-", "_"))
}

// BindFlags binds all command flags to the given viper instance.
// This includes local flags and inherited persistent flags from parent commands.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})
}

// ConfigPaths returns the config-path and config-name values from the given viper.
func ConfigPaths(v *viper.Viper) (paths []string, name string) {
	return v.GetStringSlice("config_path"), v.GetString("config_name")
}

// Common flag definitions that can be reused across commands

// ConfigFlags returns flags for configuration file settings.
func ConfigFlags() FlagValues {
	return FlagValues{
		"config_path": {
			Kind:         FlagKindStringSlice,
			DefaultValue: []string{".", "/config"},
			Usage:        "configuration paths",
		},
		"config_name": {
			Kind:         FlagKindString,
			DefaultValue: "fwboot",
			Usage:        "configuration name",
		},
	}
}

// OutputFlags returns flags for output formatting.
func OutputFlags() FlagValues {
	return FlagValues{
		"output_format": {
			Shorthand:    "o",
			Kind:         FlagKindString,
			DefaultValue: output.DefaultFormat,
			Usage:        "output format (" + strings.Join(output.FormatNames(), ", ") + ")",
		},
		"compact": {
			Kind:         FlagKindBool,
			DefaultValue: false,
			Usage:        "compact output",
		},
	}
}
