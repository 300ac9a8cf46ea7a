// Package config layers reginald settings from defaults, an optional
// .reginald.yaml file, REGINALD_* environment variables and command
// line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"reginald/internal/logging"
	"reginald/pkg/reginald"
)

const (
	EnvPrefix = "REGINALD"
	FileName  = ".reginald"
)

// Keys double as flag names.
const (
	KeyDotAll       = "dotall"
	KeyMultiline    = "multiline"
	KeyIgnoreCase   = "ignore-case"
	KeyMaxRepeat    = "max-repeat"
	KeyMaxStates    = "max-states"
	KeyMaxDFAStates = "max-dfa-states"
	KeyNoColor      = "no-color"
	KeyVerbose      = "verbose"
	KeyGraphFormat  = "graph-format"
)

var keys = []string{
	KeyDotAll, KeyMultiline, KeyIgnoreCase, KeyMaxRepeat, KeyMaxStates,
	KeyMaxDFAStates, KeyNoColor, KeyVerbose, KeyGraphFormat,
}

type Settings struct {
	DotAll       bool
	Multiline    bool
	IgnoreCase   bool
	MaxRepeat    int
	MaxStates    int
	MaxDFAStates int
	Color        bool
	Verbose      bool
	GraphFormat  string // "mermaid" or "dot"
}

type Loader struct {
	v   *viper.Viper
	fs  afero.Fs
	Dir string // searched for .reginald.yaml when no file is given
}

func NewLoader(fs afero.Fs) *Loader {
	v := viper.New()
	v.SetFs(fs)
	v.SetDefault(KeyMaxRepeat, reginald.DefaultMaxRepeat)
	v.SetDefault(KeyMaxStates, reginald.DefaultMaxStates)
	v.SetDefault(KeyMaxDFAStates, reginald.DefaultMaxDFAStates)
	v.SetDefault(KeyGraphFormat, "mermaid")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &Loader{v: v, fs: fs, Dir: "."}
}

// BindFlags binds every flag of fs that is named after a setting.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	for _, key := range keys {
		f := fs.Lookup(key)
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("config: bind --%s: %w", key, err)
		}
	}
	return nil
}

// Load reads path, or .reginald.yaml from Dir when path is empty (a
// missing default file is not an error), and resolves the settings.
func (l *Loader) Load(path string) (Settings, error) {
	if path != "" {
		l.v.SetConfigFile(path)
	} else {
		l.v.SetConfigName(FileName)
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(l.Dir)
	}
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("config: read %s: %w", l.describe(path), err)
		}
	}

	s := Settings{
		DotAll:       l.v.GetBool(KeyDotAll),
		Multiline:    l.v.GetBool(KeyMultiline),
		IgnoreCase:   l.v.GetBool(KeyIgnoreCase),
		MaxRepeat:    l.v.GetInt(KeyMaxRepeat),
		MaxStates:    l.v.GetInt(KeyMaxStates),
		MaxDFAStates: l.v.GetInt(KeyMaxDFAStates),
		Color:        !l.v.GetBool(KeyNoColor),
		Verbose:      l.v.GetBool(KeyVerbose),
		GraphFormat:  strings.ToLower(l.v.GetString(KeyGraphFormat)),
	}
	return s, s.validate()
}

// Unknown lists the keys set in the config file that name no setting.
func (l *Loader) Unknown() []string {
	known := make(map[string]bool, len(keys))
	for _, k := range keys {
		known[k] = true
	}
	var out []string
	for _, k := range l.v.AllKeys() {
		if !known[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// ConfigFile returns the file the settings were read from, if any.
func (l *Loader) ConfigFile() string { return l.v.ConfigFileUsed() }

func (l *Loader) describe(path string) string {
	if path != "" {
		return path
	}
	return FileName + ".yaml"
}

func (s Settings) validate() error {
	switch {
	case s.MaxRepeat <= 0:
		return fmt.Errorf("config: %s must be positive, got %d", KeyMaxRepeat, s.MaxRepeat)
	case s.MaxStates < 2:
		return fmt.Errorf("config: %s must be at least 2, got %d", KeyMaxStates, s.MaxStates)
	case s.MaxDFAStates <= 0:
		return fmt.Errorf("config: %s must be positive, got %d", KeyMaxDFAStates, s.MaxDFAStates)
	case s.GraphFormat != "mermaid" && s.GraphFormat != "dot":
		return fmt.Errorf("config: unknown %s %q (want mermaid or dot)", KeyGraphFormat, s.GraphFormat)
	}
	return nil
}

// Options converts the settings to compile options.
func (s Settings) Options(log *logging.Logger) reginald.Options {
	return reginald.Options{
		DotAll:          s.DotAll,
		Multiline:       s.Multiline,
		CaseInsensitive: s.IgnoreCase,
		MaxRepeat:       s.MaxRepeat,
		MaxStates:       s.MaxStates,
		MaxDFAStates:    s.MaxDFAStates,
		Logger:          log,
	}
}
