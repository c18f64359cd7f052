package config

import (
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

// Config holds the resolved client settings. It is loaded once per run and
// passed by value to the components that need it.
type Config struct {
	// Helper is the name or path of the credential helper program.
	Helper string
	// Group is the KeePassXC group holding vault passwords.
	Group string
	// DefaultIdentity is used when no vault identity is given.
	DefaultIdentity string
	// File is the configuration file consulted, if any.
	File string
}

// Options controls where settings are read from. The zero value reads the
// process environment and the default Ansible configuration file locations.
type Options struct {
	LookupEnv   func(string) (string, bool)
	SearchPaths []string
	Definitions Definitions
	Logger      logrus.FieldLogger
}

// Origin describes where a resolved value came from.
type Origin string

const (
	OriginEnv     Origin = "env"
	OriginIni     Origin = "ini"
	OriginDefault Origin = "default"
)

// Resolver looks up settings with the precedence environment variable, then
// ini file, then built-in default.
type Resolver struct {
	defs      Definitions
	lookupEnv func(string) (string, bool)
	file      *ini.File
	fileName  string
}

// NewResolver locates and parses the configuration file.
func NewResolver(opts Options) (*Resolver, error) {
	r := &Resolver{
		defs:      opts.Definitions,
		lookupEnv: opts.LookupEnv,
	}

	if r.lookupEnv == nil {
		r.lookupEnv = os.LookupEnv
	}

	if r.defs == nil {
		defs, err := LoadDefinitions()
		if err != nil {
			return nil, &Error{Err: err}
		}
		r.defs = defs
	}

	paths := opts.SearchPaths
	if paths == nil {
		paths = DefaultSearchPaths(r.lookupEnv)
	}

	name, err := FindFile(paths)
	if err != nil {
		return nil, &Error{Err: err}
	}

	if name != "" {
		f, err := loadIniFile(name)
		if err != nil {
			return nil, &Error{Err: err}
		}
		r.file = f
		r.fileName = name
	}

	return r, nil
}

// FileName returns the configuration file in use, or an empty string.
func (r *Resolver) FileName() string {
	return r.fileName
}

// Resolve returns the value of the named setting and where it was found.
func (r *Resolver) Resolve(name string) (string, Origin, error) {
	def, ok := r.defs[name]
	if !ok {
		return "", "", &Error{Setting: name, Err: errors.New("unknown setting")}
	}

	for _, env := range def.Env {
		if value, ok := r.lookupEnv(env.Name); ok {
			if value == "" {
				return "", OriginEnv, &Error{Setting: name, Err: errors.Errorf("environment variable %s is empty", env.Name)}
			}
			return value, OriginEnv, nil
		}
	}

	if r.file != nil {
		for _, entry := range def.Ini {
			sec, err := r.file.GetSection(entry.Section)
			if err != nil || !sec.HasKey(entry.Key) {
				continue
			}
			value := sec.Key(entry.Key).String()
			if value == "" {
				return "", OriginIni, &Error{Setting: name, Err: errors.Errorf("key %s in section [%s] of %s is empty", entry.Key, entry.Section, r.fileName)}
			}
			return value, OriginIni, nil
		}
	}

	if def.Default == "" {
		return "", OriginDefault, &Error{Setting: name, Err: errors.New("no value set and no default available")}
	}

	return def.Default, OriginDefault, nil
}

// GetConfigValue returns the value of the named setting.
func (r *Resolver) GetConfigValue(name string) (string, error) {
	value, _, err := r.Resolve(name)
	return value, err
}

// Load resolves all client settings. Every unresolvable setting is reported.
func Load(opts Options) (Config, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	r, err := NewResolver(opts)
	if err != nil {
		return Config{}, err
	}

	if r.FileName() != "" {
		log.Debugf("Using configuration file %s", r.FileName())
	}

	var result *multierror.Error
	get := func(name string) string {
		value, origin, err := r.Resolve(name)
		if err != nil {
			result = multierror.Append(result, err)
			return ""
		}
		log.WithField("origin", origin).Debugf("%s=%q", name, value)
		return value
	}

	cfg := Config{
		Helper:          get(SettingHelper),
		Group:           get(SettingGroup),
		DefaultIdentity: get(SettingDefaultIdentity),
		File:            r.FileName(),
	}

	if result != nil {
		if len(result.Errors) == 1 {
			return Config{}, result.Errors[0]
		}
		result.ErrorFormat = joinErrors
		return Config{}, result
	}

	return cfg, nil
}
