package config

import (
	_ "embed"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Names of the settings understood by the client.
const (
	SettingHelper          = "VAULT_KEEPASSXC_CLIENT_HELPER"
	SettingGroup           = "VAULT_KEEPASSXC_CLIENT_GROUP"
	SettingDefaultIdentity = "VAULT_KEEPASSXC_CLIENT_DEFAULT_IDENTITY"
)

// Section is the ini file section holding the client's settings.
const Section = "vault_keepassxc_client"

//go:embed definitions.yaml
var definitionsData []byte

// Definition describes where a setting may be read from and its fallback value.
type Definition struct {
	Type        string     `yaml:"type"`
	Description []string   `yaml:"description"`
	Default     string     `yaml:"default"`
	Ini         []IniEntry `yaml:"ini"`
	Env         []EnvEntry `yaml:"env"`
}

// IniEntry names a key within an ini file section.
type IniEntry struct {
	Section string `yaml:"section"`
	Key     string `yaml:"key"`
}

// EnvEntry names an environment variable.
type EnvEntry struct {
	Name string `yaml:"name"`
}

// Definitions maps setting names to their definition.
type Definitions map[string]Definition

// Names returns the setting names in sorted order.
func (d Definitions) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadDefinitions parses the built-in setting definitions.
func LoadDefinitions() (Definitions, error) {
	return ParseDefinitions(definitionsData)
}

// ParseDefinitions parses setting definitions from YAML.
func ParseDefinitions(data []byte) (Definitions, error) {
	defs := Definitions{}
	if err := yaml.UnmarshalStrict(data, &defs); err != nil {
		return nil, errors.Wrap(err, "unable to parse setting definitions")
	}

	for name, def := range defs {
		if def.Type != "" && def.Type != "string" {
			return nil, errors.Errorf("setting %s has unsupported type %q", name, def.Type)
		}
	}

	return defs, nil
}
