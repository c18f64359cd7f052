package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

// FileName is the name of the Ansible configuration file.
const FileName = "ansible.cfg"

// EnvAnsibleConfig overrides the configuration file search.
const EnvAnsibleConfig = "ANSIBLE_CONFIG"

// DefaultSearchPaths lists the locations Ansible reads its configuration
// file from, in order of precedence.
func DefaultSearchPaths(lookupEnv func(string) (string, bool)) []string {
	paths := []string{}

	if p, ok := lookupEnv(EnvAnsibleConfig); ok && p != "" {
		paths = append(paths, expandHome(p))
	}
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(wd, FileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+FileName))
	}

	return append(paths, filepath.Join("/etc/ansible", FileName))
}

// FindFile returns the first existing configuration file among paths. A
// directory is searched for a file named ansible.cfg. An empty name and nil
// error are returned when there is no configuration file.
func FindFile(paths []string) (string, error) {
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", errors.Wrapf(err, "cannot access %s", p)
		}

		if fi.IsDir() {
			p = filepath.Join(p, FileName)
			if fi, err = os.Stat(p); err != nil || fi.IsDir() {
				continue
			}
		}

		return p, nil
	}

	return "", nil
}

func loadIniFile(name string) (*ini.File, error) {
	// Option names are case-insensitive in Ansible's configuration file,
	// section names are not.
	f, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys:            true,
		AllowPythonMultilineValues: true,
		SpaceBeforeInlineComment:   true,
	}, name)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse %s", name)
	}
	return f, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
