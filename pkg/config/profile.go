package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// DefaultProfile is used when no profile name is given.
const DefaultProfile = "default"

/*
Profile reads one section of an INI profile file:

	[default]
	url = https://zabbix.example.com
	user = Admin
	password = zabbix

	[staging]
	url = https://zabbix.staging.example.com
	http.user = gate

Dotted keys become nested settings.
*/
func Profile(path, name string) (map[string]any, error) {
	if name == "" {
		name = DefaultProfile
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("error reading profiles %s: %w", path, err)
	}

	if !cfg.HasSection(name) {
		return nil, fmt.Errorf("profile %q not found in %s", name, path)
	}

	out := make(map[string]any)

	for _, key := range cfg.Section(name).Keys() {
		setNested(out, strings.Split(strings.ToLower(key.Name()), "."), key.String())
	}

	return out, nil
}

// MergeProfile merges the named profile over the config already read by v.
func MergeProfile(v *viper.Viper, path, name string) error {
	values, err := Profile(path, name)
	if err != nil {
		return err
	}

	return v.MergeConfigMap(values)
}

func setNested(m map[string]any, path []string, value string) {
	for _, part := range path[:len(path)-1] {
		next, ok := m[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[part] = next
		}
		m = next
	}

	m[path[len(path)-1]] = value
}
