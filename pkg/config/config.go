// Package config resolves connection settings from defaults, a YAML config
// file, an optional INI profile and ZABBIX_* environment variables.
// config is built on top of viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cohesivestack/valgo"
	"github.com/cryol/pyapi-zabbix/pkg/auth"
	"github.com/cryol/pyapi-zabbix/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment key, e.g. ZABBIX_URL.
const EnvPrefix = "ZABBIX"

type Config struct {
	URL           string        `mapstructure:"url"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	Timeout       time.Duration `mapstructure:"timeout"`
	ValidateCerts bool          `mapstructure:"validate_certs"`
	CAFile        string        `mapstructure:"ca_file"`
	APIVersion    string        `mapstructure:"api_version"`
	HTTP          HTTP          `mapstructure:"http"`
	Log           Log           `mapstructure:"log"`
}

// HTTP holds basic auth credentials for a web server in front of the API.
type HTTP struct {
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

var keys = []string{
	"url", "user", "password", "timeout", "validate_certs", "ca_file",
	"api_version", "http.user", "http.password",
	"log.level", "log.format", "log.file",
}

// Defaults registers default values and environment bindings on v.
func Defaults(v *viper.Viper) {
	v.SetDefault("timeout", "30s")
	v.SetDefault("validate_certs", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

/*
Load reads path (if not empty) into a fresh viper instance, merges the
named profile from profilePath (if not empty) over it, applies the
environment and validates the result.
*/
func Load(path, profilePath, profile string) (*Config, error) {
	v := viper.New()
	Defaults(v)

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	if profilePath != "" {
		if err := MergeProfile(v, profilePath, profile); err != nil {
			return nil, err
		}
	}

	return FromViper(v)
}

// FromViper unmarshals and validates the settings held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the settings are enough to reach the API.
func (c *Config) Validate() error {
	val := valgo.Is(
		valgo.String(c.URL, "url").Not().Blank("a target URL is required (set url or ZABBIX_URL)"),
	).Is(
		valgo.Int64(c.Timeout, "timeout").GreaterOrEqualTo(0, "must not be negative"),
	)

	if !val.Valid() {
		for name, verr := range val.Errors() {
			return &errors.ConfigurationError{Field: name, Reason: strings.Join(verr.Messages(), "; ")}
		}
	}

	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &errors.ConfigurationError{Field: "url", Reason: fmt.Sprintf("%q is not an absolute URL", c.URL)}
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return &errors.ConfigurationError{Field: "url", Reason: "scheme must be http or https"}
	}

	return nil
}

// Credentials returns the login credentials, empty when no user is set.
func (c *Config) Credentials() auth.Credentials {
	return auth.Credentials{User: c.User, Password: c.Password}
}
