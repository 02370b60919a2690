/*
Package cmd implements the zabbix command-line interface. It resolves the
connection settings from the config file, an optional profile, the
environment and flags, and drives the API client with them.
*/
package cmd

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cryol/pyapi-zabbix/pkg/config"
	"github.com/cryol/pyapi-zabbix/pkg/logging"
	"github.com/cryol/pyapi-zabbix/pkg/zabbix"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

/*
Embed a mini filesystem into the binary to hold the default config file.
It is written to the home directory of the user on first run, so the
settings can be edited in place.
*/
//go:embed cfg/*
var embedded embed.FS

var (
	projectName  = "pyapi-zabbix"
	cfgFile      string
	profilesFile string
	profileName  string
	verbose      bool

	rootCmd = &cobra.Command{
		Use:               "zabbix",
		Short:             "Call the Zabbix JSON-RPC API from the shell",
		Long:              longRoot,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initConfig,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logging.Close()
		},
	}
)

/*
Execute runs the root command and renders any error on stderr.
*/
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		renderError(rootCmd.ErrOrStderr(), err)
	}

	return err
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "config.yml", "config file (default is $HOME/."+projectName+"/config.yml)")
	flags.StringVar(&profilesFile, "profiles", "profiles.ini", "profile file in the config directory")
	flags.StringVar(&profileName, "profile", "", "profile section to merge over the config file")
	flags.String("url", "", "API base URL, the api_jsonrpc.php endpoint is appended")
	flags.String("user", "", "login user")
	flags.String("password", "", "login password")
	flags.String("api-version", "", "assume this API version instead of asking the server")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log requests and responses")

	for key, flag := range map[string]string{
		"url":         "url",
		"user":        "user",
		"password":    "password",
		"api_version": "api-version",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

/*
initConfig loads .env from the working directory, writes the default
config file on first run, reads it, merges the selected profile and sets
up logging.
*/
func initConfig(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	dir, err := configDir()
	if err != nil {
		return err
	}

	if err = writeConfig(dir); err != nil {
		return err
	}

	config.Defaults(viper.GetViper())

	viper.SetConfigFile(resolve(dir, cfgFile))

	if err = viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if profile := resolve(dir, profilesFile); profileName != "" || CheckFileExists(profile) {
		if err = config.MergeProfile(viper.GetViper(), profile, profileName); err != nil {
			return err
		}
	}

	level := viper.GetString("log.level")
	if verbose {
		level = "debug"
	}

	return logging.Init(viper.GetString("log.file"), logging.Options{
		Level:     level,
		Format:    viper.GetString("log.format"),
		Timestamp: true,
	})
}

// newClient builds an API client from the resolved settings.
func newClient() (*zabbix.Client, error) {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}

	return zabbix.NewFromConfig(cfg)
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}

	return filepath.Join(home, "."+projectName), nil
}

func resolve(dir, name string) string {
	if filepath.IsAbs(name) || filepath.Dir(name) != "." {
		return name
	}

	return filepath.Join(dir, name)
}

/*
writeConfig copies the embedded default config into dir unless a file of
that name is already there.
*/
func writeConfig(dir string) (err error) {
	var (
		fh  fs.File
		buf bytes.Buffer
	)

	if !CheckFileExists(dir) {
		if err = os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	fullPath := filepath.Join(dir, "config.yml")

	if CheckFileExists(fullPath) {
		return nil
	}

	if fh, err = embedded.Open("cfg/config.yml"); err != nil {
		return fmt.Errorf("failed to open embedded config file: %w", err)
	}
	defer fh.Close()

	if _, err = io.Copy(&buf, fh); err != nil {
		return fmt.Errorf("failed to read embedded config file: %w", err)
	}

	if err = os.WriteFile(fullPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	logging.Default().Info("wrote config file", "path", fullPath)

	return nil
}

func CheckFileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !errors.Is(err, os.ErrNotExist)
}

/*
longRoot contains the detailed help text for the root command.
*/
var longRoot = `
zabbix calls any method of the Zabbix JSON-RPC API by name.

Connection settings come from $HOME/.pyapi-zabbix/config.yml, an optional
profile in $HOME/.pyapi-zabbix/profiles.ini, ZABBIX_* environment variables
(also read from a .env file) and flags, in increasing order of precedence.
Passwords and tokens are masked in every log line and error message.
`
