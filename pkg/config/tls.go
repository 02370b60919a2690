package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/cryol/pyapi-zabbix/pkg/errors"
)

// TLSConfig builds the client TLS settings. It returns nil when the
// defaults of net/http apply.
func (c *Config) TLSConfig() (*tls.Config, error) {
	if c.ValidateCerts && c.CAFile == "" {
		return nil, nil
	}

	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: !c.ValidateCerts,
	}

	if c.CAFile == "" {
		return cfg, nil
	}

	pem, err := os.ReadFile(c.CAFile)
	if err != nil {
		return nil, &errors.ConfigurationError{Field: "ca_file", Reason: err.Error()}
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}

	if !pool.AppendCertsFromPEM(pem) {
		return nil, &errors.ConfigurationError{Field: "ca_file", Reason: fmt.Sprintf("no certificates found in %s", c.CAFile)}
	}

	cfg.RootCAs = pool

	return cfg, nil
}
