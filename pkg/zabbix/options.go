package zabbix

import (
	"crypto/tls"
	"io"
	"net/http"
	"time"

	"github.com/cryol/pyapi-zabbix/pkg/config"
	"github.com/cryol/pyapi-zabbix/pkg/jsonrpc"
	"github.com/cryol/pyapi-zabbix/pkg/logging"
)

// Option configures a Client.
type Option func(*Client)

// WithCredentials sets the user and password used by Open.
func WithCredentials(user, password string) Option {
	return func(c *Client) {
		c.credentials.User = user
		c.credentials.Password = password
	}
}

// WithBasicAuth attaches HTTP basic auth to every request.
func WithBasicAuth(user, password string) Option {
	return func(c *Client) {
		c.rpcOptions = append(c.rpcOptions, jsonrpc.WithBasicAuth(user, password))
	}
}

// WithHTTPClient replaces the HTTP client. WithTLSConfig and WithTimeout
// are applied on top of it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTLSConfig sets the TLS settings for https endpoints.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) {
		c.rpcOptions = append(c.rpcOptions, jsonrpc.WithTLSConfig(cfg))
	}
}

// WithTimeout bounds each HTTP round trip.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.rpcOptions = append(c.rpcOptions, jsonrpc.WithTimeout(d))
	}
}

// WithLogOutput sends the client's log records to w through a redacting
// logger built with opts. Without it the process default from logging is
// used.
func WithLogOutput(w io.Writer, opts logging.Options) Option {
	return func(c *Client) {
		c.logger = logging.New(w, opts)
	}
}

// WithAPIVersion pins the API version and skips the apiinfo.version probe
// before login.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		c.apiVersion = version
	}
}

// WithLoginSchemes replaces the version table that selects the login
// method and user parameter.
func WithLoginSchemes(schemes ...LoginScheme) Option {
	return func(c *Client) {
		if len(schemes) > 0 {
			c.schemes = schemes
		}
	}
}

// WithLegacyAuthenticate forces user.authenticate for login.
func WithLegacyAuthenticate() Option {
	return func(c *Client) {
		c.legacyLogin = true
	}
}

/*
NewFromConfig builds a client from resolved settings. Extra options are
applied after the ones derived from cfg.
*/
func NewFromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tlsConfig, err := cfg.TLSConfig()
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithTimeout(cfg.Timeout),
		WithTLSConfig(tlsConfig),
		WithBasicAuth(cfg.HTTP.User, cfg.HTTP.Password),
	}

	if cfg.User != "" {
		base = append(base, WithCredentials(cfg.User, cfg.Password))
	}

	if cfg.APIVersion != "" {
		base = append(base, WithAPIVersion(cfg.APIVersion))
	}

	return New(cfg.URL, append(base, opts...)...)
}
