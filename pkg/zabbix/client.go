/*
Package zabbix is a client for the Zabbix JSON-RPC management API.

Any API method can be called by name, without a predeclared list:

	c, err := zabbix.New("https://zabbix.example.com",
		zabbix.WithCredentials("Admin", "zabbix"))
	if err != nil {
		return err
	}

	err = zabbix.WithSession(ctx, c, func(ctx context.Context, c *zabbix.Client) error {
		hosts, err := c.Object("host").Get(ctx, zabbix.Params{"output": "extend"})
		...
	})

New makes no request. Credentials given with WithCredentials are only
used by Open (and so by WithSession); until then the client is
unauthenticated and calls go out without a token.

A Client is meant for one goroutine at a time. Login and Logout mutate the
session token, so concurrent sessions need separate clients.
*/
package zabbix

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/cryol/pyapi-zabbix/pkg/auth"
	"github.com/cryol/pyapi-zabbix/pkg/errors"
	"github.com/cryol/pyapi-zabbix/pkg/jsonrpc"
	"github.com/cryol/pyapi-zabbix/pkg/logging"
	"github.com/google/uuid"
)

// Endpoint is appended to the base URL when missing.
const Endpoint = "api_jsonrpc.php"

// Params are the named parameters of a call.
type Params map[string]any

/*
Client is the entry point to the API. It owns the transport, the session
token and the login credentials given at construction.
*/
type Client struct {
	URL string
	ID  string

	rpc         *jsonrpc.RPCClient
	rpcOptions  []jsonrpc.ClientOption
	httpClient  *http.Client
	session     *auth.Session
	credentials auth.Credentials
	logger      *log.Logger

	schemes     []LoginScheme
	legacyLogin bool
	versionMu   sync.Mutex
	apiVersion  string
}

/*
New returns a client for the API at baseURL. No request is made until the
first call.
*/
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, &errors.ConfigurationError{Field: "url", Reason: "a target URL is required"}
	}

	c := &Client{
		URL:     normalizeURL(baseURL),
		ID:      uuid.NewString(),
		session: auth.NewSession(),
		schemes: DefaultLoginSchemes(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logging.Default()
	}

	c.logger = c.logger.With("client", c.ID)
	rpcOptions := append([]jsonrpc.ClientOption{jsonrpc.WithHTTPClient(c.httpClient)}, c.rpcOptions...)
	c.rpc = jsonrpc.NewRPCClient(c.URL, append(rpcOptions, jsonrpc.WithLogger(c.logger))...)

	return c, nil
}

func normalizeURL(base string) string {
	base = strings.TrimSpace(base)

	if strings.HasSuffix(base, "/"+Endpoint) {
		return base
	}

	return strings.TrimRight(base, "/") + "/" + Endpoint
}

/*
Do sends method with params and returns the full response envelope. The
session token is attached unless the method is one of the anonymous ones.
*/
func (c *Client) Do(ctx context.Context, method string, params Params) (*jsonrpc.RPCResponse, error) {
	if params == nil {
		params = Params{}
	}

	return c.rpc.Call(ctx, method, map[string]any(params), c.session.Token())
}

// Call sends method with params and returns only the result.
func (c *Client) Call(ctx context.Context, method string, params Params) (json.RawMessage, error) {
	resp, err := c.Do(ctx, method, params)
	if err != nil {
		return nil, err
	}

	return resp.Result, nil
}

// Call sends method and decodes its result into T.
func Call[T any](ctx context.Context, c *Client, method string, params Params) (T, error) {
	var out T

	resp, err := c.Do(ctx, method, params)
	if err != nil {
		return out, err
	}

	if err := resp.Decode(&out); err != nil {
		return out, fmt.Errorf("decoding result of %s: %w", method, err)
	}

	return out, nil
}

// Token returns the current auth token, empty when logged out.
func (c *Client) Token() string {
	return c.session.Token()
}

// Authenticated reports whether the client holds a token.
func (c *Client) Authenticated() bool {
	return c.session.State() == auth.Authenticated
}

// State returns the session state.
func (c *Client) State() auth.State {
	return c.session.State()
}

// Logger returns the logger tagged with this client's id.
func (c *Client) Logger() *log.Logger {
	return c.logger
}

/*
APIVersion returns the remote API version, asking apiinfo.version on
every call.
*/
func (c *Client) APIVersion(ctx context.Context) (string, error) {
	version, err := Call[string](ctx, c, "apiinfo.version", nil)
	if err != nil {
		return "", err
	}

	c.versionMu.Lock()
	c.apiVersion = version
	c.versionMu.Unlock()

	return version, nil
}

// knownVersion returns the pinned or last probed version, probing once
// when neither is available.
func (c *Client) knownVersion(ctx context.Context) (string, error) {
	c.versionMu.Lock()
	version := c.apiVersion
	c.versionMu.Unlock()

	if version != "" {
		return version, nil
	}

	return c.APIVersion(ctx)
}
