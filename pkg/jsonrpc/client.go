package jsonrpc

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cryol/pyapi-zabbix/pkg/errors"
	"github.com/cryol/pyapi-zabbix/pkg/logging"
	"github.com/cryol/pyapi-zabbix/pkg/redact"
)

// BasicAuth holds HTTP basic credentials sent with every request,
// independent of the JSON-RPC auth token.
type BasicAuth struct {
	User     string
	Password string
}

/*
RPCClient performs JSON-RPC calls over HTTP POST. It keeps the request id
counter of its owner: ids start at 1 and grow by one per call.
*/
type RPCClient struct {
	URL       string
	Client    *http.Client
	BasicAuth *BasicAuth
	Logger    *log.Logger

	mu     sync.Mutex
	nextID int
}

// ClientOption configures an RPCClient.
type ClientOption func(*RPCClient)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *RPCClient) {
		if hc != nil {
			c.Client = hc
		}
	}
}

// WithTLSConfig sets the TLS configuration used for https endpoints.
func WithTLSConfig(cfg *tls.Config) ClientOption {
	return func(c *RPCClient) {
		if cfg == nil {
			return
		}

		transport, ok := c.Client.Transport.(*http.Transport)
		if !ok || transport == nil {
			transport = http.DefaultTransport.(*http.Transport).Clone()
		} else {
			transport = transport.Clone()
		}

		transport.TLSClientConfig = cfg
		c.Client.Transport = transport
	}
}

// WithTimeout bounds every round trip. Zero means no limit.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *RPCClient) {
		c.Client.Timeout = d
	}
}

// WithBasicAuth attaches HTTP basic credentials.
func WithBasicAuth(user, password string) ClientOption {
	return func(c *RPCClient) {
		if user == "" && password == "" {
			return
		}

		c.BasicAuth = &BasicAuth{User: user, Password: password}
	}
}

// WithLogOutput traces requests and responses to w through a redacting
// logger built with opts.
func WithLogOutput(w io.Writer, opts logging.Options) ClientOption {
	return func(c *RPCClient) {
		c.Logger = logging.New(w, opts)
	}
}

// WithLogger sets the logger for request and response traces. Bodies are
// redacted before they are logged, so a logger that does not redact its
// output still never sees a secret from this client.
func WithLogger(l *log.Logger) ClientOption {
	return func(c *RPCClient) {
		if l != nil {
			c.Logger = l
		}
	}
}

// NewRPCClient returns a client posting to url.
func NewRPCClient(url string, opts ...ClientOption) *RPCClient {
	c := &RPCClient{
		URL:    url,
		Client: &http.Client{},
		nextID: 1,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.Logger == nil {
		c.Logger = logging.Default()
	}

	return c
}

func (c *RPCClient) id() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++

	return id
}

/*
Call sends one request and returns the decoded envelope. The token is
attached unless it is empty or the method is anonymous. A JSON-RPC error
object comes back as *errors.APIError, anything below the protocol as
*errors.TransportError. Nothing is retried.
*/
func (c *RPCClient) Call(
	ctx context.Context,
	method string,
	params any,
	token string,
) (*RPCResponse, error) {
	if c.Client == nil {
		c.Client = http.DefaultClient
	}

	payload := NewRequest(c.id(), method, params, token)

	body, err := json.Marshal(payload)

	if err != nil {
		return nil, errors.NewTransportError(0, nil, err)
	}

	c.Logger.Debug("sending request", "method", method, "id", payload.ID, "body", redact.Redact(string(body)))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))

	if err != nil {
		return nil, errors.NewTransportError(0, nil, err)
	}

	httpReq.Header.Set("Content-Type", ContentType)

	if c.BasicAuth != nil {
		httpReq.SetBasicAuth(c.BasicAuth.User, c.BasicAuth.Password)
	}

	resp, err := c.Client.Do(httpReq)

	if err != nil {
		return nil, errors.NewTransportError(0, nil, err)
	}

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, errors.NewTransportError(resp.StatusCode, nil, err)
	}

	c.Logger.Debug("received response", "status", resp.StatusCode, "body", redact.Redact(string(raw)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewTransportError(resp.StatusCode, raw, nil)
	}

	var rpcResp RPCResponse

	if err := json.Unmarshal(raw, &rpcResp); err != nil {
		return nil, errors.NewTransportError(resp.StatusCode, raw, err)
	}

	if rpcResp.Error != nil {
		return nil, errors.NewAPIError(rpcResp.Error, string(raw), string(body))
	}

	return &rpcResp, nil
}
