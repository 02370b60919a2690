/*
Package rpctest runs an in-process JSON-RPC endpoint that speaks the
management API's dialect, for tests of code built on the client.
*/
package rpctest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/cryol/pyapi-zabbix/pkg/errors"
)

// Call is one request as the server saw it.
type Call struct {
	Method      string
	Params      map[string]any
	ID          json.RawMessage
	Auth        string
	HasAuth     bool
	ContentType string
	BasicUser   string
	BasicPass   string
	Body        string
}

// Handler answers one method. Returning a non-nil RpcError sends an error
// object instead of a result.
type Handler func(call Call) (any, *errors.RpcError)

/*
Server records every call and dispatches it to the handler registered for
its method. Unknown methods get ErrMethodNotFound.
*/
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]Handler
	calls    []Call
	status   int
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  map[string]any  `json:"params"`
	ID      json.RawMessage `json:"id"`
	Auth    *string         `json:"auth"`
}

type response struct {
	JSONRPC string           `json:"jsonrpc"`
	Result  any              `json:"result,omitempty"`
	Error   *errors.RpcError `json:"error,omitempty"`
	ID      json.RawMessage  `json:"id"`
}

// NewServer starts a server. Stop it with Close.
func NewServer() *Server {
	srv := &Server{handlers: make(map[string]Handler)}
	srv.Server = httptest.NewServer(http.HandlerFunc(srv.serveHTTP))

	return srv
}

// NewTLSServer starts a server behind TLS with a self-signed certificate.
func NewTLSServer() *Server {
	srv := &Server{handlers: make(map[string]Handler)}
	srv.Server = httptest.NewTLSServer(http.HandlerFunc(srv.serveHTTP))

	return srv
}

// Handle registers h for method.
func (srv *Server) Handle(method string, h Handler) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.handlers[method] = h
}

// Result registers a handler that always returns v.
func (srv *Server) Result(method string, v any) {
	srv.Handle(method, func(Call) (any, *errors.RpcError) {
		return v, nil
	})
}

// Fail registers a handler that always returns the error object e.
func (srv *Server) Fail(method string, e *errors.RpcError) {
	srv.Handle(method, func(Call) (any, *errors.RpcError) {
		return nil, e
	})
}

// Status makes every following response use the given HTTP status.
func (srv *Server) Status(code int) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.status = code
}

// Calls returns a copy of the recorded calls.
func (srv *Server) Calls() []Call {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return append([]Call(nil), srv.calls...)
}

// Methods returns the recorded method names in order.
func (srv *Server) Methods() []string {
	calls := srv.Calls()
	out := make([]string, 0, len(calls))

	for _, c := range calls {
		out = append(out, c.Method)
	}

	return out
}

func (srv *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "only POST supported", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respond(w, http.StatusOK, response{JSONRPC: "2.0", Error: errors.ErrParseError})
		return
	}

	var req request

	if err = json.Unmarshal(body, &req); err != nil {
		respond(w, http.StatusOK, response{JSONRPC: "2.0", Error: errors.ErrParseError})
		return
	}

	call := Call{
		Method:      req.Method,
		Params:      req.Params,
		ID:          req.ID,
		HasAuth:     req.Auth != nil,
		ContentType: r.Header.Get("Content-Type"),
		Body:        string(body),
	}

	if req.Auth != nil {
		call.Auth = *req.Auth
	}

	call.BasicUser, call.BasicPass, _ = r.BasicAuth()

	srv.mu.Lock()
	srv.calls = append(srv.calls, call)
	handler, ok := srv.handlers[req.Method]
	status := srv.status
	srv.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}

	if status < 200 || status > 299 {
		http.Error(w, http.StatusText(status), status)
		return
	}

	resp := response{JSONRPC: "2.0", ID: req.ID}

	if !ok {
		resp.Error = errors.ErrMethodNotFound
		respond(w, status, resp)
		return
	}

	resp.Result, resp.Error = handler(call)

	if resp.Error == nil && resp.Result == nil {
		resp.Result = []any{}
	}

	respond(w, status, resp)
}

func respond(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
