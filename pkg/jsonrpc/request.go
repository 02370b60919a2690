package jsonrpc

// RPCRequest is one call on the wire. It is built once per round trip and
// not modified afterwards.
type RPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int    `json:"id"`
	Auth    string `json:"auth,omitempty"`
}

// anonymous lists the methods that must never carry an auth token.
var anonymous = map[string]struct{}{
	"apiinfo.version":          {},
	"user.login":               {},
	"user.authenticate":        {},
	"user.checkAuthentication": {},
}

// IsAnonymous reports whether method is sent without the auth field even
// when the caller holds a token.
func IsAnonymous(method string) bool {
	_, ok := anonymous[method]
	return ok
}

// NewRequest builds the envelope for method. Nil params become an empty
// object and the token is dropped for anonymous methods.
func NewRequest(id int, method string, params any, token string) RPCRequest {
	if params == nil {
		params = map[string]any{}
	}

	req := RPCRequest{
		JSONRPC: Version,
		Method:  method,
		Params:  params,
		ID:      id,
	}

	if token != "" && !IsAnonymous(method) {
		req.Auth = token
	}

	return req
}
