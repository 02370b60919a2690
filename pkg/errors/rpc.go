package errors

import (
	"fmt"
	"strings"

	"github.com/cryol/pyapi-zabbix/pkg/redact"
)

/*
RpcError is the error object of a JSON-RPC response.
*/
type RpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

/*
Error implements the error interface for RpcError.
*/
func (e *RpcError) Error() string {
	return redact.Redact(fmt.Sprintf("RPC error %d: %s", e.Code, e.Message))
}

// Reserved JSON-RPC codes. The Zabbix API reports most failures, including
// bad credentials and expired sessions, as ErrInvalidParams.
var (
	ErrParseError     = &RpcError{Code: -32700, Message: "Parse error"}
	ErrInvalidRequest = &RpcError{Code: -32600, Message: "Invalid Request"}
	ErrMethodNotFound = &RpcError{Code: -32601, Message: "Method not found"}
	ErrInvalidParams  = &RpcError{Code: -32602, Message: "Invalid params"}
	ErrInternal       = &RpcError{Code: -32603, Message: "Internal error"}
	ErrApplication    = &RpcError{Code: -32500, Message: "Application error"}
)

/*
APIError is raised when the remote side answers with a JSON-RPC error
object. Every text field is redacted once, in NewAPIError, and the value
is never modified afterwards, so it is safe to print or log verbatim.
*/
type APIError struct {
	Code    int
	Message string
	Data    string
	// Raw is the response body as received.
	Raw string
	// JSON is the request that caused the error.
	JSON string

	text string
}

/*
NewAPIError builds an APIError from the decoded error object, the raw
response body and the request body.
*/
func NewAPIError(rpcErr *RpcError, raw, request string) *APIError {
	if rpcErr == nil {
		rpcErr = ErrInternal
	}

	e := &APIError{
		Code:    rpcErr.Code,
		Message: redact.Redact(rpcErr.Message),
		Data:    redact.Redact(dataString(rpcErr.Data)),
		Raw:     redact.Redact(raw),
		JSON:    redact.Redact(request),
	}

	text := fmt.Sprintf("Error %d: %s", e.Code, e.Message)
	if e.Data != "" {
		text += ", " + e.Data
	}
	e.text = text

	return e
}

func (e *APIError) Error() string {
	return e.text
}

// Is matches APIErrors and RpcErrors by code.
func (e *APIError) Is(target error) bool {
	switch t := target.(type) {
	case *APIError:
		return t.Code == e.Code
	case *RpcError:
		return t.Code == e.Code
	}

	return false
}

// SessionExpired reports whether the remote side rejected the auth token.
func (e *APIError) SessionExpired() bool {
	text := strings.ToLower(e.Data + " " + e.Message)

	return strings.Contains(text, "re-login") ||
		strings.Contains(text, "session terminated") ||
		strings.Contains(text, "not authori")
}

func dataString(data any) string {
	switch v := data.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
