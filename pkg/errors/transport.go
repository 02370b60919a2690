package errors

import (
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/cryol/pyapi-zabbix/pkg/redact"
)

/*
TransportError covers failures below the JSON-RPC layer: the connection
failed, the server answered with a non-2xx status, or the body was not a
JSON-RPC response.
*/
type TransportError struct {
	StatusCode int
	Body       string
	Err        error

	text string
}

// NewTransportError redacts the body and cause into the final error text.
func NewTransportError(status int, body []byte, err error) *TransportError {
	e := &TransportError{
		StatusCode: status,
		Body:       redact.Redact(string(body)),
		Err:        err,
	}

	var text string

	switch {
	case err != nil && status != 0:
		text = fmt.Sprintf("transport error (%d %s): %v", status, http.StatusText(status), err)
	case err != nil:
		text = fmt.Sprintf("transport error: %v", err)
	default:
		text = fmt.Sprintf("unexpected HTTP status %d %s", status, http.StatusText(status))
	}

	if e.Body != "" {
		text += ": " + truncate(e.Body, 512)
	}

	e.text = redact.Redact(text)

	return e
}

func (e *TransportError) Error() string {
	return e.text
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}

	return s[:n] + "..."
}
