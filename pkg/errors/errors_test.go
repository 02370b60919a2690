package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/cryol/pyapi-zabbix/pkg/redact"
	. "github.com/smartystreets/goconvey/convey"
)

const token = "0424bd59b807674191e7d77572075f33"

func TestNewAPIError(t *testing.T) {
	Convey("Given an error payload echoing the submitted request", t, func() {
		request := `
			{'jsonrpc': '2.0',
			 'method': 'host2.get',
			 'params': {'monitored_hosts': 1, 'output': 'extend'},
			 'id': '1',
			 'auth': '` + token + `'}
			 `

		err := NewAPIError(&RpcError{
			Code:    -32602,
			Message: "Invalid params",
			Data:    `Incorrect API "host2".`,
		}, "", request)

		Convey("Then the request text holds a single mask and no token", func() {
			So(err.JSON, ShouldNotContainSubstring, token)
			So(strings.Count(err.JSON, redact.Mask), ShouldEqual, 1)
		})

		Convey("Then the display text carries code, message and data", func() {
			So(err.Error(), ShouldEqual, `Error -32602: Invalid params, Incorrect API "host2".`)
		})

		Convey("Then it matches the reserved code", func() {
			So(stderrors.Is(err, ErrInvalidParams), ShouldBeTrue)
			So(stderrors.Is(err, ErrMethodNotFound), ShouldBeFalse)
		})
	})

	Convey("Given a diagnostic that embeds the token", t, func() {
		raw := `{"jsonrpc":"2.0","error":{"code":-32602,"message":"Invalid params.","data":"Session ` + token + ` terminated, re-login, please."},"id":3}`
		err := NewAPIError(&RpcError{
			Code:    -32602,
			Message: "Invalid params.",
			Data:    "Session " + token + " terminated, re-login, please.",
		}, raw, "")

		Convey("Then neither the text nor the raw payload leak it", func() {
			So(err.Error(), ShouldNotContainSubstring, token)
			So(strings.Count(err.Error(), redact.Mask), ShouldEqual, 1)
			So(err.Raw, ShouldNotContainSubstring, token)
			So(strings.Count(err.Raw, redact.Mask), ShouldEqual, 1)
		})

		Convey("Then it is recognised as an expired session", func() {
			So(err.SessionExpired(), ShouldBeTrue)
		})
	})

	Convey("Given a nil error object", t, func() {
		err := NewAPIError(nil, "", "")

		Convey("Then it falls back to an internal error", func() {
			So(err.Code, ShouldEqual, ErrInternal.Code)
		})
	})
}

func TestNewTransportError(t *testing.T) {
	Convey("Given a non-2xx response echoing a password", t, func() {
		err := NewTransportError(500, []byte(`{"password":"zabbix"}`), nil)

		Convey("Then the body is redacted", func() {
			So(err.Body, ShouldNotContainSubstring, "zabbix")
			So(err.Error(), ShouldContainSubstring, "500")
			So(err.Error(), ShouldNotContainSubstring, "zabbix")
		})
	})

	Convey("Given a connection failure", t, func() {
		cause := fmt.Errorf("dial tcp: connection refused")
		err := NewTransportError(0, nil, cause)

		Convey("Then the cause is unwrapped", func() {
			So(stderrors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "transport error: dial tcp: connection refused")
		})
	})

	Convey("Given a long body with multi-byte characters at the cut", t, func() {
		body := strings.Repeat("x", 511) + strings.Repeat("é", 10)
		err := NewTransportError(502, []byte(body), nil)

		Convey("Then the text is cut on a rune boundary", func() {
			So(utf8.ValidString(err.Error()), ShouldBeTrue)
			So(err.Error(), ShouldEndWith, strings.Repeat("x", 8)+"...")
			So(err.Body, ShouldEqual, body)
		})
	})
}

func TestNewError(t *testing.T) {
	Convey("Given several failures", t, func() {
		lookup := &LookupError{ObjectType: "item", Name: "x"}
		err := NewError(lookup, nil, "logout failed", NewTransportError(502, nil, nil))

		Convey("Then they are all reachable", func() {
			var target *LookupError
			So(stderrors.As(err, &target), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "not found")
			So(err.Error(), ShouldContainSubstring, "logout failed")
			So(err.Error(), ShouldContainSubstring, "502")
		})
	})

	Convey("Given nothing but nils", t, func() {
		So(NewError(nil, nil), ShouldBeNil)
	})

	Convey("Given a single error", t, func() {
		single := &ConfigurationError{Field: "url", Reason: "required"}
		So(NewError(single), ShouldEqual, single)
	})
}

func TestLookupError(t *testing.T) {
	Convey("Given lookup failures", t, func() {
		So((&LookupError{ObjectType: "host", Name: "web", Count: 2}).Error(), ShouldEqual, `lookup host "web": ambiguous, 2 matches`)
		So((&LookupError{ObjectType: "host", Name: "web"}).Error(), ShouldEqual, `lookup host "web": not found`)
		So((&LookupError{ObjectType: "host", Name: "web", Reason: "bad id"}).Error(), ShouldEqual, `lookup host "web": bad id`)
	})
}
