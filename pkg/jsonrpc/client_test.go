package jsonrpc

import (
	"bytes"
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/cryol/pyapi-zabbix/pkg/errors"
	"github.com/cryol/pyapi-zabbix/pkg/jsonrpc/rpctest"
	"github.com/cryol/pyapi-zabbix/pkg/logging"
	"github.com/cryol/pyapi-zabbix/pkg/redact"
	. "github.com/smartystreets/goconvey/convey"
)

const token = "0424bd59b807674191e7d77572075f33"

func TestCall(t *testing.T) {
	Convey("Given an RPC client and a fake API", t, func() {
		srv := rpctest.NewServer()
		Reset(srv.Close)

		client := NewRPCClient(srv.URL)
		ctx := context.Background()

		Convey("When calling a method with a token", func() {
			srv.Result("host.get", []map[string]any{{"hostid": "10084"}})
			resp, err := client.Call(ctx, "host.get", map[string]any{"output": "extend"}, token)

			Convey("Then the envelope is complete", func() {
				So(err, ShouldBeNil)
				So(resp.JSONRPC, ShouldEqual, "2.0")
				So(string(resp.Result), ShouldEqual, `[{"hostid":"10084"}]`)

				calls := srv.Calls()
				So(calls, ShouldHaveLength, 1)
				So(calls[0].Auth, ShouldEqual, token)
				So(calls[0].ContentType, ShouldEqual, "application/json-rpc")
				So(calls[0].Params["output"], ShouldEqual, "extend")
				So(string(calls[0].ID), ShouldEqual, "1")
			})
		})

		Convey("When calling several times", func() {
			srv.Result("apiinfo.version", "6.0.0")

			for i := 0; i < 3; i++ {
				_, err := client.Call(ctx, "apiinfo.version", nil, "")
				So(err, ShouldBeNil)
			}

			Convey("Then ids increase from 1", func() {
				calls := srv.Calls()
				So(string(calls[0].ID), ShouldEqual, "1")
				So(string(calls[1].ID), ShouldEqual, "2")
				So(string(calls[2].ID), ShouldEqual, "3")
			})

			Convey("Then nil params are sent as an empty object", func() {
				So(srv.Calls()[0].Body, ShouldContainSubstring, `"params":{}`)
			})
		})

		Convey("When calling anonymous methods while holding a token", func() {
			for _, method := range []string{"apiinfo.version", "user.login", "user.authenticate", "user.checkAuthentication"} {
				srv.Result(method, "ok")
				_, err := client.Call(ctx, method, nil, token)
				So(err, ShouldBeNil)
			}

			Convey("Then none of them carries the auth field", func() {
				for _, call := range srv.Calls() {
					So(call.HasAuth, ShouldBeFalse)
				}
			})
		})

		Convey("When basic auth is configured", func() {
			client = NewRPCClient(srv.URL, WithBasicAuth("web", "secret"))
			srv.Result("apiinfo.version", "6.0.0")
			_, err := client.Call(ctx, "apiinfo.version", nil, "")

			Convey("Then every request carries it", func() {
				So(err, ShouldBeNil)
				So(srv.Calls()[0].BasicUser, ShouldEqual, "web")
				So(srv.Calls()[0].BasicPass, ShouldEqual, "secret")
			})
		})

		Convey("When the API answers with an error object echoing the token", func() {
			srv.Fail("host2.get", &errors.RpcError{
				Code:    -32602,
				Message: "Invalid params.",
				Data:    `Incorrect API "host2".`,
			})
			_, err := client.Call(ctx, "host2.get", map[string]any{"output": "extend"}, token)

			Convey("Then an APIError without the token is returned", func() {
				var apiErr *errors.APIError
				So(stderrors.As(err, &apiErr), ShouldBeTrue)
				So(apiErr.Code, ShouldEqual, -32602)
				So(apiErr.Data, ShouldEqual, `Incorrect API "host2".`)
				So(apiErr.JSON, ShouldNotContainSubstring, token)
				So(strings.Count(apiErr.JSON, redact.Mask), ShouldEqual, 1)
				So(err.Error(), ShouldNotContainSubstring, token)
			})
		})

		Convey("When the server answers with a non-2xx status", func() {
			srv.Status(http.StatusBadGateway)
			_, err := client.Call(ctx, "host.get", nil, token)

			Convey("Then a TransportError is returned", func() {
				var transportErr *errors.TransportError
				So(stderrors.As(err, &transportErr), ShouldBeTrue)
				So(transportErr.StatusCode, ShouldEqual, http.StatusBadGateway)
			})
		})
	})

	Convey("Given a server that is not reachable", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewRPCClient(url).Call(context.Background(), "apiinfo.version", nil, "")

		Convey("Then the failure surfaces immediately as a TransportError", func() {
			var transportErr *errors.TransportError
			So(stderrors.As(err, &transportErr), ShouldBeTrue)
			So(transportErr.StatusCode, ShouldEqual, 0)
		})
	})

	Convey("Given a server returning HTML", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>maintenance</html>"))
		}))
		Reset(srv.Close)

		_, err := NewRPCClient(srv.URL).Call(context.Background(), "apiinfo.version", nil, "")

		Convey("Then decoding fails with a TransportError", func() {
			var transportErr *errors.TransportError
			So(stderrors.As(err, &transportErr), ShouldBeTrue)
			So(transportErr.Body, ShouldContainSubstring, "maintenance")
		})
	})
}

func TestCallOverTLS(t *testing.T) {
	Convey("Given a TLS endpoint", t, func() {
		srv := rpctest.NewTLSServer()
		Reset(srv.Close)
		srv.Result("apiinfo.version", "7.0.0")

		Convey("When the client trusts the server certificate", func() {
			tlsConfig := srv.Client().Transport.(*http.Transport).TLSClientConfig
			resp, err := NewRPCClient(srv.URL, WithTLSConfig(tlsConfig)).Call(context.Background(), "apiinfo.version", nil, "")

			Convey("Then the call succeeds", func() {
				So(err, ShouldBeNil)
				So(string(resp.Result), ShouldEqual, `"7.0.0"`)
			})
		})

		Convey("When the client uses default verification", func() {
			_, err := NewRPCClient(srv.URL).Call(context.Background(), "apiinfo.version", nil, "")

			Convey("Then the handshake fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestCallLogging(t *testing.T) {
	Convey("Given a debug logger", t, func() {
		var buf bytes.Buffer
		srv := rpctest.NewServer()
		Reset(srv.Close)
		srv.Result("user.login", token)

		client := NewRPCClient(srv.URL, WithLogger(logging.New(&buf, logging.Options{Level: "debug"})))
		_, err := client.Call(context.Background(), "user.login", map[string]any{"username": "Admin", "password": "PASSWORD"}, "")

		Convey("Then the traces never show the password or the token", func() {
			So(err, ShouldBeNil)
			So(buf.String(), ShouldNotContainSubstring, "PASSWORD")
			So(buf.String(), ShouldNotContainSubstring, token)
			So(strings.Count(buf.String(), redact.Mask), ShouldEqual, 2)
		})
	})

	Convey("Given a plain logger that does not redact its output", t, func() {
		var buf bytes.Buffer
		srv := rpctest.NewServer()
		Reset(srv.Close)
		srv.Result("user.login", token)

		plain := log.New(&buf)
		plain.SetLevel(log.DebugLevel)

		client := NewRPCClient(srv.URL, WithLogger(plain))
		_, err := client.Call(context.Background(), "user.login", map[string]any{"username": "Admin", "password": "PASSWORD"}, "")

		Convey("Then the traces still never show the password or the token", func() {
			So(err, ShouldBeNil)
			So(buf.String(), ShouldNotContainSubstring, "PASSWORD")
			So(buf.String(), ShouldNotContainSubstring, token)
			So(strings.Count(buf.String(), redact.Mask), ShouldEqual, 2)
		})
	})

	Convey("Given a caller supplied sink", t, func() {
		var buf bytes.Buffer
		srv := rpctest.NewServer()
		Reset(srv.Close)
		srv.Result("host.get", []any{})

		client := NewRPCClient(srv.URL, WithLogOutput(&buf, logging.Options{Level: "debug", Format: "json"}))
		_, err := client.Call(context.Background(), "host.get", nil, token)

		Convey("Then the token in the request is masked", func() {
			So(err, ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "sending request")
			So(buf.String(), ShouldNotContainSubstring, token)
		})
	})
}
