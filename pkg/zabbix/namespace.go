package zabbix

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cryol/pyapi-zabbix/pkg/jsonrpc"
)

/*
Namespace stands for one API object such as "host". Calls on it are sent
as "<object>.<method>"; neither part is checked against a list.
*/
type Namespace struct {
	client *Client
	name   string
}

// Object returns the namespace for name.
func (c *Client) Object(name string) *Namespace {
	return &Namespace{client: c, name: strings.TrimSpace(name)}
}

// Name returns the object name.
func (n *Namespace) Name() string {
	return n.name
}

// Method returns the qualified name of method in this namespace.
func (n *Namespace) Method(method string) string {
	return n.name + "." + method
}

// Call sends "<object>.<method>" and returns the result.
func (n *Namespace) Call(ctx context.Context, method string, params Params) (json.RawMessage, error) {
	return n.client.Call(ctx, n.Method(method), params)
}

// Do sends "<object>.<method>" and returns the full envelope.
func (n *Namespace) Do(ctx context.Context, method string, params Params) (*jsonrpc.RPCResponse, error) {
	return n.client.Do(ctx, n.Method(method), params)
}

// Get is shorthand for the ubiquitous <object>.get.
func (n *Namespace) Get(ctx context.Context, params Params) (json.RawMessage, error) {
	return n.Call(ctx, "get", params)
}

// Create is shorthand for <object>.create.
func (n *Namespace) Create(ctx context.Context, params Params) (json.RawMessage, error) {
	return n.Call(ctx, "create", params)
}

// Update is shorthand for <object>.update.
func (n *Namespace) Update(ctx context.Context, params Params) (json.RawMessage, error) {
	return n.Call(ctx, "update", params)
}

// Shortcuts for common objects. Any other object works through Object.
func (c *Client) APIInfo() *Namespace   { return c.Object("apiinfo") }
func (c *Client) User() *Namespace      { return c.Object("user") }
func (c *Client) Host() *Namespace      { return c.Object("host") }
func (c *Client) HostGroup() *Namespace { return c.Object("hostgroup") }
func (c *Client) Item() *Namespace      { return c.Object("item") }
func (c *Client) Trigger() *Namespace   { return c.Object("trigger") }
func (c *Client) Template() *Namespace  { return c.Object("template") }
func (c *Client) Problem() *Namespace   { return c.Object("problem") }
func (c *Client) Event() *Namespace     { return c.Object("event") }
