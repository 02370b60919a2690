package jsonrpc

import (
	"encoding/json"

	"github.com/cryol/pyapi-zabbix/pkg/errors"
)

// RPCResponse is the decoded envelope. Exactly one of Result and Error is
// set on a well-formed response.
type RPCResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      any              `json:"id,omitempty"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *errors.RpcError `json:"error,omitempty"`
}

// Decode unmarshals the result into v.
func (r *RPCResponse) Decode(v any) error {
	if len(r.Result) == 0 {
		return nil
	}

	return json.Unmarshal(r.Result, v)
}
