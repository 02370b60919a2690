package jsonrpc

// Version is the only protocol version the management API speaks.
const Version = "2.0"

// ContentType is sent with every request. The API rejects plain
// application/json on older releases.
const ContentType = "application/json-rpc"

// Message carries the fields shared by requests and responses.
type Message struct {
	// JSONRPC specifies the JSON-RPC version. Must be "2.0"
	JSONRPC string `json:"jsonrpc"`
}
