package fork

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrContractNotFound  = errors.New("contract not found")
	ErrBlockNotFound     = errors.New("block not found")
	ErrClassHashNotFound = errors.New("class hash not found")
)

// Starknet JSON-RPC error codes
const (
	codeContractNotFound  = 20
	codeBlockNotFound     = 24
	codeClassHashNotFound = 28
)

// RPCError is an error object returned by the remote node
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("rpc error %d: %s: %s", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Unwrap maps well known codes onto the package sentinels
func (e *RPCError) Unwrap() error {
	switch e.Code {
	case codeContractNotFound:
		return ErrContractNotFound
	case codeBlockNotFound:
		return ErrBlockNotFound
	case codeClassHashNotFound:
		return ErrClassHashNotFound
	default:
		return nil
	}
}
