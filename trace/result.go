package trace

import (
	"encoding"
	"fmt"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/starknet"
)

type ResultKind uint8

const (
	Success ResultKind = iota
	Panic
	Error
)

var (
	_ encoding.TextMarshaler   = Success
	_ encoding.TextUnmarshaler = (*ResultKind)(nil)
)

func (k ResultKind) String() string {
	switch k {
	case Success:
		return "success"
	case Panic:
		return "panic"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

func (k ResultKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ResultKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "success":
		*k = Success
	case "panic":
		*k = Panic
	case "error":
		*k = Error
	default:
		return fmt.Errorf("unknown result kind %q", text)
	}
	return nil
}

// Result is the outcome of one invocation. Retdata holds the panic payload
// for Panic results and Message is only set for Error results.
type Result struct {
	Kind    ResultKind  `json:"kind"`
	Retdata []felt.Felt `json:"retdata,omitempty"`
	Message string      `json:"message,omitempty"`
}

func Succeeded(retdata []felt.Felt) Result {
	return Result{Kind: Success, Retdata: retdata}
}

func Panicked(data []felt.Felt) Result {
	return Result{Kind: Panic, Retdata: data}
}

func Failed(msg string) Result {
	return Result{Kind: Error, Message: msg}
}

func (r *Result) OK() bool {
	return r.Kind == Success
}

// Describe renders the failure the way a test runner reports it
func (r *Result) Describe() string {
	switch r.Kind {
	case Panic:
		return starknet.FormatPanic(r.Retdata)
	case Error:
		return r.Message
	default:
		return ""
	}
}
