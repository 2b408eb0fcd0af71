package starknet

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
)

// EntryPointType represents the type of an entry point
type EntryPointType int

const (
	External EntryPointType = iota
	Constructor
	L1Handler
)

// String returns the string representation of EntryPointType
func (e EntryPointType) String() string {
	switch e {
	case Constructor:
		return "CONSTRUCTOR"
	case External:
		return "EXTERNAL"
	case L1Handler:
		return "L1_HANDLER"
	default:
		return fmt.Sprintf("Unknown(%d)", int(e))
	}
}

func (e EntryPointType) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *EntryPointType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "EXTERNAL":
		*e = External
	case "CONSTRUCTOR":
		*e = Constructor
	case "L1_HANDLER":
		*e = L1Handler
	default:
		return fmt.Errorf("unknown entry point type %q", s)
	}
	return nil
}

// CallType represents the type of call, regular, or delegate
type CallType int

const (
	Call CallType = iota
	Delegate
)

// String returns the string representation of CallType
func (c CallType) String() string {
	switch c {
	case Call:
		return "CALL"
	case Delegate:
		return "DELEGATE"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

func (c CallType) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *CallType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "CALL":
		*c = Call
	case "DELEGATE":
		*c = Delegate
	default:
		return fmt.Errorf("unknown call type %q", s)
	}
	return nil
}

// CallEntryPoint describes one entry-point invocation. For delegate calls
// ClassHash names the code to run while StorageAddress stays the caller's.
type CallEntryPoint struct {
	ClassHash          *felt.ClassHash `json:"class_hash,omitempty"`
	StorageAddress     felt.Address    `json:"contract_address"`
	CallerAddress      felt.Address    `json:"caller_address"`
	EntryPointSelector felt.Felt       `json:"entry_point_selector"`
	Calldata           []felt.Felt     `json:"calldata"`
	EntryPointType     EntryPointType  `json:"entry_point_type"`
	CallType           CallType        `json:"call_type"`
}

// Clone returns a copy that shares no slices with c
func (c *CallEntryPoint) Clone() *CallEntryPoint {
	out := *c
	out.Calldata = slices.Clone(c.Calldata)
	if c.ClassHash != nil {
		ch := *c.ClassHash
		out.ClassHash = &ch
	}
	return &out
}

func (c *CallEntryPoint) Validate() error {
	if err := c.StorageAddress.Validate(); err != nil {
		return fmt.Errorf("contract address %s: %w", &c.StorageAddress, ErrInvalidAddress)
	}
	if err := c.CallerAddress.Validate(); err != nil {
		return fmt.Errorf("caller address %s: %w", &c.CallerAddress, ErrInvalidAddress)
	}
	if c.CallType == Delegate && c.ClassHash == nil {
		return fmt.Errorf("delegate call to %s without class hash", &c.StorageAddress)
	}
	return nil
}
