package starknet

import (
	"encoding/json"
	"strconv"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
)

type SegmentLengths struct {
	Children []SegmentLengths
	Length   uint64
}

func (n *SegmentLengths) UnmarshalJSON(data []byte) error {
	var err error
	n.Length, err = strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return json.Unmarshal(data, &n.Children)
	}
	return err
}

func (n SegmentLengths) MarshalJSON() ([]byte, error) {
	if len(n.Children) > 0 {
		return json.Marshal(n.Children)
	}
	return json.Marshal(n.Length)
}

type CompiledEntryPoint struct {
	Selector felt.Felt `json:"selector"`
	Offset   uint64    `json:"offset"`
	Builtins []string  `json:"builtins"`
}

type EntryPointsByType struct {
	External    []CompiledEntryPoint `json:"EXTERNAL"`
	L1Handler   []CompiledEntryPoint `json:"L1_HANDLER"`
	Constructor []CompiledEntryPoint `json:"CONSTRUCTOR"`
}

// CompiledClass is the executable (casm) form of a declared class
type CompiledClass struct {
	Prime                  string            `json:"prime"`
	Bytecode               []felt.Felt       `json:"bytecode"`
	Hints                  json.RawMessage   `json:"hints,omitempty"`
	CompilerVersion        string            `json:"compiler_version"`
	BytecodeSegmentLengths *SegmentLengths   `json:"bytecode_segment_lengths,omitempty"`
	EntryPoints            EntryPointsByType `json:"entry_points_by_type"`
}

func (c *CompiledClass) entryPoints(t EntryPointType) []CompiledEntryPoint {
	switch t {
	case Constructor:
		return c.EntryPoints.Constructor
	case L1Handler:
		return c.EntryPoints.L1Handler
	default:
		return c.EntryPoints.External
	}
}

// FindEntryPoint looks up an entry point by type and selector
func (c *CompiledClass) FindEntryPoint(t EntryPointType, selector *felt.Felt) (*CompiledEntryPoint, bool) {
	eps := c.entryPoints(t)
	for i := range eps {
		if eps[i].Selector.Equal(selector) {
			return &eps[i], true
		}
	}
	return nil, false
}

func (c *CompiledClass) HasConstructor() bool {
	return len(c.EntryPoints.Constructor) > 0
}
