package scripted

import (
	"slices"

	"github.com/NethermindEth/juno-cheatnet/core/crypto"
	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/starknet"
)

// Function is the body of one entry point
type Function func(c *Context) ([]felt.Felt, error)

// Contract is a contract class whose entry points are Go functions
type Contract struct {
	Name        string
	Functions   map[string]Function
	L1Handlers  map[string]Function
	Constructor Function
}

// ClassHash is derived from the contract name so that declaring the same
// contract twice yields the same class.
func (c *Contract) ClassHash() felt.ClassHash {
	return felt.ClassHash(crypto.StarknetKeccak([]byte("scripted:" + c.Name)))
}

// CompiledClass describes the contract's entry points. Offsets index the
// entry points in selector order and stand in for program counters.
func (c *Contract) CompiledClass() *starknet.CompiledClass {
	name := crypto.StarknetKeccak([]byte(c.Name))
	class := &starknet.CompiledClass{
		Prime:           "0x800000000000011000000000000000000000000000000000000000000000001",
		Bytecode:        []felt.Felt{name},
		CompilerVersion: "scripted",
	}
	var offset uint64
	class.EntryPoints.External = entryPoints(c.Functions, &offset)
	class.EntryPoints.L1Handler = entryPoints(c.L1Handlers, &offset)
	if c.Constructor != nil {
		class.EntryPoints.Constructor = []starknet.CompiledEntryPoint{{
			Selector: starknet.ConstructorSelector,
			Offset:   offset,
			Builtins: []string{},
		}}
	}
	return class
}

func entryPoints(fns map[string]Function, offset *uint64) []starknet.CompiledEntryPoint {
	eps := make([]starknet.CompiledEntryPoint, 0, len(fns))
	for name := range fns {
		eps = append(eps, starknet.CompiledEntryPoint{
			Selector: starknet.Selector(name),
			Builtins: []string{},
		})
	}
	slices.SortFunc(eps, func(a, b starknet.CompiledEntryPoint) int {
		return a.Selector.Cmp(&b.Selector)
	})
	for i := range eps {
		eps[i].Offset = *offset
		*offset++
	}
	return eps
}

func (c *Contract) lookup(t starknet.EntryPointType, selector *felt.Felt) (Function, bool) {
	if t == starknet.Constructor {
		return c.Constructor, c.Constructor != nil && selector.Equal(&starknet.ConstructorSelector)
	}
	fns := c.Functions
	if t == starknet.L1Handler {
		fns = c.L1Handlers
	}
	for name, fn := range fns {
		sel := starknet.Selector(name)
		if sel.Equal(selector) {
			return fn, true
		}
	}
	return nil, false
}
