package starknet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/NethermindEth/juno-cheatnet/core/crypto"
	"github.com/NethermindEth/juno-cheatnet/core/felt"
)

var (
	ErrInvalidAddress  = errors.New("invalid contract address")
	ErrInvalidSelector = errors.New("invalid selector")
)

// Selector returns the entry point selector for a function name
func Selector(name string) felt.Felt {
	return crypto.StarknetKeccak([]byte(name))
}

var (
	ExecuteSelector     = Selector("__execute__")
	ConstructorSelector = Selector("constructor")
)

// ParseAddress parses a hex or decimal contract address and checks its range
func ParseAddress(s string) (felt.Address, error) {
	addr, err := felt.FromString[felt.Address](s)
	if err != nil {
		return felt.Address{}, fmt.Errorf("%q: %w", s, ErrInvalidAddress)
	}
	if err := addr.Validate(); err != nil {
		return felt.Address{}, fmt.Errorf("%q: %w: %w", s, ErrInvalidAddress, err)
	}
	return addr, nil
}

// ParseSelector accepts either a 0x-prefixed selector or a function name
func ParseSelector(s string) (felt.Felt, error) {
	if s == "" {
		return felt.Felt{}, ErrInvalidSelector
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := felt.FromString[felt.Felt](s)
		if err != nil {
			return felt.Felt{}, fmt.Errorf("%q: %w", s, ErrInvalidSelector)
		}
		return v, nil
	}
	for _, c := range s {
		if !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return felt.Felt{}, fmt.Errorf("%q: %w", s, ErrInvalidSelector)
		}
	}
	return Selector(s), nil
}

// ParseFelts parses every element of ss
func ParseFelts(ss []string) ([]felt.Felt, error) {
	out := make([]felt.Felt, len(ss))
	for i, s := range ss {
		v, err := felt.FromString[felt.Felt](s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
