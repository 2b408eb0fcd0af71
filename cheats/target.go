package cheats

import (
	"fmt"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/starknet"
)

// Target is either the global scope or one contract address
type Target struct {
	global  bool
	address felt.Address
}

func Global() Target {
	return Target{global: true}
}

func Contract(address felt.Address) Target {
	return Target{address: address}
}

func (t Target) IsGlobal() bool {
	return t.global
}

func (t Target) Address() felt.Address {
	return t.address
}

func (t Target) String() string {
	if t.global {
		return "global"
	}
	return t.address.String()
}

func (t Target) validate() error {
	if t.global {
		return nil
	}
	if err := t.address.Validate(); err != nil {
		return fmt.Errorf("target %s: %w", t, starknet.ErrInvalidAddress)
	}
	return nil
}

// Span is the remaining lifetime of an override
type Span struct {
	indefinite bool
	calls      uint64
}

func Indefinite() Span {
	return Span{indefinite: true}
}

// Calls lasts for the next n invocations against the target. n must be positive.
func Calls(n uint64) Span {
	return Span{calls: n}
}

func (s Span) IsIndefinite() bool {
	return s.indefinite
}

// Remaining is the number of calls left, meaningless for indefinite spans
func (s Span) Remaining() uint64 {
	return s.calls
}

func (s Span) String() string {
	if s.indefinite {
		return "indefinite"
	}
	return fmt.Sprintf("calls(%d)", s.calls)
}

func (s Span) validate() error {
	if !s.indefinite && s.calls == 0 {
		return ErrInvalidSpan
	}
	return nil
}

// tick decrements a bounded span and reports whether it is exhausted
func (s *Span) tick() bool {
	if s.indefinite {
		return false
	}
	s.calls--
	return s.calls == 0
}
