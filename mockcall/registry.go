package mockcall

import (
	"errors"
	"fmt"
	"slices"

	"github.com/NethermindEth/juno-cheatnet/cheats"
	"github.com/NethermindEth/juno-cheatnet/core/crypto"
	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/utils"
)

var ErrInvalidMock = errors.New("invalid mock")

// Matcher selects the calldata a mock applies to
type Matcher struct {
	wildcard    bool
	fingerprint felt.Felt
}

// Any matches every calldata for the selector
func Any() Matcher {
	return Matcher{wildcard: true}
}

// Exactly matches only calldata equal to calldata
func Exactly(calldata []felt.Felt) Matcher {
	return Matcher{fingerprint: Fingerprint(calldata)}
}

func (m Matcher) IsWildcard() bool {
	return m.wildcard
}

func (m Matcher) String() string {
	if m.wildcard {
		return "*"
	}
	return m.fingerprint.String()
}

// Fingerprint is the Pedersen array hash of calldata
func Fingerprint(calldata []felt.Felt) felt.Felt {
	return crypto.PedersenSlice(calldata)
}

type key struct {
	address  felt.Address
	selector felt.Felt
	matcher  Matcher
}

type entry struct {
	retdata []felt.Felt
	span    cheats.Span
}

// Hit is a matched mock that has not been consumed yet
type Hit struct {
	Retdata []felt.Felt
	key     key
}

func (h Hit) Wildcard() bool {
	return h.key.matcher.wildcard
}

// Registry holds the mocked calls of one execution
type Registry struct {
	entries map[key]*entry
	log     utils.SimpleLogger
}

func NewRegistry(log utils.SimpleLogger) *Registry {
	return &Registry{
		entries: make(map[key]*entry),
		log:     log,
	}
}

// Mock installs or replaces a substitute return value
func (r *Registry) Mock(address felt.Address, selector felt.Felt, matcher Matcher, retdata []felt.Felt, span cheats.Span) error {
	if err := address.Validate(); err != nil {
		return fmt.Errorf("%w: address %s: %w", ErrInvalidMock, &address, err)
	}
	if !span.IsIndefinite() && span.Remaining() == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidMock, cheats.ErrInvalidSpan)
	}
	r.entries[key{address, selector, matcher}] = &entry{retdata: slices.Clone(retdata), span: span}
	r.log.Debugw("Mock installed", "address", &address, "selector", &selector, "calldata", matcher, "span", span)
	return nil
}

func (r *Registry) Unmock(address felt.Address, selector felt.Felt, matcher Matcher) {
	delete(r.entries, key{address, selector, matcher})
}

// UnmockSelector removes every mock of selector on address
func (r *Registry) UnmockSelector(address felt.Address, selector felt.Felt) {
	for k := range r.entries {
		if k.address == address && k.selector == selector {
			delete(r.entries, k)
		}
	}
}

// Lookup tries the exact calldata fingerprint first, then the wildcard
func (r *Registry) Lookup(address felt.Address, selector felt.Felt, calldata []felt.Felt) (Hit, bool) {
	if len(r.entries) == 0 {
		return Hit{}, false
	}
	for _, m := range []Matcher{Exactly(calldata), Any()} {
		k := key{address, selector, m}
		if e, ok := r.entries[k]; ok {
			return Hit{Retdata: slices.Clone(e.retdata), key: k}, true
		}
	}
	return Hit{}, false
}

// Consume decrements the span of the mock behind hit. It must be called once
// per mocked invocation.
func (r *Registry) Consume(hit Hit) {
	e, ok := r.entries[hit.key]
	if !ok {
		return
	}
	r.log.Debugw("Mock consumed", "address", &hit.key.address, "selector", &hit.key.selector)
	if e.span.IsIndefinite() {
		return
	}
	if e.span.Remaining() <= 1 {
		delete(r.entries, hit.key)
		return
	}
	e.span = cheats.Calls(e.span.Remaining() - 1)
}

func (r *Registry) Len() int {
	return len(r.entries)
}
