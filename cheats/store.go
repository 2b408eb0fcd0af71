package cheats

import (
	"errors"
	"fmt"
	"slices"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/utils"
)

var (
	ErrInvalidSpan  = errors.New("span must last at least one call")
	ErrInvalidValue = errors.New("invalid override value")
)

// Value is an override payload. Every fact but Signature holds exactly one felt.
type Value []felt.Felt

type override struct {
	value Value
	span  Span
}

type factKey struct {
	fact   Fact
	target Target
}

type blockHashKey struct {
	target Target
	number uint64
}

// Store holds the active overrides of one execution. It is not safe for
// concurrent use.
type Store struct {
	overrides   map[factKey]*override
	blockHashes map[blockHashKey]*override
	log         utils.SimpleLogger
}

func NewStore(log utils.SimpleLogger) *Store {
	return &Store{
		overrides:   make(map[factKey]*override),
		blockHashes: make(map[blockHashKey]*override),
		log:         log,
	}
}

func validateValue(fact Fact, value Value) error {
	if !fact.vector() && len(value) != 1 {
		return fmt.Errorf("%s expects one value, got %d: %w", fact, len(value), ErrInvalidValue)
	}
	switch {
	case fact.numeric():
		if _, err := value[0].Uint64(); err != nil {
			return fmt.Errorf("%s: %w: %w", fact, ErrInvalidValue, err)
		}
	case fact.address():
		addr := felt.Address(value[0])
		if err := addr.Validate(); err != nil {
			return fmt.Errorf("%s: %w: %w", fact, ErrInvalidValue, err)
		}
	}
	return nil
}

// Set installs or replaces the override for (fact, target)
func (s *Store) Set(fact Fact, target Target, value Value, span Span) error {
	if fact == BlockHash {
		return fmt.Errorf("%s is keyed by block number, use SetBlockHash", fact)
	}
	if fact < 0 || int(fact) >= len(facts) {
		return fmt.Errorf("unknown fact %d", int(fact))
	}
	if err := target.validate(); err != nil {
		return err
	}
	if err := span.validate(); err != nil {
		return err
	}
	if err := validateValue(fact, value); err != nil {
		return err
	}

	s.overrides[factKey{fact, target}] = &override{value: slices.Clone(value), span: span}
	s.log.Debugw("Override set", "fact", fact, "target", target, "span", span)
	return nil
}

func (s *Store) Clear(fact Fact, target Target) {
	if _, ok := s.overrides[factKey{fact, target}]; ok {
		delete(s.overrides, factKey{fact, target})
		s.log.Debugw("Override cleared", "fact", fact, "target", target)
	}
}

// Resolve prefers the override of target over the global one
func (s *Store) Resolve(fact Fact, target Target) (Value, bool) {
	if !target.global {
		if o, ok := s.overrides[factKey{fact, target}]; ok {
			return slices.Clone(o.value), true
		}
	}
	if o, ok := s.overrides[factKey{fact, Global()}]; ok {
		return slices.Clone(o.value), true
	}
	return nil, false
}

func (s *Store) SetBlockHash(target Target, number uint64, hash felt.Felt, span Span) error {
	if err := target.validate(); err != nil {
		return err
	}
	if err := span.validate(); err != nil {
		return err
	}
	s.blockHashes[blockHashKey{target, number}] = &override{value: Value{hash}, span: span}
	s.log.Debugw("Override set", "fact", BlockHash, "target", target, "block", number, "span", span)
	return nil
}

func (s *Store) ClearBlockHash(target Target, number uint64) {
	delete(s.blockHashes, blockHashKey{target, number})
}

func (s *Store) ResolveBlockHash(target Target, number uint64) (felt.Felt, bool) {
	if !target.global {
		if o, ok := s.blockHashes[blockHashKey{target, number}]; ok {
			return o.value[0], true
		}
	}
	if o, ok := s.blockHashes[blockHashKey{Global(), number}]; ok {
		return o.value[0], true
	}
	return felt.Felt{}, false
}

func (s *Store) relevant(target, candidate Target) bool {
	return candidate.global || (!target.global && candidate == target)
}

// Tick records one invocation against target. Bounded spans of the target and
// of the global scope are decremented and dropped once exhausted.
func (s *Store) Tick(target Target) {
	for k, o := range s.overrides {
		if s.relevant(target, k.target) && o.span.tick() {
			delete(s.overrides, k)
			s.log.Debugw("Override expired", "fact", k.fact, "target", k.target)
		}
	}
	for k, o := range s.blockHashes {
		if s.relevant(target, k.target) && o.span.tick() {
			delete(s.blockHashes, k)
			s.log.Debugw("Override expired", "fact", BlockHash, "target", k.target, "block", k.number)
		}
	}
}

// Snapshot resolves every fact for one invocation of address
func (s *Store) Snapshot(address felt.Address) Resolved {
	target := Contract(address)
	var r Resolved
	for _, fact := range Facts() {
		if fact == BlockHash {
			continue
		}
		if v, ok := s.Resolve(fact, target); ok {
			if r.Values == nil {
				r.Values = make(map[Fact]Value)
			}
			r.Values[fact] = v
		}
	}
	for k, o := range s.blockHashes {
		if !s.relevant(target, k.target) {
			continue
		}
		if _, ok := r.BlockHashes[k.number]; ok && k.target.global {
			continue
		}
		if r.BlockHashes == nil {
			r.BlockHashes = make(map[uint64]felt.Felt)
		}
		r.BlockHashes[k.number] = o.value[0]
	}
	return r
}

// Active lists installed overrides, used for diagnostics
func (s *Store) Active() map[string]Span {
	out := make(map[string]Span, len(s.overrides)+len(s.blockHashes))
	for k, o := range s.overrides {
		out[k.fact.String()+"@"+k.target.String()] = o.span
	}
	for k, o := range s.blockHashes {
		out[fmt.Sprintf("%s[%d]@%s", BlockHash, k.number, k.target)] = o.span
	}
	return out
}
