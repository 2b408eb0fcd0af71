package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/starknet"
	"github.com/NethermindEth/juno-cheatnet/utils"
	"go.uber.org/zap"
)

var (
	ErrContractNotDeployed = errors.New("contract not deployed")
	ErrClassNotDeclared    = errors.New("class not declared")
	ErrNoCheckpoint        = errors.New("no open checkpoint")
)

//go:generate mockgen -destination=../mocks/mock_fork_reader.go -package=mocks github.com/NethermindEth/juno-cheatnet/state ForkReader

// ForkReader is a read-only ledger snapshot pinned to one block
type ForkReader interface {
	StorageAt(ctx context.Context, addr felt.Address, key felt.Felt) (felt.Felt, error)
	NonceAt(ctx context.Context, addr felt.Address) (felt.Felt, error)
	ClassHashAt(ctx context.Context, addr felt.Address) (felt.ClassHash, error)
	CompiledClass(ctx context.Context, classHash felt.ClassHash) (*starknet.CompiledClass, error)
}

// State layers local writes over an optional fork. Writes go to the innermost
// checkpoint; reads fall back to values already fetched from the fork, then
// to the fork itself, then to the zero value.
type State struct {
	fork ForkReader
	// fork reads are immutable, so they survive rollbacks
	initial *Overlay
	layers  []*Overlay
	log     utils.StructuredLogger
}

func New(fork ForkReader, log utils.StructuredLogger) *State {
	initial := NewOverlay(nil)
	return &State{
		fork:    fork,
		initial: initial,
		layers:  []*Overlay{NewOverlay(nil)},
		log:     log,
	}
}

func (s *State) top() *Overlay {
	return s.layers[len(s.layers)-1]
}

// Checkpoint opens a nested layer that can later be committed or rolled back
func (s *State) Checkpoint() {
	s.layers = append(s.layers, NewOverlay(s.top()))
}

// Commit folds the innermost layer into its parent
func (s *State) Commit() error {
	if len(s.layers) < 2 {
		return ErrNoCheckpoint
	}
	child := s.top()
	s.layers = s.layers[:len(s.layers)-1]
	s.top().Merge(child)
	return nil
}

// Rollback discards every write made since the last Checkpoint
func (s *State) Rollback() error {
	if len(s.layers) < 2 {
		return ErrNoCheckpoint
	}
	s.layers = s.layers[:len(s.layers)-1]
	return nil
}

// Depth is the number of open checkpoints
func (s *State) Depth() int {
	return len(s.layers) - 1
}

// RollbackTo discards checkpoints until depth remain
func (s *State) RollbackTo(depth int) {
	for s.Depth() > depth {
		s.layers = s.layers[:len(s.layers)-1]
	}
}

func (s *State) Forked() bool {
	return s.fork != nil
}

// forkFallback swallows fork errors so that reads default to zero. Only a
// cancelled context is reported back.
func (s *State) forkFallback(ctx context.Context, what string, addr felt.Address, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	s.log.Warn("Fork query failed, using default value",
		zap.String("query", what),
		zap.Stringer("address", &addr),
		zap.Error(err))
	return nil
}

func (s *State) Storage(ctx context.Context, addr felt.Address, key felt.Felt) (felt.Felt, error) {
	if v, ok := s.top().GetStorage(addr, key); ok {
		return v, nil
	}
	entry := StorageEntry{addr, key}
	if v, ok := s.initial.Storage[entry]; ok {
		return v, nil
	}
	if s.fork == nil {
		return felt.Zero, nil
	}

	v, err := s.fork.StorageAt(ctx, addr, key)
	if err != nil {
		return felt.Zero, s.forkFallback(ctx, "storage", addr, err)
	}
	s.initial.Storage[entry] = v
	return v, nil
}

func (s *State) Nonce(ctx context.Context, addr felt.Address) (felt.Felt, error) {
	if v, ok := s.top().GetNonce(addr); ok {
		return v, nil
	}
	if v, ok := s.initial.Nonces[addr]; ok {
		return v, nil
	}
	if s.fork == nil {
		return felt.Zero, nil
	}

	v, err := s.fork.NonceAt(ctx, addr)
	if err != nil {
		return felt.Zero, s.forkFallback(ctx, "nonce", addr, err)
	}
	s.initial.Nonces[addr] = v
	return v, nil
}

// ClassHash returns the class of a deployed contract or zero if nothing is deployed at addr
func (s *State) ClassHash(ctx context.Context, addr felt.Address) (felt.ClassHash, error) {
	if v, ok := s.top().GetClassHash(addr); ok {
		return v, nil
	}
	if v, ok := s.initial.ClassHashes[addr]; ok {
		return v, nil
	}
	if s.fork == nil {
		return felt.ClassHash{}, nil
	}

	v, err := s.fork.ClassHashAt(ctx, addr)
	if err != nil {
		return felt.ClassHash{}, s.forkFallback(ctx, "class hash", addr, err)
	}
	s.initial.ClassHashes[addr] = v
	return v, nil
}

// CompiledClass fails with ErrClassNotDeclared when the class is unknown locally and on the fork
func (s *State) CompiledClass(ctx context.Context, classHash felt.ClassHash) (*starknet.CompiledClass, error) {
	if c, ok := s.top().GetClass(classHash); ok {
		return c, nil
	}
	if c, ok := s.initial.Classes[classHash]; ok {
		return c, nil
	}
	if s.fork == nil {
		return nil, fmt.Errorf("%w: %s", ErrClassNotDeclared, &classHash)
	}

	c, err := s.fork.CompiledClass(ctx, classHash)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrClassNotDeclared, &classHash, err)
	}
	s.initial.Classes[classHash] = c
	return c, nil
}

// CompiledClassHash is only known for locally declared classes, zero otherwise
func (s *State) CompiledClassHash(classHash felt.ClassHash) felt.CasmClassHash {
	v, _ := s.top().GetCompiledClassHash(classHash)
	return v
}

func (s *State) SetStorage(addr felt.Address, key, value felt.Felt) {
	s.top().Storage[StorageEntry{addr, key}] = value
}

func (s *State) SetNonce(addr felt.Address, nonce felt.Felt) {
	s.top().Nonces[addr] = nonce
}

func (s *State) IncrementNonce(ctx context.Context, addr felt.Address) error {
	nonce, err := s.Nonce(ctx, addr)
	if err != nil {
		return err
	}
	s.SetNonce(addr, *new(felt.Felt).Add(&nonce, &felt.One))
	return nil
}

func (s *State) SetClassHash(addr felt.Address, classHash felt.ClassHash) {
	s.top().ClassHashes[addr] = classHash
}

// Declare makes class executable under classHash
func (s *State) Declare(classHash felt.ClassHash, class *starknet.CompiledClass, compiledClassHash felt.CasmClassHash) {
	top := s.top()
	top.Classes[classHash] = class
	top.CompiledClassHashes[classHash] = compiledClassHash
}

// ReplaceClass remaps the class of a deployed contract. Storage at addr is not touched.
func (s *State) ReplaceClass(ctx context.Context, addr felt.Address, classHash felt.ClassHash) error {
	current, err := s.ClassHash(ctx, addr)
	if err != nil {
		return err
	}
	if current.IsZero() {
		return fmt.Errorf("%w: %s", ErrContractNotDeployed, &addr)
	}
	if _, err := s.CompiledClass(ctx, classHash); err != nil {
		return err
	}
	s.SetClassHash(addr, classHash)
	return nil
}

// Diff flattens every layer into one overlay
func (s *State) Diff() *Overlay {
	out := NewOverlay(nil)
	for _, layer := range s.layers {
		out.Merge(layer)
	}
	return out
}
