package cheatnet

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/NethermindEth/juno-cheatnet/cheats"
	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/intercept"
	"github.com/NethermindEth/juno-cheatnet/mockcall"
	"github.com/NethermindEth/juno-cheatnet/state"
	"github.com/NethermindEth/juno-cheatnet/trace"
	"github.com/NethermindEth/juno-cheatnet/utils"
	"go.uber.org/zap"
)

var ErrInvalidCheatcodeInput = errors.New("invalid cheatcode input")

// Span encoding used by cheatcodes: [0] is indefinite, [1, n] is n calls
const (
	spanIndefinite = 0
	spanCalls      = 1
)

// replace_bytecode error variants
const (
	replaceContractNotDeployed = 0
	replaceUndeclaredClassHash = 1
)

type cheatcodeFunc func(ctx context.Context, r *Runtime, in *inputs) ([]felt.Felt, error)

var cheatcodes = buildCheatcodes()

func buildCheatcodes() map[string]cheatcodeFunc {
	m := map[string]cheatcodeFunc{
		"cheat_block_hash":              cheatBlockHash,
		"start_cheat_block_hash":        startCheatBlockHash,
		"start_cheat_block_hash_global": startCheatBlockHashGlobal,
		"stop_cheat_block_hash":         stopCheatBlockHash,
		"stop_cheat_block_hash_global":  stopCheatBlockHashGlobal,
		"mock_call":                     mockCall,
		"mock_call_when":                mockCallWhen,
		"stop_mock_call":                stopMockCall,
		"store":                         store,
		"load":                          load,
		"replace_bytecode":              replaceBytecode,
		"get_class_hash":                getClassHash,
		"spy_events":                    spyEvents,
		"get_events":                    getEvents,
		"print":                         printFelts,
	}
	for _, fact := range cheats.Facts() {
		if fact == cheats.BlockHash {
			continue
		}
		m["cheat_"+fact.String()] = cheatFact(fact)
		m["start_cheat_"+fact.String()] = startCheatFact(fact)
		m["start_cheat_"+fact.String()+"_global"] = startCheatFactGlobal(fact)
		m["stop_cheat_"+fact.String()] = stopCheatFact(fact)
		m["stop_cheat_"+fact.String()+"_global"] = stopCheatFactGlobal(fact)
	}
	return m
}

// Cheatcodes lists the names understood by the cheatcode layer
func Cheatcodes() []string {
	return slices.Sorted(maps.Keys(cheatcodes))
}

// cheatcodeLayer decodes cheatcode requests and applies them to the runtime
type cheatcodeLayer struct {
	r *Runtime
}

func (l *cheatcodeLayer) Name() string {
	return "cheatcode"
}

func (l *cheatcodeLayer) Handle(ctx context.Context, _ *intercept.Frame, req intercept.Request) (intercept.Result, error) {
	cc, ok := req.(intercept.Cheatcode)
	if !ok {
		return intercept.Pass(), nil
	}
	fn, ok := cheatcodes[cc.Name]
	if !ok {
		return intercept.Pass(), nil
	}

	in := &inputs{name: cc.Name, data: cc.Inputs}
	out, err := fn(ctx, l.r, in)
	if err == nil {
		err = in.done()
	}
	if err != nil {
		return intercept.Pass(), err
	}
	if out == nil {
		out = []felt.Felt{}
	}
	return intercept.Handled(&intercept.Response{Retdata: out}), nil
}

// inputs is a cursor over serialized cheatcode arguments
type inputs struct {
	name string
	data []felt.Felt
	pos  int
}

func (in *inputs) errorf(format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", in.name, ErrInvalidCheatcodeInput, fmt.Sprintf(format, args...))
}

func (in *inputs) felt() (felt.Felt, error) {
	if in.pos >= len(in.data) {
		return felt.Zero, in.errorf("expected more than %d inputs", len(in.data))
	}
	v := in.data[in.pos]
	in.pos++
	return v, nil
}

func (in *inputs) uint64() (uint64, error) {
	v, err := in.felt()
	if err != nil {
		return 0, err
	}
	n, err := v.Uint64()
	if err != nil {
		return 0, in.errorf("input %d does not fit in u64", in.pos-1)
	}
	return n, nil
}

func (in *inputs) address() (felt.Address, error) {
	v, err := in.felt()
	if err != nil {
		return felt.Address{}, err
	}
	addr := felt.Address(v)
	if err = addr.Validate(); err != nil {
		return felt.Address{}, in.errorf("input %d: %v", in.pos-1, err)
	}
	return addr, nil
}

// array reads a length prefixed array
func (in *inputs) array() ([]felt.Felt, error) {
	n, err := in.uint64()
	if err != nil {
		return nil, err
	}
	if n > uint64(len(in.data)-in.pos) {
		return nil, in.errorf("array of length %d exceeds remaining inputs", n)
	}
	out := make([]felt.Felt, n)
	copy(out, in.data[in.pos:])
	in.pos += int(n)
	return out, nil
}

func (in *inputs) span() (cheats.Span, error) {
	variant, err := in.uint64()
	if err != nil {
		return cheats.Span{}, err
	}
	switch variant {
	case spanIndefinite:
		return cheats.Indefinite(), nil
	case spanCalls:
		n, err := in.uint64()
		if err != nil {
			return cheats.Span{}, err
		}
		if n == 0 {
			return cheats.Span{}, in.errorf("%v", cheats.ErrInvalidSpan)
		}
		return cheats.Calls(n), nil
	default:
		return cheats.Span{}, in.errorf("unknown span variant %d", variant)
	}
}

// value reads the override value of fact; vector facts are length prefixed
func (in *inputs) value(fact cheats.Fact) (cheats.Value, error) {
	if fact == cheats.Signature {
		return in.array()
	}
	v, err := in.felt()
	if err != nil {
		return nil, err
	}
	return cheats.Value{v}, nil
}

func (in *inputs) done() error {
	if in.pos != len(in.data) {
		return in.errorf("%d unexpected trailing inputs", len(in.data)-in.pos)
	}
	return nil
}

func cheatFact(fact cheats.Fact) cheatcodeFunc {
	return func(_ context.Context, r *Runtime, in *inputs) ([]felt.Felt, error) {
		target, err := in.address()
		if err != nil {
			return nil, err
		}
		value, err := in.value(fact)
		if err != nil {
			return nil, err
		}
		span, err := in.span()
		if err != nil {
			return nil, err
		}
		return nil, r.cheats.Set(fact, cheats.Contract(target), value, span)
	}
}

func startCheatFact(fact cheats.Fact) cheatcodeFunc {
	return func(_ context.Context, r *Runtime, in *inputs) ([]felt.Felt, error) {
		target, err := in.address()
		if err != nil {
			return nil, err
		}
		value, err := in.value(fact)
		if err != nil {
			return nil, err
		}
		return nil, r.cheats.Set(fact, cheats.Contract(target), value, cheats.Indefinite())
	}
}

func startCheatFactGlobal(fact cheats.Fact) cheatcodeFunc {
	return func(_ context.Context, r *Runtime, in *inputs) ([]felt.Felt, error) {
		value, err := in.value(fact)
		if err != nil {
			return nil, err
		}
		return nil, r.cheats.Set(fact, cheats.Global(), value, cheats.Indefinite())
	}
}

func stopCheatFact(fact cheats.Fact) cheatcodeFunc {
	return func(_ context.Context, r *Runtime, in *inputs) ([]felt.Felt, error) {
		target, err := in.address()
		if err != nil {
			return nil, err
		}
		r.cheats.Clear(fact, cheats.Contract(target))
		return nil, nil
	}
}

func stopCheatFactGlobal(fact cheats.Fact) cheatcodeFunc {
	return func(_ context.Context, r *Runtime, _ *inputs) ([]felt.Felt, error) {
		r.cheats.Clear(fact, cheats.Global())
		return nil, nil
	}
}

// cheat_block_hash: [target, block_number, hash, span...]
func cheatBlockHash(_ context.Context, r *Runtime, in *inputs) ([]felt.Felt, error) {
	target, err := in.address()
	if err != nil {
		return nil, err
	}
	number, err := in.uint64()
	if err != nil {
		return nil, err
	}
	hash, err := in.felt()
	if err != nil {
		return nil, err
	}
	span, err := in.span()
	if err != nil {
		return nil, err
	}
	return nil, r.cheats.SetBlockHash(cheats.Contract(target), number, hash, span)
}

func startCheatBlockHash(_ context.Context, r *Runtime, in *inputs) ([]felt.Felt, error) {
	target, err := in.address()
	if err != nil {
		return nil, err
	}
	number, err := in.uint64()
	if err != nil {
		return nil, err
	}
	hash, err := in.felt()
	if err != nil {
		return nil, err
	}
	return nil, r.cheats.SetBlockHash(cheats.Contract(target), number, hash, cheats.Indefinite())
}

func startCheatBlockHashGlobal(_ context.Context, r *Runtime, in *inputs) ([]felt.Felt, error) {
	number, err := in.uint64()
	if err != nil {
		return nil, err
	}
	hash, err := in.felt()
	if err != nil {
		return nil, err
	}
	return nil, r.cheats.SetBlockHash(cheats.Global(), number, hash, cheats.Indefinite())
}

func stopCheatBlockHash(_ context.Context, r *Runtime, in *inputs) ([]felt.Felt, error) {
	target, err := in.address()
	if err != nil {
		return nil, err
	}
	number, err := in.uint64()
	if err != nil {
		return nil, err
	}
	r.cheats.ClearBlockHash(cheats.Contract(target), number)
	return nil, nil
}

func stopCheatBlockHashGlobal(_ context.Context, r *Runtime, in *inputs) ([]felt.Felt, error) {
	number, err := in.uint64()
	if err != nil {
		return nil, err
	}
	r.cheats.ClearBlockHash(cheats.Global(), number)
	return nil, nil
}

// mock_call: [contract, selector, retdata_len, retdata..., span...]
func mockCall(_ context.Context, r *Runtime, in *inputs) ([]felt.Felt, error) {
	addr, err := in.address()
	if err != nil {
		return nil, err
	}
	selector, err := in.felt()
	if err != nil {
		return nil, err
	}
	retdata, err := in.array()
	if err != nil {
		return nil, err
	}
	span, err := in.span()
	if err != nil {
		return nil, err
	}
	return nil, r.mocks.Mock(addr, selector, mockcall.Any(), retdata, span)
}

// mock_call_when: [contract, selector, calldata_len, calldata..., retdata_len, retdata..., span...]
func mockCallWhen(_ context.Context, r *Runtime, in *inputs) ([]felt.Felt, error) {
	addr, err := in.address()
	if err != nil {
		return nil, err
	}
	selector, err := in.felt()
	if err != nil {
		return nil, err
	}
	calldata, err := in.array()
	if err != nil {
		return nil, err
	}
	retdata, err := in.array()
	if err != nil {
		return nil, err
	}
	span, err := in.span()
	if err != nil {
		return nil, err
	}
	return nil, r.mocks.Mock(addr, selector, mockcall.Exactly(calldata), retdata, span)
}

func stopMockCall(_ context.Context, r *Runtime, in *inputs) ([]felt.Felt, error) {
	addr, err := in.address()
	if err != nil {
		return nil, err
	}
	selector, err := in.felt()
	if err != nil {
		return nil, err
	}
	r.mocks.UnmockSelector(addr, selector)
	return nil, nil
}

// store: [target, key, values_len, values...]
func store(_ context.Context, r *Runtime, in *inputs) ([]felt.Felt, error) {
	addr, err := in.address()
	if err != nil {
		return nil, err
	}
	key, err := in.felt()
	if err != nil {
		return nil, err
	}
	values, err := in.array()
	if err != nil {
		return nil, err
	}
	r.Store(addr, key, values...)
	return nil, nil
}

// load: [target, key, size] returns size consecutive values
func load(ctx context.Context, r *Runtime, in *inputs) ([]felt.Felt, error) {
	addr, err := in.address()
	if err != nil {
		return nil, err
	}
	key, err := in.felt()
	if err != nil {
		return nil, err
	}
	size, err := in.uint64()
	if err != nil {
		return nil, err
	}
	if size > 1<<16 {
		return nil, in.errorf("size %d too large", size)
	}
	return r.Load(ctx, addr, key, int(size))
}

// replace_bytecode: [target, class_hash] returns [0] or [1, error variant]
func replaceBytecode(ctx context.Context, r *Runtime, in *inputs) ([]felt.Felt, error) {
	addr, err := in.address()
	if err != nil {
		return nil, err
	}
	classHash, err := in.felt()
	if err != nil {
		return nil, err
	}
	err = r.ReplaceClass(ctx, addr, felt.ClassHash(classHash))
	switch {
	case err == nil:
		return []felt.Felt{felt.Zero}, nil
	case errors.Is(err, state.ErrContractNotDeployed):
		return []felt.Felt{felt.One, felt.FromUint64[felt.Felt](replaceContractNotDeployed)}, nil
	case errors.Is(err, state.ErrClassNotDeclared):
		return []felt.Felt{felt.One, felt.FromUint64[felt.Felt](replaceUndeclaredClassHash)}, nil
	default:
		return nil, err
	}
}

func getClassHash(ctx context.Context, r *Runtime, in *inputs) ([]felt.Felt, error) {
	addr, err := in.address()
	if err != nil {
		return nil, err
	}
	classHash, err := r.state.ClassHash(ctx, addr)
	if err != nil {
		return nil, err
	}
	return []felt.Felt{felt.Felt(classHash)}, nil
}

// spy_events returns the id used by get_events
func spyEvents(_ context.Context, r *Runtime, _ *inputs) ([]felt.Felt, error) {
	r.SpyEvents()
	return []felt.Felt{felt.FromUint64[felt.Felt](uint64(len(r.spies) - 1))}, nil
}

// get_events: [spy_id] returns [n, (from, keys_len, keys..., data_len, data...)...]
func getEvents(_ context.Context, r *Runtime, in *inputs) ([]felt.Felt, error) {
	id, err := in.uint64()
	if err != nil {
		return nil, err
	}
	if id >= uint64(len(r.spies)) {
		return nil, in.errorf("unknown spy %d", id)
	}
	evs := r.Events(r.spies[id])
	return serializeEvents(evs), nil
}

func serializeEvents(evs []trace.Event) []felt.Felt {
	out := []felt.Felt{felt.FromUint64[felt.Felt](uint64(len(evs)))}
	for _, ev := range evs {
		out = append(out, felt.Felt(ev.Emitter))
		out = append(out, felt.FromUint64[felt.Felt](uint64(len(ev.Keys))))
		out = append(out, ev.Keys...)
		out = append(out, felt.FromUint64[felt.Felt](uint64(len(ev.Data))))
		out = append(out, ev.Data...)
	}
	return out
}

func printFelts(_ context.Context, r *Runtime, in *inputs) ([]felt.Felt, error) {
	items := utils.Map(in.data, func(v felt.Felt) string {
		if s, ok := felt.ShortString(v); ok && s != "" {
			return s
		}
		return v.String()
	})
	in.pos = len(in.data)
	r.log.Info("print", zap.String("output", strings.Join(items, " ")))
	return nil, nil
}
