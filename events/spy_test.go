package events_test

import (
	"testing"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/events"
	"github.com/NethermindEth/juno-cheatnet/starknet"
	"github.com/NethermindEth/juno-cheatnet/trace"
	"github.com/NethermindEth/juno-cheatnet/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(addr uint64) *starknet.CallEntryPoint {
	return &starknet.CallEntryPoint{StorageAddress: felt.FromUint64[felt.Address](addr)}
}

func emit(b *trace.Builder, key uint64) {
	b.Emit(&starknet.Event{Keys: []felt.Felt{felt.FromUint64[felt.Felt](key)}})
}

func keys(evs []trace.Event) []uint64 {
	return utils.Map(evs, func(e trace.Event) uint64 {
		v, _ := e.Keys[0].Uint64()
		return v
	})
}

// runTree builds 1 -> (2 -> 3), 4 where every contract emits before and after its children
func runTree(b *trace.Builder) trace.Handle {
	root := b.Enter(call(1), nil)
	emit(b, 10)
	c2 := b.Enter(call(2), nil)
	emit(b, 20)
	c3 := b.Enter(call(3), nil)
	emit(b, 30)
	b.Exit(c3, trace.Succeeded(nil), nil)
	b.Exit(c2, trace.Succeeded(nil), nil)
	emit(b, 11)
	c4 := b.Enter(call(4), nil)
	emit(b, 40)
	b.Exit(c4, trace.Succeeded(nil), nil)
	b.Exit(root, trace.Succeeded(nil), nil)
	return root
}

func TestCollectOrder(t *testing.T) {
	b := trace.NewBuilder(utils.NewNopZapLogger())
	root := runTree(b)

	spy := events.NewSpy()
	spy.WatchAll()
	assert.Equal(t, []uint64{10, 11, 20, 30, 40}, keys(spy.Collect(b.Tree(root))))
}

func TestCollectFiltersByEmitter(t *testing.T) {
	b := trace.NewBuilder(utils.NewNopZapLogger())
	root := runTree(b)

	spy := events.NewSpy()
	spy.Watch(felt.FromUint64[felt.Address](3), felt.FromUint64[felt.Address](1))
	got := spy.Collect(b.Tree(root))
	assert.Equal(t, []uint64{10, 11, 30}, keys(got))
	assert.Equal(t, felt.FromUint64[felt.Address](3), got[2].Emitter)
}

func TestCollectIsDestructive(t *testing.T) {
	b := trace.NewBuilder(utils.NewNopZapLogger())
	spy := events.NewSpy()
	spy.WatchAll()

	first := runTree(b)
	require.Len(t, spy.Collect(b.Tree(first)), 5)
	assert.Empty(t, spy.Collect(b.Tree(first)))

	second := b.Enter(call(5), nil)
	emit(b, 50)
	emit(b, 51)
	b.Exit(second, trace.Succeeded(nil), nil)

	assert.Equal(t, []uint64{50, 51}, keys(spy.Collect(b.Tree(first), b.Tree(second))))
	assert.Empty(t, spy.Collect(b.Tree(first), b.Tree(second)))

	spy.Reset()
	assert.Len(t, spy.Collect(b.Tree(first), b.Tree(second)), 7)
}

func TestUnwatchedEventsAreConsumed(t *testing.T) {
	b := trace.NewBuilder(utils.NewNopZapLogger())
	root := runTree(b)

	spy := events.NewSpy()
	assert.Empty(t, spy.Collect(b.Tree(root)))

	// watching later does not resurrect events that were already pending
	spy.Watch(felt.FromUint64[felt.Address](1))
	assert.Empty(t, spy.Collect(b.Tree(root)))
}

func TestSkipTo(t *testing.T) {
	b := trace.NewBuilder(utils.NewNopZapLogger())
	first := runTree(b)

	spy := events.NewSpy()
	spy.WatchAll()
	spy.SkipTo(b.Seq())

	second := b.Enter(call(5), nil)
	emit(b, 50)
	b.Exit(second, trace.Succeeded(nil), nil)

	assert.Equal(t, []uint64{50}, keys(spy.Collect(b.Tree(first), b.Tree(second))))
}
