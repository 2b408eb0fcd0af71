package cheats_test

import (
	"testing"

	"github.com/NethermindEth/juno-cheatnet/cheats"
	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/starknet"
	"github.com/NethermindEth/juno-cheatnet/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(vs ...uint64) cheats.Value {
	out := make(cheats.Value, len(vs))
	for i, v := range vs {
		out[i] = felt.FromUint64[felt.Felt](v)
	}
	return out
}

func contract(v uint64) cheats.Target {
	return cheats.Contract(felt.FromUint64[felt.Address](v))
}

func newStore() *cheats.Store {
	return cheats.NewStore(utils.NewNopZapLogger())
}

func TestIndefiniteSurvivesTicks(t *testing.T) {
	for _, fact := range cheats.Facts() {
		if fact == cheats.BlockHash {
			continue
		}
		for _, target := range []cheats.Target{cheats.Global(), contract(1)} {
			t.Run(fact.String()+"@"+target.String(), func(t *testing.T) {
				s := newStore()
				require.NoError(t, s.Set(fact, target, value(7), cheats.Indefinite()))
				for range 5 {
					s.Tick(target)
					got, ok := s.Resolve(fact, target)
					require.True(t, ok)
					assert.Equal(t, value(7), got)
				}
				s.Clear(fact, target)
				_, ok := s.Resolve(fact, target)
				assert.False(t, ok)
			})
		}
	}
}

func TestCallsSpanExpires(t *testing.T) {
	for _, n := range []uint64{1, 2, 5} {
		for _, target := range []cheats.Target{cheats.Global(), contract(1)} {
			s := newStore()
			require.NoError(t, s.Set(cheats.BlockNumber, target, value(99), cheats.Calls(n)))
			for range n - 1 {
				s.Tick(target)
			}
			got, ok := s.Resolve(cheats.BlockNumber, target)
			require.True(t, ok, "still active after n-1 ticks")
			assert.Equal(t, value(99), got)

			s.Tick(target)
			_, ok = s.Resolve(cheats.BlockNumber, target)
			assert.False(t, ok, "expired after n ticks")
		}
	}
}

func TestPerTargetShadowsGlobal(t *testing.T) {
	s := newStore()
	require.NoError(t, s.Set(cheats.CallerAddress, cheats.Global(), value(1), cheats.Indefinite()))
	require.NoError(t, s.Set(cheats.CallerAddress, contract(5), value(2), cheats.Indefinite()))

	got, ok := s.Resolve(cheats.CallerAddress, contract(5))
	require.True(t, ok)
	assert.Equal(t, value(2), got)

	got, ok = s.Resolve(cheats.CallerAddress, contract(6))
	require.True(t, ok)
	assert.Equal(t, value(1), got)

	got, ok = s.Resolve(cheats.CallerAddress, cheats.Global())
	require.True(t, ok)
	assert.Equal(t, value(1), got)

	s.Clear(cheats.CallerAddress, contract(5))
	got, _ = s.Resolve(cheats.CallerAddress, contract(5))
	assert.Equal(t, value(1), got)
}

func TestLastWriteWins(t *testing.T) {
	s := newStore()
	require.NoError(t, s.Set(cheats.BlockTimestamp, contract(1), value(10), cheats.Calls(1)))
	require.NoError(t, s.Set(cheats.BlockTimestamp, contract(1), value(20), cheats.Indefinite()))

	s.Tick(contract(1))
	got, ok := s.Resolve(cheats.BlockTimestamp, contract(1))
	require.True(t, ok)
	assert.Equal(t, value(20), got)
}

func TestTickScope(t *testing.T) {
	s := newStore()
	require.NoError(t, s.Set(cheats.Nonce, contract(1), value(1), cheats.Calls(1)))
	require.NoError(t, s.Set(cheats.Nonce, contract(2), value(2), cheats.Calls(1)))
	require.NoError(t, s.Set(cheats.MaxFee, cheats.Global(), value(3), cheats.Calls(2)))

	s.Tick(contract(1))
	_, ok := s.Resolve(cheats.Nonce, contract(1))
	assert.False(t, ok)
	_, ok = s.Resolve(cheats.Nonce, contract(2))
	assert.True(t, ok, "other targets are untouched")
	_, ok = s.Resolve(cheats.MaxFee, contract(9))
	assert.True(t, ok, "global span has one call left")

	s.Tick(cheats.Global())
	_, ok = s.Resolve(cheats.MaxFee, contract(9))
	assert.False(t, ok)
	_, ok = s.Resolve(cheats.Nonce, contract(2))
	assert.True(t, ok, "global ticks leave per-target spans alone")
}

func TestSetValidation(t *testing.T) {
	tooBig := felt.UnsafeFromString[felt.Felt]("0x10000000000000000")
	badAddress := felt.UnsafeFromString[felt.Address]("0x800000000000000000000000000000000000000000000000000000000000000")

	tests := map[string]struct {
		fact   cheats.Fact
		target cheats.Target
		value  cheats.Value
		span   cheats.Span
		err    error
	}{
		"zero calls":        {cheats.CallerAddress, cheats.Global(), value(1), cheats.Calls(0), cheats.ErrInvalidSpan},
		"missing value":     {cheats.CallerAddress, cheats.Global(), nil, cheats.Indefinite(), cheats.ErrInvalidValue},
		"too many values":   {cheats.BlockNumber, cheats.Global(), value(1, 2), cheats.Indefinite(), cheats.ErrInvalidValue},
		"block overflow":    {cheats.BlockNumber, cheats.Global(), cheats.Value{tooBig}, cheats.Indefinite(), cheats.ErrInvalidValue},
		"caller out of range": {
			cheats.CallerAddress, cheats.Global(), cheats.Value{felt.Felt(badAddress)}, cheats.Indefinite(), cheats.ErrInvalidValue,
		},
		"target out of range": {
			cheats.CallerAddress, cheats.Contract(badAddress), value(1), cheats.Indefinite(), starknet.ErrInvalidAddress,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			assert.ErrorIs(t, s.Set(tc.fact, tc.target, tc.value, tc.span), tc.err)
			assert.Empty(t, s.Active())
		})
	}

	t.Run("signature takes a vector", func(t *testing.T) {
		s := newStore()
		require.NoError(t, s.Set(cheats.Signature, contract(1), value(1, 2, 3), cheats.Indefinite()))
		require.NoError(t, s.Set(cheats.Signature, contract(2), value(), cheats.Indefinite()))
	})

	t.Run("block hash needs a block number", func(t *testing.T) {
		s := newStore()
		assert.Error(t, s.Set(cheats.BlockHash, cheats.Global(), value(1), cheats.Indefinite()))
	})
}

func TestBlockHash(t *testing.T) {
	s := newStore()
	require.NoError(t, s.SetBlockHash(cheats.Global(), 10, felt.FromUint64[felt.Felt](0xaa), cheats.Indefinite()))
	require.NoError(t, s.SetBlockHash(contract(1), 10, felt.FromUint64[felt.Felt](0xbb), cheats.Calls(1)))

	h, ok := s.ResolveBlockHash(contract(1), 10)
	require.True(t, ok)
	assert.Equal(t, felt.FromUint64[felt.Felt](0xbb), h)

	_, ok = s.ResolveBlockHash(contract(1), 11)
	assert.False(t, ok)

	snap := s.Snapshot(felt.FromUint64[felt.Address](1))
	h, ok = snap.BlockHash(10)
	require.True(t, ok)
	assert.Equal(t, felt.FromUint64[felt.Felt](0xbb), h)

	s.Tick(contract(1))
	h, _ = s.ResolveBlockHash(contract(1), 10)
	assert.Equal(t, felt.FromUint64[felt.Felt](0xaa), h)

	s.ClearBlockHash(cheats.Global(), 10)
	_, ok = s.ResolveBlockHash(contract(1), 10)
	assert.False(t, ok)
}

func TestSnapshotApply(t *testing.T) {
	s := newStore()
	require.NoError(t, s.Set(cheats.CallerAddress, contract(1), value(0x123), cheats.Indefinite()))
	require.NoError(t, s.Set(cheats.BlockNumber, cheats.Global(), value(500), cheats.Indefinite()))
	require.NoError(t, s.Set(cheats.Signature, contract(1), value(4, 5), cheats.Indefinite()))

	snap := s.Snapshot(felt.FromUint64[felt.Address](1))
	assert.True(t, snap.AffectsExecutionInfo())
	caller, ok := snap.Caller()
	require.True(t, ok)
	assert.Equal(t, felt.FromUint64[felt.Address](0x123), caller)

	info := starknet.ExecutionInfo{
		BlockInfo: starknet.BlockInfo{BlockNumber: 1, BlockTimestamp: 2},
		TxInfo:    starknet.TxInfo{Nonce: felt.FromUint64[felt.Felt](3)},
	}
	snap.Apply(&info)
	assert.Equal(t, uint64(500), info.BlockInfo.BlockNumber)
	assert.Equal(t, uint64(2), info.BlockInfo.BlockTimestamp)
	assert.Equal(t, felt.FromUint64[felt.Address](0x123), info.CallerAddress)
	assert.Equal(t, []felt.Felt(value(4, 5)), info.TxInfo.Signature)
	assert.Equal(t, felt.FromUint64[felt.Felt](3), info.TxInfo.Nonce)

	other := s.Snapshot(felt.FromUint64[felt.Address](2))
	_, ok = other.Caller()
	assert.False(t, ok)
	assert.False(t, other.Empty())

	empty := newStore().Snapshot(felt.FromUint64[felt.Address](2))
	assert.True(t, empty.Empty())
}

func TestFactText(t *testing.T) {
	for _, fact := range cheats.Facts() {
		var parsed cheats.Fact
		text, err := fact.MarshalText()
		require.NoError(t, err)
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, fact, parsed)
	}
	_, err := cheats.ParseFact("gas_price")
	assert.Error(t, err)
}
