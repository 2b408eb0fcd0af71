package cheatnet_test

import (
	"testing"

	"github.com/NethermindEth/juno-cheatnet/cheatnet"
	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/starknet"
	"github.com/NethermindEth/juno-cheatnet/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheatcodeNames(t *testing.T) {
	names := cheatnet.Cheatcodes()
	for _, want := range []string{
		"cheat_caller_address",
		"start_cheat_block_timestamp_global",
		"stop_cheat_signature",
		"cheat_block_hash",
		"mock_call",
		"mock_call_when",
		"replace_bytecode",
		"spy_events",
	} {
		assert.Contains(t, names, want)
	}
	assert.NotContains(t, names, "cheat_block_hash_global")
	assert.IsIncreasing(t, names)
}

func TestFactCheatcodes(t *testing.T) {
	e := newEnv()
	driver, target := addr(0xd), addr(0x7)
	e.deployAt(driver, probe)
	e.deployAt(target, probe)

	cheat := func(t *testing.T, name string, inputs ...felt.Felt) *cheatnet.CallResult {
		t.Helper()
		res := e.call(t, driver, "cheat", cheatCall(name, inputs...)...)
		require.True(t, res.OK(), res.Describe())
		return res
	}

	t.Run("bounded caller override", func(t *testing.T) {
		cheat(t, "cheat_caller_address", felt.Felt(target), f(0x42), f(1), f(2))
		assert.Equal(t, []felt.Felt{f(0x42)}, e.call(t, target, "caller").Retdata)
		assert.Equal(t, []felt.Felt{f(0x42)}, e.call(t, target, "caller").Retdata)
		assert.Equal(t, []felt.Felt{felt.Zero}, e.call(t, target, "caller").Retdata)
	})

	t.Run("global block timestamp", func(t *testing.T) {
		cheat(t, "start_cheat_block_timestamp_global", f(1234))
		assert.Equal(t, f(1234), e.call(t, target, "block").Retdata[1])
		cheat(t, "start_cheat_block_timestamp", felt.Felt(target), f(99))
		assert.Equal(t, f(99), e.call(t, target, "block").Retdata[1])
		assert.Equal(t, f(1234), e.call(t, driver, "block").Retdata[1])

		cheat(t, "stop_cheat_block_timestamp", felt.Felt(target))
		cheat(t, "stop_cheat_block_timestamp_global")
		assert.Equal(t, felt.Zero, e.call(t, target, "block").Retdata[1])
	})

	t.Run("signature", func(t *testing.T) {
		cheat(t, "start_cheat_signature", felt.Felt(target), f(2), f(0x51), f(0x52))
		cheat(t, "start_cheat_account_contract_address", felt.Felt(target), f(0xacc))
		res := e.call(t, target, "tx")
		assert.Equal(t, []felt.Felt{f(0xacc), f(0x51), f(0x52)}, res.Retdata[1:])

		cheat(t, "stop_cheat_signature", felt.Felt(target))
		cheat(t, "stop_cheat_account_contract_address", felt.Felt(target))
		assert.Len(t, e.call(t, target, "tx").Retdata, 2)
	})

	t.Run("block number read back inside the same call", func(t *testing.T) {
		cheat(t, "cheat_block_number", felt.Felt(target), f(31337), f(0))
		assert.Equal(t, f(31337), e.call(t, target, "block").Retdata[0])
		cheat(t, "stop_cheat_block_number", felt.Felt(target))
	})

	t.Run("block hash", func(t *testing.T) {
		cheat(t, "start_cheat_block_hash_global", f(5), f(0xaaa))
		cheat(t, "cheat_block_hash", felt.Felt(target), f(5), f(0xbbb), f(1), f(1))
		assert.Equal(t, []felt.Felt{f(0xbbb)}, e.call(t, target, "block_hash", f(5)).Retdata)
		assert.Equal(t, []felt.Felt{f(0xaaa)}, e.call(t, target, "block_hash", f(5)).Retdata)
		cheat(t, "stop_cheat_block_hash_global", f(5))
		assert.Equal(t, []felt.Felt{felt.Zero}, e.call(t, target, "block_hash", f(5)).Retdata)
	})

	assert.Empty(t, e.rt.ActiveCheats())
}

func TestMockCheatcodes(t *testing.T) {
	e := newEnv()
	driver, target := addr(0xd), addr(0x7)
	e.deployAt(driver, probe)
	e.deployAt(target, counter)
	get := starknet.Selector("get")

	res := e.call(t, driver, "cheat", cheatCall("mock_call", felt.Felt(target), get, f(1), f(0x1111), f(0))...)
	require.True(t, res.OK(), res.Describe())
	res = e.call(t, driver, "cheat", cheatCall("mock_call_when", felt.Felt(target), get, f(1), f(7), f(2), f(0x2), f(0x3), f(1), f(1))...)
	require.True(t, res.OK(), res.Describe())

	assert.Equal(t, []felt.Felt{f(0x2), f(0x3)}, e.call(t, driver, "forward", felt.Felt(target), get, f(7)).Retdata)
	assert.Equal(t, []felt.Felt{f(0x1111)}, e.call(t, driver, "forward", felt.Felt(target), get, f(7)).Retdata)
	assert.Equal(t, []felt.Felt{f(0x1111)}, e.call(t, driver, "forward", felt.Felt(target), get).Retdata)

	res = e.call(t, driver, "cheat", cheatCall("stop_mock_call", felt.Felt(target), get)...)
	require.True(t, res.OK(), res.Describe())
	assert.Equal(t, []felt.Felt{felt.Zero}, e.call(t, driver, "forward", felt.Felt(target), get).Retdata)
	assert.Zero(t, e.rt.Mocks().Len())
}

func TestStorageAndClassCheatcodes(t *testing.T) {
	e := newEnv()
	driver, target := addr(0xd), addr(0x7)
	e.deployAt(driver, probe)
	counterHash := e.deployAt(target, counter)
	readerHash := e.declare(reader)

	res := e.call(t, driver, "cheat", cheatCall("store", felt.Felt(target), f(0), f(2), f(41), f(42))...)
	require.True(t, res.OK(), res.Describe())
	assert.Equal(t, []felt.Felt{f(42)}, e.call(t, target, "increment").Retdata)

	res = e.call(t, driver, "cheat", cheatCall("load", felt.Felt(target), f(0), f(2))...)
	assert.Equal(t, []felt.Felt{f(42), f(42)}, res.Retdata)

	res = e.call(t, driver, "cheat", cheatCall("get_class_hash", felt.Felt(target))...)
	assert.Equal(t, []felt.Felt{felt.Felt(counterHash)}, res.Retdata)

	tests := map[string]struct {
		target    felt.Address
		classHash felt.ClassHash
		want      []felt.Felt
	}{
		"replaced": {
			target:    target,
			classHash: readerHash,
			want:      []felt.Felt{f(0)},
		},
		"contract not deployed": {
			target:    addr(0x404),
			classHash: readerHash,
			want:      []felt.Felt{f(1), f(0)},
		},
		"undeclared class": {
			target:    target,
			classHash: felt.FromUint64[felt.ClassHash](0xabc),
			want:      []felt.Felt{f(1), f(1)},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			res := e.call(t, driver, "cheat", cheatCall("replace_bytecode", felt.Felt(test.target), felt.Felt(test.classHash))...)
			require.True(t, res.OK(), res.Describe())
			assert.Equal(t, test.want, res.Retdata)
		})
	}

	assert.Equal(t, []felt.Felt{f(42), short("reader")}, e.call(t, target, "get").Retdata)
}

func TestEventCheatcodes(t *testing.T) {
	e := newEnv()
	driver, emitter := addr(0xd), addr(0xe)
	e.deployAt(driver, probe)
	e.deployAt(emitter, probe)

	res := e.call(t, driver, "cheat", cheatCall("spy_events")...)
	require.True(t, res.OK(), res.Describe())
	assert.Equal(t, []felt.Felt{f(0)}, res.Retdata)

	e.call(t, emitter, "emit", f(0x10), f(0x11))

	res = e.call(t, driver, "cheat", cheatCall("get_events", f(0))...)
	require.True(t, res.OK(), res.Describe())
	assert.Equal(t, []felt.Felt{
		f(1),
		felt.Felt(emitter),
		f(2), f(0x10), f(0x11),
		f(1), f(0xda7a),
	}, res.Retdata)

	res = e.call(t, driver, "cheat", cheatCall("get_events", f(0))...)
	assert.Equal(t, []felt.Felt{f(0)}, res.Retdata)

	res = e.call(t, driver, "cheat", cheatCall("get_events", f(3))...)
	assert.Equal(t, trace.Error, res.Kind)
	assert.Contains(t, res.Message, "unknown spy 3")
}

func TestCheatcodeErrors(t *testing.T) {
	e := newEnv()
	driver := addr(0xd)
	e.deployAt(driver, probe)

	tests := map[string]struct {
		name    string
		inputs  []felt.Felt
		message string
	}{
		"unknown": {
			name:    "warp",
			message: `Unknown cheatcode "warp".`,
		},
		"missing inputs": {
			name:    "cheat_caller_address",
			inputs:  []felt.Felt{f(0x1)},
			message: "cheat_caller_address: invalid cheatcode input: expected more than 1 inputs",
		},
		"trailing inputs": {
			name:    "stop_cheat_nonce_global",
			inputs:  []felt.Felt{f(0x1)},
			message: "stop_cheat_nonce_global: invalid cheatcode input: 1 unexpected trailing inputs",
		},
		"zero call span": {
			name:    "cheat_nonce",
			inputs:  []felt.Felt{f(0x1), f(0x2), f(1), f(0)},
			message: "invalid cheatcode input",
		},
		"unknown span variant": {
			name:    "cheat_nonce",
			inputs:  []felt.Felt{f(0x1), f(0x2), f(2)},
			message: "unknown span variant 2",
		},
		"oversized load": {
			name:    "load",
			inputs:  []felt.Felt{f(0x1), f(0), f(1<<16 + 1)},
			message: "too large",
		},
		"address out of range": {
			name:    "get_class_hash",
			inputs:  []felt.Felt{felt.UnsafeFromString[felt.Felt]("0x800000000000000000000000000000000000000000000000000000000000000")},
			message: "invalid cheatcode input",
		},
	}
	for desc, test := range tests {
		t.Run(desc, func(t *testing.T) {
			res := e.call(t, driver, "cheat", cheatCall(test.name, test.inputs...)...)
			assert.Equal(t, trace.Error, res.Kind)
			assert.Contains(t, res.Message, test.message)
		})
	}
	assert.Empty(t, e.rt.ActiveCheats())
}

func TestPrintCheatcode(t *testing.T) {
	e := newEnv()
	driver := addr(0xd)
	e.deployAt(driver, probe)

	res := e.call(t, driver, "cheat", cheatCall("print", short("hello"), f(0x1f))...)
	require.True(t, res.OK(), res.Describe())
	assert.Empty(t, res.Retdata)
}
