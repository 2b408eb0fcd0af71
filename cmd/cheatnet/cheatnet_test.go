package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/NethermindEth/juno-cheatnet/cheatnet"
	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/starknet"
	"github.com/NethermindEth/juno-cheatnet/utils"
	"github.com/NethermindEth/juno-cheatnet/vm/scripted"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestConfigCmd(t *testing.T) {
	t.Run("flags override defaults", func(t *testing.T) {
		out, err := execute(t, "config", "--network", "mainnet", "--fork-block", "12", "--fork-max-retries", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "network: mainnet")
		assert.Contains(t, out, `block: "12"`)
		assert.Contains(t, out, "max-retries: 1")
	})

	t.Run("config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cheatnet.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log-level: debug\nparallelism: 3\n"), 0o600))

		out, err := execute(t, "config", "--config", path, "--parallelism", "5")
		require.NoError(t, err)
		assert.Contains(t, out, "log-level: debug")
		assert.Contains(t, out, "parallelism: 5")
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := execute(t, "config", "--fork-block", "pending")
		require.ErrorContains(t, err, "invalid config")
	})
}

func TestCheatcodesCmd(t *testing.T) {
	out, err := execute(t, "cheatcodes")
	require.NoError(t, err)
	assert.Contains(t, out, "start_cheat_caller_address_global\n")
	assert.Contains(t, out, "mock_call_when\n")
}

func TestTraceCmd(t *testing.T) {
	log := utils.NewNopZapLogger()
	exec := scripted.New(log)
	rt := cheatnet.New(exec)
	emitter := &scripted.Contract{
		Name: "emitter",
		Functions: map[string]scripted.Function{
			"emit": func(c *scripted.Context) ([]felt.Felt, error) {
				return nil, c.EmitEvent([]felt.Felt{felt.FromUint64[felt.Felt](0xe1)}, []felt.Felt{felt.FromUint64[felt.Felt](0xd1)})
			},
		},
	}
	classHash, class := exec.Register(emitter)
	rt.Declare(classHash, class, felt.CasmClassHash{})
	addr := felt.FromUint64[felt.Address](0xabc)
	rt.State().SetClassHash(addr, classHash)

	res, err := rt.Call(t.Context(), &starknet.CallEntryPoint{
		StorageAddress:     addr,
		EntryPointSelector: starknet.Selector("emit"),
		EntryPointType:     starknet.External,
		CallType:           starknet.Call,
	})
	require.NoError(t, err)
	require.True(t, res.OK(), res.Describe())

	data, err := json.Marshal(rt.Traces())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "trace.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	out, err := execute(t, "trace", path, "--events")
	require.NoError(t, err)
	assert.Contains(t, out, "0xabc")
	assert.Contains(t, out, "0xe1")
	assert.Contains(t, out, "0xd1")

	_, err = execute(t, "trace", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestForkCmd(t *testing.T) {
	t.Run("requires a fork url", func(t *testing.T) {
		_, err := execute(t, "fork", "nonce", "0x1")
		require.ErrorIs(t, err, errNotForking)
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     uint64                     `json:"id"`
			Method string                     `json:"method"`
			Params json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var result any
		switch req.Method {
		case "starknet_getBlockWithTxHashes":
			result = map[string]any{"block_hash": "0x1", "block_number": 9, "timestamp": 1}
		case "starknet_chainId":
			result = "0x534e5f5345504f4c4941"
		case "starknet_getStorageAt":
			var params struct {
				Key string `json:"key"`
			}
			require.NoError(t, json.Unmarshal(req.Params, &params))
			result = params.Key
		case "starknet_getNonce":
			result = "0x7"
		case "starknet_getClassHashAt":
			result = "0xc1a55"
		default:
			t.Errorf("unexpected method %s", req.Method)
		}
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": result}))
	}))
	t.Cleanup(srv.Close)

	tests := map[string]struct {
		args []string
		want []string
	}{
		"storage": {
			args: []string{"storage", "0x5", "0x10", "--count", "2"},
			want: []string{"0x10", "0x11"},
		},
		"nonce": {
			args: []string{"nonce", "0x5"},
			want: []string{"0x7"},
		},
		"class hash": {
			args: []string{"class-hash", "0x5"},
			want: []string{"0xc1a55"},
		},
		"block": {
			args: []string{"block"},
			want: []string{`"block_number": 9`, `"chain_id": "0x534e5f5345504f4c4941"`},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			args := append([]string{"fork", "--fork-url", srv.URL, "--fork-block", "9"}, test.args...)
			out, err := execute(t, args...)
			require.NoError(t, err)
			for _, want := range test.want {
				assert.Contains(t, out, want)
			}
		})
	}

	t.Run("bad address", func(t *testing.T) {
		_, err := execute(t, "fork", "--fork-url", srv.URL, "nonce", "0xzz")
		require.ErrorIs(t, err, starknet.ErrInvalidAddress)
	})
}
