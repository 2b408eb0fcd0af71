package fork

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/starknet"
	"github.com/NethermindEth/juno-cheatnet/utils"
	"go.uber.org/zap"
)

//go:generate mockgen -destination=../mocks/mock_fork_client.go -package=mocks github.com/NethermindEth/juno-cheatnet/fork Client

// Client queries a remote Starknet node
type Client interface {
	StorageAt(ctx context.Context, block BlockID, addr felt.Address, key felt.Felt) (felt.Felt, error)
	NonceAt(ctx context.Context, block BlockID, addr felt.Address) (felt.Felt, error)
	ClassHashAt(ctx context.Context, block BlockID, addr felt.Address) (felt.ClassHash, error)
	CompiledClass(ctx context.Context, classHash felt.ClassHash) (*starknet.CompiledClass, error)
	BlockHeader(ctx context.Context, block BlockID) (*BlockHeader, error)
	ChainID(ctx context.Context) (felt.Felt, error)
}

type Backoff func(wait time.Duration) time.Duration

func ExponentialBackoff(wait time.Duration) time.Duration {
	return wait * 2
}

func NopBackoff(d time.Duration) time.Duration {
	return 0
}

type request struct {
	Version string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type response struct {
	Version string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

var _ Client = (*RPCClient)(nil)

// RPCClient talks JSON-RPC 2.0 over HTTP to a Starknet node
type RPCClient struct {
	url        string
	client     *http.Client
	backoff    Backoff
	maxRetries int
	maxWait    time.Duration
	minWait    time.Duration
	log        utils.StructuredLogger
	userAgent  string
	apiKey     string
	lastID     atomic.Uint64
}

func NewRPCClient(url string) *RPCClient {
	return &RPCClient{
		url:        url,
		client:     &http.Client{Timeout: 30 * time.Second},
		backoff:    ExponentialBackoff,
		maxRetries: 5,
		maxWait:    4 * time.Second,
		minWait:    250 * time.Millisecond,
		log:        utils.NewNopZapLogger(),
	}
}

func (c *RPCClient) WithBackoff(b Backoff) *RPCClient {
	c.backoff = b
	return c
}

func (c *RPCClient) WithMaxRetries(num int) *RPCClient {
	c.maxRetries = num
	return c
}

func (c *RPCClient) WithMaxWait(d time.Duration) *RPCClient {
	c.maxWait = d
	return c
}

func (c *RPCClient) WithMinWait(d time.Duration) *RPCClient {
	c.minWait = d
	return c
}

func (c *RPCClient) WithTimeout(d time.Duration) *RPCClient {
	c.client.Timeout = d
	return c
}

func (c *RPCClient) WithLogger(log utils.StructuredLogger) *RPCClient {
	c.log = log
	return c
}

func (c *RPCClient) WithUserAgent(ua string) *RPCClient {
	c.userAgent = ua
	return c
}

func (c *RPCClient) WithAPIKey(key string) *RPCClient {
	c.apiKey = key
	return c
}

// post sends one request, retrying transport failures and non-200 statuses
func (c *RPCClient) post(ctx context.Context, method string, payload []byte) (*response, error) {
	var err error
	wait := time.Duration(0)
	for range c.maxRetries + 1 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
			var req *http.Request
			req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", "application/json")
			if c.userAgent != "" {
				req.Header.Set("User-Agent", c.userAgent)
			}
			if c.apiKey != "" {
				req.Header.Set("x-apikey", c.apiKey)
			}

			reqTimer := time.Now()
			var res *http.Response
			res, err = c.client.Do(req)
			if err == nil {
				requestDuration.WithLabelValues(method).Observe(time.Since(reqTimer).Seconds())
				if res.StatusCode == http.StatusOK {
					resp := new(response)
					err = json.NewDecoder(res.Body).Decode(resp)
					res.Body.Close()
					if err != nil {
						return nil, fmt.Errorf("decode %s response: %w", method, err)
					}
					return resp, nil
				}
				_, _ = io.Copy(io.Discard, res.Body)
				res.Body.Close()
				err = errors.New(res.Status)
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}

			if wait < c.minWait {
				wait = c.minWait
			} else {
				wait = min(c.backoff(wait), c.maxWait)
			}
			c.log.Debug("Failed query to fork node, retrying...",
				zap.String("method", method),
				zap.String("retryAfter", wait.String()),
				zap.Error(err),
			)
		}
	}
	c.log.Warn("Fork node unreachable", zap.String("method", method), zap.Error(err))
	return nil, err
}

func (c *RPCClient) call(ctx context.Context, method string, params, result any) error {
	payload, err := json.Marshal(request{
		Version: "2.0",
		ID:      c.lastID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	resp, err := c.post(ctx, method, payload)
	if err != nil {
		requests.WithLabelValues(method, "transport_error").Inc()
		return err
	}
	if resp.Error != nil {
		requests.WithLabelValues(method, "rpc_error").Inc()
		return resp.Error
	}
	requests.WithLabelValues(method, "ok").Inc()
	if err = json.Unmarshal(resp.Result, result); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}

func (c *RPCClient) StorageAt(ctx context.Context, block BlockID, addr felt.Address, key felt.Felt) (felt.Felt, error) {
	var value felt.Felt
	err := c.call(ctx, "starknet_getStorageAt", map[string]any{
		"contract_address": &addr,
		"key":              &key,
		"block_id":         block,
	}, &value)
	return value, err
}

func (c *RPCClient) NonceAt(ctx context.Context, block BlockID, addr felt.Address) (felt.Felt, error) {
	var nonce felt.Felt
	err := c.call(ctx, "starknet_getNonce", map[string]any{
		"block_id":         block,
		"contract_address": &addr,
	}, &nonce)
	return nonce, err
}

func (c *RPCClient) ClassHashAt(ctx context.Context, block BlockID, addr felt.Address) (felt.ClassHash, error) {
	var classHash felt.ClassHash
	err := c.call(ctx, "starknet_getClassHashAt", map[string]any{
		"block_id":         block,
		"contract_address": &addr,
	}, &classHash)
	return classHash, err
}

func (c *RPCClient) CompiledClass(ctx context.Context, classHash felt.ClassHash) (*starknet.CompiledClass, error) {
	class := new(starknet.CompiledClass)
	if err := c.call(ctx, "starknet_getCompiledCasm", map[string]any{
		"class_hash": &classHash,
	}, class); err != nil {
		return nil, err
	}
	return class, nil
}

func (c *RPCClient) BlockHeader(ctx context.Context, block BlockID) (*BlockHeader, error) {
	header := new(BlockHeader)
	if err := c.call(ctx, "starknet_getBlockWithTxHashes", map[string]any{
		"block_id": block,
	}, header); err != nil {
		return nil, err
	}
	return header, nil
}

func (c *RPCClient) ChainID(ctx context.Context) (felt.Felt, error) {
	var chainID felt.Felt
	err := c.call(ctx, "starknet_chainId", []any{}, &chainID)
	return chainID, err
}
