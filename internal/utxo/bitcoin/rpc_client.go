package bitcoin

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/ratelimit"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// BlockResult is a getblock reply at verbosity 2 together with the fields
// btcjson does not model.
type BlockResult struct {
	btcjson.GetBlockVerboseTxResult
	ChainWork        string `json:"chainwork"`
	ValidatingPubKey string `json:"validatingpubkey,omitempty"`
}

// BlockHeaderResult is a verbose getblockheader reply including chainwork.
type BlockHeaderResult struct {
	btcjson.GetBlockHeaderVerboseResult
	ChainWork string `json:"chainwork"`
}

// RPCClient wraps the btcd rpc client with metrics instrumentation and a
// request rate limit.
type RPCClient struct {
	client     BtcdClient
	rpcMetrics RPCMetrics
	limiter    ratelimit.Limiter
}

// NewRPCClient constructs an instrumented RPC client. A non-positive rps
// disables rate limiting.
func NewRPCClient(client BtcdClient, rpcMetrics RPCMetrics, rps int) *RPCClient {
	limiter := ratelimit.NewUnlimited()
	if rps > 0 {
		limiter = ratelimit.New(rps)
	}
	return &RPCClient{
		client:     client,
		rpcMetrics: rpcMetrics,
		limiter:    limiter,
	}
}

// GetBestBlockHash returns the hash of the best block.
func (r *RPCClient) GetBestBlockHash() (hash *chainhash.Hash, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_best_block_hash", err, started)
	}()
	r.limiter.Take()
	return r.client.GetBestBlockHash()
}

// GetBlockCount returns the latest block count.
func (r *RPCClient) GetBlockCount() (count int64, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_count", err, started)
	}()
	r.limiter.Take()
	return r.client.GetBlockCount()
}

// GetBlockHash returns the block hash for a height.
func (r *RPCClient) GetBlockHash(blockHeight int64) (hash *chainhash.Hash, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_hash", err, started)
	}()
	r.limiter.Take()
	return r.client.GetBlockHash(blockHeight)
}

// GetBlock returns a block with decoded transactions.
func (r *RPCClient) GetBlock(hash string) (res *BlockResult, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block", err, started)
	}()
	res = &BlockResult{}
	if err = r.rawRequest("getblock", res, hash, 2); err != nil {
		return nil, err
	}
	return res, nil
}

// GetBlockHeader returns a verbose block header.
func (r *RPCClient) GetBlockHeader(hash string) (res *BlockHeaderResult, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_header", err, started)
	}()
	res = &BlockHeaderResult{}
	if err = r.rawRequest("getblockheader", res, hash, true); err != nil {
		return nil, err
	}
	return res, nil
}

// GetRawTransactionVerbose returns a decoded transaction.
func (r *RPCClient) GetRawTransactionVerbose(txHash *chainhash.Hash) (res *btcjson.TxRawResult, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_raw_transaction_verbose", err, started)
	}()
	r.limiter.Take()
	return r.client.GetRawTransactionVerbose(txHash)
}

// DecodeRawTransaction decodes a serialized transaction without broadcasting it.
func (r *RPCClient) DecodeRawTransaction(serializedTx []byte) (res *btcjson.TxRawResult, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("decode_raw_transaction", err, started)
	}()
	r.limiter.Take()
	return r.client.DecodeRawTransaction(serializedTx)
}

// SendRawTransaction broadcasts tx, rejecting absurd fees.
func (r *RPCClient) SendRawTransaction(tx *wire.MsgTx) (hash *chainhash.Hash, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("send_raw_transaction", err, started)
	}()
	r.limiter.Take()
	return r.client.SendRawTransaction(tx, false)
}

func (r *RPCClient) rawRequest(method string, dest any, args ...any) error {
	params := make([]json.RawMessage, 0, len(args))
	for _, arg := range args {
		raw, err := jsonAPI.Marshal(arg)
		if err != nil {
			return fmt.Errorf("marshal %s param: %w", method, err)
		}
		params = append(params, raw)
	}

	r.limiter.Take()
	reply, err := r.client.RawRequest(method, params)
	if err != nil {
		return err
	}
	if err := jsonAPI.Unmarshal(reply, dest); err != nil {
		return fmt.Errorf("decode %s reply: %w", method, err)
	}
	return nil
}
