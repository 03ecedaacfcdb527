package bitcoin

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"
	"encoding/json"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"
)

type (
	// BtcdClient is the subset of *rpcclient.Client the explorer calls.
	BtcdClient interface {
		GetBestBlockHash() (*chainhash.Hash, error)
		GetBlockCount() (int64, error)
		GetBlockHash(blockHeight int64) (*chainhash.Hash, error)
		GetRawTransactionVerbose(txHash *chainhash.Hash) (*btcjson.TxRawResult, error)
		DecodeRawTransaction(serializedTx []byte) (*btcjson.TxRawResult, error)
		SendRawTransaction(tx *wire.MsgTx, allowHighFees bool) (*chainhash.Hash, error)
		RawRequest(method string, params []json.RawMessage) (json.RawMessage, error)
	}

	// RPCMetrics records metrics for RPC calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// NodeRPC is the instrumented node client used by Node.
	NodeRPC interface {
		GetBestBlockHash() (*chainhash.Hash, error)
		GetBlockCount() (int64, error)
		GetBlockHash(blockHeight int64) (*chainhash.Hash, error)
		GetBlock(hash string) (*BlockResult, error)
		GetBlockHeader(hash string) (*BlockHeaderResult, error)
		GetRawTransactionVerbose(txHash *chainhash.Hash) (*btcjson.TxRawResult, error)
		DecodeRawTransaction(serializedTx []byte) (*btcjson.TxRawResult, error)
		SendRawTransaction(tx *wire.MsgTx) (*chainhash.Hash, error)
	}

	// AddressIndex is the ClickHouse index of outputs, spends and address activity.
	AddressIndex interface {
		TransactionOutputsLookupByTxIDs(ctx context.Context, coin model.Coin, network model.Network, txids []string) (map[string][]model.TransactionOutputLookup, error)
		SpentOutputs(ctx context.Context, coin model.Coin, network model.Network, txid string) ([]model.SpentOutput, error)
		AddressTransactions(ctx context.Context, coin model.Coin, network model.Network, address string, offset, limit uint64) ([]string, error)
		AddressTotals(ctx context.Context, coin model.Coin, network model.Network, address string) (model.AddressTotals, error)
	}
)
