package bitcoin

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-explorer/pkg/safe"
	"github.com/goodnatureofminers/blockinsight7000-explorer/pkg/workerpool"
)

const defaultHistoryWorkers = 8

// Node implements chain.Node on top of the node RPC and the address index.
type Node struct {
	rpc      NodeRPC
	index    AddressIndex
	decoder  *ScriptDecoder
	prevouts *PrevoutResolver
	coin     model.Coin
	network  model.Network
	workers  int
}

var _ chain.Node = (*Node)(nil)

// NewNode wires a Node for the given coin and network.
func NewNode(rpc NodeRPC, index AddressIndex, coin model.Coin, network model.Network) (*Node, error) {
	decoder, err := NewScriptDecoder(network)
	if err != nil {
		return nil, err
	}
	return &Node{
		rpc:      rpc,
		index:    index,
		decoder:  decoder,
		prevouts: NewPrevoutResolver(index, rpc, decoder, coin, network),
		coin:     coin,
		network:  network,
		workers:  defaultHistoryWorkers,
	}, nil
}

// BlockByHash returns the block with the given hash.
func (n *Node) BlockByHash(ctx context.Context, hash string) (*chain.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := n.rpc.GetBlock(hash)
	if err != nil {
		return nil, fmt.Errorf("get block %s: %w", hash, nodeError(err))
	}
	return convertBlock(src)
}

// BlockHeader returns the header of the block with the given hash.
func (n *Node) BlockHeader(ctx context.Context, hash string) (*chain.BlockHeader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := n.rpc.GetBlockHeader(hash)
	if err != nil {
		return nil, fmt.Errorf("get block header %s: %w", hash, nodeError(err))
	}
	return convertHeader(src)
}

// BlockHeaderByHeight returns the header of the main-chain block at height.
func (n *Node) BlockHeaderByHeight(ctx context.Context, height uint64) (*chain.BlockHeader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h, err := safe.Int64(height)
	if err != nil {
		return nil, fmt.Errorf("block height %d: %w", height, chain.ErrNotFound)
	}
	hash, err := n.rpc.GetBlockHash(h)
	if err != nil {
		return nil, fmt.Errorf("get block hash at height %d: %w", height, nodeError(err))
	}
	return n.BlockHeader(ctx, hash.String())
}

// BestBlockHash returns the hash of the current best block.
func (n *Node) BestBlockHash(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	hash, err := n.rpc.GetBestBlockHash()
	if err != nil {
		return "", fmt.Errorf("get best block hash: %w", nodeError(err))
	}
	return hash.String(), nil
}

// BlockCount returns the height of the best block.
func (n *Node) BlockCount(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count, err := n.rpc.GetBlockCount()
	if err != nil {
		return 0, fmt.Errorf("get block count: %w", nodeError(err))
	}
	height, err := safe.Uint64(count)
	if err != nil {
		return 0, fmt.Errorf("block count overflow: %w", err)
	}
	return height, nil
}

// DetailedTransaction returns a transaction with input values and addresses
// resolved and spent information attached to its outputs.
func (n *Node) DetailedTransaction(ctx context.Context, txid string) (*chain.Transaction, error) {
	src, err := n.rawTransaction(ctx, txid)
	if err != nil {
		return nil, err
	}
	tx, err := convertTransaction(src, n.decoder)
	if err != nil {
		return nil, err
	}

	if tx.BlockHash != "" {
		header, err := n.BlockHeader(ctx, tx.BlockHash)
		if err != nil {
			return nil, fmt.Errorf("tx %s block: %w", txid, err)
		}
		height, err := safe.Int64(header.Height)
		if err != nil {
			return nil, fmt.Errorf("tx %s height overflow: %w", txid, err)
		}
		tx.Height = height
	}

	if !tx.Coinbase {
		if err := n.prevouts.Fill(ctx, tx.Inputs); err != nil {
			return nil, fmt.Errorf("tx %s prevouts: %w", txid, err)
		}
	}

	spent, err := n.index.SpentOutputs(ctx, n.coin, n.network, txid)
	if err != nil {
		return nil, fmt.Errorf("tx %s spent outputs: %w", txid, err)
	}
	for _, s := range spent {
		if int(s.OutputIndex) >= len(tx.Outputs) {
			continue
		}
		out := &tx.Outputs[s.OutputIndex]
		spentIndex := s.SpentIndex
		out.SpentTxID = s.SpentTxID
		out.SpentIndex = &spentIndex
		out.SpentHeight = s.SpentHeight
	}
	return tx, nil
}

// RawTransaction returns the serialized transaction in hex.
func (n *Node) RawTransaction(ctx context.Context, txid string) (string, error) {
	src, err := n.rawTransaction(ctx, txid)
	if err != nil {
		return "", err
	}
	return src.Hex, nil
}

// SendRawTransaction decodes rawHex and broadcasts it, returning its txid.
func (n *Node) SendRawTransaction(ctx context.Context, rawHex string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := hex.DecodeString(rawHex)
	if err != nil {
		return "", fmt.Errorf("decode raw transaction hex: %w", chain.ErrInvalidTransaction)
	}
	msg := wire.NewMsgTx(wire.TxVersion)
	if err := msg.Deserialize(bytes.NewReader(raw)); err != nil {
		return "", fmt.Errorf("deserialize raw transaction: %w", chain.ErrInvalidTransaction)
	}
	hash, err := n.rpc.SendRawTransaction(msg)
	if err != nil {
		return "", fmt.Errorf("send raw transaction: %w", nodeError(err))
	}
	return hash.String(), nil
}

// DecodeRawTransaction decodes rawHex through the node and resolves the
// outputs its inputs spend. Nothing is broadcast.
func (n *Node) DecodeRawTransaction(ctx context.Context, rawHex string) (*chain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := hex.DecodeString(rawHex)
	if err != nil {
		return nil, fmt.Errorf("decode raw transaction hex: %w", chain.ErrInvalidTransaction)
	}
	src, err := n.rpc.DecodeRawTransaction(raw)
	if err != nil {
		return nil, fmt.Errorf("decode raw transaction: %w", nodeError(err))
	}
	src.Hex = rawHex

	tx, err := convertTransaction(src, n.decoder)
	if err != nil {
		return nil, err
	}
	if !tx.Coinbase {
		if err := n.prevouts.Fill(ctx, tx.Inputs); err != nil {
			return nil, fmt.Errorf("tx %s prevouts: %w", tx.TxID, err)
		}
	}
	return tx, nil
}

// AddressHistory returns the transactions in r of the newest-first history
// of address.
func (n *Node) AddressHistory(ctx context.Context, address string, r chain.Range) (*chain.AddressHistory, error) {
	totals, err := n.index.AddressTotals(ctx, n.coin, n.network, address)
	if err != nil {
		return nil, fmt.Errorf("address %s totals: %w", address, err)
	}
	total, err := safe.Int64(totals.Appearances)
	if err != nil {
		return nil, fmt.Errorf("address %s appearances overflow: %w", address, err)
	}

	history := &chain.AddressHistory{TotalCount: int(total)}
	if r.From < 0 || r.To <= r.From {
		return history, nil
	}

	txids, err := n.index.AddressTransactions(ctx, n.coin, n.network, address, uint64(r.From), uint64(r.To-r.From))
	if err != nil {
		return nil, fmt.Errorf("address %s transactions: %w", address, err)
	}
	items, err := workerpool.Map(ctx, n.workers, txids, n.DetailedTransaction)
	if err != nil {
		return nil, err
	}
	history.Items = items
	return history, nil
}

// AddressSummary aggregates the indexed activity of address. The index holds
// confirmed transactions only, so unconfirmed figures stay zero.
func (n *Node) AddressSummary(ctx context.Context, address string, opts chain.AddressSummaryOptions) (*chain.AddressSummary, error) {
	totals, err := n.index.AddressTotals(ctx, n.coin, n.network, address)
	if err != nil {
		return nil, fmt.Errorf("address %s totals: %w", address, err)
	}
	received, err := safe.Int64(totals.Received)
	if err != nil {
		return nil, fmt.Errorf("address %s received overflow: %w", address, err)
	}
	spent, err := safe.Int64(totals.Spent)
	if err != nil {
		return nil, fmt.Errorf("address %s spent overflow: %w", address, err)
	}
	appearances, err := safe.Int64(totals.Appearances)
	if err != nil {
		return nil, fmt.Errorf("address %s appearances overflow: %w", address, err)
	}

	summary := &chain.AddressSummary{
		TotalReceived: btcutil.Amount(received),
		TotalSpent:    btcutil.Amount(spent),
		Balance:       btcutil.Amount(received - spent),
		Appearances:   int(appearances),
	}
	if opts.NoTxList {
		return summary, nil
	}

	offset, limit := uint64(0), totals.Appearances
	if opts.Range != nil {
		if opts.Range.From < 0 || opts.Range.To <= opts.Range.From {
			return summary, nil
		}
		offset, limit = uint64(opts.Range.From), uint64(opts.Range.To-opts.Range.From)
	}
	txids, err := n.index.AddressTransactions(ctx, n.coin, n.network, address, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("address %s transactions: %w", address, err)
	}
	summary.TxIDs = txids
	return summary, nil
}

func (n *Node) rawTransaction(ctx context.Context, txid string) (*btcjson.TxRawResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return nil, fmt.Errorf("parse txid %s: %w", txid, chain.ErrNotFound)
	}
	src, err := n.rpc.GetRawTransactionVerbose(hash)
	if err != nil {
		return nil, fmt.Errorf("get transaction %s: %w", txid, nodeError(err))
	}
	return src, nil
}
