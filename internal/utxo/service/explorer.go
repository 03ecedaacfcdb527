// Package service answers explorer queries from the confirmation-gated caches
// and the upstream node, and follows the best block for long-poll clients.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/cache"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/notifier"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/pagination"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/view"
	"github.com/goodnatureofminers/blockinsight7000-explorer/pkg/workerpool"
	"go.uber.org/zap"
)

// TxPageLength is the number of transactions per page of a transaction list.
const TxPageLength = 10

// Config tunes an Explorer.
type Config struct {
	BlockCacheSize     int
	SummaryCacheSize   int
	PageWorkers        int
	LatestBlockTimeout time.Duration
}

// DefaultConfig returns the defaults of the public explorer API.
func DefaultConfig() Config {
	return Config{
		BlockCacheSize:     1000,
		SummaryCacheSize:   1_000_000,
		PageWorkers:        pagination.DefaultWorkers,
		LatestBlockTimeout: 300 * time.Second,
	}
}

// TxListQuery selects a page of transactions by block or by address.
type TxListQuery struct {
	BlockHash string
	Address   string
	Page      int
}

// AddressQuery tunes the address view.
type AddressQuery struct {
	NoTxList bool
	Range    *chain.Range
}

// Explorer answers read queries.
type Explorer struct {
	logger      *zap.Logger
	node        Node
	addresses   AddressDecoder
	tip         Tip
	awaiter     BlockAwaiter
	transformer *view.Transformer
	blocks      *cache.Cache[model.BlockDetail]
	summaries   *cache.Cache[model.BlockSummary]
	paginator   *pagination.Paginator
	workers     int
	pollTimeout time.Duration
}

// NewExplorer wires an Explorer.
func NewExplorer(
	node Node,
	addresses AddressDecoder,
	tip Tip,
	awaiter BlockAwaiter,
	transformer *view.Transformer,
	cacheObserver cache.Observer,
	cfg Config,
	logger *zap.Logger,
) (*Explorer, error) {
	if node == nil {
		return nil, errors.New("explorer node is required")
	}
	defaults := DefaultConfig()
	if cfg.BlockCacheSize <= 0 {
		cfg.BlockCacheSize = defaults.BlockCacheSize
	}
	if cfg.SummaryCacheSize <= 0 {
		cfg.SummaryCacheSize = defaults.SummaryCacheSize
	}
	if cfg.PageWorkers <= 0 {
		cfg.PageWorkers = defaults.PageWorkers
	}
	if cfg.LatestBlockTimeout <= 0 {
		cfg.LatestBlockTimeout = defaults.LatestBlockTimeout
	}

	blocks, err := cache.New[model.BlockDetail]("blocks", cfg.BlockCacheSize, cacheObserver)
	if err != nil {
		return nil, err
	}
	summaries, err := cache.New[model.BlockSummary]("block_summaries", cfg.SummaryCacheSize, cacheObserver)
	if err != nil {
		return nil, err
	}

	e := &Explorer{
		logger:      logger,
		node:        node,
		addresses:   addresses,
		tip:         tip,
		awaiter:     awaiter,
		transformer: transformer,
		blocks:      blocks,
		summaries:   summaries,
		workers:     cfg.PageWorkers,
		pollTimeout: cfg.LatestBlockTimeout,
	}
	e.paginator = pagination.New(node, e, cfg.PageWorkers)
	return e, nil
}

// Block returns the block with the given hash. Settled blocks are served from
// the cache with their confirmations recomputed against the best height.
func (e *Explorer) Block(ctx context.Context, hash string) (model.BlockDetail, error) {
	hash, ok := normalizeHash(hash)
	if !ok {
		return model.BlockDetail{}, NewInputError(CodeInvalidBlockHash, "Invalid block hash")
	}

	if entry, ok := e.blocks.Get(hash); ok {
		best, err := e.tip.Height(ctx)
		if err != nil {
			return model.BlockDetail{}, err
		}
		block := entry.Value
		block.Confirmations = entry.Confirmations(best)
		return block, nil
	}

	b, err := e.node.BlockByHash(ctx, hash)
	if err != nil {
		return model.BlockDetail{}, err
	}
	block := e.transformer.Block(b)
	e.blocks.Put(hash, block, block.Height, block.Confirmations)
	return block, nil
}

// normalizeHash returns the lower-case form of a 64-digit hex hash.
func normalizeHash(s string) (string, bool) {
	if len(s) != chainhash.MaxHashStringSize {
		return "", false
	}
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return "", false
	}
	return h.String(), true
}

// BlockIndex returns the hash of the main-chain block at height.
func (e *Explorer) BlockIndex(ctx context.Context, height uint64) (model.BlockIndex, error) {
	header, err := e.node.BlockHeaderByHeight(ctx, height)
	if err != nil {
		return model.BlockIndex{}, err
	}
	return model.BlockIndex{BlockHash: header.Hash}, nil
}

// SummaryByHeight returns the summary of the main-chain block at height.
func (e *Explorer) SummaryByHeight(ctx context.Context, height uint64) (*model.BlockSummary, error) {
	header, err := e.node.BlockHeaderByHeight(ctx, height)
	if err != nil {
		return nil, fmt.Errorf("block header at %d: %w", height, err)
	}
	if entry, ok := e.summaries.Get(header.Hash); ok {
		summary := entry.Value
		return &summary, nil
	}

	b, err := e.node.BlockByHash(ctx, header.Hash)
	if err != nil {
		return nil, fmt.Errorf("block %s: %w", header.Hash, err)
	}
	summary := e.transformer.BlockSummary(b)
	e.summaries.Put(header.Hash, summary, b.Height, b.Confirmations)
	return &summary, nil
}

// ListBlocks returns up to limit summaries from start downwards. A nil start
// begins at the best block.
func (e *Explorer) ListBlocks(ctx context.Context, start *uint64, limit int) (model.BlockList, error) {
	blocks, err := e.paginator.ListSummaries(ctx, start, limit)
	if err != nil {
		return model.BlockList{}, err
	}
	return model.BlockList{Blocks: blocks, Length: len(blocks)}, nil
}

// Transaction returns the transaction view of txid.
func (e *Explorer) Transaction(ctx context.Context, txid string, opts view.TxOptions) (model.Transaction, error) {
	txid, ok := normalizeHash(txid)
	if !ok {
		return model.Transaction{}, NewInputError(CodeInvalidTxID, "Invalid transaction id")
	}
	tx, err := e.node.DetailedTransaction(ctx, txid)
	if err != nil {
		return model.Transaction{}, err
	}
	return e.transformer.Transaction(tx, opts), nil
}

// RawTransaction returns the serialized transaction txid.
func (e *Explorer) RawTransaction(ctx context.Context, txid string) (model.RawTransaction, error) {
	txid, ok := normalizeHash(txid)
	if !ok {
		return model.RawTransaction{}, NewInputError(CodeInvalidTxID, "Invalid transaction id")
	}
	raw, err := e.node.RawTransaction(ctx, txid)
	if err != nil {
		return model.RawTransaction{}, err
	}
	return model.RawTransaction{RawTx: raw}, nil
}

// SendTransaction broadcasts a serialized transaction.
func (e *Explorer) SendTransaction(ctx context.Context, rawHex string) (model.SentTransaction, error) {
	if rawHex == "" {
		return model.SentTransaction{}, NewInputError(CodeInvalidTransaction, "Raw transaction expected")
	}
	txid, err := e.node.SendRawTransaction(ctx, rawHex)
	if errors.Is(err, chain.ErrInvalidTransaction) {
		return model.SentTransaction{}, NewInputError(CodeInvalidTransaction, "Invalid raw transaction: %v", err)
	}
	if err != nil {
		return model.SentTransaction{}, err
	}
	e.logger.Info("transaction sent", zap.String("txid", txid))
	return model.SentTransaction{TxID: txid}, nil
}

// DecodeTransaction decodes a serialized transaction without broadcasting it.
// Unbroadcast transactions have no spends, so spent info is always left out.
func (e *Explorer) DecodeTransaction(ctx context.Context, rawHex string, opts view.TxOptions) (model.Transaction, error) {
	if rawHex == "" {
		return model.Transaction{}, NewInputError(CodeInvalidTransaction, "Raw transaction expected")
	}
	tx, err := e.node.DecodeRawTransaction(ctx, rawHex)
	if errors.Is(err, chain.ErrInvalidTransaction) {
		return model.Transaction{}, NewInputError(CodeInvalidTransaction, "Invalid raw transaction: %v", err)
	}
	if err != nil {
		return model.Transaction{}, err
	}
	opts.NoSpent = true
	return e.transformer.Transaction(tx, opts), nil
}

// Transactions returns a page of the transactions of a block or an address.
func (e *Explorer) Transactions(ctx context.Context, q TxListQuery, opts view.TxOptions) (model.TransactionList, error) {
	page := max(q.Page, 0)
	switch {
	case q.BlockHash != "":
		return e.blockTransactions(ctx, q.BlockHash, page, opts)
	case q.Address != "":
		return e.addressTransactions(ctx, q.Address, page, opts)
	default:
		return model.TransactionList{}, NewInputError(CodeMissingSelector, "Block hash or address expected")
	}
}

func (e *Explorer) blockTransactions(ctx context.Context, hash string, page int, opts view.TxOptions) (model.TransactionList, error) {
	block, err := e.Block(ctx, hash)
	if err != nil {
		return model.TransactionList{}, err
	}

	start := min(page*TxPageLength, len(block.Tx))
	end := min(start+TxPageLength, len(block.Tx))
	txs, err := e.transactions(ctx, block.Tx[start:end], opts)
	if err != nil {
		return model.TransactionList{}, err
	}
	return model.TransactionList{
		PagesTotal: pagesTotal(len(block.Tx)),
		Txs:        txs,
	}, nil
}

func (e *Explorer) addressTransactions(ctx context.Context, address string, page int, opts view.TxOptions) (model.TransactionList, error) {
	if err := e.addresses.Validate(address); err != nil {
		return model.TransactionList{}, NewInputError(CodeInvalidAddress, "Invalid address: %v", err)
	}
	history, err := e.node.AddressHistory(ctx, address, chain.Range{
		From: page * TxPageLength,
		To:   (page + 1) * TxPageLength,
	})
	if err != nil {
		return model.TransactionList{}, err
	}

	seen := make(map[string]struct{}, len(history.Items))
	txs := make([]model.Transaction, 0, len(history.Items))
	for _, tx := range history.Items {
		if _, dup := seen[tx.TxID]; dup {
			continue
		}
		seen[tx.TxID] = struct{}{}
		txs = append(txs, e.transformer.Transaction(tx, opts))
	}
	return model.TransactionList{
		PagesTotal: pagesTotal(history.TotalCount),
		Txs:        txs,
	}, nil
}

func (e *Explorer) transactions(ctx context.Context, txids []string, opts view.TxOptions) ([]model.Transaction, error) {
	return workerpool.Map(ctx, e.workers, txids, func(ctx context.Context, txid string) (model.Transaction, error) {
		tx, err := e.node.DetailedTransaction(ctx, txid)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("transaction %s: %w", txid, err)
		}
		return e.transformer.Transaction(tx, opts), nil
	})
}

func pagesTotal(count int) int {
	return (count + TxPageLength - 1) / TxPageLength
}

// Address returns the balances and activity of address.
func (e *Explorer) Address(ctx context.Context, address string, q AddressQuery) (model.AddressSummary, error) {
	if err := e.addresses.Validate(address); err != nil {
		return model.AddressSummary{}, NewInputError(CodeInvalidAddress, "Invalid address: %v", err)
	}
	summary, err := e.node.AddressSummary(ctx, address, chain.AddressSummaryOptions{
		NoTxList: q.NoTxList,
		Range:    q.Range,
	})
	if err != nil {
		return model.AddressSummary{}, err
	}
	return e.transformer.AddressSummary(address, e.addresses.WalletKeyIDs(address), summary), nil
}

// LatestBlock waits for the next block and returns it. ErrNoNewBlock is
// returned when none arrives within the configured timeout.
func (e *Explorer) LatestBlock(ctx context.Context) (model.BlockDetail, error) {
	hash, err := e.awaiter.Await(ctx, e.pollTimeout)
	if errors.Is(err, notifier.ErrTimeout) {
		return model.BlockDetail{}, ErrNoNewBlock
	}
	if err != nil {
		return model.BlockDetail{}, err
	}
	return e.Block(ctx, hash)
}
