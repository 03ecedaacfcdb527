package service

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/chain"
)

type (
	// Node is the upstream node together with its address index.
	Node interface {
		BlockByHash(ctx context.Context, hash string) (*chain.Block, error)
		BlockHeader(ctx context.Context, hash string) (*chain.BlockHeader, error)
		BlockHeaderByHeight(ctx context.Context, height uint64) (*chain.BlockHeader, error)
		BestBlockHash(ctx context.Context) (string, error)
		DetailedTransaction(ctx context.Context, txid string) (*chain.Transaction, error)
		RawTransaction(ctx context.Context, txid string) (string, error)
		DecodeRawTransaction(ctx context.Context, rawHex string) (*chain.Transaction, error)
		SendRawTransaction(ctx context.Context, rawHex string) (string, error)
		AddressHistory(ctx context.Context, address string, r chain.Range) (*chain.AddressHistory, error)
		AddressSummary(ctx context.Context, address string, opts chain.AddressSummaryOptions) (*chain.AddressSummary, error)
	}

	// HeaderSource resolves the best block and its header.
	HeaderSource interface {
		BestBlockHash(ctx context.Context) (string, error)
		BlockHeader(ctx context.Context, hash string) (*chain.BlockHeader, error)
	}

	// AddressDecoder validates addresses of the served network.
	AddressDecoder interface {
		Validate(address string) error
		WalletKeyIDs(address string) []string
	}

	// Tip tracks the best block height.
	Tip interface {
		Height(ctx context.Context) (uint64, error)
		Set(height uint64)
	}

	// BlockAwaiter blocks until the next block is published.
	BlockAwaiter interface {
		Await(ctx context.Context, timeout time.Duration) (string, error)
	}

	// BlockPublisher wakes the waiters of the next block.
	BlockPublisher interface {
		Publish(hash string) int
	}

	// WatcherMetrics records best block polling.
	WatcherMetrics interface {
		ObservePoll(err error, started time.Time)
		ObserveNewBlock(height uint64)
	}
)
