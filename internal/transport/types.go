package transport

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/service"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/view"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// Explorer answers the read and broadcast queries of the REST API.
type Explorer interface {
	Block(ctx context.Context, hash string) (model.BlockDetail, error)
	BlockIndex(ctx context.Context, height uint64) (model.BlockIndex, error)
	ListBlocks(ctx context.Context, start *uint64, limit int) (model.BlockList, error)
	Transaction(ctx context.Context, txid string, opts view.TxOptions) (model.Transaction, error)
	RawTransaction(ctx context.Context, txid string) (model.RawTransaction, error)
	SendTransaction(ctx context.Context, rawHex string) (model.SentTransaction, error)
	DecodeTransaction(ctx context.Context, rawHex string, opts view.TxOptions) (model.Transaction, error)
	Transactions(ctx context.Context, q service.TxListQuery, opts view.TxOptions) (model.TransactionList, error)
	Address(ctx context.Context, address string, q service.AddressQuery) (model.AddressSummary, error)
	LatestBlock(ctx context.Context) (model.BlockDetail, error)
}

// HTTPMetrics records finished REST requests.
type HTTPMetrics interface {
	Observe(route string, code int, started time.Time)
}

// TipStatus reports whether the best block has been observed.
type TipStatus interface {
	Known() bool
}
