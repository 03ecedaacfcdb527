package pagination

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"
)

// FrontierSource resolves the current best block.
type FrontierSource interface {
	BestBlockHash(ctx context.Context) (string, error)
	BlockHeader(ctx context.Context, hash string) (*chain.BlockHeader, error)
}

// SummarySource fetches the summary of the main-chain block at a height.
type SummarySource interface {
	SummaryByHeight(ctx context.Context, height uint64) (*model.BlockSummary, error)
}
