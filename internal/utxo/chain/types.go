// Package chain defines the upstream node contract and the raw records it returns.
package chain

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
)

// Node is the upstream blockchain node together with its address index.
// Every call may fail with ErrNotFound or any other error.
type Node interface {
	BlockByHash(ctx context.Context, hash string) (*Block, error)
	BlockHeader(ctx context.Context, hash string) (*BlockHeader, error)
	BlockHeaderByHeight(ctx context.Context, height uint64) (*BlockHeader, error)
	BestBlockHash(ctx context.Context) (string, error)
	BlockCount(ctx context.Context) (uint64, error)
	DetailedTransaction(ctx context.Context, txid string) (*Transaction, error)
	RawTransaction(ctx context.Context, txid string) (string, error)
	DecodeRawTransaction(ctx context.Context, rawHex string) (*Transaction, error)
	SendRawTransaction(ctx context.Context, rawHex string) (string, error)
	AddressHistory(ctx context.Context, address string, r Range) (*AddressHistory, error)
	AddressSummary(ctx context.Context, address string, opts AddressSummaryOptions) (*AddressSummary, error)
}

// Block is a block as reported by the node.
type Block struct {
	Hash             string
	Height           uint64
	Size             int32
	Version          int32
	MerkleRoot       string
	TxIDs            []string
	Time             int64
	Nonce            uint32
	Bits             string
	Difficulty       float64
	ChainWork        string
	Confirmations    int64
	PreviousHash     string
	NextHash         string
	ValidatingPubKey string
	CoinbaseScript   string
}

// BlockHeader is the header-level view of a block.
type BlockHeader struct {
	Hash          string
	Height        uint64
	Confirmations int64
	ChainWork     string
	NextHash      string
}

// Transaction is a transaction enriched with the values and addresses of the
// outputs its inputs spend. Height is -1 for mempool transactions.
type Transaction struct {
	TxID          string
	Version       uint32
	LockTime      uint32
	Hex           string
	BlockHash     string
	Height        int64
	Confirmations uint64
	BlockTime     int64
	Coinbase      bool
	Inputs        []Input
	Outputs       []Output
}

// InputSatoshis sums the values of the outputs spent by tx.
func (tx Transaction) InputSatoshis() btcutil.Amount {
	var total btcutil.Amount
	for _, in := range tx.Inputs {
		total += in.Satoshis
	}
	return total
}

// OutputSatoshis sums the values of the outputs tx creates.
func (tx Transaction) OutputSatoshis() btcutil.Amount {
	var total btcutil.Amount
	for _, out := range tx.Outputs {
		total += out.Satoshis
	}
	return total
}

// Input is a transaction input. Coinbase inputs carry only CoinbaseScript and Sequence.
type Input struct {
	PrevTxID       string
	OutputIndex    uint32
	Sequence       uint32
	Script         string
	ScriptAsm      string
	Address        string
	Satoshis       btcutil.Amount
	CoinbaseScript string
}

// Output is a transaction output with optional spending information.
type Output struct {
	Satoshis    btcutil.Amount
	Script      string
	ScriptAsm   string
	Address     string
	SpentTxID   string
	SpentIndex  *uint32
	SpentHeight uint64
}

// Range selects items [From, To) of a newest-first history.
type Range struct {
	From int
	To   int
}

// AddressHistory is a page of transactions touching an address.
type AddressHistory struct {
	Items      []*Transaction
	TotalCount int
}

// AddressSummaryOptions tunes AddressSummary.
type AddressSummaryOptions struct {
	NoTxList bool
	Range    *Range
}

// AddressSummary aggregates balances of an address.
type AddressSummary struct {
	TotalReceived          btcutil.Amount
	TotalSpent             btcutil.Amount
	Balance                btcutil.Amount
	UnconfirmedBalance     btcutil.Amount
	Appearances            int
	UnconfirmedAppearances int
	TxIDs                  []string
}
