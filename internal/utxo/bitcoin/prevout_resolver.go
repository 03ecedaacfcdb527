package bitcoin

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-explorer/pkg/safe"
)

// prevoutResolverBatchSize controls how many txids are fetched in one index call.
var prevoutResolverBatchSize = 1000

// PrevoutResolver fills input values and addresses from the outputs they spend.
// The address index is consulted first; outputs it has not ingested yet are
// read from the node.
type PrevoutResolver struct {
	index   AddressIndex
	rpc     NodeRPC
	decoder *ScriptDecoder
	coin    model.Coin
	network model.Network
}

// NewPrevoutResolver constructs a PrevoutResolver for a specific network.
func NewPrevoutResolver(index AddressIndex, rpc NodeRPC, decoder *ScriptDecoder, coin model.Coin, network model.Network) *PrevoutResolver {
	return &PrevoutResolver{
		index:   index,
		rpc:     rpc,
		decoder: decoder,
		coin:    coin,
		network: network,
	}
}

// Fill sets Satoshis and Address of every non-coinbase input in place.
func (r *PrevoutResolver) Fill(ctx context.Context, inputs []chain.Input) error {
	txids := make([]string, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		if in.PrevTxID == "" {
			continue
		}
		if _, dup := seen[in.PrevTxID]; dup {
			continue
		}
		seen[in.PrevTxID] = struct{}{}
		txids = append(txids, in.PrevTxID)
	}
	if len(txids) == 0 {
		return nil
	}

	resolved, err := r.lookup(ctx, txids)
	if err != nil {
		return err
	}

	for i := range inputs {
		in := &inputs[i]
		if in.PrevTxID == "" {
			continue
		}
		outputs := resolved[in.PrevTxID]
		if int(in.OutputIndex) >= len(outputs) {
			outputs, err = r.fromNode(ctx, in.PrevTxID)
			if err != nil {
				return err
			}
			resolved[in.PrevTxID] = outputs
		}
		if int(in.OutputIndex) >= len(outputs) {
			return fmt.Errorf("input references missing vout %d in tx %s", in.OutputIndex, in.PrevTxID)
		}

		prev := outputs[in.OutputIndex]
		value, err := safe.Int64(prev.Value)
		if err != nil {
			return fmt.Errorf("prevout %s:%d value overflow: %w", in.PrevTxID, in.OutputIndex, err)
		}
		in.Satoshis = btcutil.Amount(value)
		if len(prev.Addresses) > 0 {
			in.Address = prev.Addresses[0]
		}
	}
	return nil
}

// lookup returns the indexed outputs of txids, ordered by output index.
func (r *PrevoutResolver) lookup(ctx context.Context, txids []string) (map[string][]model.TransactionOutputLookup, error) {
	result := make(map[string][]model.TransactionOutputLookup, len(txids))

	size := prevoutResolverBatchSize
	if size <= 0 {
		size = 1000
	}
	for start := 0; start < len(txids); start += size {
		end := min(start+size, len(txids))

		fromIndex, err := r.index.TransactionOutputsLookupByTxIDs(ctx, r.coin, r.network, txids[start:end])
		if err != nil {
			return nil, fmt.Errorf("query outputs for txids: %w", err)
		}
		for txid, outputs := range fromIndex {
			result[txid] = sortedByIndex(outputs)
		}
	}
	return result, nil
}

func (r *PrevoutResolver) fromNode(ctx context.Context, txid string) ([]model.TransactionOutputLookup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return nil, fmt.Errorf("parse prev txid %s: %w", txid, err)
	}
	src, err := r.rpc.GetRawTransactionVerbose(hash)
	if err != nil {
		return nil, fmt.Errorf("get prev tx %s: %w", txid, nodeError(err))
	}

	outputs := make([]model.TransactionOutputLookup, 0, len(src.Vout))
	for idx, vout := range src.Vout {
		value, err := BtcToSatoshis(vout.Value)
		if err != nil {
			return nil, fmt.Errorf("tx %s output %d value: %w", txid, idx, err)
		}
		index, err := safe.Uint32(idx)
		if err != nil {
			return nil, fmt.Errorf("tx %s output index overflow: %w", txid, err)
		}
		addresses, _ := r.decoder.Addresses(vout.ScriptPubKey)
		outputs = append(outputs, model.TransactionOutputLookup{
			Coin:      r.coin,
			Network:   r.network,
			TxID:      txid,
			Index:     index,
			Value:     uint64(value),
			Addresses: addresses,
		})
	}
	return outputs, nil
}

// sortedByIndex places outputs at their output index. A gap means the index
// has not seen the whole transaction and yields a truncated slice.
func sortedByIndex(outputs []model.TransactionOutputLookup) []model.TransactionOutputLookup {
	placed := make([]model.TransactionOutputLookup, len(outputs))
	filled := make([]bool, len(outputs))
	for _, out := range outputs {
		if int(out.Index) < len(placed) {
			placed[out.Index] = out
			filled[out.Index] = true
		}
	}
	for i, ok := range filled {
		if !ok {
			return placed[:i]
		}
	}
	return placed
}
