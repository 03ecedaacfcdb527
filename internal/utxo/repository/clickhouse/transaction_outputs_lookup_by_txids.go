package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"
)

const outputsLookupByTxIDsQuery = `
SELECT
	txid,
	output_index,
	anyLast(value) AS value,
	anyLast(addresses) AS addresses
FROM utxo_transaction_outputs_lookup
WHERE coin = ? AND network = ? AND txid IN ?
GROUP BY txid, output_index
ORDER BY txid, output_index`

type outputLookupRow struct {
	TxID      string   `ch:"txid"`
	Index     uint32   `ch:"output_index"`
	Value     uint64   `ch:"value"`
	Addresses []string `ch:"addresses"`
}

// TransactionOutputsLookupByTxIDs returns the indexed outputs of txids keyed by
// txid, each slice ordered by output index. Transactions the index has not
// seen are absent from the result.
func (r *Repository) TransactionOutputsLookupByTxIDs(ctx context.Context, coin model.Coin, network model.Network, txids []string) (lookup map[string][]model.TransactionOutputLookup, err error) {
	started := time.Now()
	defer func() {
		r.metrics.Observe("transaction_outputs_lookup_by_txids", coin, network, err, started)
	}()

	lookup = make(map[string][]model.TransactionOutputLookup, len(txids))
	if len(txids) == 0 {
		return lookup, nil
	}

	rows, err := r.conn.Query(ctx, outputsLookupByTxIDsQuery, coin, network, txids)
	if err != nil {
		return nil, fmt.Errorf("query outputs by txids: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", cerr)
		}
	}()

	for rows.Next() {
		var row outputLookupRow
		if err = rows.ScanStruct(&row); err != nil {
			return nil, fmt.Errorf("scan output: %w", err)
		}
		lookup[row.TxID] = append(lookup[row.TxID], model.TransactionOutputLookup{
			Coin:      coin,
			Network:   network,
			TxID:      row.TxID,
			Index:     row.Index,
			Value:     row.Value,
			Addresses: row.Addresses,
		})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outputs: %w", err)
	}
	return lookup, nil
}
