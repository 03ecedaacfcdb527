package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"
)

// AddressTransactions returns a page of txids that pay to or spend from
// address, newest first.
func (r *Repository) AddressTransactions(ctx context.Context, coin model.Coin, network model.Network, address string, offset, limit uint64) ([]string, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("address_transactions", coin, network, err, start)
	}()

	if limit == 0 {
		return nil, nil
	}

	const query = `
SELECT
	txid,
	max(block_height) AS height
FROM
(
	SELECT txid, block_height
	FROM utxo_transaction_outputs
	WHERE coin = ? AND network = ? AND has(addresses, ?)
	UNION ALL
	SELECT txid, block_height
	FROM utxo_transaction_inputs
	WHERE coin = ? AND network = ? AND has(addresses, ?)
)
GROUP BY txid
ORDER BY
	height DESC,
	txid ASC
LIMIT ? OFFSET ?`

	rows, err := r.conn.Query(ctx, query, coin, network, address, coin, network, address, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query address transactions: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", cerr)
		}
	}()

	txids := make([]string, 0, limit)
	for rows.Next() {
		var (
			txid   string
			height uint64
		)
		if err = rows.Scan(&txid, &height); err != nil {
			return nil, fmt.Errorf("scan address transaction: %w", err)
		}
		txids = append(txids, txid)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate address transactions: %w", err)
	}

	return txids, nil
}
