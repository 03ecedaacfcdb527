package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"
)

// AddressTotals aggregates the value received and spent by address and the
// number of distinct transactions touching it.
func (r *Repository) AddressTotals(ctx context.Context, coin model.Coin, network model.Network, address string) (model.AddressTotals, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("address_totals", coin, network, err, start)
	}()

	const query = `
SELECT
	sumIf(value, side = 'out') AS received,
	sumIf(value, side = 'in') AS spent,
	uniqExact(txid) AS appearances
FROM
(
	SELECT 'out' AS side, txid, value
	FROM utxo_transaction_outputs
	WHERE coin = ? AND network = ? AND has(addresses, ?)
	UNION ALL
	SELECT 'in' AS side, txid, value
	FROM utxo_transaction_inputs
	WHERE coin = ? AND network = ? AND has(addresses, ?)
)`

	rows, err := r.conn.Query(ctx, query, coin, network, address, coin, network, address)
	if err != nil {
		return model.AddressTotals{}, fmt.Errorf("query address totals: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", cerr)
		}
	}()

	var totals model.AddressTotals
	if !rows.Next() {
		err = fmt.Errorf("address totals not found")
		return model.AddressTotals{}, err
	}
	if err = rows.Scan(&totals.Received, &totals.Spent, &totals.Appearances); err != nil {
		return model.AddressTotals{}, fmt.Errorf("scan address totals: %w", err)
	}
	if err = rows.Err(); err != nil {
		return model.AddressTotals{}, fmt.Errorf("iterate address totals: %w", err)
	}

	return totals, nil
}
