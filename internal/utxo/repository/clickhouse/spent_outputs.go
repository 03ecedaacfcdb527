package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"
)

// SpentOutputs returns the inputs spending outputs of txid, one per output
// index. Unspent outputs are absent.
func (r *Repository) SpentOutputs(ctx context.Context, coin model.Coin, network model.Network, txid string) ([]model.SpentOutput, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("spent_outputs", coin, network, err, start)
	}()

	const query = `
SELECT
	prev_vout,
	txid,
	input_index,
	block_height
FROM utxo_transaction_inputs
WHERE coin = ? AND network = ? AND prev_txid = ?
ORDER BY prev_vout ASC, block_height ASC
LIMIT 1 BY prev_vout`

	rows, err := r.conn.Query(ctx, query, coin, network, txid)
	if err != nil {
		return nil, fmt.Errorf("query spent outputs: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", cerr)
		}
	}()

	var spent []model.SpentOutput
	for rows.Next() {
		var s model.SpentOutput
		if err = rows.Scan(&s.OutputIndex, &s.SpentTxID, &s.SpentIndex, &s.SpentHeight); err != nil {
			return nil, fmt.Errorf("scan spent output: %w", err)
		}
		spent = append(spent, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spent outputs: %w", err)
	}

	return spent, nil
}
