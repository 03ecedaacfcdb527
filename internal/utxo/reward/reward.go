// Package reward computes the block subsidy schedule.
package reward

import "github.com/btcsuite/btcd/btcutil"

const (
	// BaseSubsidy is the genesis-era subsidy in satoshis.
	BaseSubsidy uint64 = 50 * btcutil.SatoshiPerBitcoin
	// HalvingInterval is the number of blocks between subsidy halvings.
	HalvingInterval uint64 = 210_000

	maxHalvings = 64
)

// Subsidy returns the block subsidy at height. It is zero once the subsidy
// has been halved 64 times.
func Subsidy(height uint64) btcutil.Amount {
	halvings := height / HalvingInterval
	if halvings >= maxHalvings {
		return 0
	}
	return btcutil.Amount(BaseSubsidy >> halvings)
}
