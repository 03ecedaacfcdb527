package model

// Coin identifies the UTXO chain an explorer instance serves.
type Coin string

// Network identifies the chain network (mainnet, testnet, ...).
type Network string

var BTC Coin = "BTC"

var (
	Testnet Network = "testnet"
	Mainnet Network = "mainnet"
	Regtest Network = "regtest"
	Signet  Network = "signet"
)
