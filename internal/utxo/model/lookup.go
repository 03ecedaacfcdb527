package model

// TransactionOutputLookup is an indexed output used to resolve input values and addresses.
type TransactionOutputLookup struct {
	Coin      Coin
	Network   Network
	TxID      string
	Index     uint32
	Value     uint64
	Addresses []string
}

// SpentOutput records which input spent an indexed output.
type SpentOutput struct {
	OutputIndex uint32
	SpentTxID   string
	SpentIndex  uint32
	SpentHeight uint64
}

// AddressTotals aggregates indexed activity of one address, in satoshis.
type AddressTotals struct {
	Received    uint64
	Spent       uint64
	Appearances uint64
}
