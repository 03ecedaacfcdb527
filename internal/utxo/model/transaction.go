package model

// Transaction is the transaction view. ValueIn and Fees stay nil for coinbase
// transactions, which have no spent inputs.
type Transaction struct {
	TxID          string     `json:"txid"`
	Version       uint32     `json:"version"`
	LockTime      uint32     `json:"locktime"`
	Vin           []Input    `json:"vin"`
	Vout          []Output   `json:"vout"`
	Signer        *KeyInfo   `json:"signer,omitempty"`
	BlockHash     string     `json:"blockhash,omitempty"`
	BlockHeight   int64      `json:"blockheight"`
	Confirmations uint64     `json:"confirmations"`
	Time          int64      `json:"time"`
	BlockTime     int64      `json:"blocktime,omitempty"`
	IsCoinBase    bool       `json:"isCoinBase,omitempty"`
	ValueOut      float64    `json:"valueOut"`
	Size          int        `json:"size,omitempty"`
	ValueIn       *float64   `json:"valueIn,omitempty"`
	Fees          *float64   `json:"fees,omitempty"`
	AdminInfo     *AdminInfo `json:"adminInfo,omitempty"`
}

// Input is a transaction input view. Coinbase inputs only carry Coinbase,
// Sequence and N.
type Input struct {
	Coinbase  string     `json:"coinbase,omitempty"`
	TxID      string     `json:"txid,omitempty"`
	Vout      *uint32    `json:"vout,omitempty"`
	Sequence  uint32     `json:"sequence"`
	N         int        `json:"n"`
	ScriptSig *ScriptSig `json:"scriptSig,omitempty"`
	Addr      string     `json:"addr,omitempty"`
	ValueSat  *int64     `json:"valueSat,omitempty"`
	Value     *float64   `json:"value,omitempty"`
	*DoubleSpend
}

// DoubleSpend is attached to every spending input. Double spends are not
// tracked, so DoubleSpentTxID is always null.
type DoubleSpend struct {
	DoubleSpentTxID *string `json:"doubleSpentTxID"`
}

// ScriptSig is the unlocking script of an input.
type ScriptSig struct {
	Hex string `json:"hex"`
	Asm string `json:"asm,omitempty"`
}

// Output is a transaction output view. Value is a fixed 8-decimal string.
type Output struct {
	Value        string       `json:"value"`
	N            int          `json:"n"`
	ScriptPubKey ScriptPubKey `json:"scriptPubKey"`
	*OutputSpend
}

// OutputSpend is the spending side of an output. Its keys are always present
// unless spent info was suppressed; unspent outputs report them as null.
type OutputSpend struct {
	SpentTxID   *string `json:"spentTxId"`
	SpentIndex  *uint32 `json:"spentIndex"`
	SpentHeight *uint64 `json:"spentHeight"`
}

// ScriptPubKey is the locking script of an output.
type ScriptPubKey struct {
	Hex       string   `json:"hex"`
	Asm       string   `json:"asm,omitempty"`
	Addresses []string `json:"addresses,omitempty"`
}

// AdminInfo describes the privileged action an admin transaction performs.
type AdminInfo struct {
	Type      string  `json:"type"`
	Action    string  `json:"action,omitempty"`
	Amount    float64 `json:"amount,omitempty"`
	AmountSat int64   `json:"amountSat,omitempty"`
}

// TransactionList is a page of transactions.
type TransactionList struct {
	PagesTotal int           `json:"pagesTotal"`
	Txs        []Transaction `json:"txs"`
}

// RawTransaction carries a serialized transaction in hex.
type RawTransaction struct {
	RawTx string `json:"rawtx"`
}

// SentTransaction is the result of broadcasting a transaction.
type SentTransaction struct {
	TxID string `json:"txid"`
}
