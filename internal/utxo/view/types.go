package view

import "github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"

// KeyDirectory resolves embedded keys and coinbase tags to known parties.
type KeyDirectory interface {
	Provider(key string) model.KeyInfo
	ProviderByKeyID(keyID string) model.KeyInfo
	Validator(key string) model.KeyInfo
	Pool(coinbaseHex string) model.KeyInfo
}

// TxOptions trims optional parts of a transaction view.
type TxOptions struct {
	NoAsm       bool
	NoScriptSig bool
	NoSpent     bool
}
