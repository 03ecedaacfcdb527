// Package model defines the explorer's read models as served to API consumers.
package model

// KeyInfo is the result of a key directory lookup. Unknown keys keep only the
// raw identifier so callers can still display it.
type KeyInfo struct {
	Key   string `json:"key,omitempty"`
	KeyID string `json:"keyid,omitempty"`
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
	Known bool   `json:"-"`
}

// BlockSummary is the compact block shape used by block listings.
type BlockSummary struct {
	Height        uint64   `json:"height"`
	Size          int32    `json:"size"`
	Hash          string   `json:"hash"`
	Time          int64    `json:"time"`
	TxLength      int      `json:"txlength"`
	ValidatorInfo *KeyInfo `json:"validatorInfo,omitempty"`
	PoolInfo      *KeyInfo `json:"poolInfo,omitempty"`
}

// BlockDetail is the full block shape.
type BlockDetail struct {
	Hash              string   `json:"hash"`
	Size              int32    `json:"size"`
	Height            uint64   `json:"height"`
	Version           int32    `json:"version"`
	MerkleRoot        string   `json:"merkleroot"`
	Tx                []string `json:"tx"`
	Time              int64    `json:"time"`
	Nonce             uint32   `json:"nonce"`
	Bits              string   `json:"bits"`
	Difficulty        float64  `json:"difficulty"`
	ChainWork         string   `json:"chainwork"`
	Confirmations     int64    `json:"confirmations"`
	PreviousBlockHash *string  `json:"previousblockhash"`
	NextBlockHash     string   `json:"nextblockhash,omitempty"`
	Reward            float64  `json:"reward"`
	IsMainChain       bool     `json:"isMainChain"`
	ValidatorInfo     *KeyInfo `json:"validatorInfo,omitempty"`
	PoolInfo          *KeyInfo `json:"poolInfo,omitempty"`
}

// BlockList is a page of block summaries, newest first.
type BlockList struct {
	Blocks []BlockSummary `json:"blocks"`
	Length int            `json:"length"`
}

// BlockIndex maps a height to its block hash.
type BlockIndex struct {
	BlockHash string `json:"blockHash"`
}
