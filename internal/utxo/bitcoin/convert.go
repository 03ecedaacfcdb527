// Package bitcoin adapts a btcd-compatible JSON-RPC node and the ClickHouse
// address index to the chain.Node contract.
package bitcoin

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-explorer/pkg/safe"
)

// BtcToSatoshis converts a coin amount to satoshis, rejecting negative values.
func BtcToSatoshis(value float64) (btcutil.Amount, error) {
	amt, err := btcutil.NewAmount(value)
	if err != nil {
		return 0, err
	}
	if amt < 0 {
		return 0, fmt.Errorf("negative amount: %d", amt)
	}
	return amt, nil
}

func convertBlock(src *BlockResult) (*chain.Block, error) {
	height, err := safe.Uint64(src.Height)
	if err != nil {
		return nil, fmt.Errorf("block %s height overflow: %w", src.Hash, err)
	}

	txids := make([]string, 0, len(src.Tx))
	for _, tx := range src.Tx {
		txids = append(txids, tx.Txid)
	}

	var coinbase string
	if len(src.Tx) > 0 && len(src.Tx[0].Vin) > 0 {
		coinbase = src.Tx[0].Vin[0].Coinbase
	}

	return &chain.Block{
		Hash:             src.Hash,
		Height:           height,
		Size:             src.Size,
		Version:          src.Version,
		MerkleRoot:       src.MerkleRoot,
		TxIDs:            txids,
		Time:             src.Time,
		Nonce:            src.Nonce,
		Bits:             src.Bits,
		Difficulty:       src.Difficulty,
		ChainWork:        src.ChainWork,
		Confirmations:    src.Confirmations,
		PreviousHash:     src.PreviousHash,
		NextHash:         src.NextHash,
		ValidatingPubKey: src.ValidatingPubKey,
		CoinbaseScript:   coinbase,
	}, nil
}

func convertHeader(src *BlockHeaderResult) (*chain.BlockHeader, error) {
	height, err := safe.Uint64(src.Height)
	if err != nil {
		return nil, fmt.Errorf("header %s height overflow: %w", src.Hash, err)
	}
	return &chain.BlockHeader{
		Hash:          src.Hash,
		Height:        height,
		Confirmations: src.Confirmations,
		ChainWork:     src.ChainWork,
		NextHash:      src.NextHash,
	}, nil
}

// convertTransaction maps a verbose transaction without prevout values or
// spent information. Height is left at -1.
func convertTransaction(src *btcjson.TxRawResult, decoder *ScriptDecoder) (*chain.Transaction, error) {
	tx := &chain.Transaction{
		TxID:          src.Txid,
		Version:       src.Version,
		LockTime:      src.LockTime,
		Hex:           src.Hex,
		BlockHash:     src.BlockHash,
		Height:        -1,
		Confirmations: src.Confirmations,
		BlockTime:     src.Blocktime,
		Coinbase:      len(src.Vin) > 0 && src.Vin[0].IsCoinBase(),
		Inputs:        make([]chain.Input, 0, len(src.Vin)),
	}

	for _, vin := range src.Vin {
		if vin.IsCoinBase() {
			tx.Inputs = append(tx.Inputs, chain.Input{
				CoinbaseScript: vin.Coinbase,
				Sequence:       vin.Sequence,
			})
			continue
		}
		in := chain.Input{
			PrevTxID:    vin.Txid,
			OutputIndex: vin.Vout,
			Sequence:    vin.Sequence,
		}
		if vin.ScriptSig != nil {
			in.Script = vin.ScriptSig.Hex
			in.ScriptAsm = vin.ScriptSig.Asm
		}
		tx.Inputs = append(tx.Inputs, in)
	}

	outputs, err := convertOutputs(src, decoder)
	if err != nil {
		return nil, err
	}
	tx.Outputs = outputs
	return tx, nil
}

func convertOutputs(src *btcjson.TxRawResult, decoder *ScriptDecoder) ([]chain.Output, error) {
	outputs := make([]chain.Output, 0, len(src.Vout))
	for idx, vout := range src.Vout {
		value, err := BtcToSatoshis(vout.Value)
		if err != nil {
			return nil, fmt.Errorf("tx %s output %d value: %w", src.Txid, idx, err)
		}
		out := chain.Output{
			Satoshis:  value,
			Script:    vout.ScriptPubKey.Hex,
			ScriptAsm: vout.ScriptPubKey.Asm,
		}
		addresses, err := decoder.Addresses(vout.ScriptPubKey)
		if err == nil && len(addresses) > 0 {
			out.Address = addresses[0]
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// nodeError maps node error codes onto chain sentinels.
func nodeError(err error) error {
	var rpcErr *btcjson.RPCError
	if !errors.As(err, &rpcErr) {
		return err
	}
	switch rpcErr.Code {
	case btcjson.ErrRPCInvalidAddressOrKey, btcjson.ErrRPCInvalidParameter:
		return fmt.Errorf("%w: %s", chain.ErrNotFound, rpcErr.Message)
	case btcjson.ErrRPCDeserialization, btcjson.ErrRPCVerify:
		return fmt.Errorf("%w: %s", chain.ErrInvalidTransaction, rpcErr.Message)
	default:
		return err
	}
}
