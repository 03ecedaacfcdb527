// Package view shapes raw node records into the explorer's read models.
package view

import (
	"fmt"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/admin"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/reward"
)

// Transformer maps chain records to views. It performs no I/O.
type Transformer struct {
	keys  KeyDirectory
	clock clock.Clock
}

// NewTransformer creates a Transformer. clk supplies the time of mempool transactions.
func NewTransformer(keys KeyDirectory, clk clock.Clock) *Transformer {
	if clk == nil {
		clk = clock.New()
	}
	return &Transformer{keys: keys, clock: clk}
}

// Block builds the full block view.
func (t *Transformer) Block(b *chain.Block) model.BlockDetail {
	validator, pool := t.attribution(b)
	return model.BlockDetail{
		Hash:              b.Hash,
		Size:              b.Size,
		Height:            b.Height,
		Version:           b.Version,
		MerkleRoot:        b.MerkleRoot,
		Tx:                b.TxIDs,
		Time:              b.Time,
		Nonce:             b.Nonce,
		Bits:              b.Bits,
		Difficulty:        b.Difficulty,
		ChainWork:         b.ChainWork,
		Confirmations:     b.Confirmations,
		PreviousBlockHash: previousHash(b.PreviousHash),
		NextBlockHash:     b.NextHash,
		Reward:            reward.Subsidy(b.Height).ToBTC(),
		IsMainChain:       b.Confirmations != -1,
		ValidatorInfo:     validator,
		PoolInfo:          pool,
	}
}

// BlockSummary builds the compact block view used by listings.
func (t *Transformer) BlockSummary(b *chain.Block) model.BlockSummary {
	validator, pool := t.attribution(b)
	return model.BlockSummary{
		Height:        b.Height,
		Size:          b.Size,
		Hash:          b.Hash,
		Time:          b.Time,
		TxLength:      len(b.TxIDs),
		ValidatorInfo: validator,
		PoolInfo:      pool,
	}
}

// attribution resolves who produced b: the validator when the block carries a
// validating key, otherwise a known mining pool tagged in the coinbase.
func (t *Transformer) attribution(b *chain.Block) (validator, pool *model.KeyInfo) {
	if b.ValidatingPubKey != "" {
		v := t.keys.Validator(b.ValidatingPubKey)
		return &v, nil
	}
	if b.CoinbaseScript == "" {
		return nil, nil
	}
	if p := t.keys.Pool(b.CoinbaseScript); p.Known {
		return nil, &p
	}
	return nil, nil
}

// The node reports the genesis parent as an all-zero digest.
func previousHash(hash string) *string {
	if strings.Trim(hash, "0") == "" {
		return nil
	}
	return &hash
}

// Transaction builds the transaction view.
func (t *Transformer) Transaction(tx *chain.Transaction, opts TxOptions) model.Transaction {
	out := model.Transaction{
		TxID:          tx.TxID,
		Version:       tx.Version,
		LockTime:      tx.LockTime,
		BlockHash:     tx.BlockHash,
		BlockHeight:   tx.Height,
		Confirmations: tx.Confirmations,
		Time:          tx.BlockTime,
		ValueOut:      tx.OutputSatoshis().ToBTC(),
		Size:          len(tx.Hex) / 2,
	}
	if out.Time == 0 {
		out.Time = t.clock.Now().Unix()
	}
	if tx.Confirmations > 0 {
		out.BlockTime = out.Time
	}

	if tx.Coinbase {
		out.IsCoinBase = true
		out.Vin = []model.Input{coinbaseInput(tx.Inputs)}
	} else {
		out.Vin = make([]model.Input, 0, len(tx.Inputs))
		for i, in := range tx.Inputs {
			out.Vin = append(out.Vin, transformInput(in, i, opts))
		}
		out.Signer = t.signer(tx.Inputs)

		valueIn := tx.InputSatoshis().ToBTC()
		fees := (tx.InputSatoshis() - tx.OutputSatoshis()).ToBTC()
		out.ValueIn = &valueIn
		out.Fees = &fees
	}

	out.Vout = make([]model.Output, 0, len(tx.Outputs))
	for i, o := range tx.Outputs {
		out.Vout = append(out.Vout, transformOutput(o, i, opts))
	}

	if c := admin.Classify(tx.Outputs); c.IsAdmin() {
		info := &model.AdminInfo{Type: c.Thread.String(), Action: c.Action.String()}
		if c.Thread == admin.ThreadIssue {
			info.Amount = c.Amount.ToBTC()
			info.AmountSat = int64(c.Amount)
		}
		out.AdminInfo = info
	}
	return out
}

func coinbaseInput(inputs []chain.Input) model.Input {
	if len(inputs) == 0 {
		return model.Input{}
	}
	return model.Input{
		Coinbase: inputs[0].CoinbaseScript,
		Sequence: inputs[0].Sequence,
	}
}

func transformInput(in chain.Input, n int, opts TxOptions) model.Input {
	vout := in.OutputIndex
	valueSat := int64(in.Satoshis)
	value := in.Satoshis.ToBTC()
	out := model.Input{
		TxID:     in.PrevTxID,
		Vout:     &vout,
		Sequence: in.Sequence,
		N:        n,
		Addr:     in.Address,
		ValueSat: &valueSat,
		Value:    &value,

		DoubleSpend: &model.DoubleSpend{},
	}
	if !opts.NoScriptSig {
		out.ScriptSig = &model.ScriptSig{Hex: in.Script}
		if !opts.NoAsm {
			out.ScriptSig.Asm = in.ScriptAsm
		}
	}
	return out
}

func transformOutput(o chain.Output, n int, opts TxOptions) model.Output {
	out := model.Output{
		Value:        FormatCoins(o.Satoshis),
		N:            n,
		ScriptPubKey: model.ScriptPubKey{Hex: o.Script},
	}
	if !opts.NoAsm {
		out.ScriptPubKey.Asm = o.ScriptAsm
	}
	if o.Address != "" {
		out.ScriptPubKey.Addresses = []string{o.Address}
	}
	if opts.NoSpent {
		return out
	}
	out.OutputSpend = &model.OutputSpend{}
	if o.SpentTxID != "" {
		spentTxID := o.SpentTxID
		out.SpentTxID = &spentTxID
		out.SpentIndex = o.SpentIndex
		if o.SpentHeight > 0 {
			spentHeight := o.SpentHeight
			out.SpentHeight = &spentHeight
		}
	}
	return out
}

// signer looks up wallet providers by the first and third tokens of the first
// input's unlocking script.
func (t *Transformer) signer(inputs []chain.Input) *model.KeyInfo {
	if len(inputs) == 0 {
		return nil
	}
	tokens := strings.Fields(inputs[0].ScriptAsm)
	for _, i := range []int{0, 2} {
		if i >= len(tokens) {
			break
		}
		if p := t.keys.Provider(tokens[i]); p.Known {
			return &p
		}
	}
	return nil
}

// AddressSummary builds the address view. keyIDs are the wallet key ids
// embedded in multi-key addresses; other addresses pass none.
func (t *Transformer) AddressSummary(address string, keyIDs []string, s *chain.AddressSummary) model.AddressSummary {
	out := model.AddressSummary{
		AddrStr:                address,
		Balance:                s.Balance.ToBTC(),
		BalanceSat:             int64(s.Balance),
		TotalReceived:          s.TotalReceived.ToBTC(),
		TotalReceivedSat:       int64(s.TotalReceived),
		TotalSent:              s.TotalSpent.ToBTC(),
		TotalSentSat:           int64(s.TotalSpent),
		UnconfirmedBalance:     s.UnconfirmedBalance.ToBTC(),
		UnconfirmedBalanceSat:  int64(s.UnconfirmedBalance),
		UnconfirmedAppearances: s.UnconfirmedAppearances,
		Appearances:            s.Appearances,
		Transactions:           s.TxIDs,
	}
	if len(keyIDs) == 2 {
		wsp1 := t.keys.ProviderByKeyID(keyIDs[0])
		wsp2 := t.keys.ProviderByKeyID(keyIDs[1])
		out.WSP1 = &wsp1
		out.WSP2 = &wsp2
	}
	return out
}

// FormatCoins renders satoshis as a coin amount with exactly 8 decimals.
func FormatCoins(amount btcutil.Amount) string {
	sign := ""
	sat := int64(amount)
	if sat < 0 {
		sign = "-"
		sat = -sat
	}
	return fmt.Sprintf("%s%d.%08d", sign, sat/btcutil.SatoshiPerBitcoin, sat%btcutil.SatoshiPerBitcoin)
}
