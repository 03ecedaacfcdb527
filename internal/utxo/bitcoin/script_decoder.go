package bitcoin

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"
)

var networkParams = map[string]*chaincfg.Params{
	"main":     &chaincfg.MainNetParams,
	"mainnet":  &chaincfg.MainNetParams,
	"bitcoin":  &chaincfg.MainNetParams,
	"testnet":  &chaincfg.TestNet3Params,
	"testnet3": &chaincfg.TestNet3Params,
	"regtest":  &chaincfg.RegressionNetParams,
	"signet":   &chaincfg.SigNetParams,
}

func chainParamsForNetwork(network model.Network) (*chaincfg.Params, error) {
	params, ok := networkParams[strings.ToLower(string(network))]
	if !ok {
		return nil, fmt.Errorf("unsupported network %q", network)
	}
	return params, nil
}

// ScriptDecoder resolves the addresses locking scripts pay to.
type ScriptDecoder struct {
	params *chaincfg.Params
}

// NewScriptDecoder returns a decoder for the address encoding of network.
func NewScriptDecoder(network model.Network) (*ScriptDecoder, error) {
	params, err := chainParamsForNetwork(network)
	if err != nil {
		return nil, err
	}
	return &ScriptDecoder{params: params}, nil
}

// Addresses returns the addresses spk pays to. Nodes before v22 report a list,
// later ones a single address; the script itself is decoded only when the node
// reports neither. Scripts without an address yield an empty slice.
func (d *ScriptDecoder) Addresses(spk btcjson.ScriptPubKeyResult) ([]string, error) {
	switch {
	case spk.Address != "":
		return []string{spk.Address}, nil
	case len(spk.Addresses) > 0:
		return append([]string(nil), spk.Addresses...), nil
	case spk.Hex == "":
		return nil, nil
	}
	return d.decode(spk.Hex)
}

func (d *ScriptDecoder) decode(scriptHex string) ([]string, error) {
	script, err := hex.DecodeString(scriptHex)
	if err != nil {
		return nil, fmt.Errorf("decode script hex: %w", err)
	}
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(script, d.params)
	if err != nil {
		return nil, fmt.Errorf("extract script addresses: %w", err)
	}

	encoded := make([]string, len(addrs))
	for i, addr := range addrs {
		encoded[i] = addr.EncodeAddress()
	}
	return encoded, nil
}
