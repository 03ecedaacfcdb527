package bitcoin

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"
)

// walletPayloadLen is the base58check payload of a multi-key wallet address:
// a 20-byte script hash followed by two 4-byte provider key ids.
const walletPayloadLen = 28

// AddressDecoder validates addresses of one network.
type AddressDecoder struct {
	params *chaincfg.Params
}

// NewAddressDecoder builds an AddressDecoder for network.
func NewAddressDecoder(network model.Network) (*AddressDecoder, error) {
	params, err := chainParamsForNetwork(network)
	if err != nil {
		return nil, err
	}
	return &AddressDecoder{params: params}, nil
}

// Validate reports whether address is well formed for the network. Multi-key
// wallet addresses are accepted on their checksum alone.
func (d *AddressDecoder) Validate(address string) error {
	if len(d.WalletKeyIDs(address)) > 0 {
		return nil
	}
	addr, err := btcutil.DecodeAddress(address, d.params)
	if err != nil {
		return fmt.Errorf("decode address %q: %w", address, err)
	}
	if !addr.IsForNet(d.params) {
		return fmt.Errorf("address %q is not for %s", address, d.params.Name)
	}
	return nil
}

// WalletKeyIDs returns the two provider key ids embedded in a multi-key
// wallet address, or nil for any other address.
func (d *AddressDecoder) WalletKeyIDs(address string) []string {
	payload, _, err := base58.CheckDecode(address)
	if err != nil || len(payload) != walletPayloadLen {
		return nil
	}
	return []string{
		hex.EncodeToString(payload[20:24]),
		hex.EncodeToString(payload[24:28]),
	}
}
