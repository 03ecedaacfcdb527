// Package keys resolves embedded public keys and script tags to known
// wallet providers, backup key holders, validators and mining pools.
package keys

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"
	"gopkg.in/yaml.v3"
)

// Provider is a wallet service provider or backup key holder.
type Provider struct {
	Key   string `yaml:"key"`
	KeyID string `yaml:"keyid"`
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
}

// Validator is a block validator identified by its signing key.
type Validator struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Pool is a mining pool identified by tags it writes into coinbase scripts.
type Pool struct {
	Name string   `yaml:"name"`
	URL  string   `yaml:"url"`
	Tags []string `yaml:"tags"`
}

// Tables is the on-disk layout of a directory file.
type Tables struct {
	Providers  []Provider  `yaml:"providers"`
	Validators []Validator `yaml:"validators"`
	Pools      []Pool      `yaml:"pools"`
}

type poolTag struct {
	tag  []byte
	pool Pool
}

// Directory is an immutable lookup table built once at startup.
type Directory struct {
	providersByKey   map[string]Provider
	providersByKeyID map[string]Provider
	validators       map[string]Validator
	poolTags         []poolTag
}

// New indexes the given tables.
func New(tables Tables) *Directory {
	d := &Directory{
		providersByKey:   make(map[string]Provider, len(tables.Providers)),
		providersByKeyID: make(map[string]Provider, len(tables.Providers)),
		validators:       make(map[string]Validator, len(tables.Validators)),
	}
	for _, p := range tables.Providers {
		if p.Key != "" {
			d.providersByKey[strings.ToLower(p.Key)] = p
		}
		if p.KeyID != "" {
			d.providersByKeyID[strings.ToLower(p.KeyID)] = p
		}
	}
	for _, v := range tables.Validators {
		d.validators[strings.ToLower(v.Key)] = v
	}
	for _, p := range tables.Pools {
		for _, tag := range p.Tags {
			if tag == "" {
				continue
			}
			d.poolTags = append(d.poolTags, poolTag{tag: []byte(tag), pool: p})
		}
	}
	return d
}

// Load reads a YAML directory file. An empty path yields an empty directory.
func Load(path string) (*Directory, error) {
	if path == "" {
		return New(Tables{}), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key directory %s: %w", path, err)
	}
	var tables Tables
	if err := yaml.Unmarshal(raw, &tables); err != nil {
		return nil, fmt.Errorf("decode key directory %s: %w", path, err)
	}
	return New(tables), nil
}

// Provider resolves a wallet provider by its public key.
func (d *Directory) Provider(key string) model.KeyInfo {
	p, ok := d.providersByKey[strings.ToLower(key)]
	if !ok {
		return model.KeyInfo{Key: key}
	}
	return model.KeyInfo{Key: p.Key, KeyID: p.KeyID, Name: p.Name, URL: p.URL, Known: true}
}

// ProviderByKeyID resolves a wallet provider by the 4-byte key id embedded in addresses.
func (d *Directory) ProviderByKeyID(keyID string) model.KeyInfo {
	p, ok := d.providersByKeyID[strings.ToLower(keyID)]
	if !ok {
		return model.KeyInfo{KeyID: keyID}
	}
	return model.KeyInfo{Key: p.Key, KeyID: p.KeyID, Name: p.Name, URL: p.URL, Known: true}
}

// Validator resolves a block validator by its public key.
func (d *Directory) Validator(key string) model.KeyInfo {
	v, ok := d.validators[strings.ToLower(key)]
	if !ok {
		return model.KeyInfo{Key: key}
	}
	return model.KeyInfo{Key: v.Key, Name: v.Name, URL: v.URL, Known: true}
}

// Pool finds the first pool whose tag occurs in the hex-encoded coinbase script.
func (d *Directory) Pool(coinbaseHex string) model.KeyInfo {
	script, err := hex.DecodeString(coinbaseHex)
	if err != nil || len(script) == 0 {
		return model.KeyInfo{}
	}
	for _, pt := range d.poolTags {
		if bytes.Contains(script, pt.tag) {
			return model.KeyInfo{Name: pt.pool.Name, URL: pt.pool.URL, Known: true}
		}
	}
	return model.KeyInfo{}
}
