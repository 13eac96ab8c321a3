package utils

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Key is one secp256k1 key used on both ledgers.
type Key struct {
	inner *ecdsa.PrivateKey
}

func ParseKey(keyHex string) (*Key, error) {
	keyBytes, err := hex.DecodeString(strings.TrimPrefix(keyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid key hex: %w", err)
	}
	key, err := crypto.ToECDSA(keyBytes)
	if err != nil {
		return nil, err
	}
	return &Key{inner: key}, nil
}

func (key *Key) ECDSA() *ecdsa.PrivateKey {
	return key.inner
}

func (key *Key) BtcKey() *btcec.PrivateKey {
	pk, _ := btcec.PrivKeyFromBytes(crypto.FromECDSA(key.inner))
	return pk
}

func (key *Key) EvmAddress() common.Address {
	return crypto.PubkeyToAddress(key.inner.PublicKey)
}

func (key *Key) WitnessAddress(network *chaincfg.Params) (btcutil.Address, error) {
	keyBytesHash := btcutil.Hash160(key.BtcKey().PubKey().SerializeCompressed())
	return btcutil.NewAddressWitnessPubKeyHash(keyBytesHash, network)
}
