package crypto

import (
	"fmt"

	"github.com/UZHBCON/deathnote/errors"
	"github.com/stellar/go/exp/crypto/derivation"
	bip39 "github.com/tyler-smith/go-bip39"
)

// CoinType is the bip44 registered coin type used in derivation paths.
const CoinType = 234

// DerivationPath returns the hardened bip44 path of the n-th account.
func DerivationPath(account uint32) string {
	return fmt.Sprintf("m/44'/%d'/%d'", CoinType, account)
}

// NewMnemonic returns a fresh 24 word recovery phrase.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", errors.Wrap(err, "entropy")
	}
	return bip39.NewMnemonic(entropy)
}

// DeriveKey returns the private key of given account, derived from the
// mnemonic and optional passphrase.
func DeriveKey(mnemonic, passphrase string, account uint32) (*PrivateKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.Wrap(errors.ErrInput, "invalid mnemonic")
	}
	seed := bip39.NewSeed(mnemonic, passphrase)
	k, err := derivation.DeriveForPath(DerivationPath(account), seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derive key: %s", err)
	}
	return PrivKeyEd25519FromSeed(k.Key), nil
}
