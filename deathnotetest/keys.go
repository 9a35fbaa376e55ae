package deathnotetest

import (
	"github.com/UZHBCON/deathnote/crypto"
)

// NewKey returns a random ed25519 signer.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}
