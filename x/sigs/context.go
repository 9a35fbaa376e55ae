package sigs

import (
	"context"

	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/x"
)

type signersKey struct{}

// withSigners is unexported so only the Decorator can authenticate.
func withSigners(ctx deathnote.Context, signers []deathnote.Condition) deathnote.Context {
	return context.WithValue(ctx, signersKey{}, signers)
}

// Authenticate reads the signers verified by the Decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the signer conditions in signature order, nil for
// an unsigned transaction.
func (Authenticate) GetConditions(ctx deathnote.Context) []deathnote.Condition {
	signers, _ := ctx.Value(signersKey{}).([]deathnote.Condition)
	return signers
}

func (a Authenticate) HasAddress(ctx deathnote.Context, addr deathnote.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
