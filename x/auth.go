package x

import (
	"github.com/UZHBCON/deathnote"
)

// Authenticator tells which conditions signed the current transaction.
// Handlers receive one in their constructor and never read x/sigs
// directly.
type Authenticator interface {
	// GetConditions returns the fulfilled conditions, main signer first.
	GetConditions(deathnote.Context) []deathnote.Condition
	// HasAddress reports whether a fulfilled condition has addr.
	HasAddress(deathnote.Context, deathnote.Address) bool
}

// MultiAuth merges several authenticators. Conditions keep the order of
// the authenticators and appear once.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls: impls}
}

func (m MultiAuth) GetConditions(ctx deathnote.Context) []deathnote.Condition {
	var all []deathnote.Condition
	for _, impl := range m.impls {
		for _, c := range impl.GetConditions(ctx) {
			if !containsCondition(all, c) {
				all = append(all, c)
			}
		}
	}
	return all
}

func (m MultiAuth) HasAddress(ctx deathnote.Context, addr deathnote.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

func containsCondition(list []deathnote.Condition, c deathnote.Condition) bool {
	for _, have := range list {
		if have.Equals(c) {
			return true
		}
	}
	return false
}

// GetAddresses returns the addresses of all fulfilled conditions.
func GetAddresses(ctx deathnote.Context, auth Authenticator) []deathnote.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]deathnote.Address, 0, len(conds))
	for _, c := range conds {
		addrs = append(addrs, c.Address())
	}
	return addrs
}

// MainSigner returns the first fulfilled condition or nil.
func MainSigner(ctx deathnote.Context, auth Authenticator) deathnote.Condition {
	if conds := auth.GetConditions(ctx); len(conds) > 0 {
		return conds[0]
	}
	return nil
}

// HasAllAddresses reports whether every address in required signed.
func HasAllAddresses(ctx deathnote.Context, auth Authenticator, required []deathnote.Address) bool {
	for _, addr := range required {
		if !auth.HasAddress(ctx, addr) {
			return false
		}
	}
	return true
}

// Caller is the identity behind the current transaction. Domain code asks
// it for addresses without holding a context or an authenticator.
type Caller struct {
	ctx  deathnote.Context
	auth Authenticator
}

func NewCaller(ctx deathnote.Context, auth Authenticator) Caller {
	return Caller{ctx: ctx, auth: auth}
}

// HasAddress reports whether addr signed the transaction.
func (c Caller) HasAddress(addr deathnote.Address) bool {
	return c.auth.HasAddress(c.ctx, addr)
}

// MainAddress returns the address of the main signer, nil if unsigned.
func (c Caller) MainAddress() deathnote.Address {
	if signer := MainSigner(c.ctx, c.auth); signer != nil {
		return signer.Address()
	}
	return nil
}
