package sigs

import (
	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/errors"
)

// signatureVerifyCost is the gas charged in CheckTx for every valid
// signature.
const signatureVerifyCost = 500

// RegisterQuery exposes the nonce records under /auth.
func RegisterQuery(qr deathnote.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator verifies the signatures of a SignedTx and puts the signer
// conditions into the context, where Authenticate finds them. Every valid
// signature consumes one nonce of its key.
type Decorator struct {
	allowMissingSigs bool
}

var _ deathnote.Decorator = Decorator{}

// NewDecorator returns a decorator that rejects unsigned transactions.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs returns a copy accepting transactions without any
// signature. Invalid signatures are still rejected.
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

func (d Decorator) Check(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx, next deathnote.Checker) (*deathnote.CheckResult, error) {
	ctx, signers, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.GasPayment += int64(signers * signatureVerifyCost)
	return res, nil
}

func (d Decorator) Deliver(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx, next deathnote.Deliverer) (*deathnote.DeliverResult, error) {
	ctx, _, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

// authenticate returns the context carrying the signers of tx and their
// number. Transactions that cannot be signed pass unchanged.
func (d Decorator) authenticate(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx) (deathnote.Context, int, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return ctx, 0, nil
	}
	signers, err := VerifyTxSignatures(db, stx, deathnote.GetChainID(ctx))
	if err != nil {
		return nil, 0, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), len(signers), nil
}
