package cash

import (
	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/coin"
	"github.com/UZHBCON/deathnote/errors"
)

// Balancer is an interface to query the amount of coins.
type Balancer interface {
	Balance(deathnote.ReadOnlyKVStore, deathnote.Address) (coin.Amount, error)
}

// CoinMover is an interface for moving coins between accounts.
type CoinMover interface {
	// MoveCoins removes funds from the source account and adds them to the
	// destination account. This operation is atomic.
	MoveCoins(deathnote.KVStore, deathnote.Address, deathnote.Address, coin.Amount) error
}

// CoinMinter is an interface to create new coins.
type CoinMinter interface {
	CoinMint(deathnote.KVStore, deathnote.Address, coin.Amount) error
}

// Controller is the functionality needed by cash.Handler and cash.Decorator.
// BaseController should work plenty fine, but you can add other logic if
// so desired.
type Controller interface {
	Balancer
	CoinMover
	CoinMinter
}

// BaseController is a simple implementation of controller wallet must
// return something that supports AddCoins and SetCoins.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a basic controller implementation.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount held by given address. An address without a
// wallet holds nothing.
func (c BaseController) Balance(db deathnote.ReadOnlyKVStore, addr deathnote.Address) (coin.Amount, error) {
	w, err := c.bucket.GetOrEmpty(db, addr)
	if err != nil {
		return coin.Amount{}, err
	}
	return w.Balance, nil
}

// MoveCoins moves the given amount from src to dest. If src doesn't exist,
// or doesn't have sufficient coins, it fails.
func (c BaseController) MoveCoins(db deathnote.KVStore, src, dest deathnote.Address, amount coin.Amount) error {
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrInput, "non-positive amount")
	}

	sender, err := c.bucket.GetOrEmpty(db, src)
	if err != nil {
		return err
	}
	remaining, err := sender.Balance.Subtract(amount)
	if err != nil {
		return errors.Wrapf(errors.ErrAmount, "%s holds %s", src, sender.Balance)
	}
	sender.Balance = remaining
	if err := c.bucket.Save(db, src, sender); err != nil {
		return errors.Wrap(err, "cannot save sender")
	}

	// Sender is saved first so that self transfers do not double the
	// balance.
	recipient, err := c.bucket.GetOrEmpty(db, dest)
	if err != nil {
		return err
	}
	total, err := recipient.Balance.Add(amount)
	if err != nil {
		return err
	}
	recipient.Balance = total
	return errors.Wrap(c.bucket.Save(db, dest, recipient), "cannot save recipient")
}

// CoinMint attempts to add the given amount of coins to the destination
// address. Fails if it overflows the wallet.
func (c BaseController) CoinMint(db deathnote.KVStore, dest deathnote.Address, amount coin.Amount) error {
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrInput, "non-positive amount")
	}
	w, err := c.bucket.GetOrEmpty(db, dest)
	if err != nil {
		return err
	}
	total, err := w.Balance.Add(amount)
	if err != nil {
		return err
	}
	w.Balance = total
	return c.bucket.Save(db, dest, w)
}
