package cash

import (
	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/coin"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/UZHBCON/deathnote/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the balance of a single address.
type Wallet struct {
	Balance coin.Amount `json:"balance"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Validate() error {
	return errors.Wrap(w.Balance.Validate(), "balance")
}

func (w *Wallet) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, w)
}

// Bucket stores wallets keyed by the owning address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket initializes a cash bucket.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Wallet{}),
	}
}

// GetOrEmpty returns the wallet stored under given address or an empty one
// when none exists yet.
func (b Bucket) GetOrEmpty(db deathnote.ReadOnlyKVStore, addr deathnote.Address) (*Wallet, error) {
	var w Wallet
	switch err := b.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, errors.Wrap(err, "cannot load wallet")
	}
}

// Save writes the wallet. Empty wallets are removed from the store.
func (b Bucket) Save(db deathnote.KVStore, addr deathnote.Address, w *Wallet) error {
	if w.Balance.IsZero() {
		err := b.Delete(db, addr)
		if err != nil && !errors.ErrNotFound.Is(err) {
			return err
		}
		return nil
	}
	_, err := b.Put(db, addr, w)
	return err
}
