package testament

import (
	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/coin"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/UZHBCON/deathnote/x/cash"
)

// Controller applies operations to stored testaments. Each mutating call
// loads the record, runs the state transition, moves the coins and saves
// the record. The store passed in must be discarded by the caller when an
// error is returned, which the savepoint decorator takes care of.
type Controller struct {
	bucket Bucket
	bank   cash.CoinMover
}

// NewController returns a controller that moves coins using given bank.
func NewController(bucket Bucket, bank cash.CoinMover) Controller {
	return Controller{bucket: bucket, bank: bank}
}

// Load returns the testament stored under id.
func (c Controller) Load(db deathnote.ReadOnlyKVStore, id []byte) (*Testament, error) {
	var t Testament
	if err := c.bucket.One(db, id, &t); err != nil {
		return nil, errors.Wrap(err, "cannot load testament")
	}
	return &t, nil
}

func (c Controller) save(db deathnote.KVStore, id []byte, t *Testament) error {
	_, err := c.bucket.Put(db, id, t)
	return errors.Wrap(err, "cannot save testament")
}

// Create stores a new testament owned by the creator and moves the initial
// deposit from the creator wallet into custody.
func (c Controller) Create(db deathnote.KVStore, caller Caller, cfg Config, deposit coin.Amount) ([]byte, *StateChange, error) {
	if !caller.HasAddress(cfg.Creator) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "creator signature missing")
	}
	id, err := c.bucket.NextID(db)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot acquire id")
	}
	t, err := New(id, cfg)
	if err != nil {
		return nil, nil, err
	}
	if deposit.IsPositive() {
		if err := t.Deposit(caller, deposit); err != nil {
			return nil, nil, err
		}
		if err := c.bank.MoveCoins(db, t.Creator, t.Address, deposit); err != nil {
			return nil, nil, errors.Wrap(err, "initial deposit")
		}
	}
	if err := c.save(db, id, t); err != nil {
		return nil, nil, err
	}
	return id, newStateChange(KindCreated, id, t, t.Creator, deposit), nil
}

// ConfirmDeath records a validator confirmation. A repeated confirmation
// succeeds without a state change and returns no event.
func (c Controller) ConfirmDeath(db deathnote.KVStore, id []byte, caller Caller, now deathnote.UnixTime) (*StateChange, error) {
	t, err := c.Load(db, id)
	if err != nil {
		return nil, err
	}
	added, reached, err := t.ConfirmDeath(caller, now)
	if err != nil {
		return nil, err
	}
	if added == 0 {
		return nil, nil
	}
	if err := c.save(db, id, t); err != nil {
		return nil, err
	}
	kind := KindValidatorConfirmed
	if reached {
		kind = KindDeathConfirmed
	}
	return newStateChange(kind, id, t, nil, coin.Amount{}), nil
}

// Claim pays out the share of the calling beneficiary.
func (c Controller) Claim(db deathnote.KVStore, id []byte, caller Caller, now deathnote.UnixTime) (*StateChange, error) {
	t, err := c.Load(db, id)
	if err != nil {
		return nil, err
	}
	beneficiary, payout, err := t.Claim(caller, now)
	if err != nil {
		return nil, err
	}
	// The share of a tiny balance may round down to nothing. The claim is
	// still recorded.
	if payout.IsPositive() {
		if err := c.bank.MoveCoins(db, t.Address, beneficiary, payout); err != nil {
			return nil, errors.Wrap(err, "payout")
		}
	}
	if err := c.save(db, id, t); err != nil {
		return nil, err
	}
	return newStateChange(KindClaimed, id, t, beneficiary, payout), nil
}

// Revoke cancels the testament.
func (c Controller) Revoke(db deathnote.KVStore, id []byte, caller Caller) (*StateChange, error) {
	t, err := c.Load(db, id)
	if err != nil {
		return nil, err
	}
	if err := t.Revoke(caller); err != nil {
		return nil, err
	}
	if err := c.save(db, id, t); err != nil {
		return nil, err
	}
	return newStateChange(KindRevoked, id, t, t.Creator, coin.Amount{}), nil
}

// Deposit moves funds from the creator wallet into custody.
func (c Controller) Deposit(db deathnote.KVStore, id []byte, caller Caller, amount coin.Amount) (*StateChange, error) {
	t, err := c.Load(db, id)
	if err != nil {
		return nil, err
	}
	if err := t.Deposit(caller, amount); err != nil {
		return nil, err
	}
	if err := c.bank.MoveCoins(db, t.Creator, t.Address, amount); err != nil {
		return nil, err
	}
	if err := c.save(db, id, t); err != nil {
		return nil, err
	}
	return newStateChange(KindDeposited, id, t, t.Creator, amount), nil
}

// Withdraw moves funds from custody back to the creator wallet.
func (c Controller) Withdraw(db deathnote.KVStore, id []byte, caller Caller, amount coin.Amount) (*StateChange, error) {
	t, err := c.Load(db, id)
	if err != nil {
		return nil, err
	}
	if err := t.Withdraw(caller, amount); err != nil {
		return nil, err
	}
	if err := c.bank.MoveCoins(db, t.Address, t.Creator, amount); err != nil {
		return nil, err
	}
	if err := c.save(db, id, t); err != nil {
		return nil, err
	}
	return newStateChange(KindWithdrawn, id, t, t.Creator, amount), nil
}

// ReplaceValidators swaps the validator set.
func (c Controller) ReplaceValidators(db deathnote.KVStore, id []byte, caller Caller, addrs []deathnote.Address, threshold uint32) (*StateChange, error) {
	t, err := c.Load(db, id)
	if err != nil {
		return nil, err
	}
	if err := t.ReplaceValidators(caller, addrs, threshold); err != nil {
		return nil, err
	}
	if err := c.save(db, id, t); err != nil {
		return nil, err
	}
	return newStateChange(KindValidatorsReplaced, id, t, t.Creator, coin.Amount{}), nil
}

// ReplaceBeneficiaries swaps the beneficiary registry.
func (c Controller) ReplaceBeneficiaries(db deathnote.KVStore, id []byte, caller Caller, addrs []deathnote.Address, shares []uint32) (*StateChange, error) {
	t, err := c.Load(db, id)
	if err != nil {
		return nil, err
	}
	if err := t.ReplaceBeneficiaries(caller, addrs, shares); err != nil {
		return nil, err
	}
	if err := c.save(db, id, t); err != nil {
		return nil, err
	}
	return newStateChange(KindBeneficiariesReplaced, id, t, t.Creator, coin.Amount{}), nil
}

// Creator returns the address of the testament creator.
func (c Controller) Creator(db deathnote.ReadOnlyKVStore, id []byte) (deathnote.Address, error) {
	t, err := c.Load(db, id)
	if err != nil {
		return nil, err
	}
	return t.Creator, nil
}

// Balance returns the amount held in custody.
func (c Controller) Balance(db deathnote.ReadOnlyKVStore, id []byte) (coin.Amount, error) {
	t, err := c.Load(db, id)
	if err != nil {
		return coin.Amount{}, err
	}
	return t.Balance, nil
}

// DeathIsConfirmed returns true once the validator quorum was reached.
func (c Controller) DeathIsConfirmed(db deathnote.ReadOnlyKVStore, id []byte) (bool, error) {
	t, err := c.Load(db, id)
	if err != nil {
		return false, err
	}
	return t.IsDeathConfirmed(), nil
}

// Deadline returns the time claims open, zero before confirmation.
func (c Controller) Deadline(db deathnote.ReadOnlyKVStore, id []byte) (deathnote.UnixTime, error) {
	t, err := c.Load(db, id)
	if err != nil {
		return 0, err
	}
	return t.Deadline(), nil
}

// TestamentRevoked returns true if the creator revoked the testament.
func (c Controller) TestamentRevoked(db deathnote.ReadOnlyKVStore, id []byte) (bool, error) {
	t, err := c.Load(db, id)
	if err != nil {
		return false, err
	}
	return t.IsRevoked(), nil
}

// GetAllValidators returns validator addresses and their confirmation flags
// in registration order.
func (c Controller) GetAllValidators(db deathnote.ReadOnlyKVStore, id []byte) ([]deathnote.Address, []bool, error) {
	t, err := c.Load(db, id)
	if err != nil {
		return nil, nil, err
	}
	addrs := make([]deathnote.Address, len(t.Validators))
	confirmed := make([]bool, len(t.Validators))
	for i, v := range t.Validators {
		addrs[i] = v.Address
		confirmed[i] = v.Confirmed
	}
	return addrs, confirmed, nil
}

// GetAllBeneficiaries returns beneficiary addresses and their shares in
// registration order.
func (c Controller) GetAllBeneficiaries(db deathnote.ReadOnlyKVStore, id []byte) ([]deathnote.Address, []uint32, error) {
	t, err := c.Load(db, id)
	if err != nil {
		return nil, nil, err
	}
	addrs := make([]deathnote.Address, len(t.Beneficiaries))
	shares := make([]uint32, len(t.Beneficiaries))
	for i, b := range t.Beneficiaries {
		addrs[i] = b.Address
		shares[i] = b.Share
	}
	return addrs, shares, nil
}

// GetState returns a summary of the testament.
func (c Controller) GetState(db deathnote.ReadOnlyKVStore, id []byte) (*View, error) {
	t, err := c.Load(db, id)
	if err != nil {
		return nil, err
	}
	return NewView(id, t), nil
}

// View is a read only summary of a testament.
type View struct {
	ID                []byte             `json:"id"`
	Creator           deathnote.Address  `json:"creator"`
	Address           deathnote.Address  `json:"address"`
	State             State              `json:"state"`
	Balance           coin.Amount        `json:"balance"`
	Withdrawable      coin.Amount        `json:"withdrawable"`
	Threshold         uint32             `json:"threshold"`
	Confirmations     int                `json:"confirmations"`
	Validators        int                `json:"validators"`
	Beneficiaries     int                `json:"beneficiaries"`
	Claimed           int                `json:"claimed"`
	WaitingPeriodDays uint32             `json:"waiting_period_days"`
	ConfirmedAt       deathnote.UnixTime `json:"confirmed_at"`
	Deadline          deathnote.UnixTime `json:"deadline"`
}

// NewView summarizes given testament.
func NewView(id []byte, t *Testament) *View {
	var claimed int
	for _, b := range t.Beneficiaries {
		if b.Claimed {
			claimed++
		}
	}
	// A record that passed validation always has a computable bound.
	withdrawable, _ := t.Withdrawable()
	return &View{
		ID:                id,
		Creator:           t.Creator,
		Address:           t.Address,
		State:             t.CurrentState(),
		Balance:           t.Balance,
		Withdrawable:      withdrawable,
		Threshold:         t.Threshold,
		Confirmations:     t.Confirmations(),
		Validators:        len(t.Validators),
		Beneficiaries:     len(t.Beneficiaries),
		Claimed:           claimed,
		WaitingPeriodDays: t.WaitingPeriodDays,
		ConfirmedAt:       t.ConfirmedAt,
		Deadline:          t.Deadline(),
	}
}
