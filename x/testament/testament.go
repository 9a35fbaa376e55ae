package testament

import (
	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/coin"
	"github.com/UZHBCON/deathnote/errors"
)

// Caller is the authenticated identity of the current transaction.
// x.Caller implements it.
type Caller interface {
	HasAddress(deathnote.Address) bool
}

// Config is the set of parameters a testament is created with.
type Config struct {
	Creator           deathnote.Address
	Validators        []deathnote.Address
	Threshold         uint32
	Beneficiaries     []deathnote.Address
	Shares            []uint32
	WaitingPeriodDays uint32
}

// New returns an active testament with given ID and an empty balance.
func New(id []byte, c Config) (*Testament, error) {
	if err := c.Creator.Validate(); err != nil {
		return nil, errors.Wrap(err, "creator")
	}
	t := &Testament{
		Creator:           c.Creator,
		WaitingPeriodDays: c.WaitingPeriodDays,
		State:             StateActive,
		Address:           Condition(id).Address(),
	}
	if err := t.setValidators(c.Validators, c.Threshold, c.Beneficiaries); err != nil {
		return nil, err
	}
	if err := t.setBeneficiaries(c.Beneficiaries, c.Shares, c.Validators); err != nil {
		return nil, err
	}
	return t, nil
}

// CurrentState returns the lifecycle state as reported to observers.
func (t *Testament) CurrentState() State {
	if t.State == StateDeathConfirmed && t.Exhausted() {
		return StateExhausted
	}
	return t.State
}

// IsDeathConfirmed returns true once the quorum was reached.
func (t *Testament) IsDeathConfirmed() bool {
	return t.State == StateDeathConfirmed
}

// IsRevoked returns true if the creator cancelled the testament.
func (t *Testament) IsRevoked() bool {
	return t.State == StateRevoked
}

// Exhausted returns true when every beneficiary claimed.
func (t *Testament) Exhausted() bool {
	for _, b := range t.Beneficiaries {
		if !b.Claimed {
			return false
		}
	}
	return len(t.Beneficiaries) > 0
}

// Deadline returns the earliest time beneficiaries may claim or zero if the
// death was not confirmed.
func (t *Testament) Deadline() deathnote.UnixTime {
	if !t.IsDeathConfirmed() {
		return 0
	}
	return t.ConfirmedAt + deathnote.UnixTime(uint64(t.WaitingPeriodDays)*secondsPerDay)
}

// Confirmations returns the number of validators that confirmed.
func (t *Testament) Confirmations() int {
	var n int
	for _, v := range t.Validators {
		if v.Confirmed {
			n++
		}
	}
	return n
}

// ConfirmDeath records the confirmation of every validator the caller is
// authenticated as. It returns the number of new confirmations and whether
// the quorum was reached by this call.
func (t *Testament) ConfirmDeath(caller Caller, now deathnote.UnixTime) (int, bool, error) {
	matched := false
	for _, v := range t.Validators {
		if caller.HasAddress(v.Address) {
			matched = true
			break
		}
	}
	if !matched {
		return 0, false, errors.Wrap(errors.ErrUnauthorized, "validator signature missing")
	}
	if t.State != StateActive {
		return 0, false, errors.Wrapf(errors.ErrState, "testament is %s", t.CurrentState())
	}

	var added int
	for i, v := range t.Validators {
		if !v.Confirmed && caller.HasAddress(v.Address) {
			t.Validators[i].Confirmed = true
			added++
		}
	}
	if uint32(t.Confirmations()) < t.Threshold {
		return added, false, nil
	}

	t.State = StateDeathConfirmed
	t.ConfirmedAt = now
	t.BalanceAtConfirmation = t.Balance.Clone()
	t.TotalSharesAtConfirmation = totalShares(t.Beneficiaries)
	return added, true, nil
}

// Revoke cancels an active testament. No funds are moved.
func (t *Testament) Revoke(caller Caller) error {
	if err := t.requireCreator(caller); err != nil {
		return err
	}
	if t.State != StateActive {
		return errors.Wrapf(errors.ErrState, "testament is %s", t.CurrentState())
	}
	t.State = StateRevoked
	return nil
}

// ReplaceValidators swaps the whole validator set. All confirmations are
// dropped.
func (t *Testament) ReplaceValidators(caller Caller, addrs []deathnote.Address, threshold uint32) error {
	if err := t.requireActiveCreator(caller); err != nil {
		return err
	}
	return t.setValidators(addrs, threshold, t.beneficiaryAddresses())
}

// ReplaceBeneficiaries swaps the whole beneficiary registry.
func (t *Testament) ReplaceBeneficiaries(caller Caller, addrs []deathnote.Address, shares []uint32) error {
	if err := t.requireActiveCreator(caller); err != nil {
		return err
	}
	return t.setBeneficiaries(addrs, shares, t.validatorAddresses())
}

// Claim marks the share of the calling beneficiary as paid and removes the
// payout from the balance. The caller must transfer the returned amount out
// of the custody account in the same transaction.
func (t *Testament) Claim(caller Caller, now deathnote.UnixTime) (deathnote.Address, coin.Amount, error) {
	idx := -1
	for i, b := range t.Beneficiaries {
		if !caller.HasAddress(b.Address) {
			continue
		}
		if idx == -1 || (t.Beneficiaries[idx].Claimed && !b.Claimed) {
			idx = i
		}
	}
	if idx == -1 {
		return nil, coin.Amount{}, errors.Wrap(errors.ErrUnauthorized, "beneficiary signature missing")
	}
	if t.State != StateDeathConfirmed {
		return nil, coin.Amount{}, errors.Wrapf(errors.ErrState, "testament is %s", t.CurrentState())
	}
	if deadline := t.Deadline(); now < deadline {
		return nil, coin.Amount{}, errors.Wrapf(ErrTooEarly, "claims open at %s", deadline)
	}
	b := &t.Beneficiaries[idx]
	if b.Claimed {
		return nil, coin.Amount{}, errors.Wrapf(ErrAlreadyClaimed, "%s", b.Address)
	}

	payout, err := t.entitlement(*b)
	if err != nil {
		return nil, coin.Amount{}, err
	}
	balance, err := t.Balance.Subtract(payout)
	if err != nil {
		return nil, coin.Amount{}, errors.Wrap(err, "custody balance")
	}
	b.Claimed = true
	t.Balance = balance
	return b.Address, payout, nil
}

// Deposit adds funds to the balance. Funding stops once the death is
// confirmed.
func (t *Testament) Deposit(caller Caller, amount coin.Amount) error {
	if err := t.requireCreator(caller); err != nil {
		return err
	}
	if t.State == StateDeathConfirmed {
		return errors.Wrap(errors.ErrState, "no deposits after death confirmation")
	}
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrInput, "amount must be positive")
	}
	balance, err := t.Balance.Add(amount)
	if err != nil {
		return err
	}
	t.Balance = balance
	return nil
}

// Withdraw removes funds from the balance. After the death is confirmed only
// the part that is not owed to beneficiaries can be withdrawn.
func (t *Testament) Withdraw(caller Caller, amount coin.Amount) error {
	if err := t.requireCreator(caller); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrInput, "amount must be positive")
	}
	available, err := t.Withdrawable()
	if err != nil {
		return err
	}
	if !available.IsGTE(amount) {
		return errors.Wrapf(errors.ErrAmount, "only %s can be withdrawn", available)
	}
	balance, err := t.Balance.Subtract(amount)
	if err != nil {
		return err
	}
	t.Balance = balance
	return nil
}

// Withdrawable returns the amount the creator can take right now.
func (t *Testament) Withdrawable() (coin.Amount, error) {
	if t.State != StateDeathConfirmed {
		return t.Balance.Clone(), nil
	}
	owed, err := t.Outstanding()
	if err != nil {
		return coin.Amount{}, err
	}
	if !t.Balance.IsGTE(owed) {
		return coin.Amount{}, nil
	}
	return t.Balance.Subtract(owed)
}

// Outstanding returns the sum of entitlements not claimed yet.
func (t *Testament) Outstanding() (coin.Amount, error) {
	var owed []coin.Amount
	for _, b := range t.Beneficiaries {
		if b.Claimed {
			continue
		}
		e, err := t.entitlement(b)
		if err != nil {
			return coin.Amount{}, err
		}
		owed = append(owed, e)
	}
	return coin.Sum(owed...)
}

// entitlement is the payout of a beneficiary, rounded down.
func (t *Testament) entitlement(b Beneficiary) (coin.Amount, error) {
	if t.TotalSharesAtConfirmation == 0 {
		return coin.Amount{}, errors.Wrap(errors.ErrState, "shares not recorded")
	}
	return t.BalanceAtConfirmation.MulDiv(uint64(b.Share), t.TotalSharesAtConfirmation)
}

func (t *Testament) requireCreator(caller Caller) error {
	if !caller.HasAddress(t.Creator) {
		return errors.Wrap(errors.ErrUnauthorized, "creator signature missing")
	}
	return nil
}

func (t *Testament) requireActiveCreator(caller Caller) error {
	if err := t.requireCreator(caller); err != nil {
		return err
	}
	if t.State != StateActive {
		return errors.Wrapf(errors.ErrState, "testament is %s", t.CurrentState())
	}
	return nil
}

func (t *Testament) setValidators(addrs []deathnote.Address, threshold uint32, beneficiaries []deathnote.Address) error {
	if err := validateValidators(addrs, threshold); err != nil {
		return err
	}
	if err := ensureDisjoint(addrs, beneficiaries); err != nil {
		return err
	}
	vs := make([]Validator, len(addrs))
	for i, a := range addrs {
		vs[i] = Validator{Address: a.Clone()}
	}
	t.Validators = vs
	t.Threshold = threshold
	return nil
}

func (t *Testament) setBeneficiaries(addrs []deathnote.Address, shares []uint32, validators []deathnote.Address) error {
	if err := validateBeneficiaries(addrs, shares); err != nil {
		return err
	}
	if err := ensureDisjoint(validators, addrs); err != nil {
		return err
	}
	bs := make([]Beneficiary, len(addrs))
	for i, a := range addrs {
		bs[i] = Beneficiary{Address: a.Clone(), Share: shares[i]}
	}
	t.Beneficiaries = bs
	return nil
}

func (t *Testament) validatorAddresses() []deathnote.Address {
	out := make([]deathnote.Address, len(t.Validators))
	for i, v := range t.Validators {
		out[i] = v.Address
	}
	return out
}

func (t *Testament) beneficiaryAddresses() []deathnote.Address {
	out := make([]deathnote.Address, len(t.Beneficiaries))
	for i, b := range t.Beneficiaries {
		out[i] = b.Address
	}
	return out
}
