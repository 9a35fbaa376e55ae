package testament

import (
	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/coin"
	"github.com/UZHBCON/deathnote/errors"
)

var (
	_ deathnote.Msg = (*CreateMsg)(nil)
	_ deathnote.Msg = (*ConfirmDeathMsg)(nil)
	_ deathnote.Msg = (*ClaimMsg)(nil)
	_ deathnote.Msg = (*RevokeMsg)(nil)
	_ deathnote.Msg = (*DepositMsg)(nil)
	_ deathnote.Msg = (*WithdrawMsg)(nil)
	_ deathnote.Msg = (*ReplaceValidatorsMsg)(nil)
	_ deathnote.Msg = (*ReplaceBeneficiariesMsg)(nil)
)

// CreateMsg creates a new testament. When Creator is empty the main signer
// is used.
type CreateMsg struct {
	Creator           deathnote.Address   `json:"creator,omitempty"`
	Validators        []deathnote.Address `json:"validators"`
	Threshold         uint32              `json:"threshold"`
	Beneficiaries     []deathnote.Address `json:"beneficiaries"`
	Shares            []uint32            `json:"shares"`
	WaitingPeriodDays uint32              `json:"waiting_period_days"`
	Deposit           coin.Amount         `json:"deposit"`
}

func (CreateMsg) Path() string {
	return "testament/create"
}

func (m *CreateMsg) Validate() error {
	var err error
	if m.Creator != nil {
		err = errors.Wrap(m.Creator.Validate(), "creator")
	}
	err = errors.Append(err, validateValidators(m.Validators, m.Threshold))
	err = errors.Append(err, validateBeneficiaries(m.Beneficiaries, m.Shares))
	err = errors.Append(err, ensureDisjoint(m.Validators, m.Beneficiaries))
	return err
}

// ConfirmDeathMsg is sent by a validator to attest the death of the
// creator.
type ConfirmDeathMsg struct {
	TestamentID []byte `json:"testament_id"`
}

func (ConfirmDeathMsg) Path() string {
	return "testament/confirm_death"
}

func (m *ConfirmDeathMsg) Validate() error {
	return validateID(m.TestamentID)
}

// ClaimMsg is sent by a beneficiary to collect the inheritance share.
type ClaimMsg struct {
	TestamentID []byte `json:"testament_id"`
}

func (ClaimMsg) Path() string {
	return "testament/claim"
}

func (m *ClaimMsg) Validate() error {
	return validateID(m.TestamentID)
}

// RevokeMsg is sent by the creator to cancel the testament.
type RevokeMsg struct {
	TestamentID []byte `json:"testament_id"`
}

func (RevokeMsg) Path() string {
	return "testament/revoke"
}

func (m *RevokeMsg) Validate() error {
	return validateID(m.TestamentID)
}

// DepositMsg moves funds from the creator into custody.
type DepositMsg struct {
	TestamentID []byte      `json:"testament_id"`
	Amount      coin.Amount `json:"amount"`
}

func (DepositMsg) Path() string {
	return "testament/deposit"
}

func (m *DepositMsg) Validate() error {
	return errors.Append(validateID(m.TestamentID), validateAmount(m.Amount))
}

// WithdrawMsg moves funds from custody back to the creator.
type WithdrawMsg struct {
	TestamentID []byte      `json:"testament_id"`
	Amount      coin.Amount `json:"amount"`
}

func (WithdrawMsg) Path() string {
	return "testament/withdraw"
}

func (m *WithdrawMsg) Validate() error {
	return errors.Append(validateID(m.TestamentID), validateAmount(m.Amount))
}

// ReplaceValidatorsMsg swaps the validator set of an active testament.
type ReplaceValidatorsMsg struct {
	TestamentID []byte              `json:"testament_id"`
	Validators  []deathnote.Address `json:"validators"`
	Threshold   uint32              `json:"threshold"`
}

func (ReplaceValidatorsMsg) Path() string {
	return "testament/replace_validators"
}

func (m *ReplaceValidatorsMsg) Validate() error {
	return errors.Append(validateID(m.TestamentID), validateValidators(m.Validators, m.Threshold))
}

// ReplaceBeneficiariesMsg swaps the beneficiary registry of an active
// testament.
type ReplaceBeneficiariesMsg struct {
	TestamentID   []byte              `json:"testament_id"`
	Beneficiaries []deathnote.Address `json:"beneficiaries"`
	Shares        []uint32            `json:"shares"`
}

func (ReplaceBeneficiariesMsg) Path() string {
	return "testament/replace_beneficiaries"
}

func (m *ReplaceBeneficiariesMsg) Validate() error {
	return errors.Append(validateID(m.TestamentID), validateBeneficiaries(m.Beneficiaries, m.Shares))
}

func validateID(id []byte) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "testament id")
	}
	return nil
}

func validateAmount(a coin.Amount) error {
	if !a.IsPositive() {
		return errors.Wrap(errors.ErrInput, "amount must be positive")
	}
	return nil
}
