package testament

import (
	"encoding/json"

	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/coin"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/UZHBCON/deathnote/orm"
)

const (
	// BucketName is where testaments are stored.
	BucketName = "testament"

	// MaxBeneficiaries limits the size of the beneficiary registry.
	MaxBeneficiaries = 200
	// MaxValidators limits the size of the validator set.
	MaxValidators = 100

	secondsPerDay = 24 * 60 * 60
)

// State is the lifecycle state of a testament.
type State int32

const (
	StateActive State = iota + 1
	StateDeathConfirmed
	StateRevoked
	// StateExhausted is never stored. It is reported for confirmed
	// testaments where every beneficiary claimed.
	StateExhausted
)

var stateNames = map[State]string{
	StateActive:         "active",
	StateDeathConfirmed: "death_confirmed",
	StateRevoked:        "revoked",
	StateExhausted:      "exhausted",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(raw []byte) error {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return errors.Wrap(errors.ErrInput, "state must be a string")
	}
	for st, n := range stateNames {
		if n == name {
			*s = st
			return nil
		}
	}
	return errors.Wrapf(errors.ErrInput, "unknown state %q", name)
}

// Validator attests the death of the creator.
type Validator struct {
	Address   deathnote.Address `json:"address"`
	Confirmed bool              `json:"confirmed"`
}

// Beneficiary receives a share of the testament balance.
type Beneficiary struct {
	Address deathnote.Address `json:"address"`
	Share   uint32            `json:"share"`
	Claimed bool              `json:"claimed"`
}

// Testament is the state record of a single escrow.
type Testament struct {
	Creator           deathnote.Address `json:"creator"`
	Validators        []Validator       `json:"validators"`
	Beneficiaries     []Beneficiary     `json:"beneficiaries"`
	Threshold         uint32            `json:"threshold"`
	WaitingPeriodDays uint32            `json:"waiting_period_days"`
	State             State             `json:"state"`
	// ConfirmedAt is zero until the quorum is reached.
	ConfirmedAt deathnote.UnixTime `json:"confirmed_at"`
	// Balance mirrors the custody account.
	Balance                   coin.Amount `json:"balance"`
	BalanceAtConfirmation     coin.Amount `json:"balance_at_confirmation"`
	TotalSharesAtConfirmation uint64      `json:"total_shares_at_confirmation"`
	// Address of the custody account.
	Address deathnote.Address `json:"address"`
}

var _ orm.Model = (*Testament)(nil)

func (t *Testament) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(t)
}

func (t *Testament) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, t)
}

// Validate ensures the record is consistent.
func (t *Testament) Validate() error {
	var err error
	err = errors.Append(err, errors.Wrap(t.Creator.Validate(), "creator"))
	err = errors.Append(err, errors.Wrap(t.Address.Validate(), "address"))

	validators := make([]deathnote.Address, len(t.Validators))
	for i, v := range t.Validators {
		validators[i] = v.Address
	}
	err = errors.Append(err, validateValidators(validators, t.Threshold))

	addrs := make([]deathnote.Address, len(t.Beneficiaries))
	shares := make([]uint32, len(t.Beneficiaries))
	for i, b := range t.Beneficiaries {
		addrs[i] = b.Address
		shares[i] = b.Share
	}
	err = errors.Append(err, validateBeneficiaries(addrs, shares))
	err = errors.Append(err, ensureDisjoint(validators, addrs))

	switch t.State {
	case StateActive, StateRevoked:
		if !t.ConfirmedAt.IsZero() {
			err = errors.Append(err, errors.Wrap(errors.ErrModel, "confirmation time set before confirmation"))
		}
	case StateDeathConfirmed:
		if t.ConfirmedAt.IsZero() {
			err = errors.Append(err, errors.Wrap(errors.ErrModel, "missing confirmation time"))
		}
		if t.TotalSharesAtConfirmation == 0 {
			err = errors.Append(err, errors.Wrap(errors.ErrModel, "missing total shares"))
		}
	default:
		err = errors.Append(err, errors.Wrapf(errors.ErrModel, "invalid state %d", t.State))
	}
	return err
}

// validateValidators checks a validator set together with the threshold
// that applies to it.
func validateValidators(addrs []deathnote.Address, threshold uint32) error {
	switch n := len(addrs); {
	case n == 0:
		return errors.Wrap(errors.ErrInput, "no validators")
	case n > MaxValidators:
		return errors.Wrapf(errors.ErrInput, "at most %d validators allowed", MaxValidators)
	case threshold == 0 || int(threshold) > n:
		return errors.Wrapf(errors.ErrInput, "threshold must be between 1 and %d", n)
	}
	return errors.Wrap(validateAddresses(addrs), "validators")
}

// validateBeneficiaries checks the parallel address and share lists.
func validateBeneficiaries(addrs []deathnote.Address, shares []uint32) error {
	switch {
	case len(addrs) == 0:
		return errors.Wrap(errors.ErrInput, "no beneficiaries")
	case len(addrs) != len(shares):
		return errors.Wrapf(errors.ErrInput, "%d beneficiaries but %d shares", len(addrs), len(shares))
	case len(addrs) > MaxBeneficiaries:
		return errors.Wrapf(errors.ErrInput, "at most %d beneficiaries allowed", MaxBeneficiaries)
	}
	for i, s := range shares {
		if s == 0 {
			return errors.Wrapf(errors.ErrInput, "share %d must be positive", i)
		}
	}
	return errors.Wrap(validateAddresses(addrs), "beneficiaries")
}

func validateAddresses(addrs []deathnote.Address) error {
	seen := make(map[string]struct{}, len(addrs))
	for i, a := range addrs {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "address %d", i)
		}
		if _, ok := seen[string(a)]; ok {
			return errors.Wrapf(errors.ErrInput, "duplicated address %s", a)
		}
		seen[string(a)] = struct{}{}
	}
	return nil
}

// ensureDisjoint fails if any address is both a validator and a
// beneficiary.
func ensureDisjoint(validators, beneficiaries []deathnote.Address) error {
	vs := make(map[string]struct{}, len(validators))
	for _, v := range validators {
		vs[string(v)] = struct{}{}
	}
	for _, b := range beneficiaries {
		if _, ok := vs[string(b)]; ok {
			return errors.Wrapf(errors.ErrInput, "%s cannot be both validator and beneficiary", b)
		}
	}
	return nil
}

func totalShares(bs []Beneficiary) uint64 {
	var total uint64
	for _, b := range bs {
		total += uint64(b.Share)
	}
	return total
}

// Condition returns the condition owning the custody account of the
// testament with given ID.
func Condition(id []byte) deathnote.Condition {
	return deathnote.NewCondition("testament", "seq", id)
}

// Bucket stores testaments keyed by a sequence ID.
type Bucket struct {
	orm.ModelBucket
}

var testamentSeq = orm.NewSequence(BucketName, "id")

// NewBucket returns a bucket indexing testaments by custody, creator,
// validator and beneficiary addresses.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Testament{},
			orm.WithIDSequence(testamentSeq),
			orm.WithIndex("custody", custodyIndexer, true),
			orm.WithIndex("creator", creatorIndexer, false),
			orm.WithMultiKeyIndex("validator", validatorIndexer, false),
			orm.WithMultiKeyIndex("beneficiary", beneficiaryIndexer, false),
		),
	}
}

// NextID reserves the ID of a testament that is not yet stored.
func (b Bucket) NextID(db deathnote.KVStore) ([]byte, error) {
	return testamentSeq.NextVal(db)
}

func asTestament(m orm.Model) (*Testament, error) {
	t, ok := m.(*Testament)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return t, nil
}

func custodyIndexer(m orm.Model) ([]byte, error) {
	t, err := asTestament(m)
	if err != nil {
		return nil, err
	}
	return t.Address, nil
}

func creatorIndexer(m orm.Model) ([]byte, error) {
	t, err := asTestament(m)
	if err != nil {
		return nil, err
	}
	return t.Creator, nil
}

func validatorIndexer(m orm.Model) ([][]byte, error) {
	t, err := asTestament(m)
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, len(t.Validators))
	for i, v := range t.Validators {
		keys[i] = v.Address
	}
	return keys, nil
}

func beneficiaryIndexer(m orm.Model) ([][]byte, error) {
	t, err := asTestament(m)
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, len(t.Beneficiaries))
	for i, b := range t.Beneficiaries {
		keys[i] = b.Address
	}
	return keys, nil
}
