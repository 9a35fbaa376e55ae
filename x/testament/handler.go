package testament

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/UZHBCON/deathnote/x"
	"github.com/UZHBCON/deathnote/x/cash"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	createTestamentCost int64 = 300
	confirmDeathCost    int64 = 50
	claimCost           int64 = 50
	revokeCost          int64 = 0
	depositCost         int64 = 50
	withdrawCost        int64 = 50
	replaceCost         int64 = 100
)

// TagKey is the key of the tag attached to every delivered testament
// transaction. The value is the hex encoded testament ID.
const TagKey = "testament"

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r deathnote.Registry, auth x.Authenticator, bank cash.CoinMover) {
	ctrl := NewController(NewBucket(), bank)

	r.Handle(CreateMsg{}.Path(), newHandler(auth, createTestamentCost, ctrl.create))
	r.Handle(ConfirmDeathMsg{}.Path(), newHandler(auth, confirmDeathCost, ctrl.confirmDeath))
	r.Handle(ClaimMsg{}.Path(), newHandler(auth, claimCost, ctrl.claim))
	r.Handle(RevokeMsg{}.Path(), newHandler(auth, revokeCost, ctrl.revoke))
	r.Handle(DepositMsg{}.Path(), newHandler(auth, depositCost, ctrl.deposit))
	r.Handle(WithdrawMsg{}.Path(), newHandler(auth, withdrawCost, ctrl.withdraw))
	r.Handle(ReplaceValidatorsMsg{}.Path(), newHandler(auth, replaceCost, ctrl.replaceValidators))
	r.Handle(ReplaceBeneficiariesMsg{}.Path(), newHandler(auth, replaceCost, ctrl.replaceBeneficiaries))
}

// CustodyGuard keeps plain cash transfers out of testament custody
// accounts. Coins enter custody through create and deposit only, so the
// custody wallet always matches the testament balance.
type CustodyGuard struct {
	bucket Bucket
}

var _ cash.Guard = CustodyGuard{}

func NewCustodyGuard() CustodyGuard {
	return CustodyGuard{bucket: NewBucket()}
}

func (g CustodyGuard) AcceptDestination(db deathnote.ReadOnlyKVStore, addr deathnote.Address) error {
	var found []Testament
	keys, err := g.bucket.ByIndex(db, "custody", addr, &found)
	if err != nil {
		return errors.Wrap(err, "custody index")
	}
	if len(keys) > 0 {
		return errors.Wrapf(errors.ErrUnauthorized, "custody account of testament %X, use deposit", keys[0])
	}
	return nil
}

// RegisterQuery will register this bucket as "/testaments"
func RegisterQuery(qr deathnote.QueryRouter) {
	NewBucket().Register("testaments", qr)
}

// operation decodes the message of a transaction and applies it. It returns
// the ID of the affected testament and the resulting change, which is nil
// if nothing changed.
type operation func(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx, caller x.Caller) ([]byte, *StateChange, error)

// handler runs an operation in both check and deliver. The check store is
// the mempool state, so the full execution there rejects transactions that
// would fail in a block.
type handler struct {
	auth x.Authenticator
	cost int64
	op   operation
}

var _ deathnote.Handler = handler{}

func newHandler(auth x.Authenticator, cost int64, op operation) handler {
	return handler{auth: auth, cost: cost, op: op}
}

// Check falls back to the wall clock when no block time is known, which is
// the case for mempool checks before the first block.
func (h handler) Check(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx) (*deathnote.CheckResult, error) {
	if _, ok := deathnote.BlockTime(ctx); !ok {
		ctx = deathnote.WithBlockTime(ctx, time.Now().UTC())
	}
	if _, _, err := h.op(ctx, db, tx, x.NewCaller(ctx, h.auth)); err != nil {
		return nil, err
	}
	return &deathnote.CheckResult{GasAllocated: h.cost}, nil
}

func (h handler) Deliver(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx) (*deathnote.DeliverResult, error) {
	id, change, err := h.op(ctx, db, tx, x.NewCaller(ctx, h.auth))
	if err != nil {
		return nil, err
	}
	res := &deathnote.DeliverResult{
		Data: id,
		Tags: []common.KVPair{
			{Key: []byte(TagKey), Value: []byte(strings.ToUpper(hex.EncodeToString(id)))},
		},
	}
	if change != nil {
		res.Events = append(res.Events, change)
		deathnote.GetLogger(ctx).Debug("testament changed",
			"kind", change.Kind, "state", change.State.String())
	}
	return res, nil
}

func (c Controller) create(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx, caller x.Caller) ([]byte, *StateChange, error) {
	var msg CreateMsg
	if err := deathnote.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	creator := msg.Creator
	if creator == nil {
		if creator = caller.MainAddress(); creator == nil {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
	}
	cfg := Config{
		Creator:           creator,
		Validators:        msg.Validators,
		Threshold:         msg.Threshold,
		Beneficiaries:     msg.Beneficiaries,
		Shares:            msg.Shares,
		WaitingPeriodDays: msg.WaitingPeriodDays,
	}
	return c.Create(db, caller, cfg, msg.Deposit)
}

func (c Controller) confirmDeath(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx, caller x.Caller) ([]byte, *StateChange, error) {
	var msg ConfirmDeathMsg
	if err := deathnote.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	change, err := c.ConfirmDeath(db, msg.TestamentID, caller, deathnote.Now(ctx))
	return msg.TestamentID, change, err
}

func (c Controller) claim(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx, caller x.Caller) ([]byte, *StateChange, error) {
	var msg ClaimMsg
	if err := deathnote.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	change, err := c.Claim(db, msg.TestamentID, caller, deathnote.Now(ctx))
	return msg.TestamentID, change, err
}

func (c Controller) revoke(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx, caller x.Caller) ([]byte, *StateChange, error) {
	var msg RevokeMsg
	if err := deathnote.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	change, err := c.Revoke(db, msg.TestamentID, caller)
	return msg.TestamentID, change, err
}

func (c Controller) deposit(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx, caller x.Caller) ([]byte, *StateChange, error) {
	var msg DepositMsg
	if err := deathnote.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	change, err := c.Deposit(db, msg.TestamentID, caller, msg.Amount)
	return msg.TestamentID, change, err
}

func (c Controller) withdraw(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx, caller x.Caller) ([]byte, *StateChange, error) {
	var msg WithdrawMsg
	if err := deathnote.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	change, err := c.Withdraw(db, msg.TestamentID, caller, msg.Amount)
	return msg.TestamentID, change, err
}

func (c Controller) replaceValidators(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx, caller x.Caller) ([]byte, *StateChange, error) {
	var msg ReplaceValidatorsMsg
	if err := deathnote.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	change, err := c.ReplaceValidators(db, msg.TestamentID, caller, msg.Validators, msg.Threshold)
	return msg.TestamentID, change, err
}

func (c Controller) replaceBeneficiaries(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx, caller x.Caller) ([]byte, *StateChange, error) {
	var msg ReplaceBeneficiariesMsg
	if err := deathnote.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	change, err := c.ReplaceBeneficiaries(db, msg.TestamentID, caller, msg.Beneficiaries, msg.Shares)
	return msg.TestamentID, change, err
}
