package testament

import (
	"context"
	"testing"
	"time"

	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/coin"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/UZHBCON/deathnote/store"
	"github.com/UZHBCON/deathnote/x"
	"github.com/UZHBCON/deathnote/x/cash"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInheritanceScenario(t *testing.T) {
	Convey("Given a funded testament with two of three validators required", t, func() {
		f := newFixture()
		db := store.MemStore()
		bank := cash.NewController(cash.NewBucket())
		ctrl := NewController(NewBucket(), bank)

		So(bank.CoinMint(db, f.creator, coin.NewAmount(500)), ShouldBeNil)
		id, _, err := ctrl.Create(db, as{f.creator}, Config{
			Creator:           f.creator,
			Validators:        f.validators,
			Threshold:         2,
			Beneficiaries:     f.benefs,
			Shares:            []uint32{60, 40},
			WaitingPeriodDays: 30,
		}, coin.NewAmount(100))
		So(err, ShouldBeNil)

		start := deathnote.UnixTime(1500000000)

		Convey("When the first validator confirms", func() {
			change, err := ctrl.ConfirmDeath(db, id, as{f.validators[0]}, start)
			So(err, ShouldBeNil)
			So(change.Kind, ShouldEqual, KindValidatorConfirmed)

			Convey("The testament stays active", func() {
				confirmed, err := ctrl.DeathIsConfirmed(db, id)
				So(err, ShouldBeNil)
				So(confirmed, ShouldBeFalse)
			})

			Convey("And the second validator confirms", func() {
				change, err := ctrl.ConfirmDeath(db, id, as{f.validators[1]}, start+10)
				So(err, ShouldBeNil)
				So(change.Kind, ShouldEqual, KindDeathConfirmed)
				So(change.State, ShouldEqual, StateDeathConfirmed)

				deadline, err := ctrl.Deadline(db, id)
				So(err, ShouldBeNil)
				So(deadline, ShouldEqual, start+10+30*day)

				Convey("A claim before the deadline is too early", func() {
					_, err := ctrl.Claim(db, id, as{f.benefs[0]}, deadline-1)
					So(ErrTooEarly.Is(err), ShouldBeTrue)

					balance, err := ctrl.Balance(db, id)
					So(err, ShouldBeNil)
					So(balance, ShouldResemble, coin.NewAmount(100))
				})

				Convey("After the deadline the beneficiaries are paid once", func() {
					change, err := ctrl.Claim(db, id, as{f.benefs[0]}, deadline)
					So(err, ShouldBeNil)
					So(change.Amount, ShouldResemble, coin.NewAmount(60))
					So(change.Balance, ShouldResemble, coin.NewAmount(40))

					got, err := bank.Balance(db, f.benefs[0])
					So(err, ShouldBeNil)
					So(got, ShouldResemble, coin.NewAmount(60))

					_, err = ctrl.Claim(db, id, as{f.benefs[0]}, deadline+1)
					So(ErrAlreadyClaimed.Is(err), ShouldBeTrue)

					change, err = ctrl.Claim(db, id, as{f.benefs[1]}, deadline+2)
					So(err, ShouldBeNil)
					So(change.Amount, ShouldResemble, coin.NewAmount(40))
					So(change.State, ShouldEqual, StateExhausted)

					custody, err := bank.Balance(db, Condition(id).Address())
					So(err, ShouldBeNil)
					So(custody.IsZero(), ShouldBeTrue)
				})

				Convey("The creator cannot replace the beneficiaries", func() {
					_, err := ctrl.ReplaceBeneficiaries(db, id, as{f.creator}, []deathnote.Address{f.stranger}, []uint32{1})
					So(errors.ErrState.Is(err), ShouldBeTrue)

					addrs, shares, err := ctrl.GetAllBeneficiaries(db, id)
					So(err, ShouldBeNil)
					So(addrs, ShouldResemble, f.benefs)
					So(shares, ShouldResemble, []uint32{60, 40})
				})
			})
		})
	})
}

func TestScenarioThroughHandlers(t *testing.T) {
	Convey("Given the testament routes", t, func() {
		f := newFixture()
		db := store.MemStore()
		bank := cash.NewController(cash.NewBucket())
		So(bank.CoinMint(db, f.creator, coin.NewAmount(100)), ShouldBeNil)

		auth := &signerAuth{}
		router := newTestRouter()
		RegisterRoutes(router, auth, bank)

		now := time.Unix(1600000000, 0)
		run := func(signer deathnote.Address, msg deathnote.Msg) (*deathnote.DeliverResult, error) {
			auth.signer = signer
			ctx := deathnote.WithBlockTime(context.Background(), now)
			return router.handlers[msg.Path()].Deliver(ctx, db, &testTx{msg: msg})
		}

		res, err := run(f.creator, &CreateMsg{
			Creator:           f.creator,
			Validators:        f.validators,
			Threshold:         2,
			Beneficiaries:     f.benefs,
			Shares:            []uint32{60, 40},
			WaitingPeriodDays: 0,
			Deposit:           coin.NewAmount(100),
		})
		So(err, ShouldBeNil)
		id := res.Data
		So(res.Events, ShouldHaveLength, 1)

		_, err = run(f.validators[0], &ConfirmDeathMsg{TestamentID: id})
		So(err, ShouldBeNil)
		res, err = run(f.validators[0], &ConfirmDeathMsg{TestamentID: id})
		So(err, ShouldBeNil)
		So(res.Events, ShouldBeEmpty)
		res, err = run(f.validators[1], &ConfirmDeathMsg{TestamentID: id})
		So(err, ShouldBeNil)
		So(res.Events[0].EventKind(), ShouldEqual, KindDeathConfirmed)

		// zero waiting period opens claims at once
		_, err = run(f.benefs[1], &ClaimMsg{TestamentID: id})
		So(err, ShouldBeNil)
		got, err := bank.Balance(db, f.benefs[1])
		So(err, ShouldBeNil)
		So(got, ShouldResemble, coin.NewAmount(40))

		_, err = run(f.stranger, &ClaimMsg{TestamentID: id})
		So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
	})
}

type signerAuth struct {
	signer deathnote.Address
}

var _ x.Authenticator = (*signerAuth)(nil)

func (a *signerAuth) GetConditions(deathnote.Context) []deathnote.Condition {
	return nil
}

func (a *signerAuth) HasAddress(_ deathnote.Context, addr deathnote.Address) bool {
	return a.signer.Equals(addr)
}

type testRouter struct {
	handlers map[string]deathnote.Handler
}

func newTestRouter() *testRouter {
	return &testRouter{handlers: make(map[string]deathnote.Handler)}
}

func (r *testRouter) Handle(path string, h deathnote.Handler) {
	r.handlers[path] = h
}

type testTx struct {
	msg deathnote.Msg
}

func (tx *testTx) GetMsg() (deathnote.Msg, error) {
	return tx.msg, nil
}
