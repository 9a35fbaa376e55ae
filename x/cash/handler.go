package cash

import (
	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/UZHBCON/deathnote/x"
)

// RegisterRoutes binds cash/send. Every guard must accept the destination
// of a send.
func RegisterRoutes(r deathnote.Registry, auth x.Authenticator, control Controller, guards ...Guard) {
	r.Handle(SendMsg{}.Path(), NewSendHandler(auth, control, guards...))
}

// Guard protects accounts that only an extension may credit, such as the
// custody account of a testament.
type Guard interface {
	// AcceptDestination returns an error if coins must not be sent to addr.
	AcceptDestination(db deathnote.ReadOnlyKVStore, addr deathnote.Address) error
}

// RegisterQuery exposes the wallets under /wallets.
func RegisterQuery(qr deathnote.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler moves coins between two wallets. Only the owner of the
// source wallet may send.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
	guards  []Guard
}

var _ deathnote.Handler = SendHandler{}

func NewSendHandler(auth x.Authenticator, control Controller, guards ...Guard) SendHandler {
	return SendHandler{auth: auth, control: control, guards: guards}
}

// Check authorizes the message. Balances are only checked on delivery.
func (h SendHandler) Check(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx) (*deathnote.CheckResult, error) {
	if _, err := h.load(ctx, db, tx); err != nil {
		return nil, err
	}
	return &deathnote.CheckResult{GasAllocated: sendTxCost}, nil
}

func (h SendHandler) Deliver(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx) (*deathnote.DeliverResult, error) {
	msg, err := h.load(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(db, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &deathnote.DeliverResult{}, nil
}

func (h SendHandler) load(ctx deathnote.Context, db deathnote.ReadOnlyKVStore, tx deathnote.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := deathnote.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	for _, g := range h.guards {
		if err := g.AcceptDestination(db, msg.Destination); err != nil {
			return nil, errors.Wrap(err, "destination")
		}
	}
	return &msg, nil
}
