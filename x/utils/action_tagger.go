package utils

import (
	"github.com/UZHBCON/deathnote"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey is the tag key holding the path of the delivered message.
const ActionKey = "action"

// ActionTagger tags every successfully delivered transaction with
// action=<message path>, so clients can search the chain for a given
// operation, e.g. all testament/confirm transactions.
type ActionTagger struct{}

var _ deathnote.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx, next deathnote.Checker) (*deathnote.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx, next deathnote.Deliverer) (*deathnote.DeliverResult, error) {
	// Fail before running the handler when the message cannot be read.
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte(ActionKey),
		Value: []byte(msg.Path()),
	})
	return res, nil
}
