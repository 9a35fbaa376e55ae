package utils

import (
	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/errors"
)

// Recovery converts a panic below it into an ErrPanic, so a broken
// transaction fails alone instead of halting the node. It belongs at the
// top of the stack.
type Recovery struct{}

var _ deathnote.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx, next deathnote.Checker) (res *deathnote.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx, next deathnote.Deliverer) (res *deathnote.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}
