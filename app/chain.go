package app

import (
	"reflect"

	"github.com/UZHBCON/deathnote"
)

// Decorators is a stack of decorators waiting for the handler at its
// bottom. The first decorator runs first.
//
//	app.ChainDecorators(
//		utils.NewRecovery(),
//		utils.NewLogging(),
//		sigs.NewDecorator(),
//		utils.NewSavepoint().OnDeliver(),
//	).WithHandler(router)
type Decorators struct {
	chain []deathnote.Decorator
}

// ChainDecorators starts a stack. Nil decorators, including typed nil
// pointers, are skipped, so optional decorators can be passed as is.
func ChainDecorators(chain ...deathnote.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new stack with chain appended below the current one.
func (d Decorators) Chain(chain ...deathnote.Decorator) Decorators {
	stack := make([]deathnote.Decorator, len(d.chain), len(d.chain)+len(chain))
	copy(stack, d.chain)
	for _, dec := range chain {
		if !isNilDecorator(dec) {
			stack = append(stack, dec)
		}
	}
	return Decorators{chain: stack}
}

func isNilDecorator(d deathnote.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the stack with h.
func (d Decorators) WithHandler(h deathnote.Handler) deathnote.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step runs one decorator with the rest of the stack as next.
type step struct {
	d    deathnote.Decorator
	next deathnote.Handler
}

var _ deathnote.Handler = step{}

func (s step) Check(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx) (*deathnote.CheckResult, error) {
	return s.d.Check(ctx, db, tx, s.next)
}

func (s step) Deliver(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx) (*deathnote.DeliverResult, error) {
	return s.d.Deliver(ctx, db, tx, s.next)
}
