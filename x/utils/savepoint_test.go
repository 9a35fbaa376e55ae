package utils

import (
	"context"
	"testing"

	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/deathnotetest"
	"github.com/UZHBCON/deathnote/deathnotetest/assert"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/UZHBCON/deathnote/store"
)

func TestSavepoint(t *testing.T) {
	// some key, value to try to write
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}
	// a default error if desired
	derr := errors.Wrap(errors.ErrState, "something went wrong")

	cases := map[string]struct {
		save    Savepoint
		handler deathnote.Handler
		check   bool // whether to call Check or Deliver
		wantErr *errors.Error
		written bool
	}{
		"savepoint deactivated, error, still written": {
			save:    NewSavepoint(),
			handler: deathnotetest.WriteHandler{Key: nk, Value: nv, Err: derr},
			check:   true,
			wantErr: errors.ErrState,
			written: true,
		},
		"savepoint activated on check, error, rolled back": {
			save:    NewSavepoint().OnCheck(),
			handler: deathnotetest.WriteHandler{Key: nk, Value: nv, Err: derr},
			check:   true,
			wantErr: errors.ErrState,
			written: false,
		},
		"savepoint activated on deliver, error, rolled back": {
			save:    NewSavepoint().OnDeliver(),
			handler: deathnotetest.WriteHandler{Key: nk, Value: nv, Err: derr},
			wantErr: errors.ErrState,
			written: false,
		},
		"double activation keeps both": {
			save:    NewSavepoint().OnDeliver().OnCheck(),
			handler: deathnotetest.WriteHandler{Key: nk, Value: nv, Err: derr},
			wantErr: errors.ErrState,
			written: false,
		},
		"check savepoint does not affect deliver": {
			save:    NewSavepoint().OnCheck(),
			handler: deathnotetest.WriteHandler{Key: nk, Value: nv, Err: derr},
			wantErr: errors.ErrState,
			written: true,
		},
		"success is written": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			handler: deathnotetest.WriteHandler{Key: nk, Value: nv},
			written: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			h := deathnotetest.Decorate(tc.handler, tc.save)
			tx := &deathnotetest.Tx{Msg: &deathnotetest.Msg{RoutePath: "test/write"}}

			var err error
			if tc.check {
				_, err = h.Check(context.Background(), db, tx)
			} else {
				_, err = h.Deliver(context.Background(), db, tx)
			}
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.wantErr, err)
			}

			has, err := db.Has(nk)
			assert.Nil(t, err)
			assert.Equal(t, tc.written, has)
		})
	}
}
