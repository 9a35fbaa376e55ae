package cash

import (
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// RegisterCodec registers the messages of this extension.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&SendMsg{}, "cash/SendMsg", nil)
}
