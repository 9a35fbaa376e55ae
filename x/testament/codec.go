package testament

import (
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// RegisterCodec registers all messages of this extension.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&CreateMsg{}, "testament/CreateMsg", nil)
	c.RegisterConcrete(&ConfirmDeathMsg{}, "testament/ConfirmDeathMsg", nil)
	c.RegisterConcrete(&ClaimMsg{}, "testament/ClaimMsg", nil)
	c.RegisterConcrete(&RevokeMsg{}, "testament/RevokeMsg", nil)
	c.RegisterConcrete(&DepositMsg{}, "testament/DepositMsg", nil)
	c.RegisterConcrete(&WithdrawMsg{}, "testament/WithdrawMsg", nil)
	c.RegisterConcrete(&ReplaceValidatorsMsg{}, "testament/ReplaceValidatorsMsg", nil)
	c.RegisterConcrete(&ReplaceBeneficiariesMsg{}, "testament/ReplaceBeneficiariesMsg", nil)
}
