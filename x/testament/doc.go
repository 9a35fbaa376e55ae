/*
Package testament implements a digital testament: an escrow that holds the
funds of a creator and releases them to beneficiaries once a quorum of
validators confirmed the death of the creator and a waiting period passed.

Every testament owns a custody account derived from its ID. Deposits,
withdrawals and claims move coins between that account and the wallets of
the participants using the cash extension, in the same transaction that
updates the testament record.

The lifecycle is

	Active -> DeathConfirmed
	Active -> Revoked

Both DeathConfirmed and Revoked are final. A confirmed testament whose
beneficiaries all claimed their share is reported as Exhausted.

Payouts are computed from the balance and the total of shares recorded at
the moment of confirmation:

	payout = floor(balanceAtConfirmation * share / totalShares)

The rounding remainder stays in the custody account and can be withdrawn by
the creator.
*/
package testament
