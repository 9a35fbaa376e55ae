/*
Package api exposes a read only HTTP view of the application state.

	GET /testaments/{id}                  summary of a testament
	GET /testaments/{id}/validators       validators and their confirmations
	GET /testaments/{id}/beneficiaries    beneficiaries and their shares
	GET /accounts/{address}               wallet balance and testament roles
	GET /events                           server sent stream of state changes
	GET /metrics                          prometheus metrics

Testament IDs are the decimal sequence numbers assigned on creation.
Addresses are accepted in hex or bech32 form. All state is read from the
last committed block.
*/
package api
