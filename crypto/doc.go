/*
Package crypto provides the ed25519 keys used to sign transactions.

Keys are either random or deterministically derived from a bip39 mnemonic
using the SLIP-0010 ed25519 derivation scheme, so a validator or beneficiary
can restore the same identity from their recovery words.
*/
package crypto
