/*
Package cash defines a simple implementation of sending coins
between multi-signature wallets.

Every address owns at most one wallet holding a single amount. Testament
custody accounts are ordinary wallets owned by a derived condition.
*/
package cash
