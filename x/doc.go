/*
Package x contains some standard extensions

Extensions are sub-packages of x, which can be imported into any
application: x/sigs for signature based authentication, x/cash for wallets
and x/testament for the escrowed inheritance. The x package itself only
holds the authentication helpers shared by all of them.
*/
package x
