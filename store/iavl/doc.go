/*
Package iavl provides the persistent, merkelized root store of the
application. Every committed version has a root hash that is reported to
tendermint as the application hash.
*/
package iavl
