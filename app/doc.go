/*
Package app contains standard implementations of a number of components.

It is a good place to look for helpers to glue the extensions together into
an ABCI application: a Router dispatching messages by path, a chain of
Decorators wrapping the router, a StoreApp handling storage, queries and the
genesis, and a BaseApp adding CheckTx and DeliverTx on top of it.

Every ABCI call is serialized by a single mutex held by the BaseApp, so all
transactions are executed one after another and each is applied as one
atomic unit. Events carried by delivered transactions are buffered during
the block and published to the registered sinks once the block state is
committed.
*/
package app
