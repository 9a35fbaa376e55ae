/*
Package store provides the in memory layers between the persistent iavl tree
and the handlers.

Every transaction operates on a BTreeCacheWrap. Writes are kept in the cache
until Write is called, which makes a failed transaction leave no trace. Cache
wraps can be nested.
*/
package store
