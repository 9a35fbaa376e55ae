/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket contains only one type of object. It has a
primary index (which may be composite), and may possess
secondary indexes. It may possess one or more secondary
indexes (1:1 or 1:N). Easy queries for one and iteration.

The store only supports exact key lookups. Every secondary index is stored as
a sorted set of primary keys (a MultiRef) under a single database key per
indexed value.
*/
package orm
