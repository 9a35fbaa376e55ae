/*
Package coin provides the value type used for every balance held by the
application.

There is a single native currency, so an Amount carries no ticker. Amounts
are unsigned 256 bit integers. Every arithmetic operation that could wrap
around returns an error instead.
*/
package coin
