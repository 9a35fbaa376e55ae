/*
Package deathnote defines all common interfaces used to tie together the
extensions of a digital testament application, as well as implementations of
some of the simpler components (when interfaces would be too much overhead).

We pass context through context.Context between app, middleware, and
handlers. Extensions may add their own keys to enrich the context with
specific data. Each value XYZ of type T supported by the context comes with
two functions:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)

Caller identity never comes from ambient state. It is reconstructed from the
transaction signatures by an authentication decorator and read back by the
handlers through an Authenticator. The current time is the block time stored
in the context.
*/
package deathnote
