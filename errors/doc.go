/*
Package errors implements the error classification used by all deathnote
extensions.

Every error returned by a handler should wrap one of the registered root
errors. Root errors carry an ABCI code so that clients can tell apart an
unauthorized caller from a bad state or a too early claim without parsing
messages.

Register a module specific root error with Register(code, description). Wrap
errors with Wrap or Wrapf at the point they are created so that a stack trace
is attached:

	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
