/*
Package utils contains decorators that are not tied to any extension.

The usual application chain is

	Recovery, Logging, Metrics, sigs.Decorator, Savepoint, ActionTagger

so that a panic anywhere is turned into an error, every transaction is
logged and measured, and a failed message leaves no state behind.
*/
package utils
