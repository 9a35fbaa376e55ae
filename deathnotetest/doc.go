// Package deathnotetest provides mocks and helpers for testing extensions
// and applications without a signing backend.
package deathnotetest
