// Package common defines shared sentinel errors used across the storage,
// auth, and ticket layers of Kendall Manager Pro. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// ErrCorruptData marks a persisted value that failed to deserialize.
	// Consumers recover by substituting an empty value.
	ErrCorruptData = errors.New("corrupt data")
)
