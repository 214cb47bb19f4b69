package testkit

import "testing"

// Swap points *target at replacement until the test (or subtest) ends
// Tests that swap package state must not run in parallel with its readers
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	prev := *target
	*target = replacement
	t.Cleanup(func() { *target = prev })
}
