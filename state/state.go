// Package state holds per-resource view state for a consumer such as a CLI
// or UI shell: the loaded items, a loading flag, the last error message and
// whether the data came from cache.
//
// Containers are mutex-guarded but deliberately carry no generation counters
// and no cancellation of overlapping loads: if two loads race, the last
// writer wins, which is acceptable for a single-user, single-session client.
package state

import "github.com/savvy-app/savvy/client"

// errorMessage extracts the user-facing message from a service error,
// falling back when the error is foreign.
func errorMessage(err error, fallback string) string {
	if info, ok := client.AsErrorInfo(err); ok && info.Message != "" {
		return info.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
