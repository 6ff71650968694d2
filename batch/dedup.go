// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package batch

// dedupGuard tracks the address values already dispatched for lookup in a
// single batch, so that unnecessary duplicate lookups can be avoided.
//
// A dedupGuard must only be used from the dispatching goroutine.
type dedupGuard struct {
	seen    map[string]struct{}
	skipped int // number of duplicates refused so far.
}

// newDedupGuard returns a new and empty dedupGuard.
func newDedupGuard() *dedupGuard {
	return &dedupGuard{
		seen: map[string]struct{}{},
	}
}

// shouldDispatch checks the specified address value to see if it has not yet
// been seen. In this case it marks the value as seen and returns true to
// signal the caller to dispatch a lookup. Otherwise, it counts the duplicate
// and returns false. Values must match exactly to be considered duplicates.
func (g *dedupGuard) shouldDispatch(value string) bool {
	if _, ok := g.seen[value]; ok {
		g.skipped++
		return false
	}
	g.seen[value] = struct{}{}
	return true
}
