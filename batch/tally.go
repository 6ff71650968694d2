// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package batch

import (
	"bytes"
	"context"
	"net"
	"sort"
	"sync"

	"github.com/siemens/addrdig/types"
)

// Tally maps input entities to the most recent record seen for them. A typical
// use case for a Tally is to consume the progress stream of an [Orchestrator]
// in order to render the state of a batch while it is still running.
//
// Records are keyed on the identity of their entity, that is, its position in
// the input, so entities sharing the same value don't overwrite each other.
type Tally struct {
	m  map[*types.Entity]types.ResultRecord
	mu sync.Mutex
}

// NewTally returns a new and properly initialized Tally.
func NewTally() *Tally {
	return &Tally{
		m: map[*types.Entity]types.ResultRecord{},
	}
}

// Update the tally with a record. A pending record never replaces a final
// one.
func (t *Tally) Update(rec types.ResultRecord) {
	if rec.Addr() == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if known, ok := t.m[rec.Entity]; ok && known.Outcome.IsFinal() && !rec.Outcome.IsFinal() {
		return
	}
	t.m[rec.Entity] = rec
}

// Get returns all records in the tally, sorted by address: IP addresses first
// in numerical order, anything else afterwards lexicographically. Records
// sharing the same address are ordered by entity type.
func (t *Tally) Get() []types.ResultRecord {
	t.mu.Lock()
	recs := make([]types.ResultRecord, 0, len(t.m))
	for _, rec := range t.m {
		recs = append(recs, rec)
	}
	t.mu.Unlock()
	sort.Slice(recs, func(a, b int) bool {
		ipA := net.ParseIP(recs[a].Addr())
		ipB := net.ParseIP(recs[b].Addr())
		switch {
		case ipA != nil && ipB != nil:
			if c := bytes.Compare(ipA.To16(), ipB.To16()); c != 0 {
				return c < 0
			}
		case ipA != nil:
			return true
		case ipB != nil:
			return false
		}
		if recs[a].Addr() != recs[b].Addr() {
			return recs[a].Addr() < recs[b].Addr()
		}
		return recs[a].Entity.Type < recs[b].Entity.Type
	})
	return recs
}

// Counts returns the number of records per outcome.
func (t *Tally) Counts() map[types.Outcome]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	counts := map[types.Outcome]int{}
	for _, rec := range t.m {
		counts[rec.Outcome]++
	}
	return counts
}

// Track record updates received from the specified channel until the channel
// is closed or the context done. Track only returns after processing all
// updates or when the context is done.
func (t *Tally) Track(ctx context.Context, news <-chan types.ResultRecord) error {
	for {
		select {
		case rec, ok := <-news:
			if !ok {
				return nil
			}
			t.Update(rec)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
