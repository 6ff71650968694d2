// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package batch

import (
	"context"
	"time"

	"github.com/siemens/addrdig/lookup"
	"github.com/siemens/addrdig/types"

	"github.com/gammazero/workerpool"
	"github.com/thediveo/lxkns/log"
)

// Looker looks up a single address value. [lookup.Client] is the stock
// implementation.
type Looker interface {
	Lookup(ctx context.Context, value string) lookup.Result
}

// Batch is the result of a single batch run: one record per non-duplicate
// entity in the original input order, as well as the run's statistics.
type Batch struct {
	Records []types.ResultRecord
	Stats   types.RunStats
}

// Orchestrator runs batches of entities through a Looker using a
// goroutine-limited worker pool.
type Orchestrator struct {
	size   int                       // maximum number of lookups in flight.
	looker Looker                    // does the real lookup work.
	news   chan<- types.ResultRecord // optional progress stream, or nil.
}

// OrchestratorOption can be passed to New when creating new Orchestrator
// objects.
type OrchestratorOption func(*Orchestrator)

// New returns a new Orchestrator that uses the specified Looker with at most
// size lookups in flight at any time. A size less than 1 is taken as 1.
func New(size int, looker Looker, options ...OrchestratorOption) *Orchestrator {
	if size < 1 {
		size = 1
	}
	o := &Orchestrator{
		size:   size,
		looker: looker,
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// WithProgress streams records as batches progress: skipped records
// immediately, dispatched records first as pending and later with their final
// outcome. Duplicates are not streamed. The caller must drain the channel
// while a batch is running; Run never closes it.
func WithProgress(news chan<- types.ResultRecord) OrchestratorOption {
	return func(o *Orchestrator) {
		o.news = news
	}
}

// Run looks up the eligible entities and returns after all dispatched lookups
// have settled. The returned records are in the order of the input entities,
// with duplicates (by address value) dropped. Run doesn't fail: failed lookups
// are reported as records with a nil payload, and counted in the stats.
//
// The passed entities must not be modified while Run is in progress, as the
// records reference them.
//
// Cancelling the context makes outstanding lookups fail; Run then still waits
// for the already submitted lookups to settle.
func (o *Orchestrator) Run(ctx context.Context, entities []types.Entity) Batch {
	start := time.Now()
	var stats types.RunStats
	guard := newDedupGuard()
	workers := workerpool.New(o.size)

	// Each entity gets its own slot, so workers never share any record and the
	// input order falls into place without any sorting. Dropped duplicates
	// leave their slot empty.
	slots := make([]*types.ResultRecord, len(entities))
	for idx := range entities {
		entity := &entities[idx]
		if !IsEligible(entity) {
			log.Warnf("skipping non-IPv4 entity %q", entity.Value)
			stats.SkippedIneligible++
			slots[idx] = &types.ResultRecord{Entity: entity, Outcome: types.Skipped}
			o.announce(ctx, *slots[idx])
			continue
		}
		if !guard.shouldDispatch(entity.Value) {
			log.Warnf("skipping duplicate entity %s", entity.Value)
			continue
		}
		stats.Searched++
		slot := &types.ResultRecord{Entity: entity, Outcome: types.Pending}
		slots[idx] = slot
		o.announce(ctx, *slot)
		workers.Submit(func() {
			log.Debugf("looking up %s", entity.Value)
			res := o.looker.Lookup(ctx, entity.Value)
			slot.Outcome = res.Outcome
			switch res.Outcome {
			case types.Found:
				slot.Data = res.Data
			case types.NotFound:
				log.Warnf("no results found for %s", entity.Value)
			default:
				slot.Outcome = types.Failed
				slot.Err = res.Err
				log.Errorf("lookup of %s failed: %s", entity.Value, res.Err)
			}
			o.announce(ctx, *slot)
		})
	}
	workers.StopWait()

	records := make([]types.ResultRecord, 0, len(entities)-guard.skipped)
	for _, slot := range slots {
		if slot == nil {
			continue
		}
		switch slot.Outcome {
		case types.Found:
			stats.Found++
		case types.NotFound:
			stats.NotFound++
		case types.Failed:
			stats.Errored++
		}
		records = append(records, *slot)
	}
	stats.SkippedDuplicate = guard.skipped
	stats.Elapsed = time.Since(start)
	log.Infof("searched %d, skipped %d (%d duplicate, %d ineligible), found %d, not found %d, errored %d, took %s",
		stats.Searched, stats.Skipped(), stats.SkippedDuplicate, stats.SkippedIneligible,
		stats.Found, stats.NotFound, stats.Errored, stats.Elapsed)
	return Batch{
		Records: records,
		Stats:   stats,
	}
}

// announce sends a record to the progress stream, if any, unless the context
// gets cancelled in the meantime.
func (o *Orchestrator) announce(ctx context.Context, rec types.ResultRecord) {
	if o.news == nil {
		return
	}
	select {
	case o.news <- rec:
	case <-ctx.Done():
	}
}
