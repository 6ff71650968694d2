/*
Package batch implements looking up a batch of entities with deduplication and
a limited number of concurrent lookups.

An [Orchestrator] takes a list of entities and works through them in order:

  - entities that aren't IPv4 addresses (see [IsEligible]) are skipped and get
    a record with a nil payload.
  - entities with an address value that has already been dispatched in the
    same batch are dropped: they neither trigger another lookup nor get a
    record of their own.
  - all other entities are looked up concurrently, with the number of lookups
    in flight limited by the Orchestrator's worker pool size.

Run returns only after all dispatched lookups have settled, with the records in
the order of their entities in the input list (and not in completion order).
Failed lookups never abort a batch.

	                   +---+
	[]types.Entity --> | O +--> Batch{Records, Stats}
	                   +-+-+
	                     |
	                     +--> ch types.ResultRecord (optional progress)

For live displays, the optional progress stream can be fed into a [Tally].

# Acknowledgements

Under its hood, [Orchestrator] leverages [gammazero/workerpool] as the limiting
goroutine pool.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
*/
package batch
