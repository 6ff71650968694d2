/*
Package types defines addrdig's information model. Which is rather simple and
mainly revolves around [Entity] and [ResultRecord], as well as the lookup
[Outcome] of a record. A [RunStats] value then sums up a single batch.

# Entities

An [Entity] is supplied by the host tool, such as an entity-graph or recon
pipeline. addrdig only reads the address value, the declared type and the
“is IP” flag; everything else is carried along untouched. Entities are never
modified: a [ResultRecord] only references the entity it was produced for.

# Outcomes versus Payloads

The lookup service signals “no data for this address” by a 404 response, so a
not-found record carries a null payload. The same goes for failed lookups and
for entities that aren't eligible for a lookup in the first place. In order to
not leave downstream consumers guessing why there is no data, each record
additionally carries its [Outcome] and, in case of failure, the error cause.

Please note that records are passed around by value through channels while
lookups are in progress, so the record fields must be considered read-only
after a record has been produced.
*/
package types
