// Package metrics exposes Prometheus collectors for the data-access engine.
//
// Collectors cover cache efficiency (hits, misses, coalesced reads), rate
// limiter pressure, catalog API outcomes, circuit breaker state, sync
// progress, and post-mutation reconciliation mismatches.
//
// All collectors are registered on the default registry via promauto and
// served by the /metrics endpoint of the start command.
package metrics
