// Package analytics implements the derivation pipeline turning raw provider
// responses into the dashboard's analytical views.
//
// Every derivation is a pure, synchronous function over already-fetched
// collections: recomputing from the same input yields the same output, and
// nothing is persisted. The only exceptions are explicitly seeded random
// sources (festival lineup) and explicitly simulated values (artist
// timeline, song repetition), both of which take their randomness as a
// parameter so callers and tests control determinism.
//
// Derivations given empty or malformed input return zero-valued results
// quietly rather than failing; upstream fetch errors are the caller's to
// surface.
package analytics
