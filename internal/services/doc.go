// Package services implements the typed client for the Spotify Web API.
//
// # Design
//
// [Provider] is the read-only API surface the analytics pipeline depends on;
// [SpotifyService] is its production implementation. The client is
// deliberately thin: one request shape repeated per endpoint, the current
// token read from a [TokenSource] before every call, and no caching,
// deduplication, or retry.
//
// # Error semantics
//
//   - empty token store: shared.ErrNoToken, no network request is made
//   - non-2xx provider response: *[APIError] carrying status and body
//   - decode or transport failures: wrapped stdlib errors
//
// Token expiry is never pre-validated locally; an expired token simply
// surfaces as a 401 *APIError on the next call.
package services
