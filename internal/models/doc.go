// Package models defines the data model for the listening-analytics service.
//
// Types mirror the Spotify Web API response shapes the analytics pipeline
// consumes, with json tags matching the provider wire format:
//   - [UserProfile] : the authenticated user's identity
//   - [Track], [Artist], [Album], [Image] : catalog entities
//   - [PlayEvent] : one entry of the recently-played history
//   - [AudioFeatures] : per-track mood attributes
//
// [TimeRange] selects the provider's windowing for "top items" queries and is
// a query parameter, not a stored entity. No derived metric is persisted;
// the analytics package recomputes everything from these inputs per request.
package models
