// Package server implements the auth backend for the analytics dashboard.
//
// The backend exists solely because the code-for-token exchange requires the
// confidential client secret, which cannot live in a browser. Its surface is
// two routes:
//
//	GET /api/spotify/login    → 302 to the provider authorize endpoint
//	GET /api/spotify/callback → exchange code, 302 to <frontend>/#access_token=...
//
// On exchange failure the callback responds 500 with the plain-text body
// "Authentication failed." and the user restarts from the login step.
//
// The router is chi with request-ID, real-IP, logging, and panic-recovery
// middleware, plus CORS restricted to the configured frontend origin. No
// session state is kept server side; the token travels to the client in the
// redirect fragment and is never persisted here.
package server
