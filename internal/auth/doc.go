// Package auth holds the session context shared by every screen: a Store
// with the current session and loading flag, a Service that talks to the
// identity provider (or a demo stand-in), and the Provider that ties the two
// together and keeps the store in step with provider-pushed changes.
//
// Only the Provider mutates the Store. Screens read snapshots and call the
// Provider's capabilities; they never touch the Service directly.
package auth
