// Package session owns the per-connection translation context.
//
// Ownership boundary:
// - one chain and one active fix set per connection, never shared
// - raw packet in, raw packets out, in both directions
// - per-packet failure reporting without closing the session
//
// Each direction is driven by exactly one goroutine (the connection's read
// loop for that side). Fix queries may come from any goroutine.
package session
