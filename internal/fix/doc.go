// Package fix owns version-scoped client behaviour fixes.
//
// A fix unit is a tagged record keyed by (domain, version range). Which units
// apply to a session is a pure range lookup on the negotiated version, computed
// once when the session opens.
package fix
