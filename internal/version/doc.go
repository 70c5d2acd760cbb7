// Package version owns the catalog of known protocol versions.
//
// Ownership boundary:
// - version identity and release ordering
// - inclusive ordinal ranges and adjacent-hop walks
// - the register-then-freeze lifecycle shared by every process-wide registry
package version
