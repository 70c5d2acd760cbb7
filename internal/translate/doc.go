// Package translate owns version-to-version packet translation.
//
// Ownership boundary:
// - single-hop steps between adjacent versions, registered at startup
// - chain construction for a (native, target) pair
// - per-session application of a chain, including fan-out and declared fan-in
//
// A chain never jumps more than one version per link; long-range translation
// is the composition of adjacent hops.
package translate
