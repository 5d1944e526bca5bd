// Package types defines the small set of identifiers and typed errors shared
// by every axtree package.
//
// Design goals:
//   - Small, copyable handles (NodeID) instead of pointers across package
//     boundaries.
//   - Typed errors with stable categories (malformed/not-found/format/state)
//     so callers branch on intent rather than text.
//
// This package has no dependencies beyond the standard library.
package types
