// Package object provides the class/instance model that attribute
// resolution runs against.
//
// The package holds data and protocols only: classes with ordered parents
// and own attribute tables, C3 linearization, instances, the descriptor
// capability interfaces, hook slots and interceptor chains. The resolution
// state machine lives in internal/engine; object imports nothing internal.
//
// Key invariants:
//   - A class's linearization is computed before the class is published and
//     recomputed for every descendant when parents change; an inconsistent
//     hierarchy is rejected, never tie-broken.
//   - Own-table accessors (Class.Attr, Instance.Attr) never walk the
//     linearization and never invoke descriptors.
//   - Hooks and descriptors are always called with no table lock held.
package object
