// Package piecetree implements the piece tree (C2): an immutable,
// height-balanced binary tree whose leaves are pieces referencing
// spans owned by package span. Internal nodes cache subtree byte
// count and subtree newline count so offset<->position queries run in
// O(log N).
//
// Every mutating operation (Insert, Delete, Split, Concat, ...)
// returns a new Tree; existing Tree values and the Node handles
// returned by Root remain valid and structurally shared with the new
// tree wherever their subtrees are untouched. This is what makes
// snapshotting a tree O(1) and lets structural diff short-circuit on
// pointer equality between two roots.
package piecetree
