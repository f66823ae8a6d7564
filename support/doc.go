// Package support implements the fixed-capacity support set: W slots, each
// either empty or holding one labeled exemplar sequence.
//
// Slots are addressed by index. Registering a new label takes the lowest free
// slot; registering an existing label overwrites its exemplar in place;
// removing a label zeroes its slot without shifting any other slot.
//
// Stored sequences are never mutated after registration. A replaced or removed
// exemplar is swapped for a new value, so a Snapshot can share sequences with
// the registry and stays coherent while the registry changes.
//
// Registry is not safe for concurrent use. Callers serialize access and hand
// Snapshots to concurrent readers.
package support
