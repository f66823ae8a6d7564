// Package persistence saves and restores support sets.
//
// A saved support set is a single self-describing blob: a fixed 32-byte
// little-endian header (magic, version, compression, codec name, payload size,
// CRC32 of the payload) followed by the encoded and optionally compressed
// Snapshot. The header names the codec, so blobs written with any built-in
// codec can be read back without configuration.
package persistence
