// Package blobstore provides storage abstraction for saved support sets.
//
// BlobStore is the interface for reading and writing whole named blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and ephemeral sessions
//   - LocalStore: local filesystem with atomic replace
//   - minio.Store: MinIO and other S3-compatible servers
//   - s3.Store: Amazon S3 with managed uploads
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom storage backends:
//
//	type BlobStore interface {
//	    Put(ctx, name, data) error         // Atomic write
//	    Get(ctx, name) ([]byte, error)
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
