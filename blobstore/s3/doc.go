// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("support/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	mgr := persistence.NewManager(store)
//
// # Features
//
//   - Managed uploads with CRC32C checksums
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
//   - Custom endpoints for S3-compatible services
package s3
