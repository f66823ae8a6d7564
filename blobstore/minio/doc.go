// Package minio stores support-set snapshots in a MinIO (or other
// S3-compatible) bucket through minio-go.
//
//	store, err := minio.Dial("localhost:9000", "minioadmin", "minioadmin", false, "poseact", "support/")
//	if err != nil {
//	    return err
//	}
//	if err := store.EnsureBucket(ctx); err != nil {
//	    return err
//	}
//	mgr := persistence.NewManager(store)
package minio
