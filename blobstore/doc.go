// Package blobstore abstracts the storage backends a collection can be
// mirrored to.
//
// The write path is primary: mirroring uploads sample field files and a
// manifest with Put/Create. Open/List/Delete exist so mirrors can be
// verified, resumed and pruned.
//
// # Implementations
//
//   - [LocalStore]: local file system (tests, NFS-style staging dirs)
//   - [MemoryStore]: in-memory, for tests
//   - minio.Store: MinIO and S3-compatible endpoints
//   - s3.Store: AWS S3, with an optional DynamoDB-backed commit store for
//     atomic CURRENT pointer updates under concurrent writers
//
// All methods take a context; remote backends honor cancellation mid
// transfer.
package blobstore
