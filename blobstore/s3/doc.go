// Package s3 provides blobstore.BlobStore implementations backed by AWS S3.
//
// [Store] is the plain backend. [DDBCommitStore] wraps it and routes CURRENT
// pointer updates through DynamoDB conditional writes, giving mirror commits
// the compare-and-swap semantics S3 itself lacks.
package s3
