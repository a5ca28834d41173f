// Package minio provides a blobstore.BlobStore backed by MinIO or any
// S3-compatible endpoint, via github.com/minio/minio-go.
//
// Use this backend for self-hosted object storage; for AWS S3 proper, prefer
// the s3 package, which also offers DynamoDB-coordinated manifest commits.
package minio
