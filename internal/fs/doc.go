// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: Represents an open file with read/write/sync capabilities
//   - [FileSystem]: Abstracts filesystem operations (open, stat, mkdir, readdir)
//
// # Implementations
//
//   - [LocalFS]: Production implementation using the standard os package
//   - [FaultyFS]: Test utility for fault injection (simulate I/O errors)
//
// Production code should use fs.Default (which is [LocalFS]). Tests can
// inject [FaultyFS] to make a specific field file fail on write, sync or
// close:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("positive_depth", fs.Fault{FailOnWrite: true})
//
// This package intentionally does NOT include context.Context parameters.
// Local filesystem operations are fast and non-interruptible at the syscall
// level; slow remote storage goes through blobstore, which has context
// support.
package fs
