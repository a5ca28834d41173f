// Package labelset persists labeled data samples to a filesystem hierarchy
// and tracks, per collection, how many positive and negative samples have
// been stored, so every save receives a correctly ordered, collision-free
// file name.
//
// # Layout
//
// A collection is one folder under a dataset root:
//
//	<dataset_root>/
//	  <folder_name>/
//	    positive_samples/
//	      <field>/  positive_<field>_<total>_(<ordinal>)
//	    negative_samples/
//	      <field>/  negative_<field>_<total>_(<ordinal>)
//
// total is the combined sample count at the moment of saving and ordinal is
// the sample's position within its own branch.
//
// # Quick Start
//
//	ref := record.New(true, []string{"image", "mask"})
//	col, _ := labelset.New("/data/robots", "corridor", ref)
//
//	r := record.New(true, []string{"image", "mask"})
//	_ = r.SetBytes("image", img)
//	_ = r.SetBytes("mask", mask)
//	_ = col.Save(ctx, r)
//
//	h, _ := col.SaveAsync(ctx, other)  // bookkeeping now, I/O in background
//	// ...
//	if err := h.Wait(); err != nil { ... }
//
// # Concurrency Model
//
// A single mutex per collection serializes only the counter read-increment
// step; field serialization runs outside the lock and fully in parallel
// across concurrent saves. Every save targets file names unique to its
// reservation, so writers never collide on a path.
//
// # Consistency
//
// Counters are not rolled back when a field write fails, so a failed save
// leaves a hole: some field directories have the ordinal, others don't.
// [Collection.Audit] finds these holes; [Collection.Mirror] copies a
// collection to a blobstore (local, MinIO, S3) with a manifest + CURRENT
// pointer for external reconciliation.
package labelset
