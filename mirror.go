package labelset

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/labelset/blobstore"
	"github.com/hupe1980/labelset/codec"
	"github.com/hupe1980/labelset/internal/layout"
	"github.com/hupe1980/labelset/internal/resource"
)

// CurrentName is the pointer blob written last by Mirror; its content is the
// key of the manifest describing the most recent complete mirror pass.
const CurrentName = "CURRENT"

// MirrorManifest describes one complete mirror pass. It is encoded with the
// configured codec and stored next to the mirrored files.
type MirrorManifest struct {
	Folder        string    `json:"folder"`
	PositiveCount int       `json:"positive_count"`
	NegativeCount int       `json:"negative_count"`
	Files         []string  `json:"files"`
	CreatedAt     time.Time `json:"created_at"`
}

// MirrorStats summarizes a mirror pass.
type MirrorStats struct {
	Scanned  int
	Uploaded int
	Skipped  int
	Bytes    int64
	Manifest string
}

// MirrorOption configures Mirror.
type MirrorOption func(*mirrorOptions)

type mirrorOptions struct {
	codec codec.Codec
}

// WithManifestCodec sets the codec used to encode the manifest.
// If nil is passed, codec.Default is used.
func WithManifestCodec(c codec.Codec) MirrorOption {
	return func(o *mirrorOptions) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// Mirror uploads the collection's sample files to the store under
// `<folder>/<branch>/<field>/<name>`, then writes a manifest and points
// CURRENT at it. Keys the store already holds are skipped, so an
// interrupted pass resumes cheaply; sample files never change once written,
// only new names appear.
//
// Upload concurrency and byte rate follow [WithResourceConfig]. Mirror takes
// no lock; saves racing the pass are picked up by the next one.
func (c *Collection) Mirror(ctx context.Context, store blobstore.BlobStore, optFns ...MirrorOption) (*MirrorStats, error) {
	o := mirrorOptions{codec: codec.Default}
	for _, fn := range optFns {
		fn(&o)
	}

	folder := c.FolderName()

	existingKeys, err := store.List(ctx, folder+"/")
	if err != nil {
		c.logger.LogMirror(ctx, 0, 0, 0, err)
		return nil, fmt.Errorf("list store: %w", err)
	}
	existing := make(map[string]struct{}, len(existingKeys))
	for _, key := range existingKeys {
		existing[key] = struct{}{}
	}

	type upload struct {
		key  string
		path string
	}
	var pending []upload
	var allKeys []string

	for _, p := range []Polarity{Positive, Negative} {
		for _, field := range c.fields {
			dir := c.layout.FieldDir(p, field)
			entries, err := c.fsys.ReadDir(dir)
			if err != nil {
				return nil, fmt.Errorf("scan %q: %w", dir, err)
			}
			for _, e := range entries {
				if !e.Type().IsRegular() {
					continue
				}
				info, ok := layout.ParseFileName(e.Name())
				if !ok || info.Polarity != p || info.Field != field {
					continue
				}
				key := path.Join(folder, p.DirName(), field, e.Name())
				allKeys = append(allKeys, key)
				if _, found := existing[key]; found {
					continue
				}
				pending = append(pending, upload{key: key, path: filepath.Join(dir, e.Name())})
			}
		}
	}

	stats := &MirrorStats{
		Scanned: len(allKeys),
		Skipped: len(allKeys) - len(pending),
	}

	res := c.res
	if res == nil {
		res = resource.NewController(resource.Config{})
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(res.UploadWorkers())

	for _, up := range pending {
		up := up
		g.Go(func() error {
			if err := res.AcquireUpload(gctx); err != nil {
				return err
			}
			defer res.ReleaseUpload()

			data, err := c.fsys.ReadFile(up.path)
			if err != nil {
				return fmt.Errorf("read %q: %w", up.path, err)
			}
			if err := res.WaitIO(gctx, len(data)); err != nil {
				return err
			}
			if err := store.Put(gctx, up.key, data); err != nil {
				return fmt.Errorf("upload %q: %w", up.key, err)
			}

			mu.Lock()
			stats.Uploaded++
			stats.Bytes += int64(len(data))
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.logger.LogMirror(ctx, stats.Uploaded, stats.Skipped, stats.Bytes, err)
		return nil, err
	}

	sort.Strings(allKeys)
	manifest := MirrorManifest{
		Folder:        folder,
		PositiveCount: c.PositiveCount(),
		NegativeCount: c.NegativeCount(),
		Files:         allKeys,
		CreatedAt:     time.Now().UTC(),
	}
	encoded, err := o.codec.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}

	manifestKey := path.Join(folder, fmt.Sprintf("MANIFEST-%d.json", manifest.CreatedAt.UnixNano()))
	if err := store.Put(ctx, manifestKey, encoded); err != nil {
		c.logger.LogMirror(ctx, stats.Uploaded, stats.Skipped, stats.Bytes, err)
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	if err := store.Put(ctx, path.Join(folder, CurrentName), []byte(manifestKey)); err != nil {
		c.logger.LogMirror(ctx, stats.Uploaded, stats.Skipped, stats.Bytes, err)
		return nil, fmt.Errorf("commit %s: %w", CurrentName, err)
	}
	stats.Manifest = manifestKey

	c.logger.LogMirror(ctx, stats.Uploaded, stats.Skipped, stats.Bytes, nil)
	return stats, nil
}
