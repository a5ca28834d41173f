package labelset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/labelset/internal/fs"
	"github.com/hupe1980/labelset/internal/layout"
	"github.com/hupe1980/labelset/internal/resource"
)

// Polarity identifies the positive or negative branch of a collection.
type Polarity = layout.Polarity

// Branch polarities.
const (
	Positive = layout.Positive
	Negative = layout.Negative
)

// Collection persists labeled samples under a dataset directory and hands
// out collision-free file names for them.
//
// One Collection manages one (dataset path, folder name) pair. Its branch
// counters live in memory only; they are seeded once from the files found on
// disk at construction and advance on every save. A Collection is safe for
// concurrent use; only the counter bookkeeping is serialized, field writes
// from concurrent saves run fully in parallel.
type Collection struct {
	layout  *layout.Layout
	refType reflect.Type
	fields  []string

	logger           *Logger
	fsys             fs.FileSystem
	res              *resource.Controller
	writeConcurrency int

	mu       sync.Mutex
	positive int
	negative int
}

// New opens (or creates) the collection folder under datasetPath.
//
// The parent of datasetPath must already exist ([ErrPathNotFound] otherwise,
// with nothing created). The dataset root, the folder, both branch
// directories and one subdirectory per declared field are created if absent.
// ref fixes the concrete sample type and the field set of the collection; it
// is not stored.
func New(datasetPath, folderName string, ref Sample, opts ...Option) (*Collection, error) {
	o := options{
		logger: NoopLogger(),
	}
	for _, fn := range opts {
		fn(&o)
	}

	fields := ref.Fields()
	if len(fields) == 0 {
		return nil, errors.New("reference sample declares no fields")
	}

	l := layout.New(datasetPath, folderName, fields, fs.Default)
	if err := l.Setup(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrPathNotFound, err)
		}
		return nil, err
	}

	positive, negative, err := l.CountExisting()
	if err != nil {
		return nil, err
	}

	var res *resource.Controller
	if o.resourceConfig != nil {
		res = resource.NewController(*o.resourceConfig)
	}

	return &Collection{
		layout:           l,
		refType:          reflect.TypeOf(ref),
		fields:           fields,
		logger:           o.logger.WithFolder(folderName),
		fsys:             fs.Default,
		res:              res,
		writeConcurrency: o.writeConcurrency,
		positive:         positive,
		negative:         negative,
	}, nil
}

// PositiveCount returns the number of positive samples in the collection.
// The value is a point-in-time snapshot; concurrent saves may advance it
// immediately after.
func (c *Collection) PositiveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.positive
}

// NegativeCount returns the number of negative samples in the collection.
func (c *Collection) NegativeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.negative
}

// Fields returns the declared field names in order.
func (c *Collection) Fields() []string {
	out := make([]string, len(c.fields))
	copy(out, c.fields)
	return out
}

// FolderName returns the collection folder name.
func (c *Collection) FolderName() string {
	return c.layout.FolderName()
}

// Save persists the sample and returns after all its fields are written.
//
// The sample must have the collection's concrete sample type
// ([ErrTypeMismatch] otherwise, with no state touched). Once the sequence
// numbers are reserved the branch counter stays advanced even if a field
// write fails; the returned error is a [FieldWriteError] naming the file.
func (c *Collection) Save(ctx context.Context, sample Sample) error {
	if err := c.checkType(sample); err != nil {
		return err
	}
	r := c.reserve(sample.Positive())
	return c.writeFields(ctx, sample, r)
}

// SaveAsync persists the sample on its own goroutine.
//
// The type check and the sequence-number reservation happen synchronously,
// so the order of SaveAsync calls fixes the order of ordinals. Field write
// failures are only observable through the returned handle's Wait.
func (c *Collection) SaveAsync(ctx context.Context, sample Sample) (*SaveHandle, error) {
	if err := c.checkType(sample); err != nil {
		return nil, err
	}
	r := c.reserve(sample.Positive())

	h := newSaveHandle()
	go func() {
		h.finish(c.writeFields(ctx, sample, r))
	}()
	return h, nil
}

// Load fills the sample's fields from the stored files of the given
// (polarity, ordinal). The sample must implement [FieldReader] and have the
// collection's sample type.
func (c *Collection) Load(ctx context.Context, sample Sample, p Polarity, ordinal int) error {
	reader, ok := sample.(FieldReader)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotLoadable, sample)
	}
	if err := c.checkType(sample); err != nil {
		return err
	}

	for _, field := range c.fields {
		if err := ctx.Err(); err != nil {
			return err
		}

		name, found, err := c.layout.FindFile(p, field, ordinal)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s ordinal %d has no file for field %q", ErrSampleNotFound, p, ordinal, field)
		}
		path := filepath.Join(c.layout.FieldDir(p, field), name)
		if err := reader.ReadField(field, path); err != nil {
			return fmt.Errorf("read %s field %q from %q: %w", p, field, name, err)
		}
	}
	return nil
}

func (c *Collection) checkType(sample Sample) error {
	if t := reflect.TypeOf(sample); t != c.refType {
		return fmt.Errorf("%w: got %s, want %s", ErrTypeMismatch, t, c.refType)
	}
	return nil
}

// reservation is one save's claim on the name sequence: the sample's ordinal
// within its branch (pre-increment) and the combined total (post-increment).
type reservation struct {
	polarity layout.Polarity
	ordinal  int
	total    int
}

// reserve performs the counter bookkeeping. The lock covers exactly this;
// it must never extend over the field writes.
func (c *Collection) reserve(positive bool) reservation {
	p := layout.Of(positive)

	c.mu.Lock()
	defer c.mu.Unlock()

	var ordinal int
	if p == Positive {
		ordinal = c.positive
		c.positive++
	} else {
		ordinal = c.negative
		c.negative++
	}

	return reservation{
		polarity: p,
		ordinal:  ordinal,
		total:    c.positive + c.negative,
	}
}

// writeFields writes every declared field under its reserved name. There is
// no cancellation once the reservation is committed: writes run to
// completion or fail independently, and nothing is rolled back.
func (c *Collection) writeFields(ctx context.Context, sample Sample, r reservation) error {
	var g errgroup.Group
	if c.writeConcurrency > 0 {
		g.SetLimit(c.writeConcurrency)
	}

	for _, field := range c.fields {
		field := field
		g.Go(func() error {
			name := layout.FileName(r.polarity, field, r.total, r.ordinal)
			path := filepath.Join(c.layout.FieldDir(r.polarity, field), name)
			if err := sample.WriteField(field, path); err != nil {
				return &FieldWriteError{
					Polarity: r.polarity,
					Field:    field,
					FileName: name,
					cause:    err,
				}
			}
			return nil
		})
	}

	err := g.Wait()
	c.logger.LogSave(ctx, r.polarity, r.total, r.ordinal, err)
	return err
}
