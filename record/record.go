// Package record provides a ready-made sample implementation: an ordered set
// of named byte fields with codec encoding and optional block compression.
//
// Records of one collection must be created with the same field names in the
// same order; the field set is part of the collection's on-disk layout.
package record

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/labelset/codec"
	"github.com/hupe1980/labelset/internal/fs"
)

var (
	// ErrUnknownField is returned when a field name was not declared at
	// construction.
	ErrUnknownField = errors.New("unknown field")

	// ErrFieldNotSet is returned when a declared field has no value yet.
	ErrFieldNotSet = errors.New("field not set")
)

// Record is a labeled sample whose field values are held in memory as bytes.
// It implements labelset.Sample and labelset.FieldReader.
//
// A Record is safe for concurrent use; the collection writes its fields from
// multiple goroutines during a save.
type Record struct {
	fields      []string
	positive    bool
	codec       codec.Codec
	compression Compression
	fsys        fs.FileSystem

	mu     sync.RWMutex
	values map[string][]byte
}

// Option configures a Record.
type Option func(*Record)

// WithCodec sets the codec used by Set/Get. If nil is passed, codec.Default
// is used.
func WithCodec(c codec.Codec) Option {
	return func(r *Record) {
		if c == nil {
			c = codec.Default
		}
		r.codec = c
	}
}

// WithCompression sets the block compression applied when fields are written
// to disk. Reads are self-describing and accept any compression.
func WithCompression(c Compression) Option {
	return func(r *Record) {
		r.compression = c
	}
}

// New creates a Record with the given label and declared field names.
func New(positive bool, fieldNames []string, opts ...Option) *Record {
	fields := make([]string, len(fieldNames))
	copy(fields, fieldNames)

	r := &Record{
		fields:      fields,
		positive:    positive,
		codec:       codec.Default,
		compression: CompressionNone,
		fsys:        fs.Default,
		values:      make(map[string][]byte, len(fields)),
	}
	for _, fn := range opts {
		fn(r)
	}
	return r
}

// Fields returns the declared field names in order.
func (r *Record) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)
	return out
}

// Positive reports the record's label.
func (r *Record) Positive() bool { return r.positive }

// SetBytes stores a raw value for a declared field.
func (r *Record) SetBytes(field string, data []byte) error {
	if !r.declared(field) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	copied := make([]byte, len(data))
	copy(copied, data)

	r.mu.Lock()
	r.values[field] = copied
	r.mu.Unlock()
	return nil
}

// Set encodes v with the record's codec and stores it for a declared field.
func (r *Record) Set(field string, v any) error {
	if !r.declared(field) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	data, err := r.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode field %q: %w", field, err)
	}

	r.mu.Lock()
	r.values[field] = data
	r.mu.Unlock()
	return nil
}

// Bytes returns the raw value of a field, or false if it is not set.
func (r *Record) Bytes(field string) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, ok := r.values[field]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true
}

// Get decodes the value of a field into v using the record's codec.
func (r *Record) Get(field string, v any) error {
	r.mu.RLock()
	data, ok := r.values[field]
	r.mu.RUnlock()

	if !ok {
		if !r.declared(field) {
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		return fmt.Errorf("%w: %q", ErrFieldNotSet, field)
	}
	if err := r.codec.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode field %q: %w", field, err)
	}
	return nil
}

// WriteField serializes the named field's value to the given path.
// Implements labelset.Sample.
func (r *Record) WriteField(name, path string) error {
	r.mu.RLock()
	data, ok := r.values[name]
	r.mu.RUnlock()

	if !ok {
		if !r.declared(name) {
			return fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		return fmt.Errorf("%w: %q", ErrFieldNotSet, name)
	}

	block, err := encodeBlock(data, r.compression)
	if err != nil {
		return err
	}
	return fs.WriteFile(r.fsys, path, block, 0o644)
}

// ReadField deserializes the named field's value from the given path.
// Implements labelset.FieldReader.
func (r *Record) ReadField(name, path string) error {
	if !r.declared(name) {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	block, err := r.fsys.ReadFile(path)
	if err != nil {
		return err
	}
	data, err := decodeBlock(block)
	if err != nil {
		return fmt.Errorf("decode %q: %w", path, err)
	}

	r.mu.Lock()
	r.values[name] = data
	r.mu.Unlock()
	return nil
}

func (r *Record) declared(field string) bool {
	for _, f := range r.fields {
		if f == field {
			return true
		}
	}
	return false
}
