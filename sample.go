package labelset

// Sample is the capability set a collection needs from stored samples.
//
// All samples saved to one collection must share a single concrete type,
// fixed by the reference sample passed to [New]; Save rejects anything else.
type Sample interface {
	// Fields returns the declared field names in a stable order. The first
	// field is the representative used to count pre-existing samples at
	// startup.
	Fields() []string

	// Positive classifies the sample into the positive or negative branch.
	Positive() bool

	// WriteField serializes the named field's value to the given path.
	// The file name is chosen by the collection; implementations must not
	// alter it.
	WriteField(name, path string) error
}

// FieldReader is the optional read-back capability. Samples implementing it
// can be filled from disk with [Collection.Load].
type FieldReader interface {
	// ReadField deserializes the named field's value from the given path
	// into the sample.
	ReadField(name, path string) error
}
