package labelset

import (
	"github.com/hupe1980/labelset/internal/resource"
)

type options struct {
	logger           *Logger
	writeConcurrency int
	resourceConfig   *resource.Config
}

// Option configures collection construction.
type Option func(*options)

// WithLogger configures structured logging. The default is a no-op logger;
// pass NewTextLogger/NewJSONLogger to see save, audit and mirror activity.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithWriteConcurrency limits how many fields of one sample are written in
// parallel. n <= 0 means one goroutine per field (the default).
//
// Field writes of one save never collide (each targets its own reserved
// name), so this is purely about open-file pressure for samples with many
// fields.
func WithWriteConcurrency(n int) Option {
	return func(o *options) {
		o.writeConcurrency = n
	}
}

// WithResourceConfig bounds mirror upload concurrency and throughput.
func WithResourceConfig(cfg resource.Config) Option {
	return func(o *options) {
		o.resourceConfig = &cfg
	}
}
