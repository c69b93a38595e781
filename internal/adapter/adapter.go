package adapter

import (
	"github.com/sirupsen/logrus"
)

// Option configures the adapters that only need shared settings
type Option func(*options)

type options struct {
	log logrus.FieldLogger
}

// WithLogger sets the logger an adapter reports through
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		o.log = l
	}
}

func newOptions(opts []Option) options {
	o := options{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
