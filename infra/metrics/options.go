package metrics

import (
	"sync"

	"github.com/kilianp07/ucga/infra/logger"
)

// Option customises a sink or helper of this package.
type Option func(*options)

type options struct {
	log logger.Logger
}

// WithLogger sets the logger; the default is a zerolog logger named after
// the component.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func buildOptions(component string, opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.New(component)
	}
	return o
}

var (
	factoryMu  sync.RWMutex
	factoryLog logger.Logger
)

// SetLogger sets the logger handed to sinks built by the registered
// factories. A nil logger restores the per-component default.
func SetLogger(l logger.Logger) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factoryLog = l
}

func factoryOptions() []Option {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	if factoryLog == nil {
		return nil
	}
	return []Option{WithLogger(factoryLog)}
}
