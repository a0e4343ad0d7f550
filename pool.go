package mdpress

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ServicePool manages a pool of Converter instances for parallel
// processing. Each converter has its own browser instance, enabling
// true parallelism. Converters are created lazily on first acquire to
// avoid startup delay.
type ServicePool struct {
	size       int
	opts       []Option
	converters []*Converter
	sem        chan *Converter
	mu         sync.Mutex
	created    int
	closed     bool
}

// NewServicePool creates a pool with capacity for n Converter instances,
// each built with the given options. Converters are created lazily when
// acquired, not at pool creation.
func NewServicePool(n int, opts ...Option) *ServicePool {
	if n < 1 {
		n = 1
	}

	return &ServicePool{
		size:       n,
		opts:       opts,
		converters: make([]*Converter, 0, n),
		sem:        make(chan *Converter, n),
	}
}

// errPoolClosed is returned by Acquire once the pool has been closed.
var errPoolClosed = errors.New("pool is closed")

// Acquire gets a converter from the pool, creating one if capacity
// allows. Blocks if all converters are in use. Returns errPoolClosed
// for acquirers racing or arriving after Close.
func (p *ServicePool) Acquire() (*Converter, error) {
	// Try to get an existing converter (non-blocking)
	select {
	case converter := <-p.sem:
		if converter == nil {
			return nil, errPoolClosed
		}
		return converter, nil
	default:
	}

	// Check if we can create a new converter
	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create the converter outside the lock
		converter, err := NewConverter(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.converters = append(p.converters, converter)
		p.mu.Unlock()

		return converter, nil
	}
	p.mu.Unlock()

	// All converters created, wait for one to be released. A nil
	// receive means the channel was closed underneath us.
	converter := <-p.sem
	if converter == nil {
		return nil, errPoolClosed
	}
	return converter, nil
}

// Release returns a converter to the pool.
// The lock is released before sending to avoid deadlock when the
// channel is full.
func (p *ServicePool) Release(converter *Converter) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.sem <- converter
}

// Close releases all browser resources.
// Returns an aggregated error if multiple converters fail to close.
func (p *ServicePool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	converters := p.converters
	p.mu.Unlock()

	var errs []error
	for _, converter := range converters {
		if err := converter.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ServicePool) Size() int {
	return p.size
}

// ResolvePoolSize determines the optimal pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
