package main

// Shared test doubles for the convert command: an in-memory converter,
// a pool wrapping it, and buffer-backed environments. No browser is
// ever launched in these tests.

import (
	"bytes"
	"context"
	"sync"
	"time"

	mdpress "github.com/avoll/go-mdpress"
)

// mockConverter is a test double for the CLIConverter interface.
type mockConverter struct {
	mu          sync.Mutex
	calls       []mdpress.Input
	convertFunc func(ctx context.Context, input mdpress.Input) (*mdpress.Result, error)
}

func newMockConverter() *mockConverter {
	return &mockConverter{}
}

func (m *mockConverter) Convert(ctx context.Context, input mdpress.Input) (*mdpress.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, input)
	m.mu.Unlock()

	if m.convertFunc != nil {
		return m.convertFunc(ctx, input)
	}

	return &mdpress.Result{
		PDF:  []byte("%PDF-1.4 mock"),
		HTML: "<!DOCTYPE html><html><body>mock</body></html>",
		CSS:  "body { color: black }",
	}, nil
}

func (m *mockConverter) getCalls() []mdpress.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mdpress.Input{}, m.calls...)
}

// testPool hands the same mock converter to every worker.
type testPool struct {
	mock   *mockConverter
	sem    chan CLIConverter
	size   int
	mu     sync.Mutex
	closed bool
}

func newTestPool(mock *mockConverter, size int) *testPool {
	if size < 1 {
		size = 1
	}
	p := &testPool{
		mock: mock,
		sem:  make(chan CLIConverter, size),
		size: size,
	}
	for i := 0; i < size; i++ {
		p.sem <- mock
	}
	return p
}

func (p *testPool) Acquire() (CLIConverter, error) {
	return <-p.sem, nil
}

func (p *testPool) Release(c CLIConverter) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	// Send outside lock to avoid deadlock: if the channel is full,
	// holding the lock would prevent Close() from running.
	p.sem <- c
}

func (p *testPool) Close() error {
	p.mu.Lock()
	p.closed = true
	close(p.sem)
	p.mu.Unlock()
	return nil
}

func (p *testPool) Size() int {
	return p.size
}

// failingPool simulates converter startup failure on every Acquire.
type failingPool struct {
	err  error
	size int
}

func (p *failingPool) Acquire() (CLIConverter, error) { return nil, p.err }
func (p *failingPool) Release(CLIConverter)           {}
func (p *failingPool) Size() int                      { return p.size }
func (p *failingPool) Close() error                   { return nil }

// testPoolFactory returns a poolFactory that always hands out the given
// pool, recording the requested size.
func testPoolFactory(pool Pool, gotSize *int) poolFactory {
	return func(size int, opts ...mdpress.Option) Pool {
		if gotSize != nil {
			*gotSize = size
		}
		return pool
	}
}

// newTestEnv builds an Environment writing into fresh buffers, with a
// fixed clock so date resolution is deterministic.
func newTestEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
	}
	return env, &stdout, &stderr
}
