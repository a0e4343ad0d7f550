package mdpress

import "context"

// Service is the document conversion contract: one Convert call per
// document job, Close when the consumer is done with the instance.
// Converter is the production implementation; servers and CLIs can
// substitute their own for testing.
type Service interface {
	Convert(ctx context.Context, input Input) (*Result, error)
	Close() error
}

// Compile-time check that Converter satisfies Service.
var _ Service = (*Converter)(nil)

// Convert runs a single conversion with a throwaway Converter. It pays
// the browser startup cost on every call; for more than one document,
// create a Converter (or a ServicePool) and reuse it.
func Convert(ctx context.Context, input Input, opts ...Option) (*Result, error) {
	converter, err := NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	defer converter.Close()

	return converter.Convert(ctx, input)
}
