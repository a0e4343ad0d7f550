package mdpress

// Notes:
// - Service is the seam servers and CLIs program against; the compile-time
//   check pins Converter to it
// - The one-shot Convert helper owns the converter lifecycle, so the test
//   verifies the injected PDF converter is closed afterwards

import (
	"context"
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// TestService_InterfaceCompliance - Converter Satisfies Service
// ---------------------------------------------------------------------------

func TestService_InterfaceCompliance(t *testing.T) {
	t.Parallel()

	var _ Service = (*Converter)(nil)

	converter, err := NewConverter(withPDFConverter(&mockPDFConverter{}))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	defer converter.Close()

	var svc Service = converter
	if svc == nil {
		t.Fatal("Converter does not satisfy Service")
	}
}

// ---------------------------------------------------------------------------
// TestConvertFunc - One-Shot Package-Level Convert
// ---------------------------------------------------------------------------

func TestConvertFunc_Success(t *testing.T) {
	t.Parallel()

	mock := &mockPDFConverter{output: []byte("%PDF-1.4 oneshot")}

	ctx := context.Background()
	result, err := Convert(ctx, Input{Markdown: "# One Shot"}, withPDFConverter(mock))
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}

	if string(result.PDF) != "%PDF-1.4 oneshot" {
		t.Errorf("Convert() result.PDF = %q, want %q", result.PDF, "%PDF-1.4 oneshot")
	}
	if !mock.closed {
		t.Error("one-shot Convert should close its converter")
	}
}

func TestConvertFunc_ConstructionError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, err := Convert(ctx, Input{Markdown: "# Hello"},
		WithComponent("bad", ComponentConfig{Template: "{{.Content"}))

	if !errors.Is(err, ErrTemplateParse) {
		t.Errorf("Convert() error = %v, want %v", err, ErrTemplateParse)
	}
}

func TestConvertFunc_ValidationError(t *testing.T) {
	t.Parallel()

	mock := &mockPDFConverter{}

	ctx := context.Background()
	_, err := Convert(ctx, Input{Markdown: ""}, withPDFConverter(mock))

	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Convert() error = %v, want %v", err, ErrInvalidInput)
	}
	if !mock.closed {
		t.Error("one-shot Convert should close its converter even on error")
	}
}
