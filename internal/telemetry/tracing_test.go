package telemetry

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

func TestInitTracer_Disabled(t *testing.T) {
	tp, err := InitTracer(context.Background(), TracerConfig{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("InitTracer: %v", err)
	}
	_, span := StartSpan(context.Background(), "noop")
	if span.SpanContext().IsValid() {
		t.Error("disabled tracing produced a valid span context")
	}
	span.End()
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestInitTracer_RequiresWriter(t *testing.T) {
	if _, err := InitTracer(context.Background(), TracerConfig{Enabled: true}, zerolog.Nop()); err == nil {
		t.Error("expected an error without a writer")
	}
}

func TestInitTracer_ExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	tp, err := InitTracer(context.Background(), TracerConfig{
		Enabled:     true,
		ServiceName: "skywindow-test",
		SampleRate:  1,
		Writer:      &buf,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("InitTracer: %v", err)
	}
	defer InitTracer(context.Background(), TracerConfig{}, zerolog.Nop())

	_, span := StartSpan(context.Background(), "visibility.intervals", attribute.String("telescope", "lco.coj.1m0a"))
	RecordError(span, errors.New("boom"))
	span.End()

	if err := tp.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"visibility.intervals", "lco.coj.1m0a", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("exported span missing %q", want)
		}
	}
}
