// Copyright © 2024 The pystyle authors

package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// spanLogger is a span exporter that logs the duration and attributes of
// each span at debug level.
type spanLogger struct {
	log logrus.FieldLogger
}

func (s spanLogger) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		fields := logrus.Fields{
			"span":     span.Name(),
			"duration": span.EndTime().Sub(span.StartTime()),
		}
		for _, kv := range span.Attributes() {
			fields[string(kv.Key)] = kv.Value.Emit()
		}
		s.log.WithFields(fields).Debug("trace")
	}
	return nil
}

func (spanLogger) Shutdown(context.Context) error {
	return nil
}

func newTraceProvider(log logrus.FieldLogger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(spanLogger{log: log}),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
}
