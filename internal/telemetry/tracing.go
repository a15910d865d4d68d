// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

// DefaultServiceName is reported as service.name on every span.
const DefaultServiceName = "senti"

// Options configures Init.
type Options struct {
	// Enabled turns tracing on. When false Init is a no-op.
	Enabled bool

	// Writer receives exported spans. Defaults to os.Stderr.
	Writer io.Writer

	// ServiceName overrides DefaultServiceName.
	ServiceName string

	// Version is reported as service.version.
	Version string

	// Pretty indents exported JSON.
	Pretty bool
}

// Init installs a global TracerProvider exporting to opts.Writer.
// The returned shutdown flushes pending spans and must be called on exit.
func Init(ctx context.Context, opts Options) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if !opts.Enabled {
		return noop, nil
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	exporterOpts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	if opts.Pretty {
		exporterOpts = append(exporterOpts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(exporterOpts...)
	if err != nil {
		return noop, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	name := opts.ServiceName
	if name == "" {
		name = DefaultServiceName
	}
	attrs := []attribute.KeyValue{attribute.String("service.name", name)}
	if opts.Version != "" {
		attrs = append(attrs, attribute.String("service.version", opts.Version))
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(resource.NewSchemaless(attrs...)),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
