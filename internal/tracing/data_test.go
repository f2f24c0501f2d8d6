// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2023 HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package tracing

import (
	"context"
	"slices"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type testStringer string

func (s testStringer) String() string { return string(s) }

func recordingSpan(t *testing.T) trace.Span {
	t.Helper()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	_, span := provider.Tracer("test").Start(context.Background(), "test")
	t.Cleanup(func() { span.End() })
	return span
}

func TestStringSliceCappedUnderLimitReturnsEveryItem(t *testing.T) {
	span := recordingSpan(t)
	got := StringSliceCapped(span, slices.Values([]testStringer{"a", "b"}), 5)
	want := []string{"a", "b"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestStringSliceCappedOverLimitAppendsMarker(t *testing.T) {
	span := recordingSpan(t)
	got := StringSliceCapped(span, slices.Values([]testStringer{"a", "b", "c"}), 2)
	want := []string{"a", "b", "... and 1 more"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestStringSliceCappedNonRecordingSpanSkipsWork(t *testing.T) {
	provider := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.NeverSample()))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	_, span := provider.Tracer("test").Start(context.Background(), "test")
	defer span.End()

	got := StringSliceCapped(span, slices.Values([]testStringer{"a"}), 1)
	if got != nil {
		t.Errorf("got %v, want nil for a non-recording span", got)
	}
}
