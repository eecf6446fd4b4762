package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/487058267/agent-cross-discipline/internal/config"
)

func TestInitTracerDisabled(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown := InitTracer(config.TracingConfig{Enabled: false, ServiceName: "x"}, "test")

	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, before, otel.GetTracerProvider())
}

func TestNewResource(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		want        string
	}{
		{"configured name", "lesson-agent-staging", "lesson-agent-staging"},
		{"default name", "", "cross-discipline-lesson-agent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newResource(tt.serviceName, "production")

			name, ok := res.Set().Value(semconv.ServiceNameKey)
			assert.True(t, ok)
			assert.Equal(t, tt.want, name.AsString())

			env, ok := res.Set().Value(semconv.DeploymentEnvironmentKey)
			assert.True(t, ok)
			assert.Equal(t, "production", env.AsString())
		})
	}
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, "ParentBased{root:AlwaysOnSampler"},
		{2, "ParentBased{root:AlwaysOnSampler"},
		{0, "ParentBased{root:AlwaysOffSampler"},
		{-1, "ParentBased{root:AlwaysOffSampler"},
		{0.25, "ParentBased{root:TraceIDRatioBased{0.25}"},
	}

	for _, tt := range tests {
		assert.Contains(t, newSampler(tt.ratio).Description(), tt.want)
	}
}
