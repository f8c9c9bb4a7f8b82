package mocks

import (
	"context"
	"labplanner/infras/otel"
)

// otelImpl hands out no-op scopes so services can be tested without a tracer provider.
type otelImpl struct{}

func (o *otelImpl) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}

func NewOtel() otel.Otel {
	return &otelImpl{}
}
