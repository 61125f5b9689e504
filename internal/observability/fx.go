package observability

import (
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		NewTracerProvider,
		NewMeterProvider,
		NewMeter,
	),
	fx.Invoke(ensureTracerProvider),
)

func ensureTracerProvider(_ trace.TracerProvider) {}
