package otel

import (
	"context"

	"github.com/prossm/basic-web-tts/pkg/synthesizer"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

type Synthesizer interface {
	Observable
	synthesizer.Synthesizer
}

type observableSynthesizer struct {
	engine string

	synthesizer synthesizer.Synthesizer
}

func NewSynthesizer(engine string, p synthesizer.Synthesizer) Synthesizer {
	return &observableSynthesizer{
		synthesizer: p,

		engine: engine,
	}
}

func (p *observableSynthesizer) otelSetup() {
}

func (p *observableSynthesizer) Synthesize(ctx context.Context, text string, options *synthesizer.Options) (*synthesizer.Synthesis, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "synthesize "+p.engine)
	defer span.End()

	if options != nil && options.Voice != "" {
		span.SetAttributes(String("tts.voice", options.Voice))
	}

	span.SetAttributes(EndUserAttrs(ctx)...)

	result, err := p.synthesizer.Synthesize(ctx, text, options)

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}

	return result, err
}
