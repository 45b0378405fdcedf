package limiter

import (
	"context"

	"github.com/prossm/basic-web-tts/pkg/synthesizer"

	"golang.org/x/time/rate"
)

type Synthesizer interface {
	Limiter
	synthesizer.Synthesizer
}

type Limiter interface {
	limiterSetup()
}

type limitedSynthesizer struct {
	limiter  *rate.Limiter
	provider synthesizer.Synthesizer
}

func NewSynthesizer(l *rate.Limiter, p synthesizer.Synthesizer) Synthesizer {
	return &limitedSynthesizer{
		limiter:  l,
		provider: p,
	}
}

func (p *limitedSynthesizer) limiterSetup() {
}

func (p *limitedSynthesizer) Synthesize(ctx context.Context, text string, options *synthesizer.Options) (*synthesizer.Synthesis, error) {
	if p.limiter != nil {
		p.limiter.Wait(ctx)
	}

	return p.provider.Synthesize(ctx, text, options)
}
